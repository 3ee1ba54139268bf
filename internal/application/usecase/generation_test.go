package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"courseplatform/internal/domain"
	"courseplatform/internal/infrastructure/ai"
	"courseplatform/internal/infrastructure/youtube"

	"github.com/google/uuid"
)

type fakeStore struct {
	course    *domain.Course
	lessons   []domain.Lesson
	quizzes   []*domain.Quiz
	resources map[uuid.UUID][]domain.Resource
	statuses  []domain.CourseStatus

	createErr     error
	failLessonNum int // 1-based, 0 = никогда
}

func newFakeStore() *fakeStore {
	return &fakeStore{resources: make(map[uuid.UUID][]domain.Resource)}
}

func (s *fakeStore) Create(_ context.Context, c *domain.Course) error {
	if s.createErr != nil {
		return s.createErr
	}
	c.ID = uuid.New()
	s.course = c
	return nil
}

func (s *fakeStore) CreateLesson(_ context.Context, lesson *domain.Lesson) error {
	if s.failLessonNum != 0 && len(s.lessons)+1 == s.failLessonNum {
		return errors.New("insert failed")
	}
	lesson.ID = uuid.New()
	s.lessons = append(s.lessons, *lesson)
	return nil
}

func (s *fakeStore) CreateQuiz(_ context.Context, quiz *domain.Quiz) error {
	s.quizzes = append(s.quizzes, quiz)
	return nil
}

func (s *fakeStore) CreateResources(_ context.Context, resources []domain.Resource) error {
	for _, r := range resources {
		s.resources[r.LessonID] = append(s.resources[r.LessonID], r)
	}
	return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, _ uuid.UUID, status domain.CourseStatus) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *fakeStore) GetWithContent(_ context.Context, _ uuid.UUID) (*domain.Course, error) {
	out := *s.course
	out.Lessons = s.lessons
	return &out, nil
}

type fakeProvider struct {
	structure    *domain.CourseStructure
	structureErr error
	contentErr   error
	quiz         *domain.QuizStructure
	quizErr      error
}

func (p *fakeProvider) GenerateCourseStructure(_ context.Context, _ string, _ ai.Options) (*domain.CourseStructure, error) {
	if p.structureErr != nil {
		return nil, p.structureErr
	}
	return p.structure, nil
}

func (p *fakeProvider) GenerateLessonContent(_ context.Context, title, _ string) (string, error) {
	if p.contentErr != nil {
		return "", p.contentErr
	}
	return "generated content for " + title, nil
}

func (p *fakeProvider) GenerateQuiz(_ context.Context, _, _ string) (*domain.QuizStructure, error) {
	if p.quizErr != nil {
		return nil, p.quizErr
	}
	return p.quiz, nil
}

type fakeVideos struct {
	candidates []domain.ResourceCandidate
	failCalls  map[int]bool // номер вызова (с 1), на котором поиск падает
	calls      int
}

func (v *fakeVideos) Search(_ context.Context, _ string, _ youtube.SearchOptions) ([]domain.ResourceCandidate, error) {
	v.calls++
	if v.failCalls[v.calls] {
		return nil, errors.New("search unavailable")
	}
	return v.candidates, nil
}

type progressLog struct {
	events []domain.GenerationProgress
}

func (pl *progressLog) fn(p domain.GenerationProgress) {
	pl.events = append(pl.events, p)
}

func (pl *progressLog) last() domain.GenerationProgress {
	return pl.events[len(pl.events)-1]
}

func simpleStructure(lessonCount int) *domain.CourseStructure {
	lessons := make([]domain.LessonStructure, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons = append(lessons, domain.LessonStructure{
			Title:   "Topic " + string(rune('A'+i)),
			Content: "draft",
			Type:    "text",
		})
	}
	return &domain.CourseStructure{
		Title:       "Test Course",
		Description: "desc",
		Difficulty:  "beginner",
		Lessons:     lessons,
	}
}

func TestGenerateHonorsRequestedLessonCount(t *testing.T) {
	store := newFakeStore()
	uc := NewGenerationUseCase(store, ai.NewMockProvider(), &fakeVideos{})

	req := domain.GenerationRequest{Prompt: "Go concurrency", LessonCount: 6}
	course, err := uc.Generate(context.Background(), req, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(course.Lessons) != 6 {
		t.Fatalf("expected 6 lessons, got %d", len(course.Lessons))
	}
	for i, lesson := range course.Lessons {
		if lesson.OrderIndex != i {
			t.Errorf("lesson %d has orderIndex %d", i, lesson.OrderIndex)
		}
	}
}

func TestGenerateProgressMonotonicAndCompletes(t *testing.T) {
	store := newFakeStore()
	uc := NewGenerationUseCase(store, &fakeProvider{structure: simpleStructure(3)}, &fakeVideos{})

	var pl progressLog
	req := domain.GenerationRequest{Prompt: "databases", IncludeQuizzes: true, IncludeVideos: true}
	if _, err := uc.Generate(context.Background(), req, uuid.New(), pl.fn); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(pl.events) == 0 {
		t.Fatal("no progress events reported")
	}
	prev := -1
	for _, e := range pl.events {
		if e.Progress < prev {
			t.Fatalf("progress went backwards: %d after %d (stage %s)", e.Progress, prev, e.Stage)
		}
		if e.Progress < 0 || e.Progress > 100 {
			t.Fatalf("progress out of bounds: %d", e.Progress)
		}
		prev = e.Progress
	}
	if last := pl.last(); last.Progress != 100 || last.Stage != domain.StageFinalizing {
		t.Fatalf("expected final event 100/%s, got %d/%s", domain.StageFinalizing, last.Progress, last.Stage)
	}

	stages := make(map[string]bool)
	for _, e := range pl.events {
		stages[e.Stage] = true
	}
	for _, want := range []string{
		domain.StageAnalyzing, domain.StageGeneratingStructure, domain.StageCreatingContent,
		domain.StageFindingResources, domain.StageGeneratingQuizzes, domain.StageFinalizing,
	} {
		if !stages[want] {
			t.Errorf("stage %s never reported", want)
		}
	}
}

func TestGenerateFiltersResourcesByRelevance(t *testing.T) {
	store := newFakeStore()
	videos := &fakeVideos{candidates: []domain.ResourceCandidate{
		{ID: "a", Title: "A", RelevanceScore: 0.9},
		{ID: "b", Title: "B", RelevanceScore: 0.75},
		{ID: "c", Title: "C", RelevanceScore: 0.72},
		{ID: "d", Title: "D", RelevanceScore: 0.6},
	}}
	uc := NewGenerationUseCase(store, &fakeProvider{structure: simpleStructure(1)}, videos)

	req := domain.GenerationRequest{Prompt: "x", IncludeVideos: true}
	if _, err := uc.Generate(context.Background(), req, uuid.New(), nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	got := store.resources[store.lessons[0].ID]
	if len(got) != 2 {
		t.Fatalf("expected 2 resources after filtering, got %d", len(got))
	}
	if got[0].Title != "A" || got[1].Title != "B" {
		t.Fatalf("expected top-ranked candidates A,B, got %s,%s", got[0].Title, got[1].Title)
	}
	for i, r := range got {
		if r.OrderIndex != i {
			t.Errorf("resource %d has orderIndex %d", i, r.OrderIndex)
		}
	}
}

func TestGenerateFallsBackWhenStructureFails(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{structureErr: errors.New("model overloaded")}
	uc := NewGenerationUseCase(store, provider, &fakeVideos{})

	course, err := uc.Generate(context.Background(), domain.GenerationRequest{Prompt: "Rust"}, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Generate should survive structure failure: %v", err)
	}
	if !strings.Contains(course.Title, "Rust") {
		t.Fatalf("fallback course title should mention prompt, got %q", course.Title)
	}
	if len(course.Lessons) == 0 {
		t.Fatal("fallback course has no lessons")
	}
}

func TestGenerateSurvivesPartialSearchFailure(t *testing.T) {
	store := newFakeStore()
	videos := &fakeVideos{
		candidates: []domain.ResourceCandidate{{ID: "a", Title: "A", RelevanceScore: 0.9}},
		failCalls:  map[int]bool{2: true},
	}
	uc := NewGenerationUseCase(store, &fakeProvider{structure: simpleStructure(3)}, videos)

	var pl progressLog
	req := domain.GenerationRequest{Prompt: "x", IncludeVideos: true}
	if _, err := uc.Generate(context.Background(), req, uuid.New(), pl.fn); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if pl.last().Progress != 100 {
		t.Fatalf("run did not complete, last progress %d", pl.last().Progress)
	}
	if len(store.resources[store.lessons[0].ID]) != 1 {
		t.Error("lesson 1 should have resources")
	}
	if len(store.resources[store.lessons[1].ID]) != 0 {
		t.Error("lesson 2 search failed, expected no resources")
	}
	if len(store.resources[store.lessons[2].ID]) != 1 {
		t.Error("lesson 3 should have resources")
	}
}

func TestGenerateFailsWhenCourseShellNotPersisted(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("db down")
	uc := NewGenerationUseCase(store, &fakeProvider{structure: simpleStructure(2)}, &fakeVideos{})

	var pl progressLog
	_, err := uc.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"}, uuid.New(), pl.fn)
	if err == nil {
		t.Fatal("expected error when course shell cannot be persisted")
	}
	for _, e := range pl.events {
		if e.Progress == 100 {
			t.Fatal("run reported completion despite persistence failure")
		}
	}
}

func TestGenerateMarksCourseFailedOnLessonInsertError(t *testing.T) {
	store := newFakeStore()
	store.failLessonNum = 2
	uc := NewGenerationUseCase(store, &fakeProvider{structure: simpleStructure(3)}, &fakeVideos{})

	_, err := uc.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"}, uuid.New(), nil)
	if err == nil {
		t.Fatal("expected error on lesson insert failure")
	}

	var sawFailed bool
	for _, s := range store.statuses {
		if s == domain.StatusFailed {
			sawFailed = true
		}
		if s == domain.StatusPublished {
			t.Fatal("course published despite lesson failure")
		}
	}
	if !sawFailed {
		t.Fatal("course status was not set to failed")
	}
}

func TestGenerateKeepsDraftContentWhenContentFails(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{
		structure:  simpleStructure(2),
		contentErr: errors.New("timeout"),
	}
	uc := NewGenerationUseCase(store, provider, &fakeVideos{})

	if _, err := uc.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"}, uuid.New(), nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, lesson := range store.lessons {
		if lesson.Content != "draft" {
			t.Fatalf("expected draft content preserved, got %q", lesson.Content)
		}
	}
}

func TestGenerateSkipsUnusableQuizzes(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{
		structure: simpleStructure(2),
		quiz:      &domain.QuizStructure{Title: "Bad", PassingScore: 150},
	}
	uc := NewGenerationUseCase(store, provider, &fakeVideos{})

	req := domain.GenerationRequest{Prompt: "x", IncludeQuizzes: true}
	if _, err := uc.Generate(context.Background(), req, uuid.New(), nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(store.quizzes) != 0 {
		t.Fatalf("quiz with passingScore 150 should be rejected, got %d quizzes", len(store.quizzes))
	}
}

func TestBuildQuizNormalization(t *testing.T) {
	lessonID := uuid.New()

	if _, ok := buildQuiz(lessonID, nil); ok {
		t.Error("nil quiz accepted")
	}
	if _, ok := buildQuiz(lessonID, &domain.QuizStructure{PassingScore: -1}); ok {
		t.Error("negative passingScore accepted")
	}

	quiz, ok := buildQuiz(lessonID, &domain.QuizStructure{
		Title:        "Quiz",
		PassingScore: 70,
		MaxAttempts:  0,
		TimeLimit:    -5,
		Questions: []domain.QuestionStructure{
			{Question: "", CorrectAnswers: []string{"a"}},
			{Question: "no answers"},
			{Question: "valid 1", CorrectAnswers: []string{"a"}, Points: 0, OrderIndex: 7},
			{Question: "valid 2", CorrectAnswers: []string{"b"}, Points: 3, OrderIndex: 2},
		},
	})
	if !ok {
		t.Fatal("valid quiz rejected")
	}
	if quiz.MaxAttempts != 1 {
		t.Errorf("maxAttempts not normalized: %d", quiz.MaxAttempts)
	}
	if quiz.TimeLimit != 0 {
		t.Errorf("negative timeLimit not normalized: %d", quiz.TimeLimit)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 surviving questions, got %d", len(quiz.Questions))
	}
	if quiz.Questions[0].Points != 1 {
		t.Errorf("points not normalized: %d", quiz.Questions[0].Points)
	}
	for i, q := range quiz.Questions {
		if q.OrderIndex != i {
			t.Errorf("question %d orderIndex not recomputed: %d", i, q.OrderIndex)
		}
	}

	if _, ok := buildQuiz(lessonID, &domain.QuizStructure{
		PassingScore: 50,
		Questions:    []domain.QuestionStructure{{Question: "no answers"}},
	}); ok {
		t.Error("quiz with zero surviving questions accepted")
	}
}
