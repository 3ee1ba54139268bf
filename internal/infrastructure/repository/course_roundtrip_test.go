package repository

import (
	"context"
	"errors"
	"testing"

	"courseplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *CourseRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Course{}, &domain.Lesson{}, &domain.Quiz{},
		&domain.QuizQuestion{}, &domain.Resource{}, &domain.Enrollment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Без redis: репозиторий работает напрямую с БД
	return NewCourseRepository(db, nil)
}

func TestCourseAggregateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	course := &domain.Course{
		ID:         uuid.New(),
		Title:      "Go Fundamentals",
		Prompt:     "teach me go",
		Status:     domain.StatusGenerating,
		Difficulty: domain.DifficultyBeginner,
		Tags:       domain.StringList{"go", "basics"},
		CreatedBy:  uuid.New(),
	}
	if err := repo.Create(ctx, course); err != nil {
		t.Fatalf("Create course: %v", err)
	}

	// Уроки вставляем в перепутанном порядке: чтение обязано вернуть их по order_index
	for _, idx := range []int{2, 0, 1} {
		lesson := &domain.Lesson{
			ID:         uuid.New(),
			CourseID:   course.ID,
			Title:      "Lesson",
			Content:    "content",
			Type:       domain.LessonText,
			OrderIndex: idx,
		}
		if err := repo.CreateLesson(ctx, lesson); err != nil {
			t.Fatalf("CreateLesson: %v", err)
		}

		if idx == 0 {
			quiz := &domain.Quiz{
				ID:           uuid.New(),
				LessonID:     lesson.ID,
				Title:        "Check",
				Type:         domain.QuizKnowledgeCheck,
				MaxAttempts:  3,
				PassingScore: 70,
				Questions: []domain.QuizQuestion{
					{ID: uuid.New(), Question: "Q2", Type: domain.QuestionTrueFalse, CorrectAnswers: domain.StringList{"true"}, Points: 1, OrderIndex: 1},
					{ID: uuid.New(), Question: "Q1", Type: domain.QuestionMultipleChoice, Options: domain.StringList{"a", "b"}, CorrectAnswers: domain.StringList{"a"}, Points: 2, OrderIndex: 0},
				},
			}
			if err := repo.CreateQuiz(ctx, quiz); err != nil {
				t.Fatalf("CreateQuiz: %v", err)
			}

			resources := []domain.Resource{
				{ID: uuid.New(), LessonID: lesson.ID, Title: "Video B", RelevanceScore: 0.8, OrderIndex: 1},
				{ID: uuid.New(), LessonID: lesson.ID, Title: "Video A", RelevanceScore: 0.9, OrderIndex: 0},
			}
			if err := repo.CreateResources(ctx, resources); err != nil {
				t.Fatalf("CreateResources: %v", err)
			}
		}
	}

	if err := repo.UpdateStatus(ctx, course.ID, domain.StatusPublished); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := repo.GetWithContent(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetWithContent: %v", err)
	}
	if got.Status != domain.StatusPublished {
		t.Errorf("status = %s", got.Status)
	}
	if len(got.Lessons) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(got.Lessons))
	}
	for i, lesson := range got.Lessons {
		if lesson.OrderIndex != i {
			t.Errorf("lesson at position %d has orderIndex %d", i, lesson.OrderIndex)
		}
	}

	first := got.Lessons[0]
	if len(first.Quizzes) != 1 {
		t.Fatalf("expected 1 quiz on first lesson, got %d", len(first.Quizzes))
	}
	questions := first.Quizzes[0].Questions
	if len(questions) != 2 || questions[0].Question != "Q1" || questions[1].Question != "Q2" {
		t.Fatalf("questions not ordered by order_index: %v", questions)
	}
	if len(first.Resources) != 2 || first.Resources[0].Title != "Video A" {
		t.Fatalf("resources not ordered by order_index: %v", first.Resources)
	}

	tags := got.Tags
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "basics" {
		t.Fatalf("tags round-trip failed: %v", tags)
	}
}

func TestGetWithContentNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetWithContent(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollment(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	course := &domain.Course{
		ID:        uuid.New(),
		Title:     "Course",
		Status:    domain.StatusPublished,
		CreatedBy: uuid.New(),
	}
	if err := repo.Create(ctx, course); err != nil {
		t.Fatalf("Create: %v", err)
	}

	enrolled, err := repo.IsEnrolled(ctx, userID, course.ID)
	if err != nil {
		t.Fatalf("IsEnrolled: %v", err)
	}
	if enrolled {
		t.Fatal("user enrolled before Enroll")
	}

	if err := repo.Enroll(ctx, userID, course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	enrolled, err = repo.IsEnrolled(ctx, userID, course.ID)
	if err != nil {
		t.Fatalf("IsEnrolled: %v", err)
	}
	if !enrolled {
		t.Fatal("user not enrolled after Enroll")
	}
}

func TestListByCreator(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	creator := uuid.New()
	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, &domain.Course{
			ID:        uuid.New(),
			Title:     "Mine",
			Status:    domain.StatusGenerating,
			CreatedBy: creator,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, &domain.Course{
		ID:        uuid.New(),
		Title:     "Someone else's",
		Status:    domain.StatusPublished,
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByCreator(ctx, creator)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(got))
	}
}
