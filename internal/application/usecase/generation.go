package usecase

import (
	"context"
	"fmt"
	"log"

	"courseplatform/internal/domain"
	"courseplatform/internal/infrastructure/ai"
	"courseplatform/internal/infrastructure/youtube"

	"github.com/google/uuid"
)

// CourseStore — то, что оркестратору нужно от хранилища
// (узкий интерфейс на стороне потребителя, в проде это *repository.CourseRepository)
type CourseStore interface {
	Create(ctx context.Context, c *domain.Course) error
	CreateLesson(ctx context.Context, lesson *domain.Lesson) error
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error
	CreateResources(ctx context.Context, resources []domain.Resource) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CourseStatus) error
	GetWithContent(ctx context.Context, id uuid.UUID) (*domain.Course, error)
}

type VideoSearcher interface {
	Search(ctx context.Context, query string, opts youtube.SearchOptions) ([]domain.ResourceCandidate, error)
}

type ProgressFunc func(domain.GenerationProgress)

// GenerationUseCase превращает один GenerationRequest в сохранённый курс.
// Стадии идут строго последовательно, уроки обрабатываются по одному
// в порядке orderIndex: прогресс растёт монотонно и детерминированно.
type GenerationUseCase struct {
	store    CourseStore
	provider ai.Provider
	videos   VideoSearcher

	// Детерминированный fallback стадии структуры: AI лёг — курс всё равно будет
	fallback *ai.MockProvider
}

func NewGenerationUseCase(store CourseStore, provider ai.Provider, videos VideoSearcher) *GenerationUseCase {
	return &GenerationUseCase{
		store:    store,
		provider: provider,
		videos:   videos,
		fallback: ai.NewMockProvider(),
	}
}

func (uc *GenerationUseCase) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	requesterID uuid.UUID,
	progressFn ProgressFunc,
) (*domain.Course, error) {
	log.Printf("Starting course generation for prompt: %s", req.Prompt)

	// Прогресс наружу отдаём только неубывающим и в границах [0,100]
	lastProgress := 0
	report := func(stage string, progress int, message, currentLesson string) {
		if progress < lastProgress {
			progress = lastProgress
		}
		if progress > 100 {
			progress = 100
		}
		lastProgress = progress
		if progressFn != nil {
			progressFn(domain.GenerationProgress{
				Stage:         stage,
				Progress:      progress,
				Message:       message,
				CurrentLesson: currentLesson,
			})
		}
	}

	// === Стадия 1: структура курса ===
	report(domain.StageAnalyzing, 10, "Analyzing your prompt and generating course structure...", "")

	structure := uc.generateStructure(ctx, req)

	report(domain.StageGeneratingStructure, 25, "Course structure generated successfully!", "")

	// === Стадия 2: оболочка курса ===
	course := &domain.Course{
		Title:                    structure.Title,
		Description:              structure.Description,
		Prompt:                   req.Prompt,
		Status:                   domain.StatusGenerating,
		Difficulty:               domain.ParseDifficulty(structure.Difficulty),
		EstimatedDurationMinutes: structure.EstimatedDurationMinutes,
		Tags:                     structure.Tags,
		LearningObjectives:       structure.LearningObjectives,
		CreatedBy:                requesterID,
	}
	if err := uc.store.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	report(domain.StageCreatingContent, 40, "Creating course content and lessons...", "")

	// === Стадия 3: контент уроков (по одному, в порядке структуры) ===
	lessons, err := uc.createLessons(ctx, course, structure, report)
	if err != nil {
		_ = uc.store.UpdateStatus(ctx, course.ID, domain.StatusFailed)
		return nil, err
	}

	report(domain.StageFindingResources, 70, "Finding relevant videos and resources...", "")

	// === Стадия 4: видео-ресурсы (падение одного урока не роняет остальные) ===
	if req.IncludeVideos {
		uc.addVideoResources(ctx, lessons, structure)
	}

	report(domain.StageGeneratingQuizzes, 85, "Generating quizzes and assessments...", "")

	// === Стадия 5: квизы (та же изоляция) ===
	if req.IncludeQuizzes {
		uc.generateQuizzes(ctx, lessons, structure)
	}

	// === Финал: статус + полный агрегат ===
	if err := uc.store.UpdateStatus(ctx, course.ID, domain.StatusPublished); err != nil {
		return nil, fmt.Errorf("failed to finalize course: %w", err)
	}

	final, err := uc.store.GetWithContent(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve generated course: %w", err)
	}

	// 100%% отдаём только после того, как всё легло в базу
	report(domain.StageFinalizing, 100, "Course generation completed successfully!", "")

	return final, nil
}

// generateStructure никогда не возвращает ошибку: если провайдер лёг или
// вернул мусор, берём детерминированную mock-структуру
func (uc *GenerationUseCase) generateStructure(ctx context.Context, req domain.GenerationRequest) *domain.CourseStructure {
	opts := ai.Options{
		Difficulty:     req.Difficulty,
		LessonCount:    req.LessonCount,
		IncludeQuizzes: req.IncludeQuizzes,
		IncludeVideos:  req.IncludeVideos,
		TargetAudience: req.TargetAudience,
		SpecificTopics: req.SpecificTopics,
	}

	structure, err := uc.provider.GenerateCourseStructure(ctx, req.Prompt, opts)
	if err != nil || structure == nil || len(structure.Lessons) == 0 {
		if err != nil {
			log.Printf("AI structure generation failed, falling back to mock: %v", err)
		} else {
			log.Printf("AI returned structure without lessons, falling back to mock")
		}
		structure, _ = uc.fallback.GenerateCourseStructure(ctx, req.Prompt, opts)
	}

	// Инвариант: orderIndex совпадает с позицией в списке (0..n-1)
	for i := range structure.Lessons {
		structure.Lessons[i].OrderIndex = i
	}

	return structure
}

func (uc *GenerationUseCase) createLessons(
	ctx context.Context,
	course *domain.Course,
	structure *domain.CourseStructure,
	report func(stage string, progress int, message, currentLesson string),
) ([]domain.Lesson, error) {
	lessons := make([]domain.Lesson, 0, len(structure.Lessons))

	for i, ls := range structure.Lessons {
		// 40% -> 65% по мере прохода уроков
		progress := 40 + i*25/len(structure.Lessons)
		report(domain.StageCreatingContent, progress,
			fmt.Sprintf("Creating lesson %d: %s", i+1, ls.Title), ls.Title)

		contextText := fmt.Sprintf("Course: %s\nLesson objectives: %s\nExisting content: %s",
			structure.Title, joinComma(ls.LearningObjectives), ls.Content)

		content, err := uc.provider.GenerateLessonContent(ctx, ls.Title, contextText)
		if err != nil || content == "" {
			if err != nil {
				log.Printf("Lesson content generation failed for %q, keeping draft content: %v", ls.Title, err)
			}
			content = ls.Content
		}

		lesson := domain.Lesson{
			CourseID:                 course.ID,
			Title:                    ls.Title,
			Content:                  content,
			Type:                     domain.ParseLessonType(ls.Type),
			OrderIndex:               ls.OrderIndex,
			EstimatedDurationMinutes: ls.EstimatedDurationMinutes,
			LearningObjectives:       ls.LearningObjectives,
		}

		if err := uc.store.CreateLesson(ctx, &lesson); err != nil {
			return nil, fmt.Errorf("failed to create lesson %d: %w", i+1, err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, nil
}

// Из кандидатов берём максимум 2 с relevanceScore > 0.7,
// в том порядке, в котором их отранжировал поиск
func (uc *GenerationUseCase) addVideoResources(ctx context.Context, lessons []domain.Lesson, structure *domain.CourseStructure) {
	for i := range lessons {
		lesson := &lessons[i]

		query := structure.Lessons[i].Title + " tutorial programming"
		candidates, err := uc.videos.Search(ctx, query, youtube.SearchOptions{
			MaxResults:      3,
			EducationalOnly: true,
			Duration:        "medium",
			Order:           "relevance",
		})
		if err != nil {
			log.Printf("Failed to find video resources for lesson %q: %v", lesson.Title, err)
			continue
		}

		var resources []domain.Resource
		for _, candidate := range candidates {
			if len(resources) >= 2 {
				break
			}
			if candidate.RelevanceScore <= 0.7 {
				continue
			}

			resources = append(resources, domain.Resource{
				LessonID:       lesson.ID,
				Title:          candidate.Title,
				Description:    truncate(candidate.Description, 500),
				URL:            candidate.URL,
				ThumbnailURL:   candidate.ThumbnailURL,
				Duration:       candidate.Duration,
				Author:         candidate.Author,
				Tags:           candidate.Tags,
				RelevanceScore: candidate.RelevanceScore,
				IsEducational:  candidate.IsEducational,
				OrderIndex:     len(resources),
			})
		}

		if err := uc.store.CreateResources(ctx, resources); err != nil {
			log.Printf("Failed to save video resources for lesson %q: %v", lesson.Title, err)
		}
	}
}

func (uc *GenerationUseCase) generateQuizzes(ctx context.Context, lessons []domain.Lesson, structure *domain.CourseStructure) {
	for i := range lessons {
		lesson := &lessons[i]

		qs, err := uc.provider.GenerateQuiz(ctx, lesson.Content, structure.Difficulty)
		if err != nil {
			log.Printf("Failed to generate quiz for lesson %q: %v", lesson.Title, err)
			continue
		}

		quiz, ok := buildQuiz(lesson.ID, qs)
		if !ok {
			log.Printf("AI returned unusable quiz for lesson %q, skipping", lesson.Title)
			continue
		}

		if err := uc.store.CreateQuiz(ctx, quiz); err != nil {
			log.Printf("Failed to save quiz for lesson %q: %v", lesson.Title, err)
		}
	}
}

// buildQuiz валидирует и нормализует сырой квиз от провайдера.
// Вопросы без правильных ответов выбрасываются; квиз без вопросов
// или с passingScore вне [0,100] отбраковывается целиком.
func buildQuiz(lessonID uuid.UUID, qs *domain.QuizStructure) (*domain.Quiz, bool) {
	if qs == nil || qs.PassingScore < 0 || qs.PassingScore > 100 {
		return nil, false
	}

	maxAttempts := qs.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	timeLimit := qs.TimeLimit
	if timeLimit < 0 {
		timeLimit = 0
	}

	var questions []domain.QuizQuestion
	for _, q := range qs.Questions {
		if q.Question == "" || len(q.CorrectAnswers) == 0 {
			continue
		}
		points := q.Points
		if points < 1 {
			points = 1
		}
		questions = append(questions, domain.QuizQuestion{
			Question:       q.Question,
			Type:           domain.ParseQuestionType(q.Type),
			Options:        q.Options,
			CorrectAnswers: q.CorrectAnswers,
			Explanation:    q.Explanation,
			Points:         points,
			OrderIndex:     len(questions),
		})
	}
	if len(questions) == 0 {
		return nil, false
	}

	return &domain.Quiz{
		LessonID:     lessonID,
		Title:        qs.Title,
		Description:  qs.Description,
		Type:         domain.ParseQuizType(qs.Type),
		TimeLimit:    timeLimit,
		MaxAttempts:  maxAttempts,
		PassingScore: qs.PassingScore,
		Questions:    questions,
	}, true
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
