package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"courseplatform/internal/domain"
)

// Options генерации структуры курса
type Options struct {
	Difficulty     string
	LessonCount    int
	IncludeQuizzes bool
	IncludeVideos  bool
	TargetAudience []string
	SpecificTopics []string
}

// Provider — контракт AI-бэкенда. Любой метод может вернуть ошибку или
// кривой payload: защитное потребление лежит на вызывающей стороне.
type Provider interface {
	GenerateCourseStructure(ctx context.Context, prompt string, opts Options) (*domain.CourseStructure, error)
	GenerateLessonContent(ctx context.Context, title, contextText string) (string, error)
	GenerateQuiz(ctx context.Context, lessonContent, difficulty string) (*domain.QuizStructure, error)
}

// NewProvider выбирает вендора один раз при старте: OpenAI > Anthropic > mock.
// Никакого ветвления по вендорам дальше по коду нет.
func NewProvider(openaiKey, anthropicKey string) Provider {
	if openaiKey != "" {
		log.Println("AI provider: OpenAI")
		return NewOpenAIProvider(openaiKey)
	}
	if anthropicKey != "" {
		log.Println("AI provider: Anthropic")
		return NewAnthropicProvider(anthropicKey)
	}
	log.Println("AI provider: no API keys found, using mock responses")
	return NewMockProvider()
}

func buildCoursePrompt(opts Options) string {
	lessonCount := opts.LessonCount
	if lessonCount <= 0 {
		lessonCount = 4
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = "intermediate"
	}

	quizLine := "Include quizzes for each lesson"
	if !opts.IncludeQuizzes {
		quizLine = "Do not include quizzes"
	}

	prompt := fmt.Sprintf(`You are an expert course designer. Generate a comprehensive course structure in JSON format.

Requirements:
- Create exactly %d lessons
- Difficulty level: %s
- %s
- Each lesson should have clear learning objectives
- Content should be practical and engaging
- Include estimated duration for each lesson
- Generate appropriate tags for the course
`, lessonCount, difficulty, quizLine)

	if len(opts.TargetAudience) > 0 {
		prompt += "Target audience: " + strings.Join(opts.TargetAudience, ", ") + "\n"
	}
	if len(opts.SpecificTopics) > 0 {
		prompt += "Specific topics to cover: " + strings.Join(opts.SpecificTopics, ", ") + "\n"
	}

	prompt += `
Return only valid JSON with fields: title, description, difficulty, estimatedDurationMinutes, learningObjectives, tags, lessons (each with title, content, type, orderIndex, estimatedDurationMinutes, learningObjectives).`

	return prompt
}

const lessonSystemPrompt = `You are an expert educational content creator. Generate comprehensive, engaging lesson content that is clear, well-structured, and educational. Include examples, explanations, and practical applications.`

const quizSystemPrompt = `You are an expert quiz creator. Generate educational quizzes in JSON format based on lesson content. Create questions that test understanding and application of concepts. Return only valid JSON with fields: title, description, type, timeLimit, maxAttempts, passingScore, questions (each with question, type, options, correctAnswers, explanation, points, orderIndex).`

// Модели любят заворачивать JSON в markdown-фенсы и добавлять преамбулу.
// Вырезаем всё от первой '{' до последней '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return s[start : end+1], nil
}
