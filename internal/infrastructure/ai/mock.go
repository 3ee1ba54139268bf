package ai

import (
	"context"
	"fmt"
	"strings"

	"courseplatform/internal/domain"
)

// MockProvider — детерминированная офлайн-заглушка. Используется когда ключей
// нет, и как fallback стадии структуры: генерация курса не должна падать
// только потому, что AI-бэкенд лежит.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) GenerateCourseStructure(_ context.Context, prompt string, opts Options) (*domain.CourseStructure, error) {
	lessonCount := opts.LessonCount
	if lessonCount <= 0 {
		lessonCount = 4
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = "intermediate"
	}

	lessons := make([]domain.LessonStructure, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons = append(lessons, domain.LessonStructure{
			Title:                    fmt.Sprintf("Lesson %d: %s Fundamentals %d", i+1, prompt, i+1),
			Content:                  fmt.Sprintf("This lesson covers the fundamental concepts of %s. We'll explore key principles and provide practical examples.", prompt),
			Type:                     "text",
			OrderIndex:               i,
			EstimatedDurationMinutes: 45,
			LearningObjectives: []string{
				fmt.Sprintf("Understanding %s concept %d", prompt, i+1),
				"Practical application examples",
			},
		})
	}

	return &domain.CourseStructure{
		Title:                    "Learn " + prompt,
		Description:              fmt.Sprintf("A comprehensive course covering %s concepts and practical applications.", prompt),
		Difficulty:               difficulty,
		EstimatedDurationMinutes: lessonCount * 45,
		LearningObjectives: []string{
			fmt.Sprintf("Understanding core concepts of %s", prompt),
			fmt.Sprintf("Practical application of %s", prompt),
			"Best practices and common pitfalls",
			"Real-world examples and use cases",
		},
		Tags:    []string{slugify(prompt), "programming", "tutorial"},
		Lessons: lessons,
	}, nil
}

func (p *MockProvider) GenerateLessonContent(_ context.Context, title, _ string) (string, error) {
	return fmt.Sprintf(`# %s

## Introduction
This lesson covers the key concepts of %s. We'll explore the fundamental principles and provide practical examples.

## Key Concepts
- Concept 1: Basic understanding
- Concept 2: Practical application
- Concept 3: Advanced techniques

## Examples
Here are some practical examples demonstrating %s:

1. Example 1: Basic implementation
2. Example 2: Real-world application
3. Example 3: Advanced usage

## Summary
In this lesson, we covered the essential aspects of %s and how to apply them in practice.`, title, title, title, title), nil
}

func (p *MockProvider) GenerateQuiz(_ context.Context, _ string, difficulty string) (*domain.QuizStructure, error) {
	return &domain.QuizStructure{
		Title:        difficulty + " Level Quiz",
		Description:  "Test your understanding of the lesson concepts",
		Type:         "knowledge_check",
		MaxAttempts:  3,
		PassingScore: 70,
		Questions: []domain.QuestionStructure{
			{
				Question:       "What is the main concept covered in this lesson?",
				Type:           "multiple_choice",
				Options:        []string{"Option A", "Option B", "Option C", "Option D"},
				CorrectAnswers: []string{"Option A"},
				Explanation:    "This is the correct answer because it reflects the core idea of the lesson.",
				Points:         1,
				OrderIndex:     0,
			},
			{
				Question:       "True or False: This concept is important for understanding the topic.",
				Type:           "true_false",
				CorrectAnswers: []string{"true"},
				Explanation:    "This statement is true because the concept underpins the rest of the material.",
				Points:         1,
				OrderIndex:     1,
			},
		},
	}, nil
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
