package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"courseplatform/internal/domain"
)

type OpenAIProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  "gpt-4o-mini",
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type oaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaRequest struct {
	Model       string      `json:"model"`
	Messages    []oaMessage `json:"messages"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens"`
}

type oaResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAIProvider) GenerateCourseStructure(ctx context.Context, prompt string, opts Options) (*domain.CourseStructure, error) {
	content, err := p.complete(ctx, buildCoursePrompt(opts), prompt, 0.7, 3000)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var structure domain.CourseStructure
	if err := json.Unmarshal([]byte(raw), &structure); err != nil {
		return nil, fmt.Errorf("parse course structure: %w", err)
	}
	return &structure, nil
}

func (p *OpenAIProvider) GenerateLessonContent(ctx context.Context, title, contextText string) (string, error) {
	userPrompt := "Generate lesson content for: " + title
	if contextText != "" {
		userPrompt += "\nContext: " + contextText
	}
	return p.complete(ctx, lessonSystemPrompt, userPrompt, 0.7, 2000)
}

func (p *OpenAIProvider) GenerateQuiz(ctx context.Context, lessonContent, difficulty string) (*domain.QuizStructure, error) {
	userPrompt := fmt.Sprintf("Generate a quiz for this lesson content (difficulty: %s):\n%s", difficulty, lessonContent)

	content, err := p.complete(ctx, quizSystemPrompt, userPrompt, 0.5, 1500)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var quiz domain.QuizStructure
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	return &quiz, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	reqBody := oaRequest{
		Model: p.model,
		Messages: []oaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.openai.com/v1/chat/completions",
		bytes.NewBuffer(bodyBytes),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("openai api returned status %d: %s", resp.StatusCode, respBytes)
	}

	var oaResp oaResponse
	if err := json.Unmarshal(respBytes, &oaResp); err != nil {
		return "", err
	}
	if oaResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", oaResp.Error.Message)
	}
	if len(oaResp.Choices) == 0 || oaResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content generated from openai")
	}

	return oaResp.Choices[0].Message.Content, nil
}
