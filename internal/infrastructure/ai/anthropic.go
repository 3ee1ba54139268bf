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

type AnthropicProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: apiKey,
		model:  "claude-3-sonnet-20240229",
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type antMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type antRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []antMessage `json:"messages"`
}

type antResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AnthropicProvider) GenerateCourseStructure(ctx context.Context, prompt string, opts Options) (*domain.CourseStructure, error) {
	content, err := p.complete(ctx, buildCoursePrompt(opts)+"\n\n"+prompt, 3000)
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

func (p *AnthropicProvider) GenerateLessonContent(ctx context.Context, title, contextText string) (string, error) {
	userPrompt := lessonSystemPrompt + "\n\nGenerate lesson content for: " + title
	if contextText != "" {
		userPrompt += "\nContext: " + contextText
	}
	return p.complete(ctx, userPrompt, 2000)
}

func (p *AnthropicProvider) GenerateQuiz(ctx context.Context, lessonContent, difficulty string) (*domain.QuizStructure, error) {
	userPrompt := fmt.Sprintf("%s\n\nGenerate a quiz for this lesson content (difficulty: %s):\n%s",
		quizSystemPrompt, difficulty, lessonContent)

	content, err := p.complete(ctx, userPrompt, 1500)
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

func (p *AnthropicProvider) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := antRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages:  []antMessage{{Role: "user", Content: prompt}},
	}

	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.anthropic.com/v1/messages",
		bytes.NewBuffer(bodyBytes),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
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
		return "", fmt.Errorf("anthropic api returned status %d: %s", resp.StatusCode, respBytes)
	}

	var antResp antResponse
	if err := json.Unmarshal(respBytes, &antResp); err != nil {
		return "", err
	}
	if antResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", antResp.Error.Message)
	}
	if len(antResp.Content) == 0 || antResp.Content[0].Type != "text" {
		return "", fmt.Errorf("unexpected response type from anthropic")
	}

	return antResp.Content[0].Text, nil
}
