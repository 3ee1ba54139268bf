package handlers

import (
	"io"
	"net/http"

	"courseplatform/internal/application/usecase"
	"courseplatform/internal/domain"
	"courseplatform/internal/infrastructure/broker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GenerationHandler struct {
	generationUC *usecase.GenerationUseCase
	progress     *broker.ProgressBroker
}

func NewGenerationHandler(gu *usecase.GenerationUseCase, pb *broker.ProgressBroker) *GenerationHandler {
	return &GenerationHandler{generationUC: gu, progress: pb}
}

type generateReq struct {
	Prompt         string   `json:"prompt" binding:"required,min=10"`
	Difficulty     string   `json:"difficulty"`
	LessonCount    int      `json:"lesson_count" binding:"omitempty,min=1,max=20"`
	IncludeQuizzes *bool    `json:"include_quizzes"`
	IncludeVideos  *bool    `json:"include_videos"`
	TargetAudience []string `json:"target_audience"`
	SpecificTopics []string `json:"specific_topics"`
}

// POST /api/v1/generate
// Запрос синхронный: прогресс по ходу уходит в redis pub/sub,
// клиент слушает его через SSE (см. Progress)
func (h *GenerationHandler) Generate(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Квизы и видео включены по умолчанию, если клиент явно не отключил
	includeQuizzes := req.IncludeQuizzes == nil || *req.IncludeQuizzes
	includeVideos := req.IncludeVideos == nil || *req.IncludeVideos

	genReq := domain.GenerationRequest{
		Prompt:         req.Prompt,
		Difficulty:     req.Difficulty,
		LessonCount:    req.LessonCount,
		IncludeQuizzes: includeQuizzes,
		IncludeVideos:  includeVideos,
		TargetAudience: req.TargetAudience,
		SpecificTopics: req.SpecificTopics,
	}

	course, err := h.generationUC.Generate(c, genReq, userID, func(p domain.GenerationProgress) {
		h.progress.Publish(c, userID.String(), p)
	})
	if err != nil {
		// Подписчики SSE тоже должны узнать, что генерация умерла
		h.progress.Publish(c, userID.String(), domain.GenerationProgress{
			Stage:   domain.StageFailed,
			Message: "Course generation failed",
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Course generation failed"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GET /api/v1/generate/progress — SSE-поток событий генерации текущего юзера
func (h *GenerationHandler) Progress(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub := h.progress.Subscribe(c, userID.String())
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case progress, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("progress", progress)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
