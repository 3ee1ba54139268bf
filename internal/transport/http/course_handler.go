package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"courseplatform/internal/application/usecase"
	"courseplatform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courseUC *usecase.CourseUseCase
}

func NewCourseHandler(cu *usecase.CourseUseCase) *CourseHandler {
	return &CourseHandler{courseUC: cu}
}

// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")
	difficulty := c.Query("difficulty")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	courses, total, err := h.courseUC.List(c, search, difficulty, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses":     courses,
		"total_count": total,
	})
}

// GET /api/v1/courses/:id — полный агрегат (уроки -> ресурсы, квизы -> вопросы)
func (h *CourseHandler) GetOne(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}
	userID, _ := uuid.Parse(c.GetString("userId"))

	course, err := h.courseUC.Get(c, courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, domain.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, course)
}

// GET /api/v1/courses/my
func (h *CourseHandler) MyCourses(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	courses, err := h.courseUC.MyCourses(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// PATCH /api/v1/courses/:id/publish
func (h *CourseHandler) Publish(c *gin.Context) {
	h.setStatus(c, h.courseUC.Publish)
}

// PATCH /api/v1/courses/:id/archive
func (h *CourseHandler) Archive(c *gin.Context) {
	h.setStatus(c, h.courseUC.Archive)
}

// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}
	userID, _ := uuid.Parse(c.GetString("userId"))

	if err := h.courseUC.Delete(c, courseID, userID); err != nil {
		h.writeCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/v1/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}
	userID, _ := uuid.Parse(c.GetString("userId"))

	if err := h.courseUC.Enroll(c, courseID, userID); err != nil {
		h.writeCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) setStatus(c *gin.Context, fn func(ctx context.Context, courseID, userID uuid.UUID) error) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}
	userID, _ := uuid.Parse(c.GetString("userId"))

	if err := fn(c, courseID, userID); err != nil {
		h.writeCourseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) writeCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
