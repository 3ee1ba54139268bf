package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrCourseNotFound    = errors.New("course not found")
	ErrAccessDenied      = errors.New("access denied")
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Password string    `gorm:"not null" json:"-"`

	// OAuth привязки (пустая строка = не привязан)
	GoogleID string `gorm:"index" json:"-"`
	GithubID string `gorm:"index" json:"-"`

	IsEmailVerified bool   `gorm:"default:false" json:"is_email_verified"`
	AvatarURL       string `json:"avatar_url"`

	LastLoginAt time.Time `json:"last_login_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Запись о том, что юзер проходит курс
type Enrollment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_course" json:"course_id"`

	CreatedAt time.Time `json:"created_at"`
}
