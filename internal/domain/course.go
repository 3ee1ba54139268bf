package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CourseStatus string

const (
	StatusGenerating CourseStatus = "generating"
	StatusDraft      CourseStatus = "draft"
	StatusPublished  CourseStatus = "published"
	StatusFailed     CourseStatus = "failed"
	StatusArchived   CourseStatus = "archived"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type LessonType string

const (
	LessonVideo       LessonType = "video"
	LessonText        LessonType = "text"
	LessonInteractive LessonType = "interactive"
	LessonQuiz        LessonType = "quiz"
)

type QuizType string

const (
	QuizKnowledgeCheck QuizType = "knowledge_check"
	QuizAssessment     QuizType = "assessment"
	QuizPractice       QuizType = "practice"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
	QuestionFillInTheBlank QuestionType = "fill_in_the_blank"
)

// StringList хранится в одной text-колонке через запятую
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case string:
		*l = splitList(v)
	case []byte:
		*l = splitList(string(v))
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"index" json:"title"`
	Description string    `json:"description"`

	// Исходный промпт пользователя (provenance, после создания не меняется)
	Prompt string `json:"prompt"`

	Status     CourseStatus `gorm:"index;default:'draft'" json:"status"`
	Difficulty Difficulty   `gorm:"default:'beginner'" json:"difficulty"`

	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	Tags                     StringList `gorm:"type:text" json:"tags"`
	LearningObjectives       StringList `gorm:"type:text" json:"learning_objectives"`
	ThumbnailURL             string     `json:"thumbnail_url"`

	CreatedBy uuid.UUID `gorm:"type:uuid;index" json:"created_by"`

	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"lessons"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;index" json:"course_id"`

	Title   string     `json:"title"`
	Content string     `json:"content"`
	Type    LessonType `gorm:"default:'text'" json:"type"`

	// 0-based, уникален внутри курса, задаёт порядок показа
	OrderIndex int `json:"order_index"`

	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	LearningObjectives       StringList `gorm:"type:text" json:"learning_objectives"`

	Quizzes   []Quiz     `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE;" json:"quizzes"`
	Resources []Resource `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE;" json:"resources"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Quiz struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;index" json:"lesson_id"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        QuizType `gorm:"default:'knowledge_check'" json:"type"`

	TimeLimit    int     `json:"time_limit"` // в минутах, 0 = без лимита
	MaxAttempts  int     `gorm:"default:1" json:"max_attempts"`
	PassingScore float64 `json:"passing_score"` // процент 0-100

	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;" json:"questions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuizQuestion struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;index" json:"quiz_id"`

	Question string       `json:"question"`
	Type     QuestionType `gorm:"default:'multiple_choice'" json:"type"`

	Options        StringList `gorm:"type:text" json:"options"`
	CorrectAnswers StringList `gorm:"type:text" json:"correct_answers"`
	Explanation    string     `json:"explanation"`
	Points         int        `gorm:"default:1" json:"points"`
	OrderIndex     int        `json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
}

type Resource struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;index" json:"lesson_id"`

	Title        string     `json:"title"`
	Description  string     `json:"description"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     int        `json:"duration"` // в секундах
	Author       string     `json:"author"`
	Tags         StringList `gorm:"type:text" json:"tags"`

	RelevanceScore float64 `json:"relevance_score"` // 0-1
	IsEducational  bool    `json:"is_educational"`
	OrderIndex     int     `json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
}

// Нормализация строк от AI-провайдера. Провайдер — недоверенный источник:
// незнакомые значения не роняют пайплайн, а падают в дефолт.

func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return DifficultyBeginner
	case "intermediate":
		return DifficultyIntermediate
	case "advanced":
		return DifficultyAdvanced
	default:
		return DifficultyIntermediate
	}
}

func ParseLessonType(s string) LessonType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return LessonVideo
	case "text":
		return LessonText
	case "interactive":
		return LessonInteractive
	case "quiz":
		return LessonQuiz
	default:
		return LessonText
	}
}

func ParseQuizType(s string) QuizType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "knowledge_check":
		return QuizKnowledgeCheck
	case "assessment":
		return QuizAssessment
	case "practice":
		return QuizPractice
	default:
		return QuizKnowledgeCheck
	}
}

func ParseQuestionType(s string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice":
		return QuestionMultipleChoice
	case "true_false":
		return QuestionTrueFalse
	case "short_answer":
		return QuestionShortAnswer
	case "essay":
		return QuestionEssay
	case "fill_in_the_blank":
		return QuestionFillInTheBlank
	default:
		return QuestionMultipleChoice
	}
}
