package domain

// DTO пайплайна генерации. Это сырые структуры от AI-провайдера,
// в сущности БД они превращаются только после нормализации.

type GenerationRequest struct {
	Prompt         string   `json:"prompt"`
	Difficulty     string   `json:"difficulty"`
	LessonCount    int      `json:"lesson_count"`
	IncludeQuizzes bool     `json:"include_quizzes"`
	IncludeVideos  bool     `json:"include_videos"`
	TargetAudience []string `json:"target_audience"`
	SpecificTopics []string `json:"specific_topics"`
}

type CourseStructure struct {
	Title                    string            `json:"title"`
	Description              string            `json:"description"`
	Difficulty               string            `json:"difficulty"`
	EstimatedDurationMinutes int               `json:"estimatedDurationMinutes"`
	LearningObjectives       []string          `json:"learningObjectives"`
	Tags                     []string          `json:"tags"`
	Lessons                  []LessonStructure `json:"lessons"`
}

type LessonStructure struct {
	Title                    string   `json:"title"`
	Content                  string   `json:"content"`
	Type                     string   `json:"type"`
	OrderIndex               int      `json:"orderIndex"`
	EstimatedDurationMinutes int      `json:"estimatedDurationMinutes"`
	LearningObjectives       []string `json:"learningObjectives"`
}

type QuizStructure struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Type         string              `json:"type"`
	TimeLimit    int                 `json:"timeLimit"`
	MaxAttempts  int                 `json:"maxAttempts"`
	PassingScore float64             `json:"passingScore"`
	Questions    []QuestionStructure `json:"questions"`
}

type QuestionStructure struct {
	Question       string   `json:"question"`
	Type           string   `json:"type"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correctAnswers"`
	Explanation    string   `json:"explanation"`
	Points         int      `json:"points"`
	OrderIndex     int      `json:"orderIndex"`
}

// Кандидат в ресурсы урока. Эфемерный: фильтруется по релевантности
// и только потом становится Resource.
type ResourceCandidate struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	Duration       int      `json:"duration"` // секунды
	Author         string   `json:"author"`
	ViewCount      int64    `json:"viewCount"`
	RelevanceScore float64  `json:"relevanceScore"`
	IsEducational  bool     `json:"isEducational"`
	Tags           []string `json:"tags"`
}

// Стадии генерации (линейная машина состояний)
const (
	StageAnalyzing           = "analyzing"
	StageGeneratingStructure = "generating_structure"
	StageCreatingContent     = "creating_content"
	StageFindingResources    = "finding_resources"
	StageGeneratingQuizzes   = "generating_quizzes"
	StageFinalizing          = "finalizing"

	// Терминальная стадия при фатальной ошибке
	StageFailed = "failed"
)

type GenerationProgress struct {
	Stage         string `json:"stage"`
	Progress      int    `json:"progress"` // 0-100, не убывает в рамках одного запуска
	Message       string `json:"message"`
	CurrentLesson string `json:"current_lesson,omitempty"`
}
