package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates the possible states of an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "draft"
	ExamStatusPublished ExamStatus = "published"
	ExamStatusCompleted ExamStatus = "completed"
)

// ExamType describes the composition of an exam.
type ExamType string

const (
	ExamTypeMCQ    ExamType = "mcq"
	ExamTypeCoding ExamType = "coding"
	ExamTypeMixed  ExamType = "mixed"
)

// Exam represents an exam entity. Questions are immutable once published.
type Exam struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	ExamType          ExamType   `json:"exam_type"`
	DurationMinutes   int        `json:"duration_minutes"`
	TotalMarks        int        `json:"total_marks"`
	PassingMarks      int        `json:"passing_marks"`
	Instructions      string     `json:"instructions,omitempty"`
	ScheduledDate     *time.Time `json:"scheduled_date,omitempty"`
	Status            ExamStatus `json:"status"`
	ProctoringEnabled bool       `json:"proctoring_enabled"`
	CreatedBy         int        `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title             string     `json:"title" binding:"required,min=3,max=255"`
	ExamType          string     `json:"exam_type" binding:"required,oneof=mcq coding mixed"`
	DurationMinutes   int        `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalMarks        int        `json:"total_marks" binding:"required,min=1"`
	PassingMarks      int        `json:"passing_marks" binding:"required,min=0"`
	Instructions      string     `json:"instructions" binding:"omitempty,max=5000"`
	ScheduledDate     *time.Time `json:"scheduled_date" binding:"omitempty"`
	ProctoringEnabled *bool      `json:"proctoring_enabled" binding:"omitempty"`
}

// ExamPayload is the Redis-cached exam sent to students (no correct answers).
type ExamPayload struct {
	ExamID            uuid.UUID            `json:"exam_id"`
	Title             string               `json:"title"`
	DurationMinutes   int                  `json:"duration_minutes"`
	TotalMarks        int                  `json:"total_marks"`
	Instructions      string               `json:"instructions,omitempty"`
	ProctoringEnabled bool                 `json:"proctoring_enabled"`
	Questions         []QuestionForStudent `json:"questions"`
}

// QuestionForStudent is a question with grading fields stripped.
type QuestionForStudent struct {
	ID           uuid.UUID       `json:"id"`
	QuestionType QuestionType    `json:"question_type"`
	QuestionText string          `json:"question_text"`
	Options      json.RawMessage `json:"options,omitempty"`
	Marks        int             `json:"marks"`
	Language     string          `json:"language,omitempty"`
}
