package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerType mirrors the question type the answer belongs to.
type AnswerType string

const (
	AnswerTypeMCQOption AnswerType = "mcq_option"
	AnswerTypeCode      AnswerType = "code"
)

// Answer is one submitted answer for one question of an attempt. The raw
// value is immutable after submission; correctness and marks are mutable
// only through manual evaluation of coding answers.
type Answer struct {
	ID           uuid.UUID  `json:"id"`
	AttemptID    uuid.UUID  `json:"attempt_id"`
	QuestionID   uuid.UUID  `json:"question_id"`
	AnswerType   AnswerType `json:"answer_type"`
	AnswerValue  string     `json:"answer_value"`
	IsCorrect    *bool      `json:"is_correct,omitempty"`
	MarksAwarded int        `json:"marks_awarded"`
	EvaluatedBy  *int       `json:"evaluated_by,omitempty"`
	EvaluatedAt  *time.Time `json:"evaluated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EvaluateAnswerRequest is the payload for manually grading a coding answer.
type EvaluateAnswerRequest struct {
	MarksAwarded *int  `json:"marks_awarded" binding:"required,min=0"`
	IsCorrect    *bool `json:"is_correct" binding:"required"`
}
