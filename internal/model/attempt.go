package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates exam attempt states. Transitions only move
// forward: not_started → in_progress → submitted → evaluated.
type AttemptStatus string

const (
	AttemptStatusNotStarted AttemptStatus = "not_started"
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusSubmitted  AttemptStatus = "submitted"
	AttemptStatusEvaluated  AttemptStatus = "evaluated"
)

// AttemptResult is the outcome of an evaluated attempt.
type AttemptResult string

const (
	ResultPass              AttemptResult = "pass"
	ResultFail              AttemptResult = "fail"
	ResultPendingEvaluation AttemptResult = "pending_evaluation"
)

// ExamAttempt represents one student's run at one exam.
//
// TotalScore is always MCQScore + CodingScore; it is recomputed as the sum
// on every mutation and never set independently.
type ExamAttempt struct {
	ID               uuid.UUID     `json:"id"`
	ExamID           uuid.UUID     `json:"exam_id"`
	StudentID        int           `json:"student_id"`
	Status           AttemptStatus `json:"status"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          *time.Time    `json:"end_time,omitempty"`
	TimeTakenMinutes *int          `json:"time_taken_minutes,omitempty"`
	MCQScore         int           `json:"mcq_score"`
	CodingScore      int           `json:"coding_score"`
	TotalScore       int           `json:"total_score"`
	Percentage       float64       `json:"percentage"`
	Result           AttemptResult `json:"result,omitempty"`
	ViolationCount   int           `json:"violation_count"`
	FlaggedForReview bool          `json:"flagged_for_review"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Deadline returns the latest allowed finish time for the attempt.
func (a *ExamAttempt) Deadline(durationMinutes int) time.Time {
	return a.StartTime.Add(time.Duration(durationMinutes) * time.Minute)
}

// Terminal reports whether the attempt can no longer be mutated by the student.
func (a *ExamAttempt) Terminal() bool {
	return a.Status == AttemptStatusSubmitted || a.Status == AttemptStatusEvaluated
}

// AnswerInput is one submitted answer in a submit request.
type AnswerInput struct {
	QuestionID  uuid.UUID `json:"question_id" binding:"required"`
	AnswerType  string    `json:"answer_type" binding:"required,oneof=mcq_option code"`
	AnswerValue string    `json:"answer_value"`
}

// SubmitExamRequest is the payload for submitting an attempt.
type SubmitExamRequest struct {
	AttemptID uuid.UUID     `json:"attempt_id" binding:"required"`
	Answers   []AnswerInput `json:"answers" binding:"required,dive"`
}

// AttemptResultView is the status-appropriate result projection returned to
// students. Fields are revealed progressively as the attempt advances.
type AttemptResultView struct {
	Status           AttemptStatus `json:"status"`
	ExamTitle        string        `json:"exam_title,omitempty"`
	TotalMarks       int           `json:"total_marks,omitempty"`
	MCQScore         *int          `json:"mcq_score,omitempty"`
	CodingScore      *int          `json:"coding_score,omitempty"`
	TotalScore       *int          `json:"total_score,omitempty"`
	Percentage       *float64      `json:"percentage,omitempty"`
	Result           AttemptResult `json:"result,omitempty"`
	TimeTakenMinutes *int          `json:"time_taken_minutes,omitempty"`
	ViolationCount   *int          `json:"violation_count,omitempty"`
	SubmittedAt      *time.Time    `json:"submitted_at,omitempty"`
}
