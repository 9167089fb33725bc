package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// QuestionType distinguishes auto-gradable and manually-graded questions.
type QuestionType string

const (
	QuestionTypeMCQ    QuestionType = "mcq"
	QuestionTypeCoding QuestionType = "coding"
)

// Question represents a single exam question.
//
// MCQ questions carry Options (a JSON object of option id → text) and
// CorrectOption. Coding questions carry Language and TestCases instead.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	ExamID        uuid.UUID       `json:"exam_id"`
	QuestionType  QuestionType    `json:"question_type"`
	QuestionText  string          `json:"question_text"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectOption string          `json:"correct_option,omitempty"`
	Marks         int             `json:"marks"`
	Difficulty    string          `json:"difficulty,omitempty"`
	Language      string          `json:"language,omitempty"`
	TestCases     json.RawMessage `json:"test_cases,omitempty"`
}

// AddQuestionRequest is the payload for adding a question to a draft exam.
type AddQuestionRequest struct {
	QuestionType  string          `json:"question_type" binding:"required,oneof=mcq coding"`
	QuestionText  string          `json:"question_text" binding:"required,min=1,max=5000"`
	Options       json.RawMessage `json:"options" binding:"omitempty"`
	CorrectOption string          `json:"correct_option" binding:"omitempty,max=10"`
	Marks         int             `json:"marks" binding:"required,min=1"`
	Difficulty    string          `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Language      string          `json:"language" binding:"omitempty,max=30"`
	TestCases     json.RawMessage `json:"test_cases" binding:"omitempty"`
}
