package model

import (
	"time"

	"github.com/google/uuid"
)

// ViolationType enumerates the recognized proctoring infractions.
type ViolationType string

const (
	ViolationNoFace         ViolationType = "no_face"
	ViolationMultipleFaces  ViolationType = "multiple_faces"
	ViolationLookingAway    ViolationType = "looking_away"
	ViolationMobileDetected ViolationType = "mobile_detected"
	ViolationBookDetected   ViolationType = "book_detected"
	ViolationManualReport   ViolationType = "manual_report"
)

// Severity grades how serious a violation is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ViolationEvent is one detected or reported infraction. Events are
// append-only: never mutated or deleted.
type ViolationEvent struct {
	ID            uuid.UUID     `json:"id"`
	AttemptID     uuid.UUID     `json:"attempt_id"`
	ViolationType ViolationType `json:"violation_type"`
	Severity      Severity      `json:"severity"`
	Details       string        `json:"details,omitempty"`
	EvidencePath  string        `json:"evidence_path,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ReportViolationRequest is the payload for an explicit (non-frame-derived)
// violation report from the exam client.
type ReportViolationRequest struct {
	AttemptID     uuid.UUID `json:"attempt_id" binding:"required"`
	ViolationType string    `json:"violation_type" binding:"required,oneof=no_face multiple_faces looking_away mobile_detected book_detected manual_report"`
	Severity      string    `json:"severity" binding:"omitempty,oneof=low medium high"`
	Details       string    `json:"details" binding:"omitempty,max=2000"`
}
