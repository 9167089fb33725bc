package model

import (
	"testing"
	"time"
)

func TestAttemptDeadline(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	a := &ExamAttempt{StartTime: start}

	got := a.Deadline(90)
	want := start.Add(90 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("Deadline(90) = %v, want %v", got, want)
	}
}

func TestAttemptTerminal(t *testing.T) {
	tests := []struct {
		status AttemptStatus
		want   bool
	}{
		{AttemptStatusNotStarted, false},
		{AttemptStatusInProgress, false},
		{AttemptStatusSubmitted, true},
		{AttemptStatusEvaluated, true},
	}
	for _, tt := range tests {
		a := &ExamAttempt{Status: tt.status}
		if got := a.Terminal(); got != tt.want {
			t.Errorf("Terminal() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
