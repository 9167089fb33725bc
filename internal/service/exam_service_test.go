package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/model"
)

// Redis-dependent paths (payload caching) are covered by the e2e suite;
// these tests exercise the lifecycle guards and the payload projection.

func newExamFixture() (*ExamService, *fakeExamStore, *fakeQuestionStore) {
	exams := newFakeExamStore()
	questions := &fakeQuestionStore{}
	svc := NewExamService(exams, questions, nil, zerolog.Nop())
	return svc, exams, questions
}

func TestAddQuestionValidation(t *testing.T) {
	svc, exams, _ := newExamFixture()
	ctx := context.Background()

	draft := &model.Exam{Status: model.ExamStatusDraft}
	exams.put(draft)

	options := json.RawMessage(`{"a":"red","b":"blue"}`)

	tests := []struct {
		name    string
		req     *model.AddQuestionRequest
		wantErr error
	}{
		{
			name: "valid mcq",
			req: &model.AddQuestionRequest{
				QuestionType: "mcq", QuestionText: "pick", Options: options, CorrectOption: "a", Marks: 2,
			},
		},
		{
			name: "mcq without options",
			req: &model.AddQuestionRequest{
				QuestionType: "mcq", QuestionText: "pick", CorrectOption: "a", Marks: 2,
			},
			wantErr: ErrBadQuestion,
		},
		{
			name: "mcq without correct option",
			req: &model.AddQuestionRequest{
				QuestionType: "mcq", QuestionText: "pick", Options: options, Marks: 2,
			},
			wantErr: ErrBadQuestion,
		},
		{
			name: "valid coding",
			req: &model.AddQuestionRequest{
				QuestionType: "coding", QuestionText: "solve", Language: "python", Marks: 10,
			},
		},
		{
			name: "coding without language",
			req: &model.AddQuestionRequest{
				QuestionType: "coding", QuestionText: "solve", Marks: 10,
			},
			wantErr: ErrBadQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddQuestion(ctx, draft.ID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddQuestion() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddQuestionRejectsPublishedExam(t *testing.T) {
	svc, exams, _ := newExamFixture()
	ctx := context.Background()

	published := &model.Exam{Status: model.ExamStatusPublished}
	exams.put(published)

	_, err := svc.AddQuestion(ctx, published.ID, &model.AddQuestionRequest{
		QuestionType: "coding", QuestionText: "solve", Language: "go", Marks: 5,
	})
	if !errors.Is(err, ErrExamNotDraft) {
		t.Errorf("AddQuestion() error = %v, want ErrExamNotDraft", err)
	}
}

func TestPublishGuards(t *testing.T) {
	svc, exams, _ := newExamFixture()
	ctx := context.Background()

	// No questions yet.
	empty := &model.Exam{Status: model.ExamStatusDraft}
	exams.put(empty)
	if _, err := svc.Publish(ctx, empty.ID); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Publish empty exam: err = %v, want ErrNoQuestions", err)
	}

	// Already published.
	published := &model.Exam{Status: model.ExamStatusPublished}
	exams.put(published)
	if _, err := svc.Publish(ctx, published.ID); !errors.Is(err, ErrExamNotDraft) {
		t.Errorf("Publish published exam: err = %v, want ErrExamNotDraft", err)
	}
}

func TestCompleteRequiresPublished(t *testing.T) {
	svc, exams, _ := newExamFixture()
	ctx := context.Background()

	draft := &model.Exam{Status: model.ExamStatusDraft}
	exams.put(draft)
	if _, err := svc.Complete(ctx, draft.ID); !errors.Is(err, ErrExamNotPublished) {
		t.Errorf("Complete draft exam: err = %v, want ErrExamNotPublished", err)
	}
}

func TestBuildPayloadStripsGradingFields(t *testing.T) {
	exam := &model.Exam{
		Title:             "Round 1",
		DurationMinutes:   45,
		TotalMarks:        12,
		ProctoringEnabled: true,
	}
	questions := []model.Question{
		{
			QuestionType:  model.QuestionTypeMCQ,
			QuestionText:  "pick one",
			Options:       json.RawMessage(`{"a":"x","b":"y"}`),
			CorrectOption: "b",
			Marks:         2,
		},
		{
			QuestionType: model.QuestionTypeCoding,
			QuestionText: "solve",
			Language:     "go",
			TestCases:    json.RawMessage(`[{"in":"1","out":"2"}]`),
			Marks:        10,
		},
	}

	payload := buildPayload(exam, questions)

	if len(payload.Questions) != 2 {
		t.Fatalf("len(Questions) = %d, want 2", len(payload.Questions))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	for _, leak := range []string{"correct_option", "test_cases"} {
		if strings.Contains(string(data), leak) {
			t.Errorf("payload JSON leaks %q: %s", leak, data)
		}
	}
}

func TestPayloadTTL(t *testing.T) {
	unscheduled := &model.Exam{}
	if got := payloadTTL(unscheduled); got != 24*time.Hour {
		t.Errorf("payloadTTL(unscheduled) = %v, want 24h", got)
	}

	future := time.Now().Add(72 * time.Hour)
	scheduled := &model.Exam{ScheduledDate: &future}
	if got := payloadTTL(scheduled); got <= 24*time.Hour {
		t.Errorf("payloadTTL(scheduled) = %v, want beyond the exam window", got)
	}

	past := time.Now().Add(-96 * time.Hour)
	stale := &model.Exam{ScheduledDate: &past}
	if got := payloadTTL(stale); got != 24*time.Hour {
		t.Errorf("payloadTTL(past schedule) = %v, want 24h fallback", got)
	}
}
