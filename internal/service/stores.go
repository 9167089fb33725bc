package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// Store interfaces consumed by the exam, session, proctoring, and
// evaluation services. The pgx repositories satisfy them; tests substitute
// in-memory fakes.

// ExamStore provides exam catalog access.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	Create(ctx context.Context, e *model.Exam) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ExamStatus) error
	List(ctx context.Context, status *model.ExamStatus) ([]model.Exam, error)
}

// QuestionStore provides question access.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
}

// AttemptStore provides exam attempt access.
type AttemptStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error)
	GetInProgress(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error)
	GetLatest(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error)
	Create(ctx context.Context, a *model.ExamAttempt) error
	SaveSubmission(ctx context.Context, a *model.ExamAttempt, answers []model.Answer) error
	ForceSubmit(ctx context.Context, id uuid.UUID, end time.Time) (bool, error)
	ListFlagged(ctx context.Context) ([]repository.FlaggedAttempt, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]repository.ExamResultRow, error)
	ListEvaluatedByStudent(ctx context.Context, studentID int) ([]repository.FlaggedAttempt, error)
}

// AnswerStore provides submitted answer access.
type AnswerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Answer, error)
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error)
	SaveEvaluation(ctx context.Context, ans *model.Answer, att *model.ExamAttempt) error
}

// ViolationStore provides proctoring log access.
type ViolationStore interface {
	RecordAndIncrement(ctx context.Context, ev *model.ViolationEvent) (int, error)
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ViolationEvent, error)
	CountByAttempt(ctx context.Context, attemptID uuid.UUID) (int, error)
}
