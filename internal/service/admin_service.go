package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// AdminService composes the read-side views used by placement staff: the
// review queue, per-exam results, per-student history, and the violation
// audit trail of an attempt.
type AdminService struct {
	attempts   AttemptStore
	violations ViolationStore
	users      *repository.UserRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(attempts AttemptStore, violations ViolationStore, users *repository.UserRepository) *AdminService {
	return &AdminService{
		attempts:   attempts,
		violations: violations,
		users:      users,
	}
}

// FlaggedAttempts returns attempts flagged for review, most recent first.
func (s *AdminService) FlaggedAttempts(ctx context.Context) ([]repository.FlaggedAttempt, error) {
	return s.attempts.ListFlagged(ctx)
}

// ExamResults returns every graded attempt of one exam, best score first.
func (s *AdminService) ExamResults(ctx context.Context, examID uuid.UUID) ([]repository.ExamResultRow, error) {
	return s.attempts.ListByExam(ctx, examID)
}

// StudentDetail is the admin's per-student view: the profile plus exam
// history.
type StudentDetail struct {
	Student  model.User                   `json:"student"`
	Attempts []repository.FlaggedAttempt `json:"attempts"`
}

// GetStudentDetail returns one student's profile and evaluated attempts.
func (s *AdminService) GetStudentDetail(ctx context.Context, studentID int) (*StudentDetail, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student.Role != model.RoleStudent {
		return nil, ErrUserNotFound
	}

	attempts, err := s.attempts.ListEvaluatedByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	return &StudentDetail{Student: *student, Attempts: attempts}, nil
}

// AttemptAudit is the violation trail of one attempt. CountMismatch is set
// when the attempt's running tally disagrees with the log, which points at
// a bug or manual tampering.
type AttemptAudit struct {
	Attempt       model.ExamAttempt      `json:"attempt"`
	Violations    []model.ViolationEvent `json:"violations"`
	LoggedCount   int                    `json:"logged_count"`
	CountMismatch bool                   `json:"count_mismatch"`
}

// GetAttemptAudit returns an attempt with its full violation log and a
// recount of that log against the attempt's running tally.
func (s *AdminService) GetAttemptAudit(ctx context.Context, attemptID uuid.UUID) (*AttemptAudit, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	violations, err := s.violations.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}

	logged, err := s.violations.CountByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("count violations: %w", err)
	}

	return &AttemptAudit{
		Attempt:       *attempt,
		Violations:    violations,
		LoggedCount:   logged,
		CountMismatch: logged != attempt.ViolationCount,
	}, nil
}
