package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/scoring"
)

// Attempt lifecycle errors.
var (
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrAttemptNotActive  = errors.New("attempt is not in progress")
	ErrAttemptInProgress = errors.New("attempt already in progress")
	ErrAlreadySubmitted  = errors.New("exam already submitted")
)

// ExamSessionService drives a student's attempt through its lifecycle:
// start, submit, and result retrieval. Forced submission lives here too so
// the proctoring pipeline shares the same transition.
type ExamSessionService struct {
	exams     ExamStore
	questions QuestionStore
	attempts  AttemptStore
	log       zerolog.Logger
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(exams ExamStore, questions QuestionStore, attempts AttemptStore, log zerolog.Logger) *ExamSessionService {
	return &ExamSessionService{
		exams:     exams,
		questions: questions,
		attempts:  attempts,
		log:       log.With().Str("component", "exam_session_service").Logger(),
	}
}

// Start opens a fresh attempt on a published exam. A student can hold at
// most one in-progress attempt per exam; once that attempt reaches a
// terminal state a new start opens a new attempt.
func (s *ExamSessionService) Start(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotPublished
	}

	existing, err := s.attempts.GetInProgress(ctx, examID, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check active attempt: %w", err)
	}
	if existing != nil {
		return nil, ErrAttemptInProgress
	}

	attempt := &model.ExamAttempt{
		ExamID:    examID,
		StudentID: studentID,
		Status:    model.AttemptStatusInProgress,
		StartTime: time.Now(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("exam_id", examID.String()).
		Int("student_id", studentID).
		Msg("attempt started")

	return attempt, nil
}

// Submit grades and finalizes an in-progress attempt.
//
// MCQ answers are auto-graded on the spot. If the submission contains any
// coding answers the attempt stays at result pending_evaluation until
// manual grading finishes; otherwise it lands directly in evaluated with a
// pass/fail verdict. The write is transactional, so a concurrent
// force-submit cannot interleave and the whole submission either lands or
// does not.
func (s *ExamSessionService) Submit(ctx context.Context, studentID int, req *model.SubmitExamRequest) (*model.ExamAttempt, error) {
	attempt, err := s.attempts.GetByID(ctx, req.AttemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrAttemptNotFound
	}
	if attempt.Terminal() {
		return nil, ErrAlreadySubmitted
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrAttemptNotActive
	}

	exam, err := s.exams.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	questions, err := s.questions.ListByExam(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	outcome := scoring.Grade(questions, req.Answers)

	now := time.Now()
	taken := int(now.Sub(attempt.StartTime).Minutes())
	if taken < 0 {
		taken = 0
	}

	attempt.EndTime = &now
	attempt.TimeTakenMinutes = &taken
	attempt.MCQScore = outcome.MCQScore
	attempt.CodingScore = 0
	attempt.TotalScore = attempt.MCQScore + attempt.CodingScore
	attempt.Percentage = scoring.Percentage(attempt.TotalScore, exam.TotalMarks)

	if outcome.NeedsManual {
		attempt.Status = model.AttemptStatusSubmitted
		attempt.Result = model.ResultPendingEvaluation
	} else {
		attempt.Status = model.AttemptStatusEvaluated
		attempt.Result = scoring.Result(attempt.TotalScore, exam.PassingMarks)
	}

	if err := s.attempts.SaveSubmission(ctx, attempt, outcome.Answers); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race against a force-submit.
			return nil, ErrAttemptNotActive
		}
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Int("total_score", attempt.TotalScore).
		Bool("needs_manual", outcome.NeedsManual).
		Msg("attempt submitted")

	return attempt, nil
}

// ForceSubmit ends an in-progress attempt without grading and flags it for
// review. Answers the student never sent are simply absent. Returns false
// when the attempt was no longer in progress, which callers treat as a
// benign race.
func (s *ExamSessionService) ForceSubmit(ctx context.Context, attemptID uuid.UUID) (bool, error) {
	forced, err := s.attempts.ForceSubmit(ctx, attemptID, time.Now())
	if err != nil {
		return false, fmt.Errorf("force submit: %w", err)
	}
	if forced {
		s.log.Warn().Str("attempt_id", attemptID.String()).Msg("attempt force-submitted")
	}
	return forced, nil
}

// GetResult returns the student's result for an exam, revealed
// progressively: nothing while in progress, scores withheld while manual
// evaluation is pending, the full breakdown once evaluated.
func (s *ExamSessionService) GetResult(ctx context.Context, examID uuid.UUID, studentID int) (*model.AttemptResultView, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	attempt, err := s.attempts.GetLatest(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.AttemptResultView{Status: model.AttemptStatusNotStarted, ExamTitle: exam.Title}, nil
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	view := &model.AttemptResultView{
		Status:    attempt.Status,
		ExamTitle: exam.Title,
	}

	switch attempt.Status {
	case model.AttemptStatusInProgress:
		// Nothing to reveal yet.

	case model.AttemptStatusSubmitted:
		view.Result = model.ResultPendingEvaluation
		view.SubmittedAt = attempt.EndTime
		view.TimeTakenMinutes = attempt.TimeTakenMinutes

	case model.AttemptStatusEvaluated:
		view.TotalMarks = exam.TotalMarks
		view.MCQScore = &attempt.MCQScore
		view.CodingScore = &attempt.CodingScore
		view.TotalScore = &attempt.TotalScore
		view.Percentage = &attempt.Percentage
		view.Result = attempt.Result
		view.TimeTakenMinutes = attempt.TimeTakenMinutes
		view.ViolationCount = &attempt.ViolationCount
		view.SubmittedAt = attempt.EndTime
	}

	return view, nil
}
