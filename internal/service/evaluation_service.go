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

// Manual evaluation errors.
var (
	ErrAnswerNotFound    = errors.New("answer not found")
	ErrAnswerNotGradable = errors.New("only coding answers can be graded manually")
	ErrAttemptNotGraded  = errors.New("attempt has not been submitted yet")
	ErrMarksExceedMax    = errors.New("awarded marks exceed the question's marks")
)

// EvaluationService handles manual grading of coding answers. Every
// evaluation resyncs the attempt's aggregate scores from scratch, so
// re-grading an answer is safe and never double-counts.
type EvaluationService struct {
	answers   AnswerStore
	attempts  AttemptStore
	questions QuestionStore
	exams     ExamStore
	log       zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(answers AnswerStore, attempts AttemptStore, questions QuestionStore, exams ExamStore, log zerolog.Logger) *EvaluationService {
	return &EvaluationService{
		answers:   answers,
		attempts:  attempts,
		questions: questions,
		exams:     exams,
		log:       log.With().Str("component", "evaluation_service").Logger(),
	}
}

// EvaluateAnswer records an evaluator's verdict on one coding answer and
// recomputes the attempt's scores. When the last outstanding coding answer
// is graded the attempt transitions to evaluated with a pass/fail result.
func (s *EvaluationService) EvaluateAnswer(ctx context.Context, evaluatorID int, answerID uuid.UUID, req *model.EvaluateAnswerRequest) (*model.ExamAttempt, error) {
	answer, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("get answer: %w", err)
	}
	if answer.AnswerType != model.AnswerTypeCode {
		return nil, ErrAnswerNotGradable
	}

	attempt, err := s.attempts.GetByID(ctx, answer.AttemptID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if !attempt.Terminal() {
		return nil, ErrAttemptNotGraded
	}

	exam, err := s.exams.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	questions, err := s.questions.ListByExam(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	maxMarks := 0
	for i := range questions {
		if questions[i].ID == answer.QuestionID {
			maxMarks = questions[i].Marks
			break
		}
	}
	if *req.MarksAwarded > maxMarks {
		return nil, fmt.Errorf("%w: %d > %d", ErrMarksExceedMax, *req.MarksAwarded, maxMarks)
	}

	now := time.Now()
	answer.MarksAwarded = *req.MarksAwarded
	answer.IsCorrect = req.IsCorrect
	answer.EvaluatedBy = &evaluatorID
	answer.EvaluatedAt = &now

	// Resync aggregates over the full answer set with this verdict applied.
	all, err := s.answers.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	pending := false
	for i := range all {
		if all[i].ID == answer.ID {
			all[i] = *answer
		}
		if all[i].AnswerType == model.AnswerTypeCode && all[i].IsCorrect == nil {
			pending = true
		}
	}

	attempt.CodingScore = scoring.CodingTotal(all)
	attempt.TotalScore = attempt.MCQScore + attempt.CodingScore
	attempt.Percentage = scoring.Percentage(attempt.TotalScore, exam.TotalMarks)
	if pending {
		attempt.Status = model.AttemptStatusSubmitted
		attempt.Result = model.ResultPendingEvaluation
	} else {
		attempt.Status = model.AttemptStatusEvaluated
		attempt.Result = scoring.Result(attempt.TotalScore, exam.PassingMarks)
	}

	if err := s.answers.SaveEvaluation(ctx, answer, attempt); err != nil {
		return nil, fmt.Errorf("save evaluation: %w", err)
	}

	s.log.Info().
		Str("answer_id", answerID.String()).
		Str("attempt_id", attempt.ID.String()).
		Int("marks", answer.MarksAwarded).
		Bool("fully_evaluated", !pending).
		Msg("coding answer evaluated")

	return attempt, nil
}

// AttemptAnswers returns the answers of an attempt for the evaluation view.
func (s *EvaluationService) AttemptAnswers(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	return s.answers.ListByAttempt(ctx, attemptID)
}
