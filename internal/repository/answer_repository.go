package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// AnswerRepository handles submitted answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

const answerColumns = `id, attempt_id, question_id, answer_type, answer_value,
	is_correct, marks_awarded, evaluated_by, evaluated_at, created_at`

func scanAnswer(row pgx.Row) (*model.Answer, error) {
	a := &model.Answer{}
	err := row.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.AnswerType, &a.AnswerValue,
		&a.IsCorrect, &a.MarksAwarded, &a.EvaluatedBy, &a.EvaluatedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an answer by primary key.
func (r *AnswerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Answer, error) {
	return scanAnswer(r.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM student_answers WHERE id = $1`, id))
}

// ListByAttempt retrieves all answers of an attempt.
func (r *AnswerRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM student_answers
		 WHERE attempt_id = $1
		 ORDER BY created_at ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}

// SaveEvaluation atomically persists a manual grading: the answer's new
// marks/correctness/evaluator and the attempt's resynced aggregate fields
// commit together or not at all.
func (r *AnswerRepository) SaveEvaluation(ctx context.Context, ans *model.Answer, att *model.ExamAttempt) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE student_answers
		 SET marks_awarded = $1, is_correct = $2, evaluated_by = $3, evaluated_at = $4
		 WHERE id = $5`,
		ans.MarksAwarded, ans.IsCorrect, ans.EvaluatedBy, ans.EvaluatedAt, ans.ID)
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE student_exams
		 SET coding_score = $1, total_score = $2, percentage = $3, result = $4, status = $5
		 WHERE id = $6`,
		att.CodingScore, att.TotalScore, att.Percentage, att.Result, att.Status, att.ID)
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}

	return tx.Commit(ctx)
}
