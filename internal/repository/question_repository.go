package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create inserts a question into a draft exam.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, question_type, question_text, options, correct_option,
		                        marks, difficulty, language, test_cases)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		q.ExamID, q.QuestionType, q.QuestionText, q.Options, q.CorrectOption,
		q.Marks, q.Difficulty, q.Language, q.TestCases,
	).Scan(&q.ID)
}

// ListByExam retrieves all questions of an exam in insertion order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, question_type, question_text, options, correct_option,
		        marks, difficulty, language, test_cases
		 FROM questions
		 WHERE exam_id = $1
		 ORDER BY created_at ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.QuestionType, &q.QuestionText, &q.Options,
			&q.CorrectOption, &q.Marks, &q.Difficulty, &q.Language, &q.TestCases); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
