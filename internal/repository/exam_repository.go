package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// ExamRepository handles exam catalog data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, exam_type, duration_minutes, total_marks, passing_marks,
	instructions, scheduled_date, status, proctoring_enabled, created_by, created_at`

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.ExamType, &e.DurationMinutes, &e.TotalMarks, &e.PassingMarks,
		&e.Instructions, &e.ScheduledDate, &e.Status, &e.ProctoringEnabled, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new exam as draft.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, exam_type, duration_minutes, total_marks, passing_marks,
		                    instructions, scheduled_date, status, proctoring_enabled, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		e.Title, e.ExamType, e.DurationMinutes, e.TotalMarks, e.PassingMarks,
		e.Instructions, e.ScheduledDate, e.Status, e.ProctoringEnabled, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
}

// UpdateStatus moves an exam to a new lifecycle status.
func (r *ExamRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ExamStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1 WHERE id = $2`, status, id)
	return err
}

// List retrieves exams, optionally filtered by status, newest first.
func (r *ExamRepository) List(ctx context.Context, status *model.ExamStatus) ([]model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.ExamType, &e.DurationMinutes, &e.TotalMarks, &e.PassingMarks,
			&e.Instructions, &e.ScheduledDate, &e.Status, &e.ProctoringEnabled, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}
