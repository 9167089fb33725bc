package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// ViolationRepository handles proctoring violation data access. The log is
// append-only; rows are never updated or deleted.
type ViolationRepository struct {
	pool *pgxpool.Pool
}

// NewViolationRepository creates a new ViolationRepository.
func NewViolationRepository(pool *pgxpool.Pool) *ViolationRepository {
	return &ViolationRepository{pool: pool}
}

// RecordAndIncrement appends the violation event and bumps the attempt's
// running tally in one transaction, returning the new count. The increment
// happens in SQL, so concurrent frame uploads for the same attempt cannot
// lose updates; each caller observes a distinct count for its threshold
// comparison.
func (r *ViolationRepository) RecordAndIncrement(ctx context.Context, ev *model.ViolationEvent) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO proctoring_logs (attempt_id, violation_type, severity, details, evidence_path)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		ev.AttemptID, ev.ViolationType, ev.Severity, ev.Details, ev.EvidencePath,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert violation: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`UPDATE student_exams
		 SET violation_count = violation_count + 1
		 WHERE id = $1
		 RETURNING violation_count`, ev.AttemptID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

// ListByAttempt retrieves the violation log of an attempt in event order.
func (r *ViolationRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ViolationEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, violation_type, severity, details, evidence_path, created_at
		 FROM proctoring_logs
		 WHERE attempt_id = $1
		 ORDER BY created_at ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ViolationEvent
	for rows.Next() {
		var ev model.ViolationEvent
		if err := rows.Scan(&ev.ID, &ev.AttemptID, &ev.ViolationType, &ev.Severity,
			&ev.Details, &ev.EvidencePath, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CountByAttempt recounts the log for an attempt. The online path trusts
// the running tally; this exists for the admin audit view to verify it.
func (r *ViolationRepository) CountByAttempt(ctx context.Context, attemptID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM proctoring_logs WHERE attempt_id = $1`, attemptID,
	).Scan(&count)
	return count, err
}
