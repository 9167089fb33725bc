package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// AttemptRepository handles exam attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, exam_id, student_id, status, start_time, end_time, time_taken_minutes,
	mcq_score, coding_score, total_score, percentage, result, violation_count, flagged_for_review, created_at`

func scanAttempt(row pgx.Row) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := row.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.Status, &a.StartTime, &a.EndTime,
		&a.TimeTakenMinutes, &a.MCQScore, &a.CodingScore, &a.TotalScore, &a.Percentage,
		&a.Result, &a.ViolationCount, &a.FlaggedForReview, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an attempt by primary key.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM student_exams WHERE id = $1`, id))
}

// GetInProgress retrieves the in-progress attempt for a (student, exam)
// pair, if one exists.
func (r *AttemptRepository) GetInProgress(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM student_exams
		 WHERE exam_id = $1 AND student_id = $2 AND status = $3`,
		examID, studentID, model.AttemptStatusInProgress))
}

// GetLatest retrieves the most recent attempt for a (student, exam) pair.
func (r *AttemptRepository) GetLatest(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM student_exams
		 WHERE exam_id = $1 AND student_id = $2
		 ORDER BY created_at DESC LIMIT 1`,
		examID, studentID))
}

// Create inserts a new in-progress attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *model.ExamAttempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO student_exams (exam_id, student_id, status, start_time)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.ExamID, a.StudentID, a.Status, a.StartTime,
	).Scan(&a.ID, &a.CreatedAt)
}

// SaveSubmission atomically records the answers and the graded aggregate of
// a submission. The attempt row is locked and re-checked inside the
// transaction, so a concurrent submit or force-submit for the same attempt
// loses cleanly: the guard fails and pgx.ErrNoRows is returned. A failure
// anywhere in the sequence rolls the whole submission back.
func (r *AttemptRepository) SaveSubmission(ctx context.Context, a *model.ExamAttempt, answers []model.Answer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var current model.AttemptStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM student_exams WHERE id = $1 FOR UPDATE`, a.ID,
	).Scan(&current)
	if err != nil {
		return err
	}
	if current != model.AttemptStatusInProgress {
		return pgx.ErrNoRows
	}

	for i := range answers {
		ans := &answers[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO student_answers (attempt_id, question_id, answer_type, answer_value, is_correct, marks_awarded)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			a.ID, ans.QuestionID, ans.AnswerType, ans.AnswerValue, ans.IsCorrect, ans.MarksAwarded,
		).Scan(&ans.ID, &ans.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
		ans.AttemptID = a.ID
	}

	_, err = tx.Exec(ctx,
		`UPDATE student_exams
		 SET status = $1, end_time = $2, time_taken_minutes = $3, mcq_score = $4,
		     coding_score = $5, total_score = $6, percentage = $7, result = $8
		 WHERE id = $9`,
		a.Status, a.EndTime, a.TimeTakenMinutes, a.MCQScore,
		a.CodingScore, a.TotalScore, a.Percentage, a.Result, a.ID)
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}

	return tx.Commit(ctx)
}

// ForceSubmit ends an in-progress attempt without touching its answers and
// flags it for review. Returns false if the attempt was no longer in
// progress (already submitted by the student or a concurrent force-submit).
func (r *AttemptRepository) ForceSubmit(ctx context.Context, id uuid.UUID, end time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE student_exams
		 SET status = $1, flagged_for_review = TRUE, end_time = $2,
		     time_taken_minutes = GREATEST(0, EXTRACT(EPOCH FROM $2::timestamptz - start_time)::int / 60)
		 WHERE id = $3 AND status = $4`,
		model.AttemptStatusSubmitted, end, id, model.AttemptStatusInProgress)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// FlaggedAttempt is an attempt flagged for review joined with its exam and
// student for the admin review queue.
type FlaggedAttempt struct {
	model.ExamAttempt
	ExamTitle   string `json:"exam_title"`
	StudentUSN  string `json:"student_usn"`
	StudentName string `json:"student_name"`
}

// ListFlagged retrieves attempts flagged for review, most recent first.
func (r *AttemptRepository) ListFlagged(ctx context.Context) ([]FlaggedAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT se.id, se.exam_id, se.student_id, se.status, se.start_time, se.end_time,
		        se.time_taken_minutes, se.mcq_score, se.coding_score, se.total_score,
		        se.percentage, se.result, se.violation_count, se.flagged_for_review, se.created_at,
		        e.title, u.usn, u.name
		 FROM student_exams se
		 JOIN exams e ON se.exam_id = e.id
		 JOIN users u ON se.student_id = u.id
		 WHERE se.flagged_for_review = TRUE
		 ORDER BY se.end_time DESC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flagged []FlaggedAttempt
	for rows.Next() {
		var f FlaggedAttempt
		a := &f.ExamAttempt
		if err := rows.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.Status, &a.StartTime, &a.EndTime,
			&a.TimeTakenMinutes, &a.MCQScore, &a.CodingScore, &a.TotalScore, &a.Percentage,
			&a.Result, &a.ViolationCount, &a.FlaggedForReview, &a.CreatedAt,
			&f.ExamTitle, &f.StudentUSN, &f.StudentName); err != nil {
			return nil, err
		}
		flagged = append(flagged, f)
	}
	return flagged, rows.Err()
}

// ExamResultRow is one student's outcome in the per-exam admin results view.
type ExamResultRow struct {
	model.ExamAttempt
	StudentUSN  string `json:"student_usn"`
	StudentName string `json:"student_name"`
}

// ListByExam retrieves submitted and evaluated attempts for an exam, best
// score first.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]ExamResultRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT se.id, se.exam_id, se.student_id, se.status, se.start_time, se.end_time,
		        se.time_taken_minutes, se.mcq_score, se.coding_score, se.total_score,
		        se.percentage, se.result, se.violation_count, se.flagged_for_review, se.created_at,
		        u.usn, u.name
		 FROM student_exams se
		 JOIN users u ON se.student_id = u.id
		 WHERE se.exam_id = $1 AND se.status IN ($2, $3)
		 ORDER BY se.total_score DESC`,
		examID, model.AttemptStatusSubmitted, model.AttemptStatusEvaluated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ExamResultRow
	for rows.Next() {
		var row ExamResultRow
		a := &row.ExamAttempt
		if err := rows.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.Status, &a.StartTime, &a.EndTime,
			&a.TimeTakenMinutes, &a.MCQScore, &a.CodingScore, &a.TotalScore, &a.Percentage,
			&a.Result, &a.ViolationCount, &a.FlaggedForReview, &a.CreatedAt,
			&row.StudentUSN, &row.StudentName); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ListEvaluatedByStudent retrieves a student's evaluated attempts with exam
// titles, newest first. Used in the admin per-student detail view.
func (r *AttemptRepository) ListEvaluatedByStudent(ctx context.Context, studentID int) ([]FlaggedAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT se.id, se.exam_id, se.student_id, se.status, se.start_time, se.end_time,
		        se.time_taken_minutes, se.mcq_score, se.coding_score, se.total_score,
		        se.percentage, se.result, se.violation_count, se.flagged_for_review, se.created_at,
		        e.title, u.usn, u.name
		 FROM student_exams se
		 JOIN exams e ON se.exam_id = e.id
		 JOIN users u ON se.student_id = u.id
		 WHERE se.student_id = $1 AND se.status = $2
		 ORDER BY se.end_time DESC NULLS LAST`,
		studentID, model.AttemptStatusEvaluated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []FlaggedAttempt
	for rows.Next() {
		var f FlaggedAttempt
		a := &f.ExamAttempt
		if err := rows.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.Status, &a.StartTime, &a.EndTime,
			&a.TimeTakenMinutes, &a.MCQScore, &a.CodingScore, &a.TotalScore, &a.Percentage,
			&a.Result, &a.ViolationCount, &a.FlaggedForReview, &a.CreatedAt,
			&f.ExamTitle, &f.StudentUSN, &f.StudentName); err != nil {
			return nil, err
		}
		attempts = append(attempts, f)
	}
	return attempts, rows.Err()
}
