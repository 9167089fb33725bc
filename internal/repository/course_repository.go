package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// CourseRepository handles course and enrollment data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, category, description, content, duration_hours, created_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Category, &c.Description,
		&c.Content, &c.DurationHours, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a course by primary key.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, category, description, content, duration_hours)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.Title, c.Category, c.Description, c.Content, c.DurationHours,
	).Scan(&c.ID, &c.CreatedAt)
}

// ListWithEnrollment retrieves the catalog overlaid with the student's
// enrollment state where one exists.
func (r *CourseRepository) ListWithEnrollment(ctx context.Context, studentID int) ([]model.CourseWithEnrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.title, c.category, c.description, c.content, c.duration_hours, c.created_at,
		        sc.status, sc.progress_percentage
		 FROM courses c
		 LEFT JOIN student_courses sc ON sc.course_id = c.id AND sc.student_id = $1
		 ORDER BY c.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.CourseWithEnrollment
	for rows.Next() {
		var (
			c        model.CourseWithEnrollment
			status   *model.EnrollmentStatus
			progress *int
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Description,
			&c.Content, &c.DurationHours, &c.CreatedAt, &status, &progress); err != nil {
			return nil, err
		}
		if status != nil {
			c.Enrolled = true
			c.EnrollmentStatus = *status
			c.ProgressPercentage = *progress
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetEnrollment retrieves a student's enrollment in a course.
func (r *CourseRepository) GetEnrollment(ctx context.Context, studentID, courseID int) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at
		 FROM student_courses
		 WHERE student_id = $1 AND course_id = $2`, studentID, courseID,
	).Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.ProgressPercentage, &e.EnrolledAt, &e.CompletedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Enroll inserts a new enrollment at zero progress.
func (r *CourseRepository) Enroll(ctx context.Context, e *model.Enrollment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO student_courses (student_id, course_id, status, progress_percentage)
		 VALUES ($1, $2, $3, 0)
		 RETURNING id, enrolled_at`,
		e.StudentID, e.CourseID, model.EnrollmentInProgress,
	).Scan(&e.ID, &e.EnrolledAt)
}

// UpdateProgress sets the progress percentage for an enrollment. Reaching
// 100 marks the enrollment completed and stamps completed_at once; the
// stamp survives later progress updates. Returns pgx.ErrNoRows when no
// enrollment exists.
func (r *CourseRepository) UpdateProgress(ctx context.Context, studentID, courseID, progress int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE student_courses
		 SET progress_percentage = $1,
		     status = CASE WHEN $1 >= 100 THEN 'completed' ELSE 'in_progress' END,
		     completed_at = CASE WHEN $1 >= 100 THEN COALESCE(completed_at, NOW()) ELSE completed_at END
		 WHERE student_id = $2 AND course_id = $3`,
		progress, studentID, courseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
