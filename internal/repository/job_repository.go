package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// JobRepository handles job posting and application data access.
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, company_name, job_title, description, eligibility_cgpa, eligibility_branches,
	max_backlogs, salary_package, job_type, last_date, status, posted_by, posted_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	j := &model.Job{}
	err := row.Scan(&j.ID, &j.CompanyName, &j.JobTitle, &j.Description, &j.EligibilityCGPA,
		&j.EligibilityBranches, &j.MaxBacklogs, &j.SalaryPackage, &j.JobType,
		&j.LastDate, &j.Status, &j.PostedBy, &j.PostedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// GetByID retrieves a job by primary key.
func (r *JobRepository) GetByID(ctx context.Context, id int) (*model.Job, error) {
	return scanJob(r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

// Create inserts a new job posting.
func (r *JobRepository) Create(ctx context.Context, j *model.Job) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO jobs (company_name, job_title, description, eligibility_cgpa, eligibility_branches,
		                   max_backlogs, salary_package, job_type, last_date, status, posted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, posted_at`,
		j.CompanyName, j.JobTitle, j.Description, j.EligibilityCGPA, j.EligibilityBranches,
		j.MaxBacklogs, j.SalaryPackage, j.JobType, j.LastDate, j.Status, j.PostedBy,
	).Scan(&j.ID, &j.PostedAt)
}

// ListByStatus retrieves jobs with the given status, newest first.
func (r *JobRepository) ListByStatus(ctx context.Context, status model.JobStatus) ([]model.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY posted_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListAll retrieves every job posting, newest first.
func (r *JobRepository) ListAll(ctx context.Context) ([]model.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY posted_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows pgx.Rows) ([]model.Job, error) {
	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// ─── Applications ───────────────────────────────────────────────────────────

// HasApplied reports whether a student already applied to a job.
func (r *JobRepository) HasApplied(ctx context.Context, studentID, jobID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_applications WHERE student_id = $1 AND job_id = $2)`,
		studentID, jobID,
	).Scan(&exists)
	return exists, err
}

// CreateApplication inserts a new application.
func (r *JobRepository) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, student_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, applied_at, updated_at`,
		app.JobID, app.StudentID, app.Status,
	).Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt)
}

// AppliedJobIDs returns the set of job ids a student has applied to.
func (r *JobRepository) AppliedJobIDs(ctx context.Context, studentID int) (map[int]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT job_id FROM job_applications WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// ApplicationWithJob is an application joined with its job for listings.
type ApplicationWithJob struct {
	model.JobApplication
	CompanyName   string `json:"company_name"`
	JobTitle      string `json:"job_title"`
	SalaryPackage string `json:"salary_package,omitempty"`
}

// ListApplicationsByStudent retrieves a student's applications, newest first.
func (r *JobRepository) ListApplicationsByStudent(ctx context.Context, studentID int) ([]ApplicationWithJob, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ja.id, ja.job_id, ja.student_id, ja.status, ja.notes, ja.applied_at, ja.updated_at,
		        j.company_name, j.job_title, j.salary_package
		 FROM job_applications ja
		 JOIN jobs j ON ja.job_id = j.id
		 WHERE ja.student_id = $1
		 ORDER BY ja.applied_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []ApplicationWithJob
	for rows.Next() {
		var a ApplicationWithJob
		if err := rows.Scan(&a.ID, &a.JobID, &a.StudentID, &a.Status, &a.Notes, &a.AppliedAt, &a.UpdatedAt,
			&a.CompanyName, &a.JobTitle, &a.SalaryPackage); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ApplicantRow is an application joined with the applicant's profile.
type ApplicantRow struct {
	model.JobApplication
	USN      string  `json:"usn"`
	Name     string  `json:"name"`
	Branch   string  `json:"branch"`
	CGPA     float64 `json:"cgpa"`
	Backlogs int     `json:"backlogs"`
}

// ListApplicantsByJob retrieves all applications for a job with applicant
// details, newest first.
func (r *JobRepository) ListApplicantsByJob(ctx context.Context, jobID int) ([]ApplicantRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ja.id, ja.job_id, ja.student_id, ja.status, ja.notes, ja.applied_at, ja.updated_at,
		        u.usn, u.name, u.branch, u.cgpa, u.backlogs
		 FROM job_applications ja
		 JOIN users u ON ja.student_id = u.id
		 WHERE ja.job_id = $1
		 ORDER BY ja.applied_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []ApplicantRow
	for rows.Next() {
		var a ApplicantRow
		if err := rows.Scan(&a.ID, &a.JobID, &a.StudentID, &a.Status, &a.Notes, &a.AppliedAt, &a.UpdatedAt,
			&a.USN, &a.Name, &a.Branch, &a.CGPA, &a.Backlogs); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// UpdateApplicationStatus moves an application through the hiring pipeline.
func (r *JobRepository) UpdateApplicationStatus(ctx context.Context, id int, status model.ApplicationStatus, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE job_applications
		 SET status = $1, notes = $2, updated_at = NOW()
		 WHERE id = $3`, status, notes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
