package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// Job application errors.
var (
	ErrJobNotFound    = errors.New("job not found")
	ErrNotEligible    = errors.New("student does not meet the eligibility criteria")
	ErrDeadlinePassed = errors.New("the application deadline has passed")
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrJobClosed      = errors.New("job posting is closed")
)

// JobService handles job postings, eligibility, and applications.
type JobService struct {
	jobs  *repository.JobRepository
	users *repository.UserRepository
	log   zerolog.Logger
}

// NewJobService creates a new JobService.
func NewJobService(jobs *repository.JobRepository, users *repository.UserRepository, log zerolog.Logger) *JobService {
	return &JobService{
		jobs:  jobs,
		users: users,
		log:   log.With().Str("component", "job_service").Logger(),
	}
}

// JobForStudent is a job posting overlaid with the student's view of it.
type JobForStudent struct {
	model.Job
	Eligible bool `json:"eligible"`
	Applied  bool `json:"applied"`
}

// Create posts a new job.
func (s *JobService) Create(ctx context.Context, adminID int, req *model.CreateJobRequest) (*model.Job, error) {
	lastDate, err := time.Parse("2006-01-02", req.LastDate)
	if err != nil {
		return nil, fmt.Errorf("parse last date: %w", err)
	}

	jobType := model.JobType(req.JobType)
	if jobType == "" {
		jobType = model.JobTypeFullTime
	}

	job := &model.Job{
		CompanyName:         req.CompanyName,
		JobTitle:            req.JobTitle,
		Description:         req.Description,
		EligibilityCGPA:     req.EligibilityCGPA,
		EligibilityBranches: req.EligibilityBranches,
		MaxBacklogs:         req.MaxBacklogs,
		SalaryPackage:       req.SalaryPackage,
		JobType:             jobType,
		LastDate:            lastDate,
		Status:              model.JobStatusActive,
		PostedBy:            adminID,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// ListForStudent returns active jobs with the student's eligibility and
// application state overlaid.
func (s *JobService) ListForStudent(ctx context.Context, studentID int) ([]JobForStudent, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	jobs, err := s.jobs.ListByStatus(ctx, model.JobStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	applied, err := s.jobs.AppliedJobIDs(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	out := make([]JobForStudent, 0, len(jobs))
	for i := range jobs {
		out = append(out, JobForStudent{
			Job:      jobs[i],
			Eligible: Eligible(student, &jobs[i]),
			Applied:  applied[jobs[i].ID],
		})
	}
	return out, nil
}

// ListAll returns every job posting for the admin view.
func (s *JobService) ListAll(ctx context.Context) ([]model.Job, error) {
	return s.jobs.ListAll(ctx)
}

// Apply submits a student's application after checking status, deadline,
// eligibility, and duplicates, in that order.
func (s *JobService) Apply(ctx context.Context, studentID, jobID int) (*model.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.Status != model.JobStatusActive {
		return nil, ErrJobClosed
	}
	if time.Now().After(job.LastDate.Add(24 * time.Hour)) {
		// The deadline day itself still counts.
		return nil, ErrDeadlinePassed
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if !Eligible(student, job) {
		return nil, ErrNotEligible
	}

	exists, err := s.jobs.HasApplied(ctx, studentID, jobID)
	if err != nil {
		return nil, fmt.Errorf("check application: %w", err)
	}
	if exists {
		return nil, ErrAlreadyApplied
	}

	app := &model.JobApplication{
		JobID:     jobID,
		StudentID: studentID,
		Status:    model.ApplicationApplied,
	}
	if err := s.jobs.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.log.Info().Int("job_id", jobID).Int("student_id", studentID).Msg("job application submitted")
	return app, nil
}

// MyApplications returns the student's applications with job details.
func (s *JobService) MyApplications(ctx context.Context, studentID int) ([]repository.ApplicationWithJob, error) {
	return s.jobs.ListApplicationsByStudent(ctx, studentID)
}

// Applicants returns all applications for a job with applicant profiles.
func (s *JobService) Applicants(ctx context.Context, jobID int) ([]repository.ApplicantRow, error) {
	return s.jobs.ListApplicantsByJob(ctx, jobID)
}

// UpdateApplicationStatus moves an application through the hiring pipeline.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, applicationID int, req *model.UpdateApplicationStatusRequest) error {
	err := s.jobs.UpdateApplicationStatus(ctx, applicationID, model.ApplicationStatus(req.Status), req.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrJobNotFound
	}
	return err
}

// Eligible applies a job's eligibility criteria to a student profile:
// minimum CGPA, maximum backlogs, and branch membership. An empty branch
// list or the literal "all" admits every branch.
func Eligible(student *model.User, job *model.Job) bool {
	if student.CGPA < job.EligibilityCGPA {
		return false
	}
	if student.Backlogs > job.MaxBacklogs {
		return false
	}

	branches := strings.TrimSpace(job.EligibilityBranches)
	if branches == "" || strings.EqualFold(branches, "all") {
		return true
	}
	for _, b := range strings.Split(branches, ",") {
		if strings.EqualFold(strings.TrimSpace(b), student.Branch) {
			return true
		}
	}
	return false
}
