package model

import "time"

// JobStatus enumerates job posting states.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// JobType distinguishes full-time offers from internships.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypeInternship JobType = "internship"
)

// Job represents a company job posting with eligibility thresholds.
type Job struct {
	ID                  int       `json:"id"`
	CompanyName         string    `json:"company_name"`
	JobTitle            string    `json:"job_title"`
	Description         string    `json:"description,omitempty"`
	EligibilityCGPA     float64   `json:"eligibility_cgpa"`
	EligibilityBranches string    `json:"eligibility_branches"`
	MaxBacklogs         int       `json:"max_backlogs"`
	SalaryPackage       string    `json:"salary_package,omitempty"`
	JobType             JobType   `json:"job_type"`
	LastDate            time.Time `json:"last_date"`
	Status              JobStatus `json:"status"`
	PostedBy            int       `json:"posted_by"`
	PostedAt            time.Time `json:"posted_at"`
}

// ApplicationStatus enumerates job application states.
type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "applied"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationSelected    ApplicationStatus = "selected"
)

// JobApplication is one student's application to one job.
type JobApplication struct {
	ID        int               `json:"id"`
	JobID     int               `json:"job_id"`
	StudentID int               `json:"student_id"`
	Status    ApplicationStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	AppliedAt time.Time         `json:"applied_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CreateJobRequest is the payload for posting a new job.
type CreateJobRequest struct {
	CompanyName         string  `json:"company_name" binding:"required,min=2,max=100"`
	JobTitle            string  `json:"job_title" binding:"required,min=2,max=100"`
	Description         string  `json:"description" binding:"omitempty,max=5000"`
	EligibilityCGPA     float64 `json:"eligibility_cgpa" binding:"min=0,max=10"`
	EligibilityBranches string  `json:"eligibility_branches" binding:"required"`
	MaxBacklogs         int     `json:"max_backlogs" binding:"min=0"`
	SalaryPackage       string  `json:"salary_package" binding:"omitempty,max=50"`
	JobType             string  `json:"job_type" binding:"omitempty,oneof=full_time internship"`
	LastDate            string  `json:"last_date" binding:"required,datetime=2006-01-02"`
}

// UpdateApplicationStatusRequest is the payload for moving an application
// through the hiring pipeline.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=applied shortlisted rejected selected"`
	Notes  string `json:"notes" binding:"omitempty,max=2000"`
}
