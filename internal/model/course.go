package model

import "time"

// CourseCategory groups preparation courses.
type CourseCategory string

const (
	CourseCategoryProgramming CourseCategory = "programming"
	CourseCategoryAptitude    CourseCategory = "aptitude"
)

// EnrollmentStatus tracks a student's progress through a course.
type EnrollmentStatus string

const (
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// Course is a placement-preparation course in the catalog.
type Course struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Category      CourseCategory `json:"category"`
	Description   string         `json:"description,omitempty"`
	Content       string         `json:"content,omitempty"`
	DurationHours int            `json:"duration_hours"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Enrollment is one student's enrollment in one course.
type Enrollment struct {
	ID                 int              `json:"id"`
	StudentID          int              `json:"student_id"`
	CourseID           int              `json:"course_id"`
	Status             EnrollmentStatus `json:"status"`
	ProgressPercentage int              `json:"progress_percentage"`
	EnrolledAt         time.Time        `json:"enrolled_at"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
}

// CourseWithEnrollment overlays a student's enrollment state onto a course.
type CourseWithEnrollment struct {
	Course
	Enrolled           bool             `json:"enrolled"`
	EnrollmentStatus   EnrollmentStatus `json:"enrollment_status,omitempty"`
	ProgressPercentage int              `json:"progress_percentage,omitempty"`
}

// UpdateProgressRequest is the payload for updating course progress.
type UpdateProgressRequest struct {
	ProgressPercentage *int `json:"progress_percentage" binding:"required,min=0,max=100"`
}
