package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// Course enrollment errors.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotEnrolled     = errors.New("not enrolled in this course")
)

// CourseService handles the preparation course catalog and enrollments.
type CourseService struct {
	courses *repository.CourseRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses *repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req *model.Course) (*model.Course, error) {
	if err := s.courses.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return req, nil
}

// ListForStudent returns the catalog with the student's enrollment state.
func (s *CourseService) ListForStudent(ctx context.Context, studentID int) ([]model.CourseWithEnrollment, error) {
	return s.courses.ListWithEnrollment(ctx, studentID)
}

// Enroll adds a student to a course at zero progress.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID int) (*model.Enrollment, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	_, err := s.courses.GetEnrollment(ctx, studentID, courseID)
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentInProgress,
	}
	if err := s.courses.Enroll(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}
	return enrollment, nil
}

// UpdateProgress sets the student's progress in a course. Hitting 100
// marks the enrollment completed.
func (s *CourseService) UpdateProgress(ctx context.Context, studentID, courseID int, req *model.UpdateProgressRequest) (*model.Enrollment, error) {
	err := s.courses.UpdateProgress(ctx, studentID, courseID, *req.ProgressPercentage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return s.courses.GetEnrollment(ctx, studentID, courseID)
}
