package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// ErrUserNotFound is returned when the requested account does not exist.
var ErrUserNotFound = errors.New("user not found")

// StudentService handles student profile operations.
type StudentService struct {
	users *repository.UserRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(users *repository.UserRepository) *StudentService {
	return &StudentService{users: users}
}

// GetProfile retrieves a student's own profile.
func (s *StudentService) GetProfile(ctx context.Context, studentID int) (*model.User, error) {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the whitelisted mutable fields. USN, email, role,
// and password are not reachable from here.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID int, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.CGPA != nil {
		user.CGPA = *req.CGPA
	}
	if req.Backlogs != nil {
		user.Backlogs = *req.Backlogs
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Student directory paging bounds.
const (
	DefaultStudentsPerPage = 25
	maxStudentsPerPage     = 100
)

// ListStudents retrieves one page of the admin student directory along
// with the total student count. Out-of-range paging inputs are clamped
// rather than rejected; the effective page and page size are returned
// through the same values the caller passed after calling ClampPage.
func (s *StudentService) ListStudents(ctx context.Context, page, perPage int) ([]model.User, int, error) {
	page, perPage = ClampPage(page, perPage)

	total, err := s.users.CountStudents(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	students, err := s.users.ListStudents(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// ClampPage normalizes paging inputs into the allowed range.
func ClampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultStudentsPerPage
	}
	if perPage > maxStudentsPerPage {
		perPage = maxStudentsPerPage
	}
	return page, perPage
}
