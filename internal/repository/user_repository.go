package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placenet/placement-backend/internal/model"
)

// UserRepository handles user (student + admin) data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, usn, name, email, password_hash, role, branch, year, cgpa, backlogs, skills, phone, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.USN, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Branch, &u.Year, &u.CGPA, &u.Backlogs, &u.Skills, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail retrieves a user by email for login.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Create inserts a new user and fills in the generated id.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (usn, name, email, password_hash, role, branch, year, cgpa, backlogs, skills, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		u.USN, u.Name, u.Email, u.PasswordHash, u.Role,
		u.Branch, u.Year, u.CGPA, u.Backlogs, u.Skills, u.Phone,
	).Scan(&u.ID, &u.CreatedAt)
}

// UpdateProfile persists the whitelisted mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET name = $1, phone = $2, skills = $3, cgpa = $4, backlogs = $5
		 WHERE id = $6`,
		u.Name, u.Phone, u.Skills, u.CGPA, u.Backlogs, u.ID)
	return err
}

// ListStudents retrieves one page of student accounts, newest first.
func (r *UserRepository) ListStudents(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		model.RoleStudent, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountStudents returns the total number of student accounts.
func (r *UserRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, model.RoleStudent).Scan(&count)
	return count, err
}
