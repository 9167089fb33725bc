package model

import "time"

// Role distinguishes student and admin accounts.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents a registered account (student or placement admin).
type User struct {
	ID           int       `json:"id"`
	USN          string    `json:"usn"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Branch       string    `json:"branch,omitempty"`
	Year         int       `json:"year,omitempty"`
	CGPA         float64   `json:"cgpa"`
	Backlogs     int       `json:"backlogs"`
	Skills       string    `json:"skills,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for student self-registration.
type RegisterRequest struct {
	USN      string  `json:"usn" binding:"required,usn"`
	Name     string  `json:"name" binding:"required,min=2,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=128"`
	Branch   string  `json:"branch" binding:"required,min=2,max=50"`
	Year     int     `json:"year" binding:"required,min=1,max=5"`
	CGPA     float64 `json:"cgpa" binding:"min=0,max=10"`
	Backlogs int     `json:"backlogs" binding:"min=0"`
	Phone    string  `json:"phone" binding:"omitempty,min=7,max=15"`
}

// LoginRequest is the payload for student and admin authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest enumerates the mutable profile fields.
// Anything not listed here cannot be changed through the profile endpoint.
type UpdateProfileRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Phone    *string  `json:"phone" binding:"omitempty,min=7,max=15"`
	Skills   *string  `json:"skills" binding:"omitempty,max=500"`
	CGPA     *float64 `json:"cgpa" binding:"omitempty,min=0,max=10"`
	Backlogs *int     `json:"backlogs" binding:"omitempty,min=0"`
}
