package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// User is a staff account for the admin dashboard. Customers never have
// one; they are identified by their LINE user id.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	IsActive     bool
	IsAdmin      bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// Filter defines filter options for listing staff users.
type Filter struct {
	Email    string
	IsActive *bool // Use pointer to distinguish between false and nil (not set)
	Page     int
	PageSize int
}
