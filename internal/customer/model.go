package customer

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("customer not found")
	ErrLineUserExists  = errors.New("line user already registered")
	ErrLineUserIDEmpty = errors.New("line_user_id is required")
	ErrEmptyName       = errors.New("name cannot be empty")
)

// Customer is a LINE user who books through the LIFF pages. Customers are
// keyed by their LINE user id; there is no password login on this side.
type Customer struct {
	ID          string
	LineUserID  string
	DisplayName string
	Phone       string
	// Note is free text visible to staff only (allergies, preferences).
	Note        string
	VisitCount  int
	LastVisitAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing customers.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
