package technician

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("technician not found")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrInvalidStatus = errors.New("invalid technician status")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// Technician is a staff member who can be exclusively assigned to one
// booking at a time.
type Technician struct {
	ID        string
	Name      string
	// Specialty is free text shown on the booking page (e.g. "nails", "eyelash").
	Specialty string
	Status    Status
	SortOrder int
	CreatedAt time.Time
}

// Filter defines parameters for listing technicians.
type Filter struct {
	Status   string
	Page     int
	PageSize int
}
