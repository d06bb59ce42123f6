package treatment

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("treatment not found")
	ErrAddOnNotFound   = errors.New("add-on not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidPrice    = errors.New("price cannot be negative")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidImage    = errors.New("uploaded file is not a valid image")
)

// Treatment is a service on the salon menu (e.g. gel nails, eyelash set).
type Treatment struct {
	ID              string
	Name            string
	Description     string
	Price           int
	DurationMinutes int
	IsActive        bool
	PhotoPath       *string
	ThumbnailPath   *string
	SortOrder       int
	AddOns          []AddOn
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AddOn is an optional extra attached to a treatment. Selected add-ons
// extend the booking's total duration and price.
type AddOn struct {
	ID              string
	TreatmentID     string
	Name            string
	Price           int
	DurationMinutes int
}

// Filter defines parameters for listing treatments.
type Filter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}
