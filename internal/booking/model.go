package booking

import (
	"net/http"
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "booking not found")
	// ErrSlotUnavailable is the recoverable conflict returned when the slot
	// filled up between the customer's availability check and the commit.
	// Clients should re-fetch availability and offer another time.
	ErrSlotUnavailable         = apperror.New(http.StatusConflict, "the selected slot is no longer available")
	ErrTechnicianUnavailable   = apperror.New(http.StatusConflict, "the selected technician is no longer available")
	ErrInvalidStatus           = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidStatusTransition = apperror.New(http.StatusConflict, "booking status transition not allowed")
	ErrBookingNotActive        = apperror.New(http.StatusConflict, "booking is already completed or cancelled")
)

// Booking is a customer reservation for one treatment at one slot.
// DurationMinutes and Price are denormalized at creation time from the
// treatment and its selected add-ons, so later menu edits never change
// what an existing booking occupies or costs.
type Booking struct {
	ID              string
	CustomerID      string
	TreatmentID     string
	AddOnIDs        []string
	Date            string // yyyy-MM-dd
	Time            string // HH:mm
	DurationMinutes int
	Price           int
	TechnicianID    *string
	Status          string
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for the staff booking list.
type Filter struct {
	Date         string
	Status       string
	CustomerID   string
	TechnicianID string
	Page         int
	PageSize     int
}

// SlotAvailability is one row of the public availability response.
type SlotAvailability struct {
	Time                     string
	Available                bool
	UnavailableTechnicianIDs []string
}

// DailySummary aggregates bookings for one date on the staff dashboard.
type DailySummary struct {
	Date     string
	Total    int
	ByStatus map[string]int
}
