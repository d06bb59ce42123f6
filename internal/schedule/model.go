package schedule

import (
	"net/http"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "schedule settings not found")
	ErrInvalidTime     = apperror.New(http.StatusBadRequest, "time must be in HH:mm format")
	ErrInvalidDate     = apperror.New(http.StatusBadRequest, "date must be in yyyy-MM-dd format")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "slot capacity cannot be negative")
	ErrInvalidBuffer   = apperror.New(http.StatusBadRequest, "buffer minutes cannot be negative")
)

// Fallbacks applied when a booking or slot is missing the relevant value.
// These are the only places such defaults live; callers must not inline
// their own.
const (
	DefaultDurationMinutes = 60
	DefaultCapacity        = 1
)

// Booking status values as stored on booking records. The first three are
// "active": they occupy slot capacity. Completed and cancelled bookings
// never block a slot.
const (
	StatusAwaitingConfirmation = "awaiting_confirmation"
	StatusConfirmed            = "confirmed"
	StatusInProgress           = "in_progress"
	StatusCompleted            = "completed"
	StatusCancelled            = "cancelled"
)

// IsActiveStatus reports whether a booking with the given status occupies
// capacity.
func IsActiveStatus(status string) bool {
	switch status {
	case StatusAwaitingConfirmation, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// TimeSlot is a bookable start time offered to customers, with the number
// of concurrent bookings it admits when technician assignment is off.
type TimeSlot struct {
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
}

// DaySchedule is the open window for one weekday.
type DaySchedule struct {
	IsOpen bool   `json:"is_open"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

// Config is the salon-wide slot configuration. It is read-mostly: edited
// only through the admin settings surface and treated as immutable for the
// duration of a booking session.
type Config struct {
	ID        string
	TimeSlots []TimeSlot
	// Weekly is indexed by time.Weekday (Sunday = 0).
	Weekly [7]DaySchedule
	// HolidayDates overrides the weekly schedule to closed ("yyyy-MM-dd").
	HolidayDates []string
	// BufferMinutes is the minimum idle time enforced after a booking's end
	// before the slot or technician is considered free again.
	BufferMinutes int
	// UseTechnicianAssignment switches capacity from the per-slot value to
	// the number of available technicians.
	UseTechnicianAssignment bool
	// DefaultCapacity is used for slots whose own capacity is zero when
	// technician assignment is off.
	DefaultCapacity int
}

// ExistingBooking is the projection of a booking the availability checker
// needs. The checker has no dependency on the booking module so it stays a
// pure function over explicit inputs.
type ExistingBooking struct {
	Time            string
	DurationMinutes int
	TechnicianID    string // empty means unassigned
	Status          string
}

// Result is the outcome of a slot availability check.
type Result struct {
	Available bool
	// UnavailableTechnicianIDs are technicians with an active booking at
	// exactly the checked time, regardless of aggregate capacity.
	UnavailableTechnicianIDs []string
}
