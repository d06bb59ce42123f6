package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseMinutes converts an "HH:mm" label to minutes of day.
func ParseMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse time %q: %w", hhmm, ErrInvalidTime)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("parse time %q: %w", hhmm, ErrInvalidTime)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time %q: %w", hhmm, ErrInvalidTime)
	}
	return h*60 + m, nil
}

// ParseDate validates a "yyyy-MM-dd" date label.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, ErrInvalidDate)
	}
	return t, nil
}

// IsClosed reports whether the salon is closed on the given date, either by
// an explicit holiday entry or by the weekly schedule. Malformed dates are
// treated as closed.
func IsClosed(cfg Config, date string) bool {
	for _, h := range cfg.HolidayDates {
		if h == date {
			return true
		}
	}

	d, err := ParseDate(date)
	if err != nil {
		return true
	}

	return !cfg.Weekly[d.Weekday()].IsOpen
}

// SlotsForDate returns the slots offered on the given date, in start-time
// order: the configured slots restricted to that weekday's open window.
// Closed days (holiday or weekly) yield no slots.
func SlotsForDate(cfg Config, date string) []TimeSlot {
	if IsClosed(cfg, date) {
		return nil
	}

	d, _ := ParseDate(date)
	day := cfg.Weekly[d.Weekday()]

	openMin, err := ParseMinutes(day.Open)
	if err != nil {
		return nil
	}
	closeMin, err := ParseMinutes(day.Close)
	if err != nil {
		return nil
	}

	var slots []TimeSlot
	for _, s := range cfg.TimeSlots {
		m, err := ParseMinutes(s.Time)
		if err != nil {
			continue
		}
		if m < openMin || m >= closeMin {
			continue
		}
		slots = append(slots, s)
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time })
	return slots
}

// occupiedUntil returns the half-open occupied interval of a booking in
// minutes of day: [start, start+duration+buffer). Bookings without a usable
// duration fall back to DefaultDurationMinutes.
func occupiedUntil(b ExistingBooking, bufferMinutes int) (start, end int, ok bool) {
	start, err := ParseMinutes(b.Time)
	if err != nil {
		return 0, 0, false
	}
	dur := b.DurationMinutes
	if dur <= 0 {
		dur = DefaultDurationMinutes
	}
	return start, start + dur + bufferMinutes, true
}

// CheckInput carries the snapshot a single slot check runs against.
type CheckInput struct {
	Date string
	Time string
	// Bookings is the full set of bookings already on Date. Non-active
	// statuses are ignored here, so callers may pass an unfiltered fetch.
	Bookings []ExistingBooking
	// AvailableTechnicianIDs are technicians currently accepting bookings.
	// In assignment mode their count is the slot capacity.
	AvailableTechnicianIDs []string
	// CandidateTechnicianID, when set, additionally requires that specific
	// technician to be free at the checked time.
	CandidateTechnicianID string
}

// CheckSlot decides whether a new booking can be placed at (Date, Time).
//
// A slot is blocked both by bookings starting exactly then and by longer
// bookings from earlier slots still running over into it (including the
// configured buffer). The comparison is inclusive on the interval's lower
// bound and exclusive on the upper bound, so a booking ending exactly at
// the candidate start does not block it.
//
// Capacity precedence: when technician assignment is on, capacity is always
// the number of available technicians and any per-slot capacity value is
// ignored; otherwise the per-slot value applies, falling back to
// cfg.DefaultCapacity and then DefaultCapacity.
//
// CheckSlot is a pure function: it performs no I/O, holds no state, and
// callers must re-run it against a fresh snapshot on every date or time
// change. It only advises; the booking commit re-validates under a lock.
func CheckSlot(cfg Config, in CheckInput) Result {
	slots := SlotsForDate(cfg, in.Date)

	var slot *TimeSlot
	for i := range slots {
		if slots[i].Time == in.Time {
			slot = &slots[i]
			break
		}
	}
	// Closed day or a time outside the offered set is a normal
	// "unavailable", not an error.
	if slot == nil {
		return Result{Available: false}
	}

	candidateStart, err := ParseMinutes(in.Time)
	if err != nil {
		return Result{Available: false}
	}

	var (
		bookedCount  int
		overlapCount int
		takenByTech  = map[string]bool{}
	)

	for _, b := range in.Bookings {
		if !IsActiveStatus(b.Status) {
			continue
		}

		if b.Time == in.Time {
			bookedCount++
			if b.TechnicianID != "" {
				takenByTech[b.TechnicianID] = true
			}
			continue
		}

		start, end, ok := occupiedUntil(b, cfg.BufferMinutes)
		if !ok {
			continue
		}
		if start <= candidateStart && candidateStart < end {
			overlapCount++
		}
	}

	capacity := slotCapacity(cfg, *slot, len(in.AvailableTechnicianIDs))

	res := Result{
		Available: bookedCount+overlapCount < capacity,
	}

	for id := range takenByTech {
		res.UnavailableTechnicianIDs = append(res.UnavailableTechnicianIDs, id)
	}
	sort.Strings(res.UnavailableTechnicianIDs)

	if in.CandidateTechnicianID != "" && takenByTech[in.CandidateTechnicianID] {
		res.Available = false
	}

	return res
}

func slotCapacity(cfg Config, slot TimeSlot, availableTechnicians int) int {
	if cfg.UseTechnicianAssignment {
		return availableTechnicians
	}
	if slot.Capacity > 0 {
		return slot.Capacity
	}
	if cfg.DefaultCapacity > 0 {
		return cfg.DefaultCapacity
	}
	return DefaultCapacity
}
