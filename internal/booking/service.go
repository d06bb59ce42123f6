package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/customer"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/apperror"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/redislock"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment"
)

var (
	ErrUnknownTreatment = apperror.New(http.StatusBadRequest, "unknown treatment or add-on")
	ErrUnknownCustomer  = apperror.New(http.StatusBadRequest, "line_user_id is required")
)

// CreateRequest is a booking attempt from the LIFF booking page.
type CreateRequest struct {
	LineUserID  string
	DisplayName string
	TreatmentID string
	AddOnIDs    []string
	Date        string
	Time        string
	// TechnicianID, when set, is the customer's nominated technician.
	// When nil under technician assignment, one is assigned automatically.
	TechnicianID *string
	Note         string
}

type RescheduleRequest struct {
	Date string
	Time string
	// TechnicianID replaces the current assignment. Nil re-runs automatic
	// assignment under technician mode.
	TechnicianID *string
}

type Service interface {
	// Availability returns per-slot availability for a date. Closed days
	// return an empty list.
	Availability(ctx context.Context, date string) ([]SlotAvailability, error)

	// Create places a booking. The slot is re-validated under a per slot
	// lock immediately before the insert, so a successful return means the
	// booking really fit; a full slot is reported as ErrSlotUnavailable.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListByLineUser(ctx context.Context, lineUserID string) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*Booking, error)
	Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Booking, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, fromDate, toDate string) ([]*DailySummary, error)
}

type service struct {
	repo        Repository
	schedules   schedule.Service
	treatments  treatment.Service
	customers   customer.Service
	technicians technician.Service
	locker      redislock.DayLocker
}

func NewService(
	repo Repository,
	schedules schedule.Service,
	treatments treatment.Service,
	customers customer.Service,
	technicians technician.Service,
	locker redislock.DayLocker,
) Service {
	return &service{
		repo:        repo,
		schedules:   schedules,
		treatments:  treatments,
		customers:   customers,
		technicians: technicians,
		locker:      locker,
	}
}

// allowedTransitions is the booking lifecycle. Completed and cancelled are
// terminal.
var allowedTransitions = map[string][]string{
	schedule.StatusAwaitingConfirmation: {schedule.StatusConfirmed, schedule.StatusCancelled},
	schedule.StatusConfirmed:            {schedule.StatusInProgress, schedule.StatusCompleted, schedule.StatusCancelled},
	schedule.StatusInProgress:           {schedule.StatusCompleted, schedule.StatusCancelled},
	schedule.StatusCompleted:            {},
	schedule.StatusCancelled:            {},
}

func isKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func toExisting(bookings []*Booking) []schedule.ExistingBooking {
	existing := make([]schedule.ExistingBooking, len(bookings))
	for i, b := range bookings {
		var techID string
		if b.TechnicianID != nil {
			techID = *b.TechnicianID
		}
		existing[i] = schedule.ExistingBooking{
			Time:            b.Time,
			DurationMinutes: b.DurationMinutes,
			TechnicianID:    techID,
			Status:          b.Status,
		}
	}
	return existing
}

// busyTechnicians returns technicians occupied at slotTime, counting both
// bookings starting exactly then and earlier ones still running over
// (duration plus buffer).
func busyTechnicians(cfg *schedule.Config, bookings []*Booking, slotTime string) map[string]bool {
	busy := map[string]bool{}

	slotStart, err := schedule.ParseMinutes(slotTime)
	if err != nil {
		return busy
	}

	for _, b := range bookings {
		if b.TechnicianID == nil || !schedule.IsActiveStatus(b.Status) {
			continue
		}
		start, err := schedule.ParseMinutes(b.Time)
		if err != nil {
			continue
		}
		dur := b.DurationMinutes
		if dur <= 0 {
			dur = schedule.DefaultDurationMinutes
		}
		if start <= slotStart && slotStart < start+dur+cfg.BufferMinutes {
			busy[*b.TechnicianID] = true
		}
	}
	return busy
}

func (s *service) availableTechnicianIDs(ctx context.Context, cfg *schedule.Config) ([]string, error) {
	if !cfg.UseTechnicianAssignment {
		return nil, nil
	}
	technicians, err := s.technicians.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(technicians))
	for i, t := range technicians {
		ids[i] = t.ID
	}
	return ids, nil
}

func (s *service) Availability(ctx context.Context, date string) ([]SlotAvailability, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, err
	}

	cfg, err := s.schedules.Get(ctx)
	if err != nil {
		return nil, err
	}

	slots := schedule.SlotsForDate(*cfg, date)
	if len(slots) == 0 {
		return []SlotAvailability{}, nil
	}

	bookings, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	existing := toExisting(bookings)

	availableTechs, err := s.availableTechnicianIDs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	result := make([]SlotAvailability, len(slots))
	for i, slot := range slots {
		res := schedule.CheckSlot(*cfg, schedule.CheckInput{
			Date:                   date,
			Time:                   slot.Time,
			Bookings:               existing,
			AvailableTechnicianIDs: availableTechs,
		})
		result[i] = SlotAvailability{
			Time:                     slot.Time,
			Available:                res.Available,
			UnavailableTechnicianIDs: res.UnavailableTechnicianIDs,
		}
	}
	return result, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if strings.TrimSpace(req.LineUserID) == "" {
		return nil, ErrUnknownCustomer
	}
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return nil, err
	}
	if _, err := schedule.ParseMinutes(req.Time); err != nil {
		return nil, err
	}

	duration, price, err := s.treatments.ResolveDuration(ctx, req.TreatmentID, req.AddOnIDs)
	if err != nil {
		if errors.Is(err, treatment.ErrNotFound) || errors.Is(err, treatment.ErrAddOnNotFound) {
			return nil, ErrUnknownTreatment
		}
		return nil, err
	}

	if req.TechnicianID != nil {
		t, err := s.technicians.GetByID(ctx, *req.TechnicianID)
		if err != nil {
			if errors.Is(err, technician.ErrNotFound) {
				return nil, ErrTechnicianUnavailable
			}
			return nil, err
		}
		if t.Status != technician.StatusAvailable {
			return nil, ErrTechnicianUnavailable
		}
	}

	cust, err := s.customers.GetOrCreate(ctx, req.LineUserID, req.DisplayName)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		CustomerID:      cust.ID,
		TreatmentID:     req.TreatmentID,
		AddOnIDs:        req.AddOnIDs,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: duration,
		Price:           price,
		TechnicianID:    req.TechnicianID,
		Status:          schedule.StatusAwaitingConfirmation,
		Note:            req.Note,
	}

	err = s.locker.WithDayLock(ctx, req.Date, func(ctx context.Context) error {
		return s.commitAt(ctx, b, "")
	})
	if err != nil {
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	return b, nil
}

// commitAt re-validates the slot against a fresh snapshot and inserts the
// booking. It must only run inside the day lock. excludeBookingID removes
// the booking itself from the snapshot when rescheduling.
func (s *service) commitAt(ctx context.Context, b *Booking, excludeBookingID string) error {
	cfg, err := s.schedules.Get(ctx)
	if err != nil {
		return err
	}

	bookings, err := s.repo.ListByDate(ctx, b.Date)
	if err != nil {
		return err
	}
	if excludeBookingID != "" {
		kept := bookings[:0]
		for _, other := range bookings {
			if other.ID != excludeBookingID {
				kept = append(kept, other)
			}
		}
		bookings = kept
	}

	availableTechs, err := s.availableTechnicianIDs(ctx, cfg)
	if err != nil {
		return err
	}

	var candidate string
	if b.TechnicianID != nil {
		candidate = *b.TechnicianID
	}

	res := schedule.CheckSlot(*cfg, schedule.CheckInput{
		Date:                   b.Date,
		Time:                   b.Time,
		Bookings:               toExisting(bookings),
		AvailableTechnicianIDs: availableTechs,
		CandidateTechnicianID:  candidate,
	})

	busy := busyTechnicians(cfg, bookings, b.Time)
	if candidate != "" && busy[candidate] {
		return ErrTechnicianUnavailable
	}
	if !res.Available {
		return ErrSlotUnavailable
	}

	if cfg.UseTechnicianAssignment && b.TechnicianID == nil {
		assigned := ""
		for _, id := range availableTechs {
			if !busy[id] {
				assigned = id
				break
			}
		}
		if assigned == "" {
			return ErrSlotUnavailable
		}
		b.TechnicianID = &assigned
	}

	if excludeBookingID != "" {
		return s.repo.Reschedule(ctx, excludeBookingID, b.Date, b.Time, b.TechnicianID)
	}
	return s.repo.Create(ctx, b)
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Status != "" && !isKnownStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) ListByLineUser(ctx context.Context, lineUserID string) ([]*Booking, error) {
	cust, err := s.customers.GetByLineUserID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return []*Booking{}, nil
		}
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, cust.ID)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Booking, error) {
	if !isKnownStatus(status) {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range allowedTransitions[b.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%s to %s: %w", b.Status, status, ErrInvalidStatusTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	b.Status = status

	if status == schedule.StatusCompleted {
		// The booking is already completed; a failed visit counter bump
		// should not fail the request.
		_ = s.customers.RecordVisit(ctx, b.CustomerID, time.Now().UTC())
	}

	return b, nil
}

func (s *service) Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Booking, error) {
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return nil, err
	}
	if _, err := schedule.ParseMinutes(req.Time); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !schedule.IsActiveStatus(b.Status) {
		return nil, ErrBookingNotActive
	}

	if req.TechnicianID != nil {
		t, err := s.technicians.GetByID(ctx, *req.TechnicianID)
		if err != nil {
			if errors.Is(err, technician.ErrNotFound) {
				return nil, ErrTechnicianUnavailable
			}
			return nil, err
		}
		if t.Status != technician.StatusAvailable {
			return nil, ErrTechnicianUnavailable
		}
	}

	moved := *b
	moved.Date = req.Date
	moved.Time = req.Time
	moved.TechnicianID = req.TechnicianID

	err = s.locker.WithDayLock(ctx, req.Date, func(ctx context.Context) error {
		return s.commitAt(ctx, &moved, b.ID)
	})
	if err != nil {
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	return &moved, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Summary(ctx context.Context, fromDate, toDate string) ([]*DailySummary, error) {
	if _, err := schedule.ParseDate(fromDate); err != nil {
		return nil, err
	}
	if _, err := schedule.ParseDate(toDate); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, fromDate, toDate)
}
