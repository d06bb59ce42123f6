package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/customer"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/redislock"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment"
)

// 2025-07-01 is a Tuesday.
const testDate = "2025-07-01"

//
// Fakes
//

type fakeRepo struct {
	bookings []*Booking
	nextID   int

	createdIDs    []string
	statusUpdates map[string]string
	rescheduled   bool

	// beforeCreate, when set, runs once at the start of the next Create.
	beforeCreate func()
}

func newFakeRepo(existing ...*Booking) *fakeRepo {
	return &fakeRepo{
		bookings:      existing,
		nextID:        100,
		statusUpdates: map[string]string{},
	}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook()
	}
	r.nextID++
	b.ID = fmt.Sprintf("b-%d", r.nextID)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.bookings = append(r.bookings, b)
	r.createdIDs = append(r.createdIDs, b.ID)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Booking, int, error) {
	return r.bookings, len(r.bookings), nil
}

func (r *fakeRepo) ListByDate(_ context.Context, date string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByCustomer(_ context.Context, customerID string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id, status string) error {
	for _, b := range r.bookings {
		if b.ID == id {
			b.Status = status
			r.statusUpdates[id] = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) Reschedule(_ context.Context, id, date, slotTime string, technicianID *string) error {
	for _, b := range r.bookings {
		if b.ID == id {
			b.Date = date
			b.Time = slotTime
			b.TechnicianID = technicianID
			r.rescheduled = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	for i, b := range r.bookings {
		if b.ID == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) Summary(_ context.Context, _, _ string) ([]*DailySummary, error) {
	return nil, nil
}

type fakeSchedules struct {
	schedule.Service
	cfg *schedule.Config
}

func (f *fakeSchedules) Get(_ context.Context) (*schedule.Config, error) {
	return f.cfg, nil
}

type fakeTreatments struct {
	treatment.Service
	duration int
	price    int
	err      error
}

func (f *fakeTreatments) ResolveDuration(_ context.Context, _ string, _ []string) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.duration, f.price, nil
}

type fakeCustomers struct {
	customer.Service
	cust       *customer.Customer
	visitedIDs []string
}

func (f *fakeCustomers) GetOrCreate(_ context.Context, lineUserID, displayName string) (*customer.Customer, error) {
	return f.cust, nil
}

func (f *fakeCustomers) GetByLineUserID(_ context.Context, lineUserID string) (*customer.Customer, error) {
	if f.cust != nil && f.cust.LineUserID == lineUserID {
		return f.cust, nil
	}
	return nil, customer.ErrNotFound
}

func (f *fakeCustomers) RecordVisit(_ context.Context, id string, _ time.Time) error {
	f.visitedIDs = append(f.visitedIDs, id)
	return nil
}

type fakeTechnicians struct {
	technician.Service
	available []*technician.Technician
}

func (f *fakeTechnicians) ListAvailable(_ context.Context) ([]*technician.Technician, error) {
	return f.available, nil
}

func (f *fakeTechnicians) GetByID(_ context.Context, id string) (*technician.Technician, error) {
	for _, t := range f.available {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, technician.ErrNotFound
}

type fakeLocker struct {
	calls       int
	dates       []string
	acquireFail bool
}

func (l *fakeLocker) WithDayLock(ctx context.Context, date string, fn func(ctx context.Context) error) error {
	l.calls++
	l.dates = append(l.dates, date)
	if l.acquireFail {
		return redislock.ErrLockNotAcquired
	}
	return fn(ctx)
}

// serialLocker runs callbacks one at a time, like the real locker does
// for commits on the same date.
type serialLocker struct {
	mu sync.Mutex
}

func (l *serialLocker) WithDayLock(ctx context.Context, date string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

//
// Fixtures
//

func slotConfig() *schedule.Config {
	cfg := &schedule.Config{
		TimeSlots: []schedule.TimeSlot{
			{Time: "10:00", Capacity: 1},
			{Time: "11:00", Capacity: 1},
		},
	}
	for d := range cfg.Weekly {
		cfg.Weekly[d] = schedule.DaySchedule{IsOpen: true, Open: "09:00", Close: "18:00"}
	}
	return cfg
}

type deps struct {
	repo        *fakeRepo
	schedules   *fakeSchedules
	treatments  *fakeTreatments
	customers   *fakeCustomers
	technicians *fakeTechnicians
	locker      *fakeLocker
}

func newService(d deps) Service {
	return NewService(d.repo, d.schedules, d.treatments, d.customers, d.technicians, d.locker)
}

func defaultDeps(existing ...*Booking) deps {
	return deps{
		repo:       newFakeRepo(existing...),
		schedules:  &fakeSchedules{cfg: slotConfig()},
		treatments: &fakeTreatments{duration: 60, price: 8000},
		customers: &fakeCustomers{cust: &customer.Customer{
			ID:         "cust-1",
			LineUserID: "line-u1",
		}},
		technicians: &fakeTechnicians{},
		locker:      &fakeLocker{},
	}
}

func ptr(s string) *string { return &s }

//
// Tests
//

func TestCreateBooking(t *testing.T) {
	t.Run("success stores denormalized duration and price", func(t *testing.T) {
		d := defaultDeps()
		svc := newService(d)

		b, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, b.ID)
		assert.Equal(t, "cust-1", b.CustomerID)
		assert.Equal(t, 60, b.DurationMinutes)
		assert.Equal(t, 8000, b.Price)
		assert.Equal(t, schedule.StatusAwaitingConfirmation, b.Status)
		assert.Equal(t, 1, d.locker.calls, "the commit must run under the day lock")
		assert.Equal(t, []string{testDate}, d.locker.dates)
	})

	t.Run("full slot is a recoverable conflict", func(t *testing.T) {
		d := defaultDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.Empty(t, d.repo.createdIDs, "nothing must be inserted when the re-check fails")
	})

	t.Run("run-over booking blocks a later slot", func(t *testing.T) {
		d := defaultDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 90, Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "11:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("lock contention is a recoverable conflict", func(t *testing.T) {
		d := defaultDeps()
		d.locker.acquireFail = true
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("closed day is unavailable", func(t *testing.T) {
		d := defaultDeps()
		d.schedules.cfg.HolidayDates = []string{testDate}
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("unknown treatment", func(t *testing.T) {
		d := defaultDeps()
		d.treatments.err = treatment.ErrNotFound
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-x",
			Date:        testDate,
			Time:        "10:00",
		})
		assert.ErrorIs(t, err, ErrUnknownTreatment)
	})

	t.Run("malformed date", func(t *testing.T) {
		d := defaultDeps()
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        "01-07-2025",
			Time:        "10:00",
		})
		assert.ErrorIs(t, err, schedule.ErrInvalidDate)
		assert.Zero(t, d.locker.calls, "invalid input must fail before taking the lock")
	})
}

// Two concurrent creates at different times of the same day can still
// contend for capacity when the earlier one runs over into the later
// slot. The day lock must serialize them so the second commit sees the
// first in its snapshot.
func TestCreateBookingConcurrentRunOver(t *testing.T) {
	d := defaultDeps()
	d.treatments.duration = 90
	svc := NewService(d.repo, d.schedules, d.treatments, d.customers, d.technicians, &serialLocker{})

	entered := make(chan struct{})
	proceed := make(chan struct{})
	d.repo.beforeCreate = func() {
		close(entered)
		<-proceed
	}

	first := make(chan error, 1)
	go func() {
		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		first <- err
	}()
	<-entered

	second := make(chan error, 1)
	go func() {
		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "11:00",
		})
		second <- err
	}()

	// The 11:00 create must wait for the lock, not re-check against a
	// snapshot taken before the 10:00 insert.
	select {
	case err := <-second:
		t.Fatalf("create finished while another commit held the day lock: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(proceed)
	require.NoError(t, <-first)
	assert.ErrorIs(t, <-second, ErrSlotUnavailable, "the 10:00 booking runs until 11:30 and fills the 11:00 slot")
	assert.Len(t, d.repo.createdIDs, 1)
}

func TestCreateBookingTechnicianAssignment(t *testing.T) {
	assignmentDeps := func(existing ...*Booking) deps {
		d := defaultDeps(existing...)
		d.schedules.cfg.UseTechnicianAssignment = true
		d.technicians.available = []*technician.Technician{
			{ID: "tech-a", Status: technician.StatusAvailable},
			{ID: "tech-b", Status: technician.StatusAvailable},
		}
		return d
	}

	t.Run("auto-assigns a free technician", func(t *testing.T) {
		d := assignmentDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, TechnicianID: ptr("tech-a"),
			Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		b, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		require.NoError(t, err)
		require.NotNil(t, b.TechnicianID)
		assert.Equal(t, "tech-b", *b.TechnicianID, "tech-a is taken at 10:00")
	})

	t.Run("nominated technician already booked", func(t *testing.T) {
		d := assignmentDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, TechnicianID: ptr("tech-a"),
			Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:   "line-u1",
			TreatmentID:  "treat-1",
			Date:         testDate,
			Time:         "10:00",
			TechnicianID: ptr("tech-a"),
		})
		assert.ErrorIs(t, err, ErrTechnicianUnavailable)
	})

	t.Run("all technicians busy", func(t *testing.T) {
		d := assignmentDeps(
			&Booking{ID: "b-1", Date: testDate, Time: "10:00", DurationMinutes: 60, TechnicianID: ptr("tech-a"), Status: schedule.StatusConfirmed},
			&Booking{ID: "b-2", Date: testDate, Time: "10:00", DurationMinutes: 60, TechnicianID: ptr("tech-b"), Status: schedule.StatusConfirmed},
		)
		svc := newService(d)

		_, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:  "line-u1",
			TreatmentID: "treat-1",
			Date:        testDate,
			Time:        "10:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("cancelled booking frees its technician", func(t *testing.T) {
		d := assignmentDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, TechnicianID: ptr("tech-a"),
			Status: schedule.StatusCancelled,
		})
		svc := newService(d)

		b, err := svc.Create(context.Background(), CreateRequest{
			LineUserID:   "line-u1",
			TreatmentID:  "treat-1",
			Date:         testDate,
			Time:         "10:00",
			TechnicianID: ptr("tech-a"),
		})
		require.NoError(t, err)
		assert.Equal(t, "tech-a", *b.TechnicianID)
	})
}

func TestUpdateStatus(t *testing.T) {
	booked := func(status string) *Booking {
		return &Booking{
			ID: "b-1", CustomerID: "cust-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, Status: status,
		}
	}

	t.Run("confirm a pending booking", func(t *testing.T) {
		d := defaultDeps(booked(schedule.StatusAwaitingConfirmation))
		svc := newService(d)

		b, err := svc.UpdateStatus(context.Background(), "b-1", schedule.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, schedule.StatusConfirmed, b.Status)
		assert.Equal(t, schedule.StatusConfirmed, d.repo.statusUpdates["b-1"])
	})

	t.Run("completion records a customer visit", func(t *testing.T) {
		d := defaultDeps(booked(schedule.StatusInProgress))
		svc := newService(d)

		_, err := svc.UpdateStatus(context.Background(), "b-1", schedule.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, []string{"cust-1"}, d.customers.visitedIDs)
	})

	t.Run("terminal statuses cannot move", func(t *testing.T) {
		for _, terminal := range []string{schedule.StatusCompleted, schedule.StatusCancelled} {
			d := defaultDeps(booked(terminal))
			svc := newService(d)

			_, err := svc.UpdateStatus(context.Background(), "b-1", schedule.StatusConfirmed)
			assert.ErrorIs(t, err, ErrInvalidStatusTransition, "from %s", terminal)
		}
	})

	t.Run("skipping confirmation is not allowed", func(t *testing.T) {
		d := defaultDeps(booked(schedule.StatusAwaitingConfirmation))
		svc := newService(d)

		_, err := svc.UpdateStatus(context.Background(), "b-1", schedule.StatusInProgress)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("unknown status value", func(t *testing.T) {
		d := defaultDeps(booked(schedule.StatusConfirmed))
		svc := newService(d)

		_, err := svc.UpdateStatus(context.Background(), "b-1", "paused")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestReschedule(t *testing.T) {
	t.Run("moves to a free slot", func(t *testing.T) {
		d := defaultDeps(&Booking{
			ID: "b-1", CustomerID: "cust-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		b, err := svc.Reschedule(context.Background(), "b-1", RescheduleRequest{
			Date: testDate,
			Time: "11:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "11:00", b.Time)
		assert.True(t, d.repo.rescheduled)
	})

	t.Run("the booking does not block its own move", func(t *testing.T) {
		// Capacity 1 and the only existing booking is the one being moved:
		// rescheduling it to its own slot time must succeed.
		d := defaultDeps(&Booking{
			ID: "b-1", CustomerID: "cust-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		_, err := svc.Reschedule(context.Background(), "b-1", RescheduleRequest{
			Date: testDate,
			Time: "10:00",
		})
		assert.NoError(t, err)
	})

	t.Run("target slot full", func(t *testing.T) {
		d := defaultDeps(
			&Booking{ID: "b-1", Date: testDate, Time: "10:00", DurationMinutes: 60, Status: schedule.StatusConfirmed},
			&Booking{ID: "b-2", Date: testDate, Time: "11:00", DurationMinutes: 60, Status: schedule.StatusConfirmed},
		)
		svc := newService(d)

		_, err := svc.Reschedule(context.Background(), "b-1", RescheduleRequest{
			Date: testDate,
			Time: "11:00",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("completed bookings cannot be moved", func(t *testing.T) {
		d := defaultDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, Status: schedule.StatusCompleted,
		})
		svc := newService(d)

		_, err := svc.Reschedule(context.Background(), "b-1", RescheduleRequest{
			Date: testDate,
			Time: "11:00",
		})
		assert.ErrorIs(t, err, ErrBookingNotActive)
	})
}

func TestAvailability(t *testing.T) {
	t.Run("closed day returns no slots", func(t *testing.T) {
		d := defaultDeps()
		d.schedules.cfg.HolidayDates = []string{testDate}
		svc := newService(d)

		slots, err := svc.Availability(context.Background(), testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("reports per slot availability", func(t *testing.T) {
		d := defaultDeps(&Booking{
			ID: "b-1", Date: testDate, Time: "10:00",
			DurationMinutes: 60, Status: schedule.StatusConfirmed,
		})
		svc := newService(d)

		slots, err := svc.Availability(context.Background(), testDate)
		require.NoError(t, err)
		require.Len(t, slots, 2)

		assert.Equal(t, "10:00", slots[0].Time)
		assert.False(t, slots[0].Available)
		assert.Equal(t, "11:00", slots[1].Time)
		assert.True(t, slots[1].Available)
	})

	t.Run("malformed date", func(t *testing.T) {
		svc := newService(defaultDeps())

		_, err := svc.Availability(context.Background(), "not-a-date")
		assert.ErrorIs(t, err, schedule.ErrInvalidDate)
	})
}

func TestListByLineUser(t *testing.T) {
	t.Run("unknown line user gets an empty list", func(t *testing.T) {
		svc := newService(defaultDeps())

		bookings, err := svc.ListByLineUser(context.Background(), "line-stranger")
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})

	t.Run("returns the customer's bookings", func(t *testing.T) {
		d := defaultDeps(
			&Booking{ID: "b-1", CustomerID: "cust-1", Date: testDate, Time: "10:00", Status: schedule.StatusConfirmed},
			&Booking{ID: "b-2", CustomerID: "cust-other", Date: testDate, Time: "11:00", Status: schedule.StatusConfirmed},
		)
		svc := newService(d)

		bookings, err := svc.ListByLineUser(context.Background(), "line-u1")
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "b-1", bookings[0].ID)
	})
}
