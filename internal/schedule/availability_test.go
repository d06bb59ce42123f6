package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-07-01 is a Tuesday.
const testDate = "2025-07-01"

func openAllWeek(cfg *Config) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		cfg.Weekly[d] = DaySchedule{IsOpen: true, Open: "09:00", Close: "18:00"}
	}
}

func baseConfig() Config {
	cfg := Config{
		TimeSlots: []TimeSlot{
			{Time: "09:00", Capacity: 1},
			{Time: "10:00", Capacity: 1},
			{Time: "10:40", Capacity: 1},
			{Time: "14:00", Capacity: 1},
		},
	}
	openAllWeek(&cfg)
	return cfg
}

func TestParseMinutes(t *testing.T) {
	m, err := ParseMinutes("10:40")
	require.NoError(t, err)
	assert.Equal(t, 640, m)

	for _, bad := range []string{"", "10", "25:00", "10:75", "ab:cd"} {
		_, err := ParseMinutes(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", bad)
	}
}

func TestSlotsForDate(t *testing.T) {
	t.Run("holiday has no slots", func(t *testing.T) {
		cfg := baseConfig()
		cfg.HolidayDates = []string{testDate}

		assert.Empty(t, SlotsForDate(cfg, testDate))
		assert.True(t, IsClosed(cfg, testDate))
	})

	t.Run("closed weekday has no slots", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Weekly[time.Tuesday].IsOpen = false

		assert.Empty(t, SlotsForDate(cfg, testDate))
	})

	t.Run("slots outside the open window are dropped", func(t *testing.T) {
		cfg := baseConfig()
		cfg.TimeSlots = []TimeSlot{
			{Time: "18:00", Capacity: 1}, // at closing, excluded
			{Time: "10:00", Capacity: 1},
			{Time: "08:00", Capacity: 1}, // before opening
		}

		slots := SlotsForDate(cfg, testDate)
		require.Len(t, slots, 1)
		assert.Equal(t, "10:00", slots[0].Time)
	})

	t.Run("slots are sorted by start time", func(t *testing.T) {
		cfg := baseConfig()
		cfg.TimeSlots = []TimeSlot{
			{Time: "14:00", Capacity: 1},
			{Time: "09:00", Capacity: 1},
			{Time: "10:00", Capacity: 1},
		}

		slots := SlotsForDate(cfg, testDate)
		require.Len(t, slots, 3)
		assert.Equal(t, "09:00", slots[0].Time)
		assert.Equal(t, "14:00", slots[2].Time)
	})
}

func TestCheckSlotClosedDay(t *testing.T) {
	cfg := baseConfig()
	cfg.HolidayDates = []string{testDate}

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00"})
	assert.False(t, res.Available)
}

func TestCheckSlotUnknownTime(t *testing.T) {
	cfg := baseConfig()

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "11:11"})
	assert.False(t, res.Available)
}

func TestCheckSlotCapacityBoundary(t *testing.T) {
	cfg := baseConfig()
	cfg.TimeSlots = []TimeSlot{{Time: "10:00", Capacity: 3}}

	atCapacity := []ExistingBooking{
		{Time: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
		{Time: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
		{Time: "10:00", DurationMinutes: 60, Status: StatusAwaitingConfirmation},
	}

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00", Bookings: atCapacity})
	assert.False(t, res.Available, "3 active bookings fill a capacity-3 slot")

	res = CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00", Bookings: atCapacity[:2]})
	assert.True(t, res.Available, "2 active bookings leave room in a capacity-3 slot")
}

func TestCheckSlotOverlapBlocking(t *testing.T) {
	cfg := baseConfig()
	cfg.BufferMinutes = 10

	// Occupies [09:00, 10:40): 90 minutes plus 10 minutes buffer.
	bookings := []ExistingBooking{
		{Time: "09:00", DurationMinutes: 90, Status: StatusConfirmed},
	}

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00", Bookings: bookings})
	assert.False(t, res.Available, "10:00 falls inside the occupied interval")

	res = CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:40", Bookings: bookings})
	assert.True(t, res.Available, "the occupied interval is exclusive of its end")
}

func TestCheckSlotStatusExclusion(t *testing.T) {
	cfg := baseConfig()

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00", Bookings: []ExistingBooking{
		{Time: "10:00", DurationMinutes: 60, Status: StatusCompleted},
		{Time: "10:00", DurationMinutes: 60, Status: StatusCancelled},
		{Time: "09:00", DurationMinutes: 480, Status: StatusCancelled},
	}})
	assert.True(t, res.Available, "completed and cancelled bookings never occupy capacity")
}

func TestCheckSlotTechnicianExclusivity(t *testing.T) {
	cfg := baseConfig()
	cfg.UseTechnicianAssignment = true

	techs := []string{"tech-r", "tech-r2"}
	bookings := []ExistingBooking{
		{Time: "14:00", DurationMinutes: 60, TechnicianID: "tech-r", Status: StatusConfirmed},
	}

	res := CheckSlot(cfg, CheckInput{
		Date: testDate, Time: "14:00",
		Bookings:               bookings,
		AvailableTechnicianIDs: techs,
		CandidateTechnicianID:  "tech-r",
	})
	assert.False(t, res.Available, "tech-r already has a booking at 14:00")
	assert.Contains(t, res.UnavailableTechnicianIDs, "tech-r")
	assert.NotContains(t, res.UnavailableTechnicianIDs, "tech-r2")

	res = CheckSlot(cfg, CheckInput{
		Date: testDate, Time: "14:00",
		Bookings:               bookings,
		AvailableTechnicianIDs: techs,
		CandidateTechnicianID:  "tech-r2",
	})
	assert.True(t, res.Available, "tech-r2 is free and aggregate capacity allows one more")
}

func TestCheckSlotCapacityPrecedence(t *testing.T) {
	t.Run("technician assignment overrides per-slot capacity", func(t *testing.T) {
		cfg := baseConfig()
		cfg.UseTechnicianAssignment = true
		// Stale per-slot capacity must be ignored in assignment mode.
		cfg.TimeSlots = []TimeSlot{{Time: "10:00", Capacity: 5}}

		res := CheckSlot(cfg, CheckInput{
			Date: testDate, Time: "10:00",
			Bookings: []ExistingBooking{
				{Time: "10:00", DurationMinutes: 60, TechnicianID: "tech-a", Status: StatusConfirmed},
			},
			AvailableTechnicianIDs: []string{"tech-a"},
		})
		assert.False(t, res.Available, "one technician means capacity 1 regardless of the slot field")
	})

	t.Run("config default fills zero slot capacity", func(t *testing.T) {
		cfg := baseConfig()
		cfg.TimeSlots = []TimeSlot{{Time: "10:00"}}
		cfg.DefaultCapacity = 2

		res := CheckSlot(cfg, CheckInput{
			Date: testDate, Time: "10:00",
			Bookings: []ExistingBooking{
				{Time: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
			},
		})
		assert.True(t, res.Available)
	})

	t.Run("built-in default when nothing is configured", func(t *testing.T) {
		cfg := baseConfig()
		cfg.TimeSlots = []TimeSlot{{Time: "10:00"}}

		res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00"})
		assert.True(t, res.Available)

		res = CheckSlot(cfg, CheckInput{
			Date: testDate, Time: "10:00",
			Bookings: []ExistingBooking{
				{Time: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
			},
		})
		assert.False(t, res.Available)
	})
}

func TestCheckSlotDurationFallback(t *testing.T) {
	cfg := baseConfig()

	// A zero-duration booking at 09:00 still occupies the default 60 minutes.
	bookings := []ExistingBooking{
		{Time: "09:30", Status: StatusConfirmed},
	}
	cfg.TimeSlots = []TimeSlot{{Time: "10:00", Capacity: 1}, {Time: "09:30", Capacity: 1}}

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "10:00", Bookings: bookings})
	assert.False(t, res.Available)
}

func TestCheckSlotIdempotent(t *testing.T) {
	cfg := baseConfig()
	cfg.UseTechnicianAssignment = true

	in := CheckInput{
		Date: testDate, Time: "14:00",
		Bookings: []ExistingBooking{
			{Time: "14:00", DurationMinutes: 60, TechnicianID: "tech-b", Status: StatusConfirmed},
			{Time: "09:00", DurationMinutes: 400, TechnicianID: "tech-a", Status: StatusInProgress},
		},
		AvailableTechnicianIDs: []string{"tech-a", "tech-b", "tech-c"},
	}

	first := CheckSlot(cfg, in)
	second := CheckSlot(cfg, in)
	assert.Equal(t, first, second)
}

func TestCheckSlotOverlapPropagation(t *testing.T) {
	cfg := Config{
		TimeSlots: []TimeSlot{
			{Time: "09:00", Capacity: 2},
			{Time: "09:30", Capacity: 2},
		},
	}
	openAllWeek(&cfg)

	bookings := []ExistingBooking{
		{Time: "09:00", DurationMinutes: 60, Status: StatusConfirmed},
		{Time: "09:00", DurationMinutes: 60, Status: StatusConfirmed},
	}

	res := CheckSlot(cfg, CheckInput{Date: testDate, Time: "09:00", Bookings: bookings})
	assert.False(t, res.Available, "09:00 is at capacity")

	res = CheckSlot(cfg, CheckInput{Date: testDate, Time: "09:30", Bookings: bookings})
	assert.False(t, res.Available, "both 09:00 bookings run until 10:00 and block 09:30")
}
