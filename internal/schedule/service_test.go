package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	cfg *Config
}

func (r *fakeRepo) Get(_ context.Context) (*Config, error) {
	if r.cfg == nil {
		return nil, ErrNotFound
	}
	return r.cfg, nil
}

func (r *fakeRepo) Save(_ context.Context, cfg *Config) error {
	r.cfg = cfg
	return nil
}

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := NewService(&fakeRepo{})

	cfg, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.TimeSlots)
	assert.False(t, cfg.Weekly[time.Monday].IsOpen, "default schedule closes on Mondays")
	assert.True(t, cfg.Weekly[time.Tuesday].IsOpen)
}

func TestUpdateValidation(t *testing.T) {
	openWeek := func() (w [7]DaySchedule) {
		for d := range w {
			w[d] = DaySchedule{IsOpen: true, Open: "09:00", Close: "18:00"}
		}
		return w
	}

	valid := UpdateRequest{
		TimeSlots:    []TimeSlot{{Time: "10:00", Capacity: 2}},
		Weekly:       openWeek(),
		HolidayDates: []string{"2025-12-31"},
	}

	tests := []struct {
		name    string
		mutate  func(*UpdateRequest)
		wantErr error
	}{
		{"negative buffer", func(r *UpdateRequest) { r.BufferMinutes = -1 }, ErrInvalidBuffer},
		{"negative default capacity", func(r *UpdateRequest) { r.DefaultCapacity = -1 }, ErrInvalidCapacity},
		{"bad slot time", func(r *UpdateRequest) { r.TimeSlots[0].Time = "25:00" }, ErrInvalidTime},
		{"negative slot capacity", func(r *UpdateRequest) { r.TimeSlots[0].Capacity = -1 }, ErrInvalidCapacity},
		{"bad open time", func(r *UpdateRequest) { r.Weekly[0].Open = "9am" }, ErrInvalidTime},
		{"bad holiday date", func(r *UpdateRequest) { r.HolidayDates[0] = "31/12/2025" }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRepo{})

			req := valid
			req.TimeSlots = []TimeSlot{valid.TimeSlots[0]}
			req.HolidayDates = []string{valid.HolidayDates[0]}
			tt.mutate(&req)

			_, err := svc.Update(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("valid request is persisted", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		req := valid
		req.BufferMinutes = 15
		req.UseTechnicianAssignment = true

		cfg, err := svc.Update(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 15, cfg.BufferMinutes)
		assert.True(t, cfg.UseTechnicianAssignment)
		assert.Same(t, repo.cfg, cfg)
	})

	t.Run("closed days skip open window validation", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		req := valid
		req.Weekly[time.Monday] = DaySchedule{IsOpen: false}

		_, err := svc.Update(context.Background(), req)
		assert.NoError(t, err)
	})
}
