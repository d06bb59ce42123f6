package schedule

import (
	"context"
	"errors"
)

// UpdateRequest carries a full replacement of the slot configuration.
// Settings are edited as one document in the admin UI, so partial patching
// is not supported.
type UpdateRequest struct {
	TimeSlots               []TimeSlot
	Weekly                  [7]DaySchedule
	HolidayDates            []string
	BufferMinutes           int
	UseTechnicianAssignment bool
	DefaultCapacity         int
}

type Service interface {
	Get(ctx context.Context) (*Config, error)
	Update(ctx context.Context, req UpdateRequest) (*Config, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// DefaultConfig is the configuration used before an admin has saved one.
func DefaultConfig() *Config {
	cfg := &Config{
		TimeSlots: []TimeSlot{
			{Time: "10:00", Capacity: 1},
			{Time: "11:00", Capacity: 1},
			{Time: "13:00", Capacity: 1},
			{Time: "14:00", Capacity: 1},
			{Time: "15:00", Capacity: 1},
			{Time: "16:00", Capacity: 1},
			{Time: "17:00", Capacity: 1},
		},
		BufferMinutes:   0,
		DefaultCapacity: DefaultCapacity,
	}
	for d := range cfg.Weekly {
		cfg.Weekly[d] = DaySchedule{IsOpen: true, Open: "10:00", Close: "19:00"}
	}
	// Closed on Mondays by default.
	cfg.Weekly[1] = DaySchedule{IsOpen: false, Open: "", Close: ""}
	return cfg
}

func (s *service) Get(ctx context.Context) (*Config, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Config, error) {
	if req.BufferMinutes < 0 {
		return nil, ErrInvalidBuffer
	}
	if req.DefaultCapacity < 0 {
		return nil, ErrInvalidCapacity
	}

	for _, slot := range req.TimeSlots {
		if _, err := ParseMinutes(slot.Time); err != nil {
			return nil, ErrInvalidTime
		}
		if slot.Capacity < 0 {
			return nil, ErrInvalidCapacity
		}
	}
	for _, day := range req.Weekly {
		if !day.IsOpen {
			continue
		}
		if _, err := ParseMinutes(day.Open); err != nil {
			return nil, ErrInvalidTime
		}
		if _, err := ParseMinutes(day.Close); err != nil {
			return nil, ErrInvalidTime
		}
	}
	for _, h := range req.HolidayDates {
		if _, err := ParseDate(h); err != nil {
			return nil, ErrInvalidDate
		}
	}

	cfg := &Config{
		TimeSlots:               req.TimeSlots,
		Weekly:                  req.Weekly,
		HolidayDates:            req.HolidayDates,
		BufferMinutes:           req.BufferMinutes,
		UseTechnicianAssignment: req.UseTechnicianAssignment,
		DefaultCapacity:         req.DefaultCapacity,
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
