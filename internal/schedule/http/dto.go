package http

import (
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule"
)

type TimeSlotPayload struct {
	Time     string `json:"time" binding:"required"`
	Capacity int    `json:"capacity"`
}

type DaySchedulePayload struct {
	IsOpen bool   `json:"is_open"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

// UpdateScheduleRequest replaces the whole slot configuration.
type UpdateScheduleRequest struct {
	TimeSlots               []TimeSlotPayload      `json:"time_slots" binding:"required"`
	Weekly                  [7]DaySchedulePayload  `json:"weekly"`
	HolidayDates            []string               `json:"holiday_dates"`
	BufferMinutes           int                    `json:"buffer_minutes"`
	UseTechnicianAssignment bool                   `json:"use_technician_assignment"`
	DefaultCapacity         int                    `json:"default_capacity"`
}

func (r *UpdateScheduleRequest) ToUpdateRequest() schedule.UpdateRequest {
	req := schedule.UpdateRequest{
		HolidayDates:            r.HolidayDates,
		BufferMinutes:           r.BufferMinutes,
		UseTechnicianAssignment: r.UseTechnicianAssignment,
		DefaultCapacity:         r.DefaultCapacity,
	}
	for _, s := range r.TimeSlots {
		req.TimeSlots = append(req.TimeSlots, schedule.TimeSlot{Time: s.Time, Capacity: s.Capacity})
	}
	for i, d := range r.Weekly {
		req.Weekly[i] = schedule.DaySchedule{IsOpen: d.IsOpen, Open: d.Open, Close: d.Close}
	}
	return req
}

type ScheduleResponse struct {
	TimeSlots               []TimeSlotPayload     `json:"time_slots"`
	Weekly                  [7]DaySchedulePayload `json:"weekly"`
	HolidayDates            []string              `json:"holiday_dates"`
	BufferMinutes           int                   `json:"buffer_minutes"`
	UseTechnicianAssignment bool                  `json:"use_technician_assignment"`
	DefaultCapacity         int                   `json:"default_capacity"`
}

func NewScheduleResponse(cfg *schedule.Config) ScheduleResponse {
	resp := ScheduleResponse{
		TimeSlots:               make([]TimeSlotPayload, 0, len(cfg.TimeSlots)),
		HolidayDates:            cfg.HolidayDates,
		BufferMinutes:           cfg.BufferMinutes,
		UseTechnicianAssignment: cfg.UseTechnicianAssignment,
		DefaultCapacity:         cfg.DefaultCapacity,
	}
	if resp.HolidayDates == nil {
		resp.HolidayDates = make([]string, 0)
	}
	for _, s := range cfg.TimeSlots {
		resp.TimeSlots = append(resp.TimeSlots, TimeSlotPayload{Time: s.Time, Capacity: s.Capacity})
	}
	for i, d := range cfg.Weekly {
		resp.Weekly[i] = DaySchedulePayload{IsOpen: d.IsOpen, Open: d.Open, Close: d.Close}
	}
	return resp
}
