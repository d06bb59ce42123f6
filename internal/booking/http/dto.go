package http

import (
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/booking"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/request"
)

type AvailabilityRequest struct {
	Date string `form:"date" binding:"required"`
}

type SlotAvailabilityResponse struct {
	Time                     string   `json:"time"`
	Available                bool     `json:"available"`
	UnavailableTechnicianIDs []string `json:"unavailable_technician_ids"`
}

func NewSlotAvailabilityResponse(s booking.SlotAvailability) SlotAvailabilityResponse {
	ids := s.UnavailableTechnicianIDs
	if ids == nil {
		ids = []string{}
	}
	return SlotAvailabilityResponse{
		Time:                     s.Time,
		Available:                s.Available,
		UnavailableTechnicianIDs: ids,
	}
}

type CreateBookingRequest struct {
	LineUserID   string   `json:"line_user_id" binding:"required"`
	DisplayName  string   `json:"display_name"`
	TreatmentID  string   `json:"treatment_id" binding:"required,uuid"`
	AddOnIDs     []string `json:"add_on_ids" binding:"omitempty,dive,uuid"`
	Date         string   `json:"date" binding:"required"`
	Time         string   `json:"time" binding:"required"`
	TechnicianID *string  `json:"technician_id" binding:"omitempty,uuid"`
	Note         string   `json:"note"`
}

type ListBookingsRequest struct {
	request.ListParams
	Date         string `form:"date"`
	Status       string `form:"status"`
	CustomerID   string `form:"customer_id" binding:"omitempty,uuid"`
	TechnicianID string `form:"technician_id" binding:"omitempty,uuid"`
}

type MyBookingsRequest struct {
	LineUserID string `form:"line_user_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RescheduleBookingRequest struct {
	Date         string  `json:"date" binding:"required"`
	Time         string  `json:"time" binding:"required"`
	TechnicianID *string `json:"technician_id" binding:"omitempty,uuid"`
}

type SummaryRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	TreatmentID     string    `json:"treatment_id"`
	AddOnIDs        []string  `json:"add_on_ids"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           int       `json:"price"`
	TechnicianID    *string   `json:"technician_id"`
	Status          string    `json:"status"`
	Note            string    `json:"note"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	addOnIDs := b.AddOnIDs
	if addOnIDs == nil {
		addOnIDs = []string{}
	}
	return BookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		TreatmentID:     b.TreatmentID,
		AddOnIDs:        addOnIDs,
		Date:            b.Date,
		Time:            b.Time,
		DurationMinutes: b.DurationMinutes,
		Price:           b.Price,
		TechnicianID:    b.TechnicianID,
		Status:          b.Status,
		Note:            b.Note,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

type DailySummaryResponse struct {
	Date     string         `json:"date"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func NewDailySummaryResponse(s *booking.DailySummary) DailySummaryResponse {
	return DailySummaryResponse{
		Date:     s.Date,
		Total:    s.Total,
		ByStatus: s.ByStatus,
	}
}
