package http

import (
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/request"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment"
)

// ListTreatmentsRequest defines query parameters for listing treatments.
type ListTreatmentsRequest struct {
	request.ListParams
	ActiveOnly bool `form:"active_only"`
}

type AddOnPayload struct {
	Name            string `json:"name" binding:"required"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

type AddOnResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

type TreatmentResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           int             `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
	PhotoPath       *string         `json:"photo_path"`
	ThumbnailPath   *string         `json:"thumbnail_path"`
	SortOrder       int             `json:"sort_order"`
	AddOns          []AddOnResponse `json:"add_ons"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TreatmentTag is the minimal treatment reference embedded in other
// modules' responses.
type TreatmentTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewTreatmentResponse(t *treatment.Treatment) TreatmentResponse {
	resp := TreatmentResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Price:           t.Price,
		DurationMinutes: t.DurationMinutes,
		IsActive:        t.IsActive,
		PhotoPath:       t.PhotoPath,
		ThumbnailPath:   t.ThumbnailPath,
		SortOrder:       t.SortOrder,
		AddOns:          make([]AddOnResponse, 0, len(t.AddOns)),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	for _, a := range t.AddOns {
		resp.AddOns = append(resp.AddOns, AddOnResponse{
			ID:              a.ID,
			Name:            a.Name,
			Price:           a.Price,
			DurationMinutes: a.DurationMinutes,
		})
	}
	return resp
}

type CreateTreatmentRequest struct {
	Name            string         `json:"name" binding:"required"`
	Description     string         `json:"description"`
	Price           int            `json:"price" binding:"min=0"`
	DurationMinutes int            `json:"duration_minutes" binding:"required,min=1"`
	SortOrder       int            `json:"sort_order"`
	AddOns          []AddOnPayload `json:"add_ons"`
}

type UpdateTreatmentRequest struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Price           *int           `json:"price" binding:"omitempty,min=0"`
	DurationMinutes *int           `json:"duration_minutes" binding:"omitempty,min=1"`
	IsActive        *bool          `json:"is_active"`
	SortOrder       *int           `json:"sort_order"`
	AddOns          []AddOnPayload `json:"add_ons"`
}

func toAddOnRequests(payloads []AddOnPayload) []treatment.AddOnRequest {
	if payloads == nil {
		return nil
	}
	result := make([]treatment.AddOnRequest, 0, len(payloads))
	for _, p := range payloads {
		result = append(result, treatment.AddOnRequest{
			Name:            p.Name,
			Price:           p.Price,
			DurationMinutes: p.DurationMinutes,
		})
	}
	return result
}
