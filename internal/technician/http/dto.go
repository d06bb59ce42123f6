package http

import (
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/request"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician"
)

// ListTechniciansRequest defines query parameters for listing technicians.
type ListTechniciansRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=available unavailable"`
}

type TechnicianResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Status    string    `json:"status"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TechnicianTag is the minimal technician reference embedded in other
// modules' responses.
type TechnicianTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewTechnicianResponse(t *technician.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:        t.ID,
		Name:      t.Name,
		Specialty: t.Specialty,
		Status:    string(t.Status),
		SortOrder: t.SortOrder,
		CreatedAt: t.CreatedAt,
	}
}

type CreateTechnicianRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	SortOrder int    `json:"sort_order"`
}

type UpdateTechnicianRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Status    *string `json:"status" binding:"omitempty,oneof=available unavailable"`
	SortOrder *int    `json:"sort_order"`
}
