package http

import (
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/customer"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/request"
)

// ListCustomersRequest defines query parameters for listing customers.
type ListCustomersRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

type CustomerResponse struct {
	ID          string     `json:"id"`
	LineUserID  string     `json:"line_user_id"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone"`
	Note        string     `json:"note"`
	VisitCount  int        `json:"visit_count"`
	LastVisitAt *time.Time `json:"last_visit_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		LineUserID:  c.LineUserID,
		DisplayName: c.DisplayName,
		Phone:       c.Phone,
		Note:        c.Note,
		VisitCount:  c.VisitCount,
		LastVisitAt: c.LastVisitAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateCustomerRequest struct {
	LineUserID  string `json:"line_user_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Phone       string `json:"phone"`
	Note        string `json:"note"`
}

type UpdateCustomerRequest struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	Note        *string `json:"note"`
}
