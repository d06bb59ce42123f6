package http

import (
	"time"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/announcement"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/request"
)

// ListAnnouncementsRequest defines query parameters for listing announcements.
type ListAnnouncementsRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAnnouncementResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		IsPinned:  a.IsPinned,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	IsPinned bool   `json:"is_pinned"`
}

type UpdateAnnouncementRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsPinned *bool   `json:"is_pinned"`
}
