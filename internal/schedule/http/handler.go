package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/response"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewScheduleResponse(cfg))
}

func (h *Handler) Update(c *gin.Context) {
	var body UpdateScheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cfg, err := h.service.Update(c.Request.Context(), body.ToUpdateRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleResponse(cfg))
}
