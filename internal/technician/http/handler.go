package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/response"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician"
)

type Handler struct {
	service technician.Service
}

func NewHandler(service technician.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListTechniciansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := technician.Filter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	technicians, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list technicians"})
		return
	}

	items := make([]TechnicianResponse, len(technicians))
	for i, t := range technicians {
		items[i] = NewTechnicianResponse(t)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, technician.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "technician not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get technician"})
		return
	}

	c.JSON(http.StatusOK, NewTechnicianResponse(t))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateTechnicianRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.Create(c.Request.Context(), technician.CreateRequest{
		Name:      body.Name,
		Specialty: body.Specialty,
		SortOrder: body.SortOrder,
	})
	if err != nil {
		if errors.Is(err, technician.ErrEmptyName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create technician"})
		return
	}

	c.JSON(http.StatusCreated, NewTechnicianResponse(t))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, technician.UpdateRequest{
		Name:      body.Name,
		Specialty: body.Specialty,
		Status:    body.Status,
		SortOrder: body.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, technician.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "technician not found"})
		case errors.Is(err, technician.ErrEmptyName), errors.Is(err, technician.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update technician"})
		}
		return
	}

	c.JSON(http.StatusOK, NewTechnicianResponse(t))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, technician.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "technician not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete technician"})
		return
	}

	c.Status(http.StatusNoContent)
}
