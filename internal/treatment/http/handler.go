package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/response"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment"
)

const maxPhotoSizeBytes = 10 << 20 // 10 MiB

type Handler struct {
	service treatment.Service
}

func NewHandler(service treatment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListTreatmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := treatment.Filter{
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	treatments, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list treatments"})
		return
	}

	items := make([]TreatmentResponse, len(treatments))
	for i, t := range treatments {
		items[i] = NewTreatmentResponse(t)
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
		if errors.Is(err, treatment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "treatment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get treatment"})
		return
	}

	c.JSON(http.StatusOK, NewTreatmentResponse(t))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateTreatmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.Create(c.Request.Context(), treatment.CreateRequest{
		Name:            body.Name,
		Description:     body.Description,
		Price:           body.Price,
		DurationMinutes: body.DurationMinutes,
		SortOrder:       body.SortOrder,
		AddOns:          toAddOnRequests(body.AddOns),
	})
	if err != nil {
		switch {
		case errors.Is(err, treatment.ErrEmptyName),
			errors.Is(err, treatment.ErrInvalidPrice),
			errors.Is(err, treatment.ErrInvalidDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create treatment"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewTreatmentResponse(t))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateTreatmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, treatment.UpdateRequest{
		Name:            body.Name,
		Description:     body.Description,
		Price:           body.Price,
		DurationMinutes: body.DurationMinutes,
		IsActive:        body.IsActive,
		SortOrder:       body.SortOrder,
		AddOns:          toAddOnRequests(body.AddOns),
	})
	if err != nil {
		switch {
		case errors.Is(err, treatment.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "treatment not found"})
		case errors.Is(err, treatment.ErrEmptyName),
			errors.Is(err, treatment.ErrInvalidPrice),
			errors.Is(err, treatment.ErrInvalidDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update treatment"})
		}
		return
	}

	c.JSON(http.StatusOK, NewTreatmentResponse(t))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, treatment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "treatment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete treatment"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
		return
	}
	if fileHeader.Size > maxPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the maximum size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	t, err := h.service.UploadPhoto(c.Request.Context(), id, file)
	if err != nil {
		switch {
		case errors.Is(err, treatment.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "treatment not found"})
		case errors.Is(err, treatment.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
		}
		return
	}

	c.JSON(http.StatusOK, NewTreatmentResponse(t))
}
