package treatment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/storage"
)

type CreateRequest struct {
	Name            string
	Description     string
	Price           int
	DurationMinutes int
	SortOrder       int
	AddOns          []AddOnRequest
}

type AddOnRequest struct {
	Name            string
	Price           int
	DurationMinutes int
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	Price           *int
	DurationMinutes *int
	IsActive        *bool
	SortOrder       *int
	// AddOns, when non-nil, replaces the full add-on list.
	AddOns []AddOnRequest
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Treatment, error)
	GetByID(ctx context.Context, id string) (*Treatment, error)
	List(ctx context.Context, filter Filter) ([]*Treatment, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Treatment, error)
	Delete(ctx context.Context, id string) error

	// ResolveDuration returns the total duration and price of a treatment
	// with the given add-ons selected. Booking creation uses this so the
	// duration stored on a booking always includes its add-ons.
	ResolveDuration(ctx context.Context, treatmentID string, addOnIDs []string) (durationMinutes, price int, err error)

	// UploadPhoto stores the treatment photo and a thumbnail.
	UploadPhoto(ctx context.Context, id string, content io.Reader) (*Treatment, error)
}

type service struct {
	repo      Repository
	files     storage.Storage
	processor *storage.ImageProcessor
}

func NewService(repo Repository, files storage.Storage, processor *storage.ImageProcessor) Service {
	return &service{
		repo:      repo,
		files:     files,
		processor: processor,
	}
}

func validateAddOns(addOns []AddOnRequest) error {
	for _, a := range addOns {
		if strings.TrimSpace(a.Name) == "" {
			return ErrEmptyName
		}
		if a.Price < 0 {
			return ErrInvalidPrice
		}
		if a.DurationMinutes < 0 {
			return ErrInvalidDuration
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Treatment, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if err := validateAddOns(req.AddOns); err != nil {
		return nil, err
	}

	t := &Treatment{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
		SortOrder:       req.SortOrder,
	}
	for _, a := range req.AddOns {
		t.AddOns = append(t.AddOns, AddOn{
			Name:            strings.TrimSpace(a.Name),
			Price:           a.Price,
			DurationMinutes: a.DurationMinutes,
		})
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Treatment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Treatment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Treatment, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		t.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		t.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		t.SortOrder = *req.SortOrder
	}

	var replaceAddOns []AddOn
	if req.AddOns != nil {
		if err := validateAddOns(req.AddOns); err != nil {
			return nil, err
		}
		for _, a := range req.AddOns {
			replaceAddOns = append(replaceAddOns, AddOn{
				TreatmentID:     t.ID,
				Name:            strings.TrimSpace(a.Name),
				Price:           a.Price,
				DurationMinutes: a.DurationMinutes,
			})
		}
	}

	if err := s.repo.Update(ctx, t, req.AddOns != nil, replaceAddOns); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ResolveDuration(ctx context.Context, treatmentID string, addOnIDs []string) (int, int, error) {
	t, err := s.repo.GetByID(ctx, treatmentID)
	if err != nil {
		return 0, 0, err
	}

	duration := t.DurationMinutes
	price := t.Price

	byID := make(map[string]AddOn, len(t.AddOns))
	for _, a := range t.AddOns {
		byID[a.ID] = a
	}

	for _, id := range addOnIDs {
		a, ok := byID[id]
		if !ok {
			return 0, 0, ErrAddOnNotFound
		}
		duration += a.DurationMinutes
		price += a.Price
	}

	return duration, price, nil
}

func (s *service) UploadPhoto(ctx context.Context, id string, content io.Reader) (*Treatment, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Buffer once so the photo and thumbnail are produced from the same bytes.
	raw, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}

	photo, err := s.processor.FitJPEG(bytes.NewReader(raw), 1200, 1200)
	if err != nil {
		return nil, ErrInvalidImage
	}
	thumb, err := s.processor.GenerateThumbnail(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrInvalidImage
	}

	name := uuid.NewString()
	photoPath := fmt.Sprintf("treatments/%s.jpg", name)
	thumbPath := fmt.Sprintf("treatments/%s_thumb.jpg", name)

	if err := s.files.Save(ctx, photoPath, photo); err != nil {
		return nil, fmt.Errorf("save photo failed: %w", err)
	}
	if err := s.files.Save(ctx, thumbPath, thumb); err != nil {
		_ = s.files.Delete(ctx, photoPath)
		return nil, fmt.Errorf("save thumbnail failed: %w", err)
	}

	// Drop the previous files after the new ones are in place.
	oldPhoto, oldThumb := t.PhotoPath, t.ThumbnailPath

	t.PhotoPath = &photoPath
	t.ThumbnailPath = &thumbPath
	if err := s.repo.UpdatePhoto(ctx, t.ID, photoPath, thumbPath); err != nil {
		_ = s.files.Delete(ctx, photoPath)
		_ = s.files.Delete(ctx, thumbPath)
		return nil, err
	}

	if oldPhoto != nil {
		_ = s.files.Delete(ctx, *oldPhoto)
	}
	if oldThumb != nil {
		_ = s.files.Delete(ctx, *oldThumb)
	}

	return t, nil
}
