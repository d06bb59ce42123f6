package customer

import (
	"context"
	"errors"
	"strings"
	"time"
)

type CreateRequest struct {
	LineUserID  string
	DisplayName string
	Phone       string
	Note        string
}

type UpdateRequest struct {
	DisplayName *string
	Phone       *string
	Note        *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)

	// GetOrCreate looks a customer up by LINE user id, registering them on
	// first contact. The LIFF booking flow calls this before every booking.
	GetOrCreate(ctx context.Context, lineUserID, displayName string) (*Customer, error)

	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (*Customer, error)
	List(ctx context.Context, filter Filter) ([]*Customer, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Customer, error)
	Delete(ctx context.Context, id string) error

	// RecordVisit bumps the visit counter when a booking completes.
	RecordVisit(ctx context.Context, id string, visitedAt time.Time) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	if strings.TrimSpace(req.LineUserID) == "" {
		return nil, ErrLineUserIDEmpty
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, ErrEmptyName
	}

	c := &Customer{
		LineUserID:  strings.TrimSpace(req.LineUserID),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Phone:       strings.TrimSpace(req.Phone),
		Note:        req.Note,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetOrCreate(ctx context.Context, lineUserID, displayName string) (*Customer, error) {
	if strings.TrimSpace(lineUserID) == "" {
		return nil, ErrLineUserIDEmpty
	}

	c, err := s.repo.GetByLineUserID(ctx, lineUserID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// The LIFF profile may not expose a display name.
	if strings.TrimSpace(displayName) == "" {
		displayName = "LINE user"
	}

	created, err := s.Create(ctx, CreateRequest{
		LineUserID:  lineUserID,
		DisplayName: displayName,
	})
	if err != nil {
		// Another request may have registered the same LINE user between
		// the lookup and the insert.
		if errors.Is(err, ErrLineUserExists) {
			return s.repo.GetByLineUserID(ctx, lineUserID)
		}
		return nil, err
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByLineUserID(ctx context.Context, lineUserID string) (*Customer, error) {
	return s.repo.GetByLineUserID(ctx, lineUserID)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Customer, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return nil, ErrEmptyName
		}
		c.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Note != nil {
		c.Note = *req.Note
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) RecordVisit(ctx context.Context, id string, visitedAt time.Time) error {
	return s.repo.RecordVisit(ctx, id, visitedAt)
}
