package technician

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name      string
	Specialty string
	SortOrder int
}

type UpdateRequest struct {
	Name      *string
	Specialty *string
	Status    *string
	SortOrder *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Technician, error)
	GetByID(ctx context.Context, id string) (*Technician, error)
	List(ctx context.Context, filter Filter) ([]*Technician, int, error)

	// ListAvailable returns the technicians currently accepting bookings.
	// Their count is the slot capacity in assignment mode.
	ListAvailable(ctx context.Context) ([]*Technician, error)

	Update(ctx context.Context, id string, req UpdateRequest) (*Technician, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Technician, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	t := &Technician{
		Name:      strings.TrimSpace(req.Name),
		Specialty: strings.TrimSpace(req.Specialty),
		Status:    StatusAvailable,
		SortOrder: req.SortOrder,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Technician, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Technician, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListAvailable(ctx context.Context) ([]*Technician, error) {
	all, _, err := s.repo.List(ctx, Filter{Status: string(StatusAvailable), PageSize: 200})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Technician, error) {
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
	if req.Specialty != nil {
		t.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Status != nil {
		st := Status(*req.Status)
		if st != StatusAvailable && st != StatusUnavailable {
			return nil, ErrInvalidStatus
		}
		t.Status = st
	}
	if req.SortOrder != nil {
		t.SortOrder = *req.SortOrder
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
