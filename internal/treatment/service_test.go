package treatment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	treatments map[string]*Treatment
}

func (r *fakeRepo) Create(_ context.Context, t *Treatment) error { return nil }

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Treatment, error) {
	if t, ok := r.treatments[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Treatment, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(_ context.Context, _ *Treatment, _ bool, _ []AddOn) error { return nil }

func (r *fakeRepo) UpdatePhoto(_ context.Context, _, _, _ string) error { return nil }

func (r *fakeRepo) Delete(_ context.Context, _ string) error { return nil }

func TestResolveDuration(t *testing.T) {
	repo := &fakeRepo{treatments: map[string]*Treatment{
		"treat-1": {
			ID:              "treat-1",
			Name:            "Gel nails",
			Price:           8000,
			DurationMinutes: 90,
			AddOns: []AddOn{
				{ID: "addon-art", Name: "Nail art", Price: 2000, DurationMinutes: 30},
				{ID: "addon-care", Name: "Hand care", Price: 1500, DurationMinutes: 15},
			},
		},
	}}
	svc := NewService(repo, nil, nil)

	t.Run("base treatment only", func(t *testing.T) {
		duration, price, err := svc.ResolveDuration(context.Background(), "treat-1", nil)
		require.NoError(t, err)
		assert.Equal(t, 90, duration)
		assert.Equal(t, 8000, price)
	})

	t.Run("add-ons extend duration and price", func(t *testing.T) {
		duration, price, err := svc.ResolveDuration(context.Background(), "treat-1", []string{"addon-art", "addon-care"})
		require.NoError(t, err)
		assert.Equal(t, 135, duration)
		assert.Equal(t, 11500, price)
	})

	t.Run("unknown add-on", func(t *testing.T) {
		_, _, err := svc.ResolveDuration(context.Background(), "treat-1", []string{"addon-x"})
		assert.ErrorIs(t, err, ErrAddOnNotFound)
	})

	t.Run("unknown treatment", func(t *testing.T) {
		_, _, err := svc.ResolveDuration(context.Background(), "treat-x", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
