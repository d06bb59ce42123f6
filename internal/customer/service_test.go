package customer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byLineID map[string]*Customer
	nextID   int
	visits   map[string]int

	// missOnce makes the next GetByLineUserID report ErrNotFound even when
	// the customer exists, to simulate an insert racing ahead of us.
	missOnce bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byLineID: map[string]*Customer{},
		visits:   map[string]int{},
	}
}

func (r *fakeRepo) Create(_ context.Context, c *Customer) error {
	if _, ok := r.byLineID[c.LineUserID]; ok {
		return ErrLineUserExists
	}
	r.nextID++
	c.ID = fmt.Sprintf("cust-%d", r.nextID)
	c.CreatedAt = time.Now()
	r.byLineID[c.LineUserID] = c
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Customer, error) {
	for _, c := range r.byLineID {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByLineUserID(_ context.Context, lineUserID string) (*Customer, error) {
	if r.missOnce {
		r.missOnce = false
		return nil, ErrNotFound
	}
	if c, ok := r.byLineID[lineUserID]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Customer, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(_ context.Context, _ *Customer) error { return nil }

func (r *fakeRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *fakeRepo) RecordVisit(_ context.Context, id string, _ time.Time) error {
	r.visits[id]++
	return nil
}

func TestGetOrCreate(t *testing.T) {
	t.Run("registers a first-time LINE user", func(t *testing.T) {
		svc := NewService(newFakeRepo())

		c, err := svc.GetOrCreate(context.Background(), "line-u1", "Hanako")
		require.NoError(t, err)
		assert.Equal(t, "line-u1", c.LineUserID)
		assert.Equal(t, "Hanako", c.DisplayName)
	})

	t.Run("returns the existing customer", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)

		first, err := svc.GetOrCreate(context.Background(), "line-u1", "Hanako")
		require.NoError(t, err)

		second, err := svc.GetOrCreate(context.Background(), "line-u1", "Renamed")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Hanako", second.DisplayName, "an existing profile is not overwritten")
	})

	t.Run("missing display name gets a placeholder", func(t *testing.T) {
		svc := NewService(newFakeRepo())

		c, err := svc.GetOrCreate(context.Background(), "line-u2", "")
		require.NoError(t, err)
		assert.NotEmpty(t, c.DisplayName)
	})

	t.Run("empty line user id is rejected", func(t *testing.T) {
		svc := NewService(newFakeRepo())

		_, err := svc.GetOrCreate(context.Background(), "  ", "Hanako")
		assert.ErrorIs(t, err, ErrLineUserIDEmpty)
	})

	t.Run("lost insert race falls back to lookup", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)

		// Another request registered the same LINE user between our lookup
		// and our insert: the first lookup misses, the insert hits the
		// unique constraint, the retry lookup finds the winner.
		repo.byLineID["line-u3"] = &Customer{ID: "cust-winner", LineUserID: "line-u3", DisplayName: "Hanako"}
		repo.missOnce = true

		c, err := svc.GetOrCreate(context.Background(), "line-u3", "Hanako")
		require.NoError(t, err)
		assert.Equal(t, "cust-winner", c.ID)
	})
}
