package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/auth"
)

type fakeRepo struct {
	byEmail map[string]*User
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*User{}, nextID: 0}
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	r.nextID++
	u.ID = "user-" + string(rune('0'+r.nextID))
	u.CreatedAt = time.Now()
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*User, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(_ context.Context, u *User) error {
	return nil
}

func (r *fakeRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

// Low bcrypt cost keeps the tests fast.
func newTestService(repo Repository) Service {
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4))
}

func TestCreateStaffUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	t.Run("success normalizes email", func(t *testing.T) {
		u, err := svc.Create(context.Background(), CreateRequest{
			Email:    "  Staff@Salon.Test ",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, "staff@salon.test", u.Email)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "password123", u.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateRequest{
			Email:    "staff@salon.test",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateRequest{
			Email:    "short@salon.test",
			Password: "1234567",
		})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateRequest{
			Email:    "   ",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateRequest{
		Email:    "staff@salon.test",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		u, err := svc.Login(context.Background(), "staff@salon.test", "password123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "staff@salon.test", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@salon.test", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo.byEmail["staff@salon.test"].IsActive = false
		defer func() { repo.byEmail["staff@salon.test"].IsActive = true }()

		_, err := svc.Login(context.Background(), "staff@salon.test", "password123")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}
