package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/salon")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, "5s", cfg.BookingLockTTL.String())
	assert.Equal(t, "12h0m0s", cfg.JWTAccessTokenTTL.String())
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "./uploads", cfg.UploadDir)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing db dsn", "DB_DSN"},
		{"missing redis addr", "REDIS_ADDR"},
		{"missing jwt secret", "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("bad lock ttl", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("BOOKING_LOCK_TTL", "five seconds")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad bcrypt cost", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("BCRYPT_COST", "high")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadProductionFlag(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PROD_ORIGINS", "https://salon.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "https://salon.example.com", cfg.ProdOrigins)
}
