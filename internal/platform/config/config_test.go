package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("TRANSFER_DAYS_WINDOW", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("OBJECT_URL_TTL", "bogus")
	t.Setenv("OBJECT_URL_SECRET", "")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 5, cfg.Transfer.DaysWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.ObjectURLTTL)
	assert.Equal(t, "jwt-secret", cfg.ObjectURLSecret)
}

func TestLoadConfig_UnknownDriverFallsBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
}
