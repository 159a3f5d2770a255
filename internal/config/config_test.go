package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAILS", "")
	t.Setenv("API_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "establishments", cfg.EstablishmentCollection)
	assert.Equal(t, "pending_establishments", cfg.PendingCollection)
	assert.Equal(t, "reviews", cfg.ReviewCollection)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.AdminEmails)
	assert.Equal(t, 30*time.Second, cfg.ActionGuardTTL)
	require.Len(t, cfg.JWTConfigs, 1)
	assert.Equal(t, "reststop-auth", cfg.JWTConfigs[0].Issuer)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("AUTH_JWT_ISSUER", "magic-link")
	t.Setenv("ADMIN_EMAILS", " Admin@Example.com , ,ops@example.com")
	t.Setenv("RECONCILE_POLL_INTERVAL", "5s")
	t.Setenv("ACTION_GUARD_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 5*time.Second, cfg.ReconcilePollInterval)
	assert.Equal(t, 30*time.Second, cfg.ActionGuardTTL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "magic-link", cfg.JWTConfigs[0].Issuer)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("REDIS_DB", "two")
	_, err := Load()
	assert.Error(t, err)
}
