package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "SYNC_TIMEOUT", "CORS_ORIGINS", "LIVE_UPDATES", "QUEUE_BACKEND"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, time.Duration(0), cfg.SyncTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.LiveUpdates)
	assert.Equal(t, "memory", cfg.QueueBackend)
	assert.False(t, cfg.Production())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SYNC_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("LIVE_UPDATES", "no")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, 45*time.Second, cfg.SyncTimeout)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.LiveUpdates)
	assert.True(t, cfg.CloudinaryConfigured())
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("LIVE_UPDATES", "maybe")

	cfg := Load()
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.True(t, cfg.LiveUpdates)
}
