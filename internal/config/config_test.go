package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Upstream.URL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "http://localhost:5000/api/admin/registrations", cfg.Registrations.URL)
	assert.False(t, cfg.Registrations.RequireAuth)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "https://backend.example.com/")
	t.Setenv("REGISTRATIONS_AUTH", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "https://backend.example.com", cfg.Upstream.URL, "trailing slash trimmed")
	assert.Equal(t, "https://backend.example.com/api/admin/registrations", cfg.Registrations.URL)
	assert.True(t, cfg.Registrations.RequireAuth)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
}

func TestLoad_MalformedDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg := Load()

	// a garbage value must not leave the HTTP client without a timeout
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
}

func TestLoad_RegistrationsURLIndependent(t *testing.T) {
	t.Setenv("REGISTRATIONS_URL", "https://other-host.example.com/api/admin/registrations")

	cfg := Load()
	assert.Equal(t, "https://other-host.example.com/api/admin/registrations", cfg.Registrations.URL)
}
