package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("ENVELOPE_KEY", "shared-key")
	t.Setenv("STORAGE_DRIVER", "memory")
}

func TestParse_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "newsroom", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.True(t, cfg.Auth.CookieHTTPOnly)
	assert.Equal(t, 5*time.Minute, cfg.Envelope.MaxAge())
	assert.True(t, cfg.Envelope.ReplayProtection)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.App.IsProduction())
}

func TestParse_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", " Bolt ")
	t.Setenv("STORAGE_BOLT_PATH", "/tmp/news.db")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "60")
	t.Setenv("ENVELOPE_MAX_AGE_SECONDS", "0")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/news.db", cfg.Storage.BoltPath)
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
	assert.Zero(t, cfg.Envelope.MaxAge())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{"AUTH_JWT_SECRET": ""},
			wantErr: "AUTH_JWT_SECRET",
		},
		{
			name:    "short jwt secret",
			env:     map[string]string{"AUTH_JWT_SECRET": "too-short"},
			wantErr: "AUTH_JWT_SECRET",
		},
		{
			name:    "missing envelope key",
			env:     map[string]string{"ENVELOPE_KEY": ""},
			wantErr: "ENVELOPE_KEY",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "mongo"},
			wantErr: "unknown STORAGE_DRIVER",
		},
		{
			name:    "postgres without dsn",
			env:     map[string]string{"STORAGE_DRIVER": "postgres"},
			wantErr: "POSTGRES_DSN",
		},
		{
			name:    "malformed integer",
			env:     map[string]string{"APP_PORT": "8080", "REDIS_DB": "one"},
			wantErr: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Parse()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}

func TestLoadEnvelope(t *testing.T) {
	t.Setenv("ENVELOPE_KEY", "shared-key")
	t.Setenv("ENVELOPE_MAX_AGE_SECONDS", "60")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := LoadEnvelope()
	require.NoError(t, err)
	assert.Equal(t, "shared-key", cfg.Key)
	assert.Equal(t, time.Minute, cfg.MaxAge())

	t.Setenv("ENVELOPE_KEY", "")
	_, err = LoadEnvelope()
	assert.ErrorContains(t, err, "ENVELOPE_KEY")
}
