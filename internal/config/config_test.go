package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	require.Equal(t, "en", cfg.ReportLocale)
	require.False(t, cfg.UploadsEnabled())
	require.True(t, cfg.UsesDefaultJWTSecret())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ADMIN_INVITE_TOKEN", "let-me-in")
	t.Setenv("S3_BUCKET", "avatars")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("JWT_SECRET", "rotated")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, "let-me-in", cfg.AdminInviteToken)
	require.True(t, cfg.UploadsEnabled())
	require.False(t, cfg.UsesDefaultJWTSecret())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
