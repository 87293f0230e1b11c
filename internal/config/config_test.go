package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lookbook_test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/lookbook_test", cfg.DatabaseURL)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, ":8080", cfg.ListenAddr, "listen address defaults when unset")
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lookbook_test")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
