package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("CANDOR_JWT_SECRET", "s3cret")
	t.Setenv("CANDOR_AI_TIMEOUT", "3s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "refreshToken", cfg.TokenCookie)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.AIModel)
}

func TestLoadFromFile(t *testing.T) {
	// the file loader exports its values; register cleanup for them
	t.Setenv("CANDOR_JWT_SECRET", "")
	t.Setenv("CANDOR_HTTP_PORT", "")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CANDOR_JWT_SECRET=file\nCANDOR_HTTP_PORT=9090\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.JWTSecret)
	assert.Equal(t, 9090, cfg.HTTPPort)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CANDOR_JWT_SECRET", "")
	os.Unsetenv("CANDOR_JWT_SECRET")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
