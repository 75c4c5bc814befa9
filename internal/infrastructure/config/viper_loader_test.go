package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/logging"
	shelferrors "github.com/alexisbeaulieu97/shelf/pkg/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "shelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoaderReadsFile(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, home, `
log:
  level: debug
auth:
  mode: http
  base_url: http://localhost:8080
  timeout: 3s
preferences:
  backend: redis
  redis:
    addr: localhost:6380
    db: 2
ui:
  unicode: false
`)

	cfg, used, err := NewLoader(logging.NewNoOpLogger(), home).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "default kept")
	assert.Equal(t, "http", cfg.Auth.Mode)
	assert.Equal(t, 3*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, "redis", cfg.Preferences.Backend)
	assert.Equal(t, "localhost:6380", cfg.Preferences.Redis.Addr)
	assert.Equal(t, 2, cfg.Preferences.Redis.DB)
	assert.Equal(t, "shelf:pref:", cfg.Preferences.Redis.KeyPrefix)
	assert.False(t, cfg.UI.Unicode)
	assert.True(t, cfg.UI.AltScreen)
}

func TestLoaderFindsFileInHome(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "auth:\n  mode: local\n  latency: 250ms\n")

	cfg, used, err := NewLoader(nil, home).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shelf.yaml"), used)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.Latency)
}

func TestLoaderFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, used, err := NewLoader(nil, home).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, "local", cfg.Auth.Mode)
	assert.Equal(t, filepath.Join(home, "preferences.yaml"), cfg.Preferences.Path)
}

func TestLoaderEnvironmentOverrides(t *testing.T) {
	t.Setenv("SHELF_AUTH_MODE", "http")
	t.Setenv("SHELF_AUTH_BASE_URL", "https://books.example.com")
	t.Setenv("SHELF_LOG_LEVEL", "warn")

	cfg, _, err := NewLoader(nil, t.TempDir()).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Auth.Mode)
	assert.Equal(t, "https://books.example.com", cfg.Auth.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoaderRejectsInvalidValues(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, home, "auth:\n  mode: http\n")

	_, _, err := NewLoader(nil, home).Load(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, shop.ErrCodeValidation, shop.CodeOf(err))

	var valErr *shelferrors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "auth.baseurl", valErr.Field)
}

func TestLoaderReportsSyntaxErrors(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, home, "log: [\n")

	_, _, err := NewLoader(nil, home).Load(context.Background(), path)
	require.Error(t, err)

	var parseErr *shelferrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, path, parseErr.Path)
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	_, _, err := NewLoader(nil, t.TempDir()).Load(context.Background(), "/does/not/exist/shelf.yaml")
	require.Error(t, err)
	assert.Equal(t, shop.ErrCodeInternal, shop.CodeOf(err))
}

func TestLoaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewLoader(nil, t.TempDir()).Load(ctx, "")
	require.Error(t, err)
}
