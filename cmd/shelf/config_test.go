package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigShow_Defaults(t *testing.T) {
	home := t.TempDir()

	stdout, err := executeCommand(t, "config", "show", "--home", home)
	require.NoError(t, err)
	require.Contains(t, stdout, "# source: (defaults)")
	require.Contains(t, stdout, "mode: local")
	require.Contains(t, stdout, filepath.Join(home, "preferences.yaml"))

	stdout, err = executeCommand(t, "config", "show", "--diff", "--home", home)
	require.NoError(t, err)
	require.Equal(t, "Configuration matches the defaults.\n", stdout)
}

func TestConfigShow_DiffShowsOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SHELF_LOG_LEVEL", "debug")

	stdout, err := executeCommand(t, "config", "show", "--diff", "--home", home)
	require.NoError(t, err)
	require.Contains(t, stdout, "--- defaults")
	require.Contains(t, stdout, "-    level: info")
	require.Contains(t, stdout, "+    level: debug")
	require.Contains(t, stdout, "# 1 removed, 1 added")
}

func TestConfigShow_MasksRedisPassword(t *testing.T) {
	home := t.TempDir()
	configPath := filepath.Join(home, "shelf.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
preferences:
  backend: redis
  redis:
    addr: 127.0.0.1:6390
    password: hunter2
`), 0o644))

	stdout, err := executeCommand(t, "config", "show", "--home", home)
	require.NoError(t, err)
	require.Contains(t, stdout, "# source: "+configPath)
	require.Contains(t, stdout, redacted)
	require.NotContains(t, stdout, "hunter2")
}
