package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Fills defaults for missing keys", func(t *testing.T) {
		// Given: a config naming only the backend
		path := writeConfig(t, "storage:\n  backend: file\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: everything else has its default
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, BackendFile, conf.Storage.Backend)
		assert.Equal(t, 2*time.Second, conf.Lock.Wait)
		assert.Equal(t, 10*time.Second, conf.Lock.TTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: a file and an override in the environment
		path := writeConfig(t, "storage:\n  backend: file\nlock:\n  wait: 1s\n")
		t.Setenv("BATTLESHIP_STORAGE_BACKEND", "sqlite")
		t.Setenv("BATTLESHIP_LOCK_WAIT", "500ms")

		// When: it is loaded
		conf, err := Load(path)

		// Then: the environment wins
		require.NoError(t, err)
		assert.Equal(t, BackendSQLite, conf.Storage.Backend)
		assert.Equal(t, 500*time.Millisecond, conf.Lock.Wait)
	})

	t.Run("Rejects unknown backends", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  backend: floppy\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("MustLoad panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
