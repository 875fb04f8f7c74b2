// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "arrshelf", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	assert.Contains(t, string(content), "[library]")
	assert.Contains(t, string(content), "[matching]")
	assert.Contains(t, string(content), "${TVDB_API_KEY}")
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "deep", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")
	assert.FileExists(t, path)
}

func TestConfig_Write(t *testing.T) {
	cfg := &Config{
		Library: LibraryConfig{
			TVPath:          "/media/tv",
			RecentRetention: Duration{36 * time.Hour},
		},
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path), "Write failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "/media/tv")
	assert.Contains(t, string(content), `"36h0m0s"`)

	back, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, 36*time.Hour, back.Library.RecentRetention.Duration)
}
