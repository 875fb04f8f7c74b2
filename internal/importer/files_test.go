// internal/importer/files_test.go
package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExtensions(t *testing.T) {
	assert.Equal(t, []string{".mkv", ".avi"}, NormalizeExtensions([]string{"MKV", " .avi ", ""}))
}

func TestIsMediaFile(t *testing.T) {
	exts := []string{".mkv", ".avi"}
	assert.True(t, IsMediaFile("/in/show.s01e01.MKV", exts))
	assert.True(t, IsMediaFile("show.avi", exts))
	assert.False(t, IsMediaFile("show.mkv.txt", exts))
	assert.False(t, IsMediaFile("mkv", exts))
}

func TestFindMediaFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.mkv"), "x", 0)
	writeFile(t, filepath.Join(root, "a.avi"), "x", 0)
	writeFile(t, filepath.Join(root, "notes.txt"), "x", 0)
	writeFile(t, filepath.Join(root, "Season 1", "c.mkv"), "x", 0)
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty.mkv"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "b.mkv"), filepath.Join(root, "link.mkv")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.mkv"), filepath.Join(root, "dangling.mkv")))

	files, err := FindMediaFiles(root, []string{".mkv", ".avi"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "Season 1", "c.mkv"),
		filepath.Join(root, "a.avi"),
		filepath.Join(root, "b.mkv"),
		filepath.Join(root, "link.mkv"),
	}, files)
}
