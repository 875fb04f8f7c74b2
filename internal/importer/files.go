// internal/importer/files.go
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
)

// DefaultMediaExtensions are used when no extensions are configured.
var DefaultMediaExtensions = []string{".avi", ".m4v", ".mkv", ".mp4", ".mpg", ".ts", ".wmv"}

// NormalizeExtensions lowercases exts and gives each a leading dot.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// IsMediaFile reports whether path has one of exts (normalized).
func IsMediaFile(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// FindMediaFiles walks root and returns every regular media file, sorted.
// Symlinks are followed to files but not into directories. Unreadable
// entries are skipped.
func FindMediaFiles(root string, exts []string) ([]string, error) {
	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || !IsMediaFile(path, exts) {
				return nil
			}
			if de.IsSymlink() {
				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					return nil
				}
			} else if !de.IsRegular() {
				return nil
			}
			files = append(files, path)
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
