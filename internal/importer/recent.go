// internal/importer/recent.go
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// recentLayout prefixes entries in the recent additions directory.
const recentLayout = "2006-01-02_15-04-05_"

// Recent maintains the recent additions directory: timestamped links to
// newly placed media and their sidecars, removed again after a retention
// period.
type Recent struct {
	dir       string
	retention time.Duration
	exts      []string
	sidecar   string // sidecar extension, empty if none
	copy      bool   // copy entries instead of symlinking them
	log       *slog.Logger
}

// NewRecent returns nil when dir is empty, which disables recent additions.
func NewRecent(dir string, retention time.Duration, exts []string, sidecarExt string, log *slog.Logger) *Recent {
	if dir == "" {
		return nil
	}
	return &Recent{
		dir:       dir,
		retention: retention,
		exts:      exts,
		sidecar:   sidecarExt,
		log:       log.With("component", "recent"),
	}
}

// Add links mediaPath (and its sidecar, if present) into the recent
// additions directory and returns the new entry's path.
func (r *Recent) Add(mediaPath string, now time.Time) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create recent dir: %v", ErrIOFailure, err)
	}

	entry := filepath.Join(r.dir, now.Format(recentLayout)+filepath.Base(mediaPath))
	if err := r.transfer(mediaPath, entry); err != nil {
		return "", err
	}
	if r.sidecar != "" {
		if _, err := os.Stat(mediaPath + r.sidecar); err == nil {
			if err := r.transfer(mediaPath+r.sidecar, entry+r.sidecar); err != nil {
				return entry, err
			}
		}
	}
	r.log.Debug("added recent entry", "path", entry)
	return entry, nil
}

func (r *Recent) transfer(src, dst string) error {
	if r.copy {
		_, err := CopyFile(src, dst)
		return err
	}
	return linkOrCopy(src, dst)
}

// Sweep removes media entries (and their sidecars) that have been in the
// recent additions directory for at least the retention period. Entry age
// comes from the entry itself, not the file it links to.
func (r *Recent) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: read recent dir: %v", ErrIOFailure, err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !IsMediaFile(e.Name(), r.exts) {
			continue
		}
		path := filepath.Join(r.dir, e.Name())
		info, err := os.Lstat(path)
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < r.retention {
			continue
		}
		if err := os.Remove(path); err != nil {
			r.log.Warn("failed to remove recent entry", "path", path, "error", err)
			continue
		}
		if r.sidecar != "" {
			if err := os.Remove(path + r.sidecar); err != nil && !errors.Is(err, os.ErrNotExist) {
				r.log.Warn("failed to remove recent sidecar", "path", path+r.sidecar, "error", err)
			}
		}
		removed++
		r.log.Info("removed recent entry", "name", e.Name(), "added", humanize.RelTime(info.ModTime(), now, "ago", "from now"))
	}
	return removed, nil
}
