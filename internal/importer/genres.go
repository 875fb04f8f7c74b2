// internal/importer/genres.go
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// linkGenres links target into <root>/<genre>/ for each genre, named after
// target's base name. Existing links are left alone. With sidecarExt set the
// sidecar next to target is linked too.
func linkGenres(root string, genres []string, target, sidecarExt string) error {
	if root == "" {
		return nil
	}
	name := filepath.Base(target)
	for _, g := range genres {
		g = SanitizeFilename(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		dir := filepath.Join(root, g)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create genre dir: %v", ErrIOFailure, err)
		}
		if err := linkIfMissing(target, filepath.Join(dir, name)); err != nil {
			return err
		}
		if sidecarExt == "" {
			continue
		}
		if _, err := os.Stat(target + sidecarExt); err != nil {
			continue
		}
		if err := linkIfMissing(target+sidecarExt, filepath.Join(dir, name+sidecarExt)); err != nil {
			return err
		}
	}
	return nil
}

func linkIfMissing(target, link string) error {
	if _, err := os.Lstat(link); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrIOFailure, link, err)
	}
	if err := symlink(target, link); err != nil {
		return fmt.Errorf("%w: link %s: %v", ErrIOFailure, link, err)
	}
	return nil
}
