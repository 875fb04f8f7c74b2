// internal/importer/placer.go
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vmunix/arrshelf/internal/sidecar"
)

// Placement describes one file to put into the library.
type Placement struct {
	Source  string
	Dest    string
	Sidecar []string // rendered sidecar lines; nil writes none

	// GenreTarget is linked into GenreRoot/<genre>/ for each of Genres.
	GenreRoot    string
	GenreTarget  string
	Genres       []string
	GenreSidecar bool // link the target's sidecar too
}

// Placer copies or moves media into the library and maintains the files
// around it: sidecars, recent additions and genre links.
type Placer struct {
	format sidecar.Format
	recent *Recent // nil disables recent additions
	move   bool
	log    *slog.Logger
}

// NewPlacer creates a placer. With move set, sources are moved instead of
// copied.
func NewPlacer(format sidecar.Format, recent *Recent, move bool, log *slog.Logger) *Placer {
	return &Placer{format: format, recent: recent, move: move, log: log.With("component", "placer")}
}

// CheckFresh returns ErrTooFresh when path was modified less than minAge
// before now.
func CheckFresh(path string, minAge time.Duration, now time.Time) error {
	if minAge <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrIOFailure, path, err)
	}
	if age := now.Sub(info.ModTime()); age < minAge {
		return fmt.Errorf("%w: modified %s ago, need %s", ErrTooFresh, age.Round(time.Second), minAge)
	}
	return nil
}

// CheckDestination returns ErrDestinationExists when dest is already
// present in the library.
func CheckDestination(dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return ErrDestinationExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrIOFailure, dest, err)
	}
	return nil
}

// Place transfers p.Source to p.Dest and writes everything that goes with
// it. It returns the number of bytes placed. Failures after the transfer
// are reported as ErrIOFailure. In copy mode the placed files are removed
// again so the next run retries; a moved source cannot be restored, so the
// media stays and regenerate repairs its sidecar.
func (pl *Placer) Place(p Placement, now time.Time) (int64, error) {
	if err := CheckDestination(p.Dest); err != nil {
		return 0, err
	}

	var size int64
	var err error
	if pl.move {
		size, err = MoveFile(p.Source, p.Dest)
	} else {
		size, err = CopyFile(p.Source, p.Dest)
	}
	if err != nil {
		return 0, err
	}
	pl.log.Debug("media transferred", "src", p.Source, "dest", p.Dest, "move", pl.move, "size_bytes", size)

	entry, err := pl.finish(p, now)
	if err == nil {
		return size, nil
	}
	if pl.move {
		pl.log.Warn("media placed without sidecar or links, run regenerate to repair", "dest", p.Dest, "error", err)
		return size, err
	}
	pl.discard(p.Dest, entry)
	return 0, err
}

// finish writes the sidecar, recent additions entry and genre links of a
// transferred file. It returns the recent entry, if one was created.
func (pl *Placer) finish(p Placement, now time.Time) (string, error) {
	if err := pl.WriteSidecar(p.Dest, p.Sidecar); err != nil {
		return "", err
	}

	var entry string
	if pl.recent != nil {
		var err error
		if entry, err = pl.recent.Add(p.Dest, now); err != nil {
			return entry, err
		}
	}

	if p.GenreRoot != "" && len(p.Genres) > 0 {
		ext := ""
		if p.GenreSidecar && pl.format != nil {
			ext = pl.format.Extension()
		}
		if err := linkGenres(p.GenreRoot, p.Genres, p.GenreTarget, ext); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

// discard removes a copied file with its sidecar and recent entry.
func (pl *Placer) discard(dest, entry string) {
	paths := []string{dest, entry}
	if pl.format != nil {
		paths = append(paths, sidecar.Path(pl.format, dest))
		if entry != "" {
			paths = append(paths, entry+pl.format.Extension())
		}
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			pl.log.Warn("failed to remove partial placement", "path", path, "error", err)
		}
	}
}

// WriteSidecar replaces the sidecar of mediaPath with lines.
func (pl *Placer) WriteSidecar(mediaPath string, lines []string) error {
	if pl.format == nil || lines == nil {
		return nil
	}
	path := sidecar.Path(pl.format, mediaPath)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove old sidecar: %v", ErrIOFailure, err)
	}
	if err := sidecar.Write(path, lines); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}
