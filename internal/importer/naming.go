// internal/importer/naming.go
package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmunix/arrshelf/internal/library"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var (
	multiSpace = regexp.MustCompile(`\s+`)
	multiDot   = regexp.MustCompile(`\.{2,}`)
)

// SanitizeFilename replaces characters that are unsafe in a single path
// element, so a title can never introduce a directory.
func SanitizeFilename(name string) string {
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}

// ValidatePath returns ErrPathTraversal unless path lies inside root.
func ValidatePath(path, root string) error {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathTraversal
	}
	return nil
}

// seriesFileStem is the lowercase series title with words joined by
// underscores: "The Office" becomes "the_office".
func seriesFileStem(title string) string {
	words := strings.Fields(strings.ToLower(SanitizeFilename(title)))
	return strings.Join(words, "_")
}

// SeriesDir returns the library directory of a series under base.
func SeriesDir(base string, series *library.Series) string {
	return filepath.Join(base, SanitizeFilename(series.Title))
}

// EpisodeDestination returns the library path of an episode file:
// <base>/<Series Title>/Season NN/<series_title>-sNN_eNNN.<ext>.
func EpisodeDestination(base string, series *library.Series, season, episode int, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	name := fmt.Sprintf("%s-s%02d_e%03d.%s", seriesFileStem(series.Title), season, episode, ext)
	dest := filepath.Join(SeriesDir(base, series), fmt.Sprintf("Season %02d", season), name)
	if err := ValidatePath(dest, base); err != nil {
		return "", err
	}
	return dest, nil
}

// MovieDestination returns the library path of a movie file:
// <base>/<Title> (<year>) [<id>].<ext>, with " Disc<n>" before the ID for
// multi-disc releases.
func MovieDestination(base string, movie *library.Movie, disc, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	title := SanitizeFilename(movie.Title)

	var name string
	if disc != "" {
		name = fmt.Sprintf("%s (%d) Disc%s [%d].%s", title, movie.Year, disc, movie.ID, ext)
	} else {
		name = fmt.Sprintf("%s (%d) [%d].%s", title, movie.Year, movie.ID, ext)
	}
	dest := filepath.Join(base, name)
	if err := ValidatePath(dest, base); err != nil {
		return "", err
	}
	return dest, nil
}
