// Package sidecar renders the metadata files written next to library media
// for consumption by media servers.
package sidecar

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/arrshelf/internal/library"
)

// Format renders episode and movie metadata as sidecar lines.
type Format interface {
	// Name is the configured name of the format.
	Name() string
	// Extension is appended to the media file name to form the sidecar path.
	Extension() string
	// Episode renders ep. recorded is the time the file entered the library.
	Episode(ep *library.Episode, recorded time.Time) []string
	// Movie renders m.
	Movie(m *library.Movie) []string
}

var formats = map[string]Format{
	"pytivo": PyTivo{},
}

// Lookup returns the format registered under name. Names are
// case-insensitive.
func Lookup(name string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown metadata format %q", name)
	}
	return f, nil
}

// Names lists the registered format names.
func Names() []string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.Name())
	}
	return names
}

// Path returns the sidecar path for mediaPath.
func Path(f Format, mediaPath string) string {
	return mediaPath + f.Extension()
}

var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// ToASCII decomposes s (NFKD) and drops whatever is left outside ASCII.
func ToASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(nonASCII))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Write renders lines to path, folded to ASCII, replacing any existing file.
func Write(path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(ToASCII(l))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}
