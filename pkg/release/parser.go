package release

import (
	"regexp"
	"strconv"
	"strings"
)

// Hints contains identity hints parsed from a media file name.
type Hints struct {
	Year int    // 0 when the name carries no plausible release year
	Disc string // "" when the name carries no disc/part marker
}

var (
	yearRe = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)
	discRe = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:disc|disk|dvd|cd|part|pt)[-_. ]*(\d{1,2})(?:\D|$)`)
)

// ParseHints extracts the release year and disc number from a file name.
// The last year-looking token wins, so "2001.A.Space.Odyssey.1968" yields 1968.
func ParseHints(name string) Hints {
	var h Hints

	if matches := yearRe.FindAllStringSubmatch(name, -1); len(matches) > 0 {
		last := matches[len(matches)-1][1]
		h.Year, _ = strconv.Atoi(last)
	}

	if m := discRe.FindStringSubmatch(name); m != nil {
		h.Disc = strings.TrimLeft(m[1], "0")
		if h.Disc == "" {
			h.Disc = "0"
		}
	}

	return h
}

// SplitExt splits a file name at its last dot. A leading dot is not treated
// as an extension separator, so ".hidden" has no extension.
func SplitExt(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}
