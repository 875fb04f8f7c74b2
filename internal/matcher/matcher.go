package matcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/pkg/release"
)

// ErrEmptyTitle is returned when every word of a title is filtered out, which
// would produce a pattern that matches any file.
var ErrEmptyTitle = errors.New("title has no matchable words")

// Options controls how titles are normalized into patterns.
type Options struct {
	CharsToIgnore    string
	WordsToIgnore    []string
	AllowEmptyTitles bool
}

var (
	episodeRe = regexp.MustCompile(`(?i)^.*s(\d+)[-_x. ]?e(\d+).*$`)
	folderRe  = regexp.MustCompile(`(?i)^.*/+season[-_. ]*(\d+)/+(?:episode[-_. ]*)*(\d+).*$`)
	dateRe    = regexp.MustCompile(`(?:^|\D)(?:(\d\d)[/\-_.](\d\d)[/\-_.](\d\d(?:\d\d)?)|(\d\d\d\d)[/\-_.](\d\d)[/\-_.](\d\d))(?:\D|$)`)
)

// ExpandYear turns a two-digit year into a four-digit one: 41-99 map to the
// 1900s and 0-40 to the 2000s. Larger values are returned unchanged.
func ExpandYear(y int) int {
	switch {
	case y > 99:
		return y
	case y > 40:
		return y + 1900
	default:
		return y + 2000
	}
}

// normalizePath rewrites Windows separators so folder patterns see one style.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func fileName(path string) string {
	return filepath.Base(normalizePath(path))
}

type titlePattern struct {
	tokens []string
	re     *regexp.Regexp
}

func compileTitle(title string, opts Options) (titlePattern, error) {
	tokens := release.Tokens(title, opts.CharsToIgnore, opts.WordsToIgnore)
	if len(tokens) == 0 && !opts.AllowEmptyTitles {
		return titlePattern{}, fmt.Errorf("%q: %w", title, ErrEmptyTitle)
	}
	return titlePattern{tokens: tokens, re: release.CompileTitle(tokens)}, nil
}

// SeriesMatcher recognizes the files of one watched series.
type SeriesMatcher struct {
	Series *library.Series
	title  titlePattern
}

// NewSeriesMatcher compiles the title pattern for s.
func NewSeriesMatcher(s *library.Series, opts Options) (*SeriesMatcher, error) {
	p, err := compileTitle(s.Title, opts)
	if err != nil {
		return nil, fmt.Errorf("series %d: %w", s.ID, err)
	}
	return &SeriesMatcher{Series: s, title: p}, nil
}

// Tokens returns the normalized title words the pattern is built from.
func (m *SeriesMatcher) Tokens() []string { return m.title.tokens }

// MatchesTitle reports whether every title word appears, in order, somewhere
// in path.
func (m *SeriesMatcher) MatchesTitle(path string) bool {
	return m.title.re.MatchString(normalizePath(path))
}

// MatchEpisode extracts every identity path can be read as. Numbered
// identities come before date identities. It does not check the title.
func (m *SeriesMatcher) MatchEpisode(path string) []Candidate {
	var out []Candidate
	for _, id := range ParseEpisode(path) {
		out = append(out, Candidate{SourcePath: path, Series: m.Series, Identity: id})
	}
	return out
}

// ParseEpisode reads episode identities out of path. The episode pattern is
// tried on the file name and then the full path, falling back to
// season/episode folder names. The date pattern is tried on the file name
// and then the full path.
func ParseEpisode(path string) []EpisodeIdentity {
	full := normalizePath(path)
	name := fileName(path)

	var ids []EpisodeIdentity
	if id, ok := matchNumber(episodeRe, name, full); ok {
		ids = append(ids, id)
	} else if id, ok := matchNumber(folderRe, full); ok {
		ids = append(ids, id)
	}
	if id, ok := matchDate(name, full); ok {
		ids = append(ids, id)
	}
	return ids
}

func matchNumber(re *regexp.Regexp, subjects ...string) (EpisodeIdentity, bool) {
	for _, s := range subjects {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		season, err1 := strconv.Atoi(m[1])
		episode, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return ByNumber(season, episode), true
	}
	return EpisodeIdentity{}, false
}

func matchDate(subjects ...string) (EpisodeIdentity, bool) {
	for _, s := range subjects {
		for _, m := range dateRe.FindAllStringSubmatch(s, -1) {
			var y, mo, d string
			if m[3] != "" {
				mo, d, y = m[1], m[2], m[3]
			} else {
				y, mo, d = m[4], m[5], m[6]
			}
			if day, ok := validDate(y, mo, d); ok {
				return ByDate(day), true
			}
		}
	}
	return EpisodeIdentity{}, false
}

func validDate(y, m, d string) (time.Time, bool) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(d)
	if err != nil || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(ExpandYear(year), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, so 02-30 comes back as March.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// MovieMatcher recognizes the files of one watched movie.
type MovieMatcher struct {
	Movie *library.Movie
	title titlePattern
}

// NewMovieMatcher compiles the title pattern for mv.
func NewMovieMatcher(mv *library.Movie, opts Options) (*MovieMatcher, error) {
	p, err := compileTitle(mv.Title, opts)
	if err != nil {
		return nil, fmt.Errorf("movie %d: %w", mv.ID, err)
	}
	return &MovieMatcher{Movie: mv, title: p}, nil
}

// Tokens returns the normalized title words the pattern is built from.
func (m *MovieMatcher) Tokens() []string { return m.title.tokens }

// MatchesTitle reports whether every title word appears, in order, somewhere
// in path.
func (m *MovieMatcher) MatchesTitle(path string) bool {
	return m.title.re.MatchString(normalizePath(path))
}

// MatchMovie returns the movie candidate for path. A year in the file name
// that disagrees with the movie's year rejects the match, which keeps
// remakes apart.
func (m *MovieMatcher) MatchMovie(path string) (Candidate, bool) {
	if !m.MatchesTitle(path) {
		return Candidate{}, false
	}
	base, _ := release.SplitExt(fileName(path))
	hints := release.ParseHints(base)
	// Only a year after the title counts, so "2001 A Space Odyssey" is not
	// read as a 2001 release.
	if loc := m.title.re.FindStringIndex(base); loc != nil {
		hints.Year = release.ParseHints(base[loc[1]:]).Year
	}
	if hints.Year != 0 && m.Movie.Year != 0 && hints.Year != m.Movie.Year {
		return Candidate{}, false
	}
	disc := hints.Disc
	if disc == "" {
		disc = release.ParseHints(normalizePath(filepath.Dir(path))).Disc
	}
	return Candidate{
		SourcePath:    path,
		Movie:         m.Movie,
		MovieIdentity: MovieIdentity{MovieID: m.Movie.ID, Disc: disc},
	}, true
}
