package matcher

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/pkg/release"
)

// Set holds the matchers of every watched title. It is built once per run
// and not modified afterwards.
type Set struct {
	series []*SeriesMatcher
	movies []*MovieMatcher
}

// NewSet compiles matchers for the given watched titles. Titles whose
// pattern cannot be built are logged and left out.
func NewSet(series []*library.Series, movies []*library.Movie, opts Options, log *slog.Logger) *Set {
	s := &Set{}
	for _, sr := range series {
		m, err := NewSeriesMatcher(sr, opts)
		if err != nil {
			if log != nil {
				log.Warn("skipping watched series", "series_id", sr.ID, "title", sr.Title, "error", err)
			}
			continue
		}
		s.series = append(s.series, m)
	}
	for _, mv := range movies {
		m, err := NewMovieMatcher(mv, opts)
		if err != nil {
			if log != nil {
				log.Warn("skipping watched movie", "movie_id", mv.ID, "title", mv.Title, "error", err)
			}
			continue
		}
		s.movies = append(s.movies, m)
	}
	return s
}

// SeriesCount returns the number of series matchers.
func (s *Set) SeriesCount() int { return len(s.series) }

// MovieCount returns the number of movie matchers.
func (s *Set) MovieCount() int { return len(s.movies) }

type ranked[M any] struct {
	m       M
	tokens  int
	pattern int
	score   float64
	title   string
}

func rank[M any](items []ranked[M]) []M {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.tokens != b.tokens {
			return a.tokens > b.tokens
		}
		if a.pattern != b.pattern {
			return a.pattern > b.pattern
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.title < b.title
	})
	out := make([]M, len(items))
	for i, it := range items {
		out[i] = it.m
	}
	return out
}

// nameForScore is the file name stripped of its extension with separators
// turned into spaces, comparable with a title.
func nameForScore(path string) string {
	base, _ := release.SplitExt(fileName(path))
	return strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(base)
}

// MatchSeries returns the series matchers whose title occurs in path, most
// specific first: more title words, then a longer pattern, then the closer
// fuzzy match against the file name, then title order.
func (s *Set) MatchSeries(path string) []*SeriesMatcher {
	name := nameForScore(path)
	var hits []ranked[*SeriesMatcher]
	for _, m := range s.series {
		if !m.MatchesTitle(path) {
			continue
		}
		hits = append(hits, ranked[*SeriesMatcher]{
			m:       m,
			tokens:  len(m.title.tokens),
			pattern: len(release.TitlePattern(m.title.tokens)),
			score:   release.Score(name, m.Series.Title),
			title:   m.Series.Title,
		})
	}
	return rank(hits)
}

// MatchMovies returns the movie candidates for path, ordered like
// MatchSeries.
func (s *Set) MatchMovies(path string) []Candidate {
	name := nameForScore(path)
	var hits []ranked[Candidate]
	for _, m := range s.movies {
		c, ok := m.MatchMovie(path)
		if !ok {
			continue
		}
		hits = append(hits, ranked[Candidate]{
			m:       c,
			tokens:  len(m.title.tokens),
			pattern: len(release.TitlePattern(m.title.tokens)),
			score:   release.Score(name, m.Movie.Title),
			title:   m.Movie.Title,
		})
	}
	return rank(hits)
}

// MatchEpisodes returns every episode candidate for path across all
// matching series. Series are in MatchSeries order; within a series numbered
// identities precede date identities.
func (s *Set) MatchEpisodes(path string) []Candidate {
	var out []Candidate
	for _, m := range s.MatchSeries(path) {
		out = append(out, m.MatchEpisode(path)...)
	}
	return out
}
