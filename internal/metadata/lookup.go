package metadata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/pkg/release"
)

const searchTTL = time.Hour

// Cache key prefixes
const (
	keyPrefixSeriesSearch = "tvdb:search:"
	keyPrefixMovieSearch  = "tmdb:search:"
)

// LookupSeries searches the TV provider for name. Results are cached for an
// hour and ordered by title similarity to name.
func (r *Resolver) LookupSeries(ctx context.Context, name string) ([]*library.Series, error) {
	if r.tv == nil {
		return nil, fmt.Errorf("series lookup: %w", ErrNotFound)
	}
	name = release.NormalizeSearchQuery(name)
	return lookup(ctx, r, keyPrefixSeriesSearch+strings.ToLower(name), name,
		r.tv.SearchSeries,
		func(s *library.Series) string { return s.Title },
	)
}

// LookupMovies searches the movie provider for text. Results are cached
// for an hour and ordered by title similarity to text.
func (r *Resolver) LookupMovies(ctx context.Context, text string) ([]*library.Movie, error) {
	if r.movies == nil {
		return nil, fmt.Errorf("movie lookup: %w", ErrNotFound)
	}
	text = release.NormalizeSearchQuery(text)
	return lookup(ctx, r, keyPrefixMovieSearch+strings.ToLower(text), text,
		r.movies.SearchMovies,
		func(m *library.Movie) string { return m.Title },
	)
}

func lookup[T any](
	ctx context.Context,
	r *Resolver,
	key, query string,
	search func(context.Context, string) ([]T, error),
	title func(T) string,
) ([]T, error) {
	if r.cache != nil {
		if results, ok := getJSON[[]T](ctx, r.cache, key); ok {
			r.log.Debug("cache hit for search", "query", query, "results", len(results))
			return results, nil
		}
	}

	results, err := search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	scores := make(map[int]float64, len(results))
	for i, res := range results {
		scores[i] = release.Score(query, title(res))
	}
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	ranked := make([]T, len(results))
	for i, j := range idx {
		ranked[i] = results[j]
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, key, ranked, searchTTL); err != nil {
			r.log.Warn("failed to cache search results", "query", query, "error", err)
		}
	}
	return ranked, nil
}

// WatchSeries caches the full series record if needed and flags it for
// automatic management.
func (r *Resolver) WatchSeries(ctx context.Context, id int64, watch bool) (*library.Series, error) {
	s, err := r.ResolveSeries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("series %d: %w", id, err)
	}
	if err := r.store.SetSeriesWatch(id, watch); err != nil {
		return nil, err
	}
	s.Watch = watch
	r.log.Info("series watch updated", "series_id", id, "title", s.Title, "watch", watch)
	return s, nil
}

// WatchMovie caches the full movie record if needed and flags it for
// automatic management.
func (r *Resolver) WatchMovie(ctx context.Context, id int64, watch bool) (*library.Movie, error) {
	m, err := r.ResolveMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	if err := r.store.SetMovieWatch(id, watch); err != nil {
		return nil, err
	}
	m.Watch = watch
	r.log.Info("movie watch updated", "movie_id", id, "title", m.Title, "watch", watch)
	return m, nil
}
