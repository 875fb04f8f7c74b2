// Package metadata resolves file identities to full series, episode and
// movie records. The local library cache is consulted first; remote
// providers are only called on a miss and their results are written back.
package metadata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/matcher"
)

// ErrNotFound is returned when neither the cache nor the remote provider
// knows the requested record.
var ErrNotFound = errors.New("metadata not found")

//go:generate mockgen -destination=mocks/mock_providers.go -package=mocks . TVProvider,MovieProvider

// TVProvider is the remote source of series and episode metadata.
type TVProvider interface {
	SearchSeries(ctx context.Context, name string) ([]*library.Series, error)
	Series(ctx context.Context, id int64) (*library.Series, error)
	Episode(ctx context.Context, series *library.Series, season, episode int) (*library.Episode, error)
	EpisodeByDate(ctx context.Context, series *library.Series, day time.Time) (*library.Episode, error)
	Episodes(ctx context.Context, series *library.Series) ([]*library.Episode, error)
}

// MovieProvider is the remote source of movie metadata.
type MovieProvider interface {
	SearchMovies(ctx context.Context, text string) ([]*library.Movie, error)
	Movie(ctx context.Context, id int64) (*library.Movie, error)
}

// Resolver implements cache-aside resolution over the library store.
type Resolver struct {
	store  *library.Store
	cache  *Cache
	tv     TVProvider
	movies MovieProvider
	log    *slog.Logger
}

// NewResolver creates a resolver. Either provider may be nil, in which case
// lookups that need it report ErrNotFound on a cache miss.
func NewResolver(store *library.Store, cache *Cache, tv TVProvider, movies MovieProvider, log *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		cache:  cache,
		tv:     tv,
		movies: movies,
		log:    log.With("component", "resolver"),
	}
}

// resolve returns the local record when present. Otherwise it asks remote
// and hands a hit to save before returning it. A save failure is logged and
// the remote record is still returned; a remote failure counts as a miss.
func resolve[T any](
	ctx context.Context,
	log *slog.Logger,
	local func() (T, error),
	remote func(context.Context) (T, error),
	save func(T) error,
) (T, error) {
	var zero T

	v, err := local()
	if err == nil {
		log.Debug("cache hit")
		return v, nil
	}
	if !errors.Is(err, library.ErrNotFound) {
		log.Warn("cache lookup failed", "error", err)
	}

	if remote == nil {
		return zero, ErrNotFound
	}
	v, err = remote(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug("not found remotely")
		} else {
			log.Warn("remote lookup failed", "error", err)
		}
		return zero, ErrNotFound
	}

	if err := save(v); err != nil {
		log.Warn("failed to cache remote result", "error", err)
	}
	return v, nil
}

// ResolveSeries returns the series with the given TVDB ID.
func (r *Resolver) ResolveSeries(ctx context.Context, id int64) (*library.Series, error) {
	var remote func(context.Context) (*library.Series, error)
	if r.tv != nil {
		remote = func(ctx context.Context) (*library.Series, error) { return r.tv.Series(ctx, id) }
	}
	return resolve(ctx, r.log.With("series_id", id),
		func() (*library.Series, error) { return r.store.GetSeries(id) },
		remote,
		func(s *library.Series) error {
			_, err := r.store.AddSeries(s)
			return err
		},
	)
}

// ResolveEpisode returns an episode by season and episode number. The
// series must already be cached.
func (r *Resolver) ResolveEpisode(ctx context.Context, series *library.Series, season, episode int) (*library.Episode, error) {
	var remote func(context.Context) (*library.Episode, error)
	if r.tv != nil {
		remote = func(ctx context.Context) (*library.Episode, error) {
			return r.tv.Episode(ctx, series, season, episode)
		}
	}
	log := r.log.With("series_id", series.ID, "season", season, "episode", episode)
	return resolve(ctx, log,
		func() (*library.Episode, error) { return r.store.GetEpisode(series.ID, season, episode) },
		remote,
		r.saveEpisode(series),
	)
}

// ResolveEpisodeByDate returns the single episode of series that aired on
// day.
func (r *Resolver) ResolveEpisodeByDate(ctx context.Context, series *library.Series, day time.Time) (*library.Episode, error) {
	var remote func(context.Context) (*library.Episode, error)
	if r.tv != nil {
		remote = func(ctx context.Context) (*library.Episode, error) {
			return r.tv.EpisodeByDate(ctx, series, day)
		}
	}
	log := r.log.With("series_id", series.ID, "air_date", day.Format(library.AirDateLayout))
	return resolve(ctx, log,
		func() (*library.Episode, error) { return r.store.GetEpisodeByDate(series.ID, day) },
		remote,
		r.saveEpisode(series),
	)
}

func (r *Resolver) saveEpisode(series *library.Series) func(*library.Episode) error {
	return func(ep *library.Episode) error {
		ep.SeriesID = series.ID
		if ep.Series == nil {
			ep.Series = series
		}
		_, err := r.store.AddEpisode(ep)
		return err
	}
}

// ResolveMovie returns the movie with the given TMDB ID.
func (r *Resolver) ResolveMovie(ctx context.Context, id int64) (*library.Movie, error) {
	var remote func(context.Context) (*library.Movie, error)
	if r.movies != nil {
		remote = func(ctx context.Context) (*library.Movie, error) { return r.movies.Movie(ctx, id) }
	}
	return resolve(ctx, r.log.With("movie_id", id),
		func() (*library.Movie, error) { return r.store.GetMovie(id) },
		remote,
		func(m *library.Movie) error {
			_, err := r.store.AddMovie(m)
			return err
		},
	)
}

// Record is resolved metadata for one candidate: an episode or a movie.
type Record struct {
	Episode *library.Episode
	Movie   *library.Movie
}

// Resolve dispatches on the candidate's identity.
func (r *Resolver) Resolve(ctx context.Context, c matcher.Candidate) (Record, error) {
	if c.IsMovie() {
		m, err := r.ResolveMovie(ctx, c.MovieIdentity.MovieID)
		if err != nil {
			return Record{}, err
		}
		return Record{Movie: m}, nil
	}

	var ep *library.Episode
	var err error
	switch c.Identity.Kind() {
	case matcher.KindDate:
		day, _ := c.Identity.AirDate()
		ep, err = r.ResolveEpisodeByDate(ctx, c.Series, day)
	default:
		season, episode, _ := c.Identity.Number()
		ep, err = r.ResolveEpisode(ctx, c.Series, season, episode)
	}
	if err != nil {
		return Record{}, err
	}
	return Record{Episode: ep}, nil
}

// AllEpisodes returns every cached episode of series. When none are cached
// the full remote catalog is fetched once and written to the cache first.
func (r *Resolver) AllEpisodes(ctx context.Context, series *library.Series) ([]*library.Episode, error) {
	log := r.log.With("series_id", series.ID)
	filter := library.EpisodeFilter{SeriesID: &series.ID}

	eps, err := r.store.ListEpisodes(filter)
	if err != nil {
		return nil, err
	}
	if len(eps) > 0 || r.tv == nil {
		return eps, nil
	}

	remote, err := r.tv.Episodes(ctx, series)
	if err != nil {
		log.Warn("remote episode list failed", "error", err)
		return nil, nil
	}
	for _, ep := range remote {
		ep.SeriesID = series.ID
	}
	added, err := r.store.AddEpisodes(remote)
	if err != nil {
		return nil, err
	}
	log.Info("cached episode catalog", "fetched", len(remote), "added", added)

	return r.store.ListEpisodes(filter)
}

// ClearEpisodes drops the cached episodes of a series so they are fetched
// again on next use.
func (r *Resolver) ClearEpisodes(seriesID int64) (int64, error) {
	n, err := r.store.ClearEpisodes(seriesID)
	if err != nil {
		return 0, err
	}
	r.log.Info("cleared cached episodes", "series_id", seriesID, "count", n)
	return n, nil
}

// ClearMovie drops a cached movie and fetches it again, keeping its watch
// flag.
func (r *Resolver) ClearMovie(ctx context.Context, id int64) (*library.Movie, error) {
	watch := false
	if old, err := r.store.GetMovie(id); err == nil {
		watch = old.Watch
	}
	if err := r.store.DeleteMovie(id); err != nil {
		return nil, err
	}
	r.log.Info("cleared cached movie", "movie_id", id)

	m, err := r.ResolveMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if watch {
		if err := r.store.SetMovieWatch(id, true); err != nil {
			return nil, err
		}
		m.Watch = true
	}
	return m, nil
}
