package metadata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/tmdb"
	"github.com/vmunix/arrshelf/pkg/tvdb"
)

// TVDB adapts a tvdb.Client to TVProvider.
type TVDB struct {
	client *tvdb.Client
	log    *slog.Logger
}

// NewTVDB wraps client.
func NewTVDB(client *tvdb.Client, log *slog.Logger) *TVDB {
	return &TVDB{client: client, log: log.With("provider", "tvdb")}
}

func tvdbErr(err error) error {
	if errors.Is(err, tvdb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SearchSeries implements TVProvider.
func (p *TVDB) SearchSeries(ctx context.Context, name string) ([]*library.Series, error) {
	results, err := p.client.Search(ctx, name)
	if err != nil {
		return nil, tvdbErr(err)
	}
	out := make([]*library.Series, 0, len(results))
	for _, res := range results {
		if res.ID == 0 {
			continue
		}
		out = append(out, &library.Series{ID: int64(res.ID), Title: res.Name, Description: res.Overview})
	}
	return out, nil
}

// Series implements TVProvider.
func (p *TVDB) Series(ctx context.Context, id int64) (*library.Series, error) {
	s, err := p.client.GetSeries(ctx, int(id))
	if err != nil {
		return nil, tvdbErr(err)
	}
	return &library.Series{
		ID:            int64(s.ID),
		Title:         s.Name,
		Description:   s.Overview,
		Zap2itID:      s.Zap2itID,
		IMDBID:        s.IMDBID,
		Actors:        s.Actors,
		Genres:        s.Genres,
		ContentRating: s.ContentRating,
	}, nil
}

// Episode implements TVProvider. Crew credits are fetched with a second
// request; when that fails the episode is returned without them.
func (p *TVDB) Episode(ctx context.Context, series *library.Series, season, episode int) (*library.Episode, error) {
	ep, err := p.client.GetEpisode(ctx, int(series.ID), season, episode)
	if err != nil {
		return nil, tvdbErr(err)
	}
	return p.withCredits(ctx, series, ep), nil
}

// EpisodeByDate implements TVProvider.
func (p *TVDB) EpisodeByDate(ctx context.Context, series *library.Series, day time.Time) (*library.Episode, error) {
	ep, err := p.client.GetEpisodeByAirDate(ctx, int(series.ID), day)
	if err != nil {
		return nil, tvdbErr(err)
	}
	return p.withCredits(ctx, series, ep), nil
}

// Episodes implements TVProvider. The bulk listing carries no credits.
func (p *TVDB) Episodes(ctx context.Context, series *library.Series) ([]*library.Episode, error) {
	eps, err := p.client.GetEpisodes(ctx, int(series.ID))
	if err != nil {
		return nil, tvdbErr(err)
	}
	out := make([]*library.Episode, 0, len(eps))
	for i := range eps {
		out = append(out, toEpisode(series, &eps[i]))
	}
	return out, nil
}

func (p *TVDB) withCredits(ctx context.Context, series *library.Series, ep *tvdb.Episode) *library.Episode {
	if ext, err := p.client.GetEpisodeExtended(ctx, ep.ID); err == nil {
		ep.Directors = ext.Directors
		ep.Writers = ext.Writers
		ep.GuestStars = ext.GuestStars
		ep.Producers = ext.Producers
		ep.ExecutiveProducers = ext.ExecutiveProducers
		ep.Hosts = ext.Hosts
	} else {
		p.log.Debug("episode credits unavailable", "episode_id", ep.ID, "error", err)
	}
	return toEpisode(series, ep)
}

func toEpisode(series *library.Series, ep *tvdb.Episode) *library.Episode {
	out := &library.Episode{
		SeriesID:           series.ID,
		Season:             ep.Season,
		Episode:            ep.Episode,
		Title:              ep.Name,
		Description:        ep.Overview,
		Directors:          ep.Directors,
		GuestStars:         ep.GuestStars,
		Writers:            ep.Writers,
		ExecutiveProducers: ep.ExecutiveProducers,
		Producers:          ep.Producers,
		Series:             series,
	}
	if len(ep.Hosts) > 0 {
		out.Host = ep.Hosts[0]
	}
	if !ep.AirDate.IsZero() {
		d := ep.AirDate
		out.AirDate = &d
	}
	return out
}

// TMDB adapts a tmdb.Client to MovieProvider.
type TMDB struct {
	client *tmdb.Client
}

// NewTMDB wraps client.
func NewTMDB(client *tmdb.Client) *TMDB {
	return &TMDB{client: client}
}

func tmdbErr(err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SearchMovies implements MovieProvider. Results carry summary fields only.
func (p *TMDB) SearchMovies(ctx context.Context, text string) ([]*library.Movie, error) {
	results, err := p.client.SearchMovies(ctx, text)
	if err != nil {
		return nil, tmdbErr(err)
	}
	out := make([]*library.Movie, 0, len(results))
	for _, res := range results {
		out = append(out, &library.Movie{
			ID:          res.ID,
			Title:       res.Title,
			Year:        res.Year(),
			Description: res.Overview,
			Rating:      res.VoteAverage,
		})
	}
	return out, nil
}

// Movie implements MovieProvider.
func (p *TMDB) Movie(ctx context.Context, id int64) (*library.Movie, error) {
	m, err := p.client.GetMovie(ctx, id)
	if err != nil {
		return nil, tmdbErr(err)
	}
	return &library.Movie{
		ID:          m.ID,
		IMDBID:      m.IMDBID,
		Title:       m.Title,
		Description: m.Overview,
		Year:        m.Year(),
		Rating:      m.VoteAverage,
		Directors:   m.Directors,
		Writers:     m.Writers,
		Producers:   m.Producers,
		Actors:      m.Actors,
		Genres:      m.Genres,
		MPAARating:  m.Certification,
	}, nil
}
