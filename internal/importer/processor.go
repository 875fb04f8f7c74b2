// Package importer identifies media files in the input directories, resolves
// their metadata and places them into the library with sidecar files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/lock"
	"github.com/vmunix/arrshelf/internal/matcher"
	"github.com/vmunix/arrshelf/internal/metadata"
	"github.com/vmunix/arrshelf/internal/sidecar"
)

// Watchlist supplies the titles to match files against.
type Watchlist interface {
	WatchedSeries() ([]*library.Series, error)
	WatchedMovies() ([]*library.Movie, error)
}

// Resolver turns a candidate into full metadata.
type Resolver interface {
	Resolve(ctx context.Context, c matcher.Candidate) (metadata.Record, error)
}

// Config for the processor.
type Config struct {
	InputPath      string // TV input; files here are tried as episodes, then movies
	MovieInputPath string // optional; files here are tried as movies only
	TVPath         string
	MoviePath      string // optional; movies are not placed without it

	RecentPath      string
	RecentRetention time.Duration
	RecentCopy      bool // copy into recent additions instead of symlinking
	TVGenrePath     string
	MovieGenrePath  string

	Extensions []string // media file extensions
	MinFileAge time.Duration
	LockFile   string // defaults to DefaultLockFile()
	Move       bool

	Matching matcher.Options
}

// Match is an identified file: the candidate that resolved, its metadata
// and its library destination.
type Match struct {
	Candidate matcher.Candidate
	Record    metadata.Record
	Dest      string
}

// Kind returns KindEpisode or KindMovie.
func (m *Match) Kind() string {
	if m.Record.Movie != nil {
		return KindMovie
	}
	return KindEpisode
}

// TitleID returns the series ID of an episode or the movie ID.
func (m *Match) TitleID() int64 {
	if m.Record.Movie != nil {
		return m.Record.Movie.ID
	}
	return m.Record.Episode.SeriesID
}

func (m *Match) String() string {
	if m.Record.Movie != nil {
		return fmt.Sprintf("%s (%d)", m.Record.Movie.Title, m.Record.Movie.Year)
	}
	ep := m.Record.Episode
	return fmt.Sprintf("%s S%02dE%02d %q", m.Candidate.Title(), ep.Season, ep.Episode, ep.Title)
}

// Processor runs the matching pipeline over the input directories.
type Processor struct {
	cfg      Config
	watch    Watchlist
	resolver Resolver
	history  *HistoryStore // nil disables history
	format   sidecar.Format
	placer   *Placer
	recent   *Recent
	log      *slog.Logger
	now      func() time.Time
}

// DefaultLockFile is the lock used when Config.LockFile is empty.
func DefaultLockFile() string {
	return filepath.Join(os.TempDir(), "arrshelf.lock")
}

// New creates a processor.
func New(cfg Config, watch Watchlist, resolver Resolver, history *HistoryStore, format sidecar.Format, log *slog.Logger) *Processor {
	if cfg.LockFile == "" {
		cfg.LockFile = DefaultLockFile()
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultMediaExtensions
	}
	cfg.Extensions = NormalizeExtensions(cfg.Extensions)

	sidecarExt := ""
	if format != nil {
		sidecarExt = format.Extension()
	}
	recent := NewRecent(cfg.RecentPath, cfg.RecentRetention, cfg.Extensions, sidecarExt, log)
	if recent != nil {
		recent.copy = cfg.RecentCopy
	}

	return &Processor{
		cfg:      cfg,
		watch:    watch,
		resolver: resolver,
		history:  history,
		format:   format,
		placer:   NewPlacer(format, recent, cfg.Move, log),
		recent:   recent,
		log:      log.With("component", "processor"),
		now:      time.Now,
	}
}

func (p *Processor) moviesEnabled() bool { return p.cfg.MoviePath != "" }

// matchers builds the matcher set from the current watch list.
func (p *Processor) matchers() (*matcher.Set, error) {
	series, err := p.watch.WatchedSeries()
	if err != nil {
		return nil, fmt.Errorf("load watched series: %w", err)
	}
	var movies []*library.Movie
	if p.moviesEnabled() {
		movies, err = p.watch.WatchedMovies()
		if err != nil {
			return nil, fmt.Errorf("load watched movies: %w", err)
		}
	}
	set := matcher.NewSet(series, movies, p.cfg.Matching, p.log)
	p.log.Debug("matchers loaded", "series", set.SeriesCount(), "movies", set.MovieCount())
	return set, nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingDirectory, path)
	}
	return nil
}

// Process runs one pass over the input directories under the process lock.
// Per-file failures are counted in the summary and never abort the run.
func (p *Processor) Process(ctx context.Context) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString()}
	log := p.log.With("run_id", sum.RunID)

	run := func() error {
		if err := requireDir(p.cfg.InputPath); err != nil {
			return err
		}
		if err := requireDir(p.cfg.TVPath); err != nil {
			return err
		}

		set, err := p.matchers()
		if err != nil {
			return err
		}

		log.Info("processing started", "input", p.cfg.InputPath, "series", set.SeriesCount(), "movies", set.MovieCount())

		files, err := FindMediaFiles(p.cfg.InputPath, p.cfg.Extensions)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(files))
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			seen[path] = true
			sum.Add(p.processFile(ctx, log, set, path, true, sum.RunID))
		}

		if p.cfg.MovieInputPath != "" && p.moviesEnabled() {
			if err := requireDir(p.cfg.MovieInputPath); err != nil {
				log.Warn("skipping movie input", "error", err)
			} else {
				files, err := FindMediaFiles(p.cfg.MovieInputPath, p.cfg.Extensions)
				if err != nil {
					return err
				}
				for _, path := range files {
					if err := ctx.Err(); err != nil {
						return err
					}
					if seen[path] {
						continue
					}
					sum.Add(p.processFile(ctx, log, set, path, false, sum.RunID))
				}
			}
		}

		if p.recent != nil {
			n, err := p.recent.Sweep(p.now())
			if err != nil {
				log.Warn("recent additions sweep failed", "error", err)
			}
			sum.Swept = n
		}

		log.Info("processing complete",
			"scanned", sum.Scanned,
			"placed", sum.Placed,
			"skipped", sum.Skipped(),
			"failed", sum.Failed,
			"swept", sum.Swept)
		return nil
	}

	if err := lock.Run(p.cfg.LockFile, run); err != nil {
		return sum, err
	}
	return sum, nil
}

// processFile takes one file through the gates to placement.
func (p *Processor) processFile(ctx context.Context, log *slog.Logger, set *matcher.Set, path string, trySeries bool, runID string) Outcome {
	log = log.With("path", path)
	now := p.now()

	if err := CheckFresh(path, p.cfg.MinFileAge, now); err != nil {
		if errors.Is(err, ErrTooFresh) {
			log.Info("skipping file", "reason", ReasonTooFresh)
			return Outcome{Path: path, Status: StatusSkipped, Reason: ReasonTooFresh}
		}
		log.Warn("file failed", "error", err)
		return Outcome{Path: path, Status: StatusFailed, Err: err}
	}

	m, err := p.identify(ctx, set, path, trySeries)
	switch {
	case errors.Is(err, ErrNoMatch):
		log.Debug("skipping file", "reason", ReasonNoMatch)
		return Outcome{Path: path, Status: StatusSkipped, Reason: ReasonNoMatch}
	case errors.Is(err, metadata.ErrNotFound):
		log.Info("skipping file", "reason", ReasonNotFound, "error", err)
		return Outcome{Path: path, Status: StatusSkipped, Reason: ReasonNotFound}
	case err != nil:
		log.Warn("file failed", "error", err)
		return Outcome{Path: path, Status: StatusFailed, Err: err}
	}

	out := Outcome{Path: path, Match: m, Dest: m.Dest}
	if err := CheckDestination(m.Dest); errors.Is(err, ErrDestinationExists) {
		log.Info("skipping file", "reason", ReasonAlreadyExists, "dest", m.Dest)
		out.Status, out.Reason = StatusSkipped, ReasonAlreadyExists
		return out
	}

	size, err := p.placer.Place(p.placement(m, path, now), now)
	data := map[string]any{"run_id": runID, "match": m.String(), "move": p.cfg.Move}
	if err != nil {
		log.Error("placement failed", "dest", m.Dest, "error", err)
		data["error"] = err.Error()
		p.record(m, EventFailed, path, data)
		out.Status, out.Err = StatusFailed, err
		return out
	}

	log.Info("file placed", "match", m.String(), "dest", m.Dest, "size_bytes", size)
	data["size_bytes"] = size
	p.record(m, EventPlaced, path, data)
	out.Status, out.Bytes = StatusPlaced, size
	return out
}

func (p *Processor) record(m *Match, event, src string, data map[string]any) {
	if p.history == nil {
		return
	}
	if err := p.history.Record(m.Kind(), m.TitleID(), event, src, m.Dest, data); err != nil {
		p.log.Warn("failed to record history", "event", event, "error", err)
	}
}

// placement assembles everything Place needs for m.
func (p *Processor) placement(m *Match, src string, now time.Time) Placement {
	pl := Placement{
		Source:  src,
		Dest:    m.Dest,
		Sidecar: p.Sidecar(m, now),
	}
	if mv := m.Record.Movie; mv != nil {
		pl.GenreRoot = p.cfg.MovieGenrePath
		pl.GenreTarget = m.Dest
		pl.Genres = mv.Genres
		pl.GenreSidecar = true
		return pl
	}
	series := m.Record.Episode.Series
	pl.GenreRoot = p.cfg.TVGenrePath
	pl.GenreTarget = SeriesDir(p.cfg.TVPath, series)
	pl.Genres = series.Genres
	return pl
}

// Sidecar renders the sidecar lines of m, or nil without a format.
func (p *Processor) Sidecar(m *Match, recorded time.Time) []string {
	if p.format == nil {
		return nil
	}
	if m.Record.Movie != nil {
		return p.format.Movie(m.Record.Movie)
	}
	return p.format.Episode(m.Record.Episode, recorded)
}

// identify returns the first candidate for path that resolves. Series
// candidates are only tried when trySeries is set; movie candidates follow.
// It returns ErrNoMatch without candidates and metadata.ErrNotFound when
// none resolves.
func (p *Processor) identify(ctx context.Context, set *matcher.Set, path string, trySeries bool) (*Match, error) {
	var candidates []matcher.Candidate
	if trySeries {
		candidates = append(candidates, set.MatchEpisodes(path)...)
	}
	if p.moviesEnabled() {
		candidates = append(candidates, set.MatchMovies(path)...)
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}

	for _, c := range candidates {
		rec, err := p.resolver.Resolve(ctx, c)
		if errors.Is(err, metadata.ErrNotFound) {
			p.log.Debug("candidate not found", "path", path, "candidate", c.String())
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec.Episode != nil && rec.Episode.Series == nil {
			rec.Episode.Series = c.Series
		}
		dest, err := p.destination(rec, c, filepath.Ext(path))
		if err != nil {
			return nil, err
		}
		return &Match{Candidate: c, Record: rec, Dest: dest}, nil
	}
	return nil, fmt.Errorf("%s: %w", candidates[0], metadata.ErrNotFound)
}

func (p *Processor) destination(rec metadata.Record, c matcher.Candidate, ext string) (string, error) {
	if rec.Movie != nil {
		return MovieDestination(p.cfg.MoviePath, rec.Movie, c.MovieIdentity.Disc, ext)
	}
	ep := rec.Episode
	return EpisodeDestination(p.cfg.TVPath, ep.Series, ep.Season, ep.Episode, ext)
}

// Identify matches and resolves a single file on demand. Unless
// skipTimeCheck is set the freshness gate applies.
func (p *Processor) Identify(ctx context.Context, path string, skipTimeCheck bool) (*Match, error) {
	if !skipTimeCheck {
		if err := CheckFresh(path, p.cfg.MinFileAge, p.now()); err != nil {
			return nil, err
		}
	}
	set, err := p.matchers()
	if err != nil {
		return nil, err
	}
	return p.identify(ctx, set, path, true)
}

// Generate rewrites the sidecar of every identifiable media file under dir.
func (p *Processor) Generate(ctx context.Context, dir string) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString()}
	if err := requireDir(dir); err != nil {
		return sum, err
	}
	set, err := p.matchers()
	if err != nil {
		return sum, err
	}
	files, err := FindMediaFiles(dir, p.cfg.Extensions)
	if err != nil {
		return sum, err
	}

	log := p.log.With("run_id", sum.RunID, "dir", dir)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		m, err := p.identify(ctx, set, path, true)
		switch {
		case errors.Is(err, ErrNoMatch):
			log.Debug("skipping file", "path", path, "reason", ReasonNoMatch)
			sum.Add(Outcome{Path: path, Status: StatusSkipped, Reason: ReasonNoMatch})
			continue
		case errors.Is(err, metadata.ErrNotFound):
			log.Info("skipping file", "path", path, "reason", ReasonNotFound)
			sum.Add(Outcome{Path: path, Status: StatusSkipped, Reason: ReasonNotFound})
			continue
		case err != nil:
			log.Warn("file failed", "path", path, "error", err)
			sum.Add(Outcome{Path: path, Status: StatusFailed, Err: err})
			continue
		}

		if err := p.placer.WriteSidecar(path, p.Sidecar(m, p.now())); err != nil {
			log.Warn("sidecar write failed", "path", path, "error", err)
			sum.Add(Outcome{Path: path, Status: StatusFailed, Match: m, Err: err})
			continue
		}
		log.Info("sidecar written", "path", path, "match", m.String())
		p.record(m, EventRegenerated, path, map[string]any{"run_id": sum.RunID})
		sum.Add(Outcome{Path: path, Status: StatusGenerated, Match: m, Dest: path})
	}
	return sum, nil
}

// Regenerate runs Generate over the TV library and, when configured, the
// movie library.
func (p *Processor) Regenerate(ctx context.Context) (*Summary, error) {
	sum, err := p.Generate(ctx, p.cfg.TVPath)
	if err != nil {
		return sum, err
	}
	if p.moviesEnabled() && p.cfg.MoviePath != p.cfg.TVPath {
		movies, err := p.Generate(ctx, p.cfg.MoviePath)
		sum.Merge(movies)
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}
