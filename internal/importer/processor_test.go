// internal/importer/processor_test.go
package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/lock"
	"github.com/vmunix/arrshelf/internal/metadata"
	"github.com/vmunix/arrshelf/internal/metadata/mocks"
	"github.com/vmunix/arrshelf/internal/sidecar"
)

type testEnv struct {
	cfg     Config
	store   *library.Store
	history *HistoryStore
	tv      *mocks.MockTVProvider
	movies  *mocks.MockMovieProvider
	proc    *Processor
}

func setupProcessor(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := setupTestDB(t)
	root := t.TempDir()

	cfg := Config{
		InputPath:       filepath.Join(root, "incoming"),
		MovieInputPath:  filepath.Join(root, "incoming-movies"),
		TVPath:          filepath.Join(root, "tv"),
		MoviePath:       filepath.Join(root, "movies"),
		RecentPath:      filepath.Join(root, "recent"),
		RecentRetention: 24 * time.Hour,
		MovieGenrePath:  filepath.Join(root, "genres", "movies"),
		TVGenrePath:     filepath.Join(root, "genres", "tv"),
		LockFile:        filepath.Join(root, "arrshelf.lock"),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	for _, dir := range []string{cfg.InputPath, cfg.MovieInputPath, cfg.TVPath, cfg.MoviePath} {
		if dir != "" {
			require.NoError(t, os.MkdirAll(dir, 0o755))
		}
	}

	env := &testEnv{
		cfg:     cfg,
		store:   library.NewStore(db),
		history: NewHistoryStore(db),
		tv:      mocks.NewMockTVProvider(ctrl),
		movies:  mocks.NewMockMovieProvider(ctrl),
	}

	_, err := env.store.AddSeries(&library.Series{ID: 73244, Title: "The Office", Genres: []string{"Comedy"}, ContentRating: "TV-14", Watch: true})
	require.NoError(t, err)
	_, err = env.store.AddMovie(&library.Movie{ID: 949, Title: "Heat", Year: 1995, Genres: []string{"Crime"}, MPAARating: "R", Watch: true})
	require.NoError(t, err)

	resolver := metadata.NewResolver(env.store, metadata.NewCache(db), env.tv, env.movies, testLogger())
	env.proc = New(cfg, env.store, resolver, env.history, sidecar.PyTivo{}, testLogger())
	return env
}

func (e *testEnv) expectHalloween(times int) {
	e.tv.EXPECT().
		Episode(gomock.Any(), gomock.Any(), 2, 5).
		Return(&library.Episode{Season: 2, Episode: 5, Title: "Halloween", Directors: []string{"Paul Feig"}}, nil).
		Times(times)
}

func officeDest(cfg Config) string {
	return filepath.Join(cfg.TVPath, "The Office", "Season 02", "the_office-s02_e005.mkv")
}

func TestProcess_PlacesEpisode(t *testing.T) {
	env := setupProcessor(t, nil)
	env.expectHalloween(1)
	src := filepath.Join(env.cfg.InputPath, "The.Office.S02E05.720p.HDTV.mkv")
	writeFile(t, src, "episode", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Scanned)
	assert.Equal(t, 1, sum.Placed)
	assert.Equal(t, int64(len("episode")), sum.Bytes)
	assert.NotEmpty(t, sum.RunID)

	dest := officeDest(env.cfg)
	assert.Equal(t, "episode", readFile(t, dest))
	assert.FileExists(t, src, "copy mode keeps the source")

	meta := readFile(t, dest+".txt")
	assert.Contains(t, meta, "title : Halloween\n")
	assert.Contains(t, meta, "seriesTitle : The Office\n")
	assert.Contains(t, meta, "vDirector : Paul Feig\n")
	assert.Contains(t, meta, "tvRating : x5\n")

	recent, err := filepath.Glob(filepath.Join(env.cfg.RecentPath, "*_the_office-s02_e005.mkv"))
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	link, err := os.Readlink(filepath.Join(env.cfg.TVGenrePath, "Comedy", "The Office"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cfg.TVPath, "The Office"), link)

	entries, err := env.history.List(HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EventPlaced, entries[0].Event)
	assert.Equal(t, KindEpisode, entries[0].Kind)
	assert.Equal(t, int64(73244), entries[0].TitleID)
	assert.Equal(t, dest, entries[0].DestPath)
	assert.Contains(t, entries[0].Data, sum.RunID)

	_, err = os.Stat(env.cfg.LockFile)
	assert.True(t, os.IsNotExist(err), "lock file removed after the run")
}

func TestProcess_Idempotent(t *testing.T) {
	env := setupProcessor(t, nil)
	env.expectHalloween(1)
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "episode", 0)

	first, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Placed)

	second, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Placed)
	assert.Equal(t, 1, second.AlreadyExists)
	assert.NotEqual(t, first.RunID, second.RunID)
	require.Len(t, second.Outcomes, 1)
	assert.Equal(t, ReasonAlreadyExists, second.Outcomes[0].Reason)
}

func TestProcess_MoveMode(t *testing.T) {
	env := setupProcessor(t, func(c *Config) { c.Move = true })
	env.expectHalloween(1)
	src := filepath.Join(env.cfg.InputPath, "office", "The.Office.S02E05.mkv")
	writeFile(t, src, "episode", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Placed)

	assert.NoFileExists(t, src)
	assert.FileExists(t, officeDest(env.cfg))
}

func TestProcess_TooFresh(t *testing.T) {
	env := setupProcessor(t, func(c *Config) { c.MinFileAge = time.Hour })
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "episode", 10*time.Minute)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TooFresh)
	assert.NoFileExists(t, officeDest(env.cfg))

	// Once old enough the file goes through.
	env.expectHalloween(1)
	env.proc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	sum, err = env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Placed)
}

func TestProcess_Skips(t *testing.T) {
	env := setupProcessor(t, nil)
	env.tv.EXPECT().Episode(gomock.Any(), gomock.Any(), 9, 9).Return(nil, metadata.ErrNotFound)
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S09E09.mkv"), "x", 0)
	writeFile(t, filepath.Join(env.cfg.InputPath, "holiday.video.mkv"), "x", 0)
	writeFile(t, filepath.Join(env.cfg.InputPath, "readme.txt"), "x", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Scanned, "non-media files are not scanned")
	assert.Equal(t, 1, sum.NotFound)
	assert.Equal(t, 1, sum.NoMatch)
	assert.Zero(t, sum.Placed)
}

func TestProcess_ByAirDate(t *testing.T) {
	env := setupProcessor(t, nil)
	aired := time.Date(2005, 10, 18, 0, 0, 0, 0, time.UTC)
	env.tv.EXPECT().
		EpisodeByDate(gomock.Any(), gomock.Any(), aired).
		Return(&library.Episode{Season: 2, Episode: 5, Title: "Halloween", AirDate: &aired}, nil)
	writeFile(t, filepath.Join(env.cfg.InputPath, "the.office.2005.10.18.mkv"), "x", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Placed)
	assert.Contains(t, readFile(t, officeDest(env.cfg)+".txt"), "originalAirDate : 2005-10-18T00:00:00Z\n")
}

func TestProcess_Movie(t *testing.T) {
	env := setupProcessor(t, nil)
	writeFile(t, filepath.Join(env.cfg.MovieInputPath, "Heat.1995.1080p.BluRay.mkv"), "movie", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Placed)

	dest := filepath.Join(env.cfg.MoviePath, "Heat (1995) [949].mkv")
	assert.Equal(t, "movie", readFile(t, dest))
	meta := readFile(t, dest+".txt")
	assert.Contains(t, meta, "isEpisode : false\n")
	assert.Contains(t, meta, "mpaaRating : R4\n")

	genre := filepath.Join(env.cfg.MovieGenrePath, "Crime", "Heat (1995) [949].mkv")
	assert.Equal(t, "movie", readFile(t, genre))
	assert.FileExists(t, genre+".txt")
}

func TestProcess_MovieInTVInput(t *testing.T) {
	env := setupProcessor(t, nil)
	writeFile(t, filepath.Join(env.cfg.InputPath, "Heat.CD2.mkv"), "movie", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Placed)
	assert.FileExists(t, filepath.Join(env.cfg.MoviePath, "Heat (1995) Disc2 [949].mkv"))
}

func TestProcess_MoviesDisabled(t *testing.T) {
	env := setupProcessor(t, func(c *Config) {
		c.MoviePath = ""
		c.MovieInputPath = ""
	})
	writeFile(t, filepath.Join(env.cfg.InputPath, "Heat.1995.mkv"), "movie", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.NoMatch)
}

func TestProcess_PlacementFailure(t *testing.T) {
	env := setupProcessor(t, nil)
	env.expectHalloween(1)
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "x", 0)
	writeFile(t, filepath.Join(env.cfg.TVPath, "The Office"), "not a directory", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err, "per-file failures do not abort the run")
	assert.Equal(t, 1, sum.Failed)
	require.Len(t, sum.Outcomes, 1)
	assert.ErrorIs(t, sum.Outcomes[0].Err, ErrIOFailure)

	event := EventFailed
	entries, err := env.history.List(HistoryFilter{Event: &event})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProcess_LockHeld(t *testing.T) {
	env := setupProcessor(t, nil)
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "x", 0)

	err := lock.Run(env.cfg.LockFile, func() error {
		_, err := env.proc.Process(context.Background())
		return err
	})
	assert.ErrorIs(t, err, lock.ErrLockHeld)
	assert.NoFileExists(t, officeDest(env.cfg))
}

func TestProcess_MissingDirectories(t *testing.T) {
	env := setupProcessor(t, nil)
	require.NoError(t, os.RemoveAll(env.cfg.TVPath))

	_, err := env.proc.Process(context.Background())
	assert.ErrorIs(t, err, ErrMissingDirectory)
}

func TestProcess_Cancelled(t *testing.T) {
	env := setupProcessor(t, nil)
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "x", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.proc.Process(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdentify(t *testing.T) {
	env := setupProcessor(t, func(c *Config) { c.MinFileAge = time.Hour })
	env.expectHalloween(1)
	path := filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv")
	writeFile(t, path, "x", 0)

	_, err := env.proc.Identify(context.Background(), path, false)
	assert.ErrorIs(t, err, ErrTooFresh)

	m, err := env.proc.Identify(context.Background(), path, true)
	require.NoError(t, err)
	assert.Equal(t, officeDest(env.cfg), m.Dest)
	assert.Equal(t, KindEpisode, m.Kind())
	assert.Equal(t, int64(73244), m.TitleID())
	assert.Contains(t, env.proc.Sidecar(m, time.Now()), "title : Halloween")

	_, err = env.proc.Identify(context.Background(), filepath.Join(env.cfg.InputPath, "nothing.mkv"), true)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestGenerate(t *testing.T) {
	env := setupProcessor(t, nil)
	env.expectHalloween(1)
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "x", 0)
	_, err := env.proc.Process(context.Background())
	require.NoError(t, err)

	dest := officeDest(env.cfg)
	require.NoError(t, os.Remove(dest+".txt"))
	writeFile(t, filepath.Join(env.cfg.MoviePath, "Heat (1995) [949].mkv"), "movie", 0)
	writeFile(t, filepath.Join(env.cfg.MoviePath, "Unknown (2001) [5].mkv"), "movie", 0)

	sum, err := env.proc.Regenerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Generated)
	assert.Equal(t, 1, sum.NoMatch)

	assert.Contains(t, readFile(t, dest+".txt"), "title : Halloween\n")
	assert.Contains(t, readFile(t, filepath.Join(env.cfg.MoviePath, "Heat (1995) [949].mkv.txt")), "title : Heat\n")
}

func TestGenerate_MissingDir(t *testing.T) {
	env := setupProcessor(t, nil)
	_, err := env.proc.Generate(context.Background(), filepath.Join(env.cfg.TVPath, "nope"))
	assert.ErrorIs(t, err, ErrMissingDirectory)
}

func TestProcess_DefaultLockFile(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	env := setupProcessor(t, func(c *Config) { c.LockFile = "" })
	writeFile(t, filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv"), "x", 0)
	require.Equal(t, DefaultLockFile(), env.proc.cfg.LockFile)

	err := lock.Run(DefaultLockFile(), func() error {
		_, err := env.proc.Process(context.Background())
		return err
	})
	assert.ErrorIs(t, err, lock.ErrLockHeld, "an unset lock file still locks")
	assert.NoFileExists(t, officeDest(env.cfg))
}

func TestProcess_RelativePaths(t *testing.T) {
	testChdir(t, t.TempDir())
	env := setupProcessor(t, func(c *Config) {
		c.InputPath = "incoming"
		c.MovieInputPath = "incoming-movies"
		c.TVPath = "tv"
		c.MoviePath = "movies"
		c.RecentPath = "recent"
		c.TVGenrePath = filepath.Join("genres", "tv")
		c.MovieGenrePath = filepath.Join("genres", "movies")
		c.LockFile = "arrshelf.lock"
	})
	env.expectHalloween(1)
	writeFile(t, filepath.Join("incoming", "The.Office.S02E05.mkv"), "episode", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Placed)

	recent, err := filepath.Glob(filepath.Join("recent", "*_the_office-s02_e005.mkv"))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "episode", readFile(t, recent[0]), "recent entry resolves")
	_, err = os.Stat(recent[0] + ".txt")
	assert.NoError(t, err, "recent sidecar resolves")

	info, err := os.Stat(filepath.Join("genres", "tv", "Comedy", "The Office"))
	require.NoError(t, err, "genre link resolves")
	assert.True(t, info.IsDir())
}

func TestProcess_CopyFailureRemovesPartialPlacement(t *testing.T) {
	env := setupProcessor(t, nil)
	env.expectHalloween(1)
	src := filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv")
	writeFile(t, src, "episode", 0)
	writeFile(t, env.cfg.RecentPath, "not a directory", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.NoFileExists(t, officeDest(env.cfg))
	assert.NoFileExists(t, officeDest(env.cfg)+".txt")
	assert.FileExists(t, src)

	require.NoError(t, os.Remove(env.cfg.RecentPath))
	sum, err = env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Placed, "the next run retries the file")
	assert.FileExists(t, officeDest(env.cfg)+".txt")
}

func TestProcess_MoveFailureKeepsMedia(t *testing.T) {
	env := setupProcessor(t, func(c *Config) { c.Move = true })
	env.expectHalloween(1)
	src := filepath.Join(env.cfg.InputPath, "The.Office.S02E05.mkv")
	writeFile(t, src, "episode", 0)
	writeFile(t, env.cfg.RecentPath, "not a directory", 0)

	sum, err := env.proc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, "episode", readFile(t, officeDest(env.cfg)), "moved media is not deleted")
	assert.NoFileExists(t, src)
}
