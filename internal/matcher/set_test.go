package matcher

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrshelf/internal/library"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSet_MatchSeries_MostSpecificFirst(t *testing.T) {
	set := NewSet([]*library.Series{
		{ID: 1, Title: "The Office"},
		{ID: 2, Title: "The Office (US)"},
		{ID: 3, Title: "Office"},
	}, nil, testOpts, testLogger())

	got := set.MatchSeries("/in/The.Office.US.S02E05.mkv")
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].Series.ID, "more title words wins")
	// "The Office" and "Office" share the same token list; the fuzzy score
	// against the file name decides, then the title.
	assert.ElementsMatch(t, []int64{1, 3}, []int64{got[1].Series.ID, got[2].Series.ID})
}

func TestSet_MatchSeries_LongerPatternWins(t *testing.T) {
	set := NewSet([]*library.Series{
		{ID: 1, Title: "Lost"},
		{ID: 2, Title: "Lostprophets"},
	}, nil, testOpts, testLogger())

	got := set.MatchSeries("/in/Lostprophets.S01E01.mkv")
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Series.ID)
}

func TestSet_MatchSeries_Deterministic(t *testing.T) {
	series := []*library.Series{
		{ID: 1, Title: "Show B"},
		{ID: 2, Title: "Show A"},
	}
	a := NewSet(series, nil, testOpts, testLogger())
	b := NewSet([]*library.Series{series[1], series[0]}, nil, testOpts, testLogger())

	path := "/in/Show A Show B s01e01.mkv"
	ga, gb := a.MatchSeries(path), b.MatchSeries(path)
	require.Len(t, ga, 2)
	require.Len(t, gb, 2)
	assert.Equal(t, ga[0].Series.ID, gb[0].Series.ID)
	assert.Equal(t, ga[1].Series.ID, gb[1].Series.ID)
}

func TestSet_SkipsEmptyTitles(t *testing.T) {
	set := NewSet(
		[]*library.Series{{ID: 1, Title: "The"}, {ID: 2, Title: "Lost"}},
		[]*library.Movie{{ID: 3, Title: "A"}},
		testOpts, testLogger(),
	)
	assert.Equal(t, 1, set.SeriesCount())
	assert.Equal(t, 0, set.MovieCount())
}

func TestSet_MatchEpisodes(t *testing.T) {
	set := NewSet([]*library.Series{{ID: 1, Title: "News"}}, nil, testOpts, testLogger())

	got := set.MatchEpisodes("/in/News.2011-03-05.avi")
	require.Len(t, got, 1)
	assert.Equal(t, KindDate, got[0].Identity.Kind())

	assert.Empty(t, set.MatchEpisodes("/in/Weather.2011-03-05.avi"))
}

func TestSet_MatchMovies(t *testing.T) {
	set := NewSet(nil, []*library.Movie{
		{ID: 1, Title: "Alien", Year: 1979},
		{ID: 2, Title: "Aliens", Year: 1986},
	}, testOpts, testLogger())

	got := set.MatchMovies("/in/Aliens.1986.mkv")
	require.Len(t, got, 1, "Alien's year does not agree")
	assert.Equal(t, int64(2), got[0].MovieIdentity.MovieID)
}
