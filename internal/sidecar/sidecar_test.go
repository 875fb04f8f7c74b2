package sidecar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrshelf/internal/library"
)

func TestLookup(t *testing.T) {
	f, err := Lookup("pyTivo")
	require.NoError(t, err)
	assert.Equal(t, ".txt", f.Extension())
	assert.Equal(t, "/tv/a.mkv.txt", Path(f, "/tv/a.mkv"))

	_, err = Lookup("kodi")
	assert.Error(t, err)
	assert.Contains(t, Names(), "pytivo")
}

func TestToASCII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Amélie", "Amelie"},
		{"Pokémon", "Pokemon"},
		{"ﬁsh", "fish"},
		{"plain", "plain"},
		{"東京", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToASCII(tt.in))
		})
	}
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
		ok     bool
	}{
		{10, "x7", true},
		{7.9, "x5", true},
		{5, "x3", true},
		{1.9, "x1", true},
		{1.0, "", false},
		{0, "", false},
	}
	for _, tt := range tests {
		got, ok := starRating(tt.rating)
		assert.Equal(t, tt.ok, ok, "rating %v", tt.rating)
		assert.Equal(t, tt.want, got, "rating %v", tt.rating)
	}
}

func TestPyTivo_Episode(t *testing.T) {
	aired := time.Date(2005, 10, 18, 0, 0, 0, 0, time.UTC)
	ep := &library.Episode{
		Season:      2,
		Episode:     5,
		Title:       "Halloween",
		Description: "Michael must fire\nsomeone.",
		AirDate:     &aired,
		Rating:      7.9,
		Directors:   []string{"Paul Feig", " "},
		Writers:     []string{"Greg Daniels"},
		Series: &library.Series{
			Title:         "The Office",
			Zap2itID:      "EP00755779",
			ContentRating: "TV-14",
			Actors:        []string{"Steve Carell"},
			Genres:        []string{"Comedy"},
		},
	}
	recorded := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	got := PyTivo{}.Episode(ep, recorded)
	assert.Equal(t, []string{
		"isEpisode : true",
		"title : Halloween",
		"time : 2024-01-02T03:04:05Z",
		"description: #5.  Michael must fire someone.",
		"originalAirDate : 2005-10-18T00:00:00Z",
		"vDirector : Paul Feig",
		"vWriter : Greg Daniels",
		"starRating : x5",
		"seriesTitle : The Office",
		"seriesId : EP00755779",
		"tvRating : x5",
		"vActor : Steve Carell",
		"vProgramGenre : Comedy",
	}, got)
}

func TestPyTivo_EpisodeUnknownRating(t *testing.T) {
	ep := &library.Episode{Episode: 1, Series: &library.Series{Title: "X", ContentRating: "M"}}
	got := PyTivo{}.Episode(ep, time.Now())
	assert.Contains(t, got, "tvRating : x0")
	assert.NotContains(t, got, "originalAirDate")
}

func TestPyTivo_Movie(t *testing.T) {
	m := &library.Movie{
		Title:       "Heat",
		Year:        1995,
		Description: "A cop and a thief.",
		Rating:      7.9,
		MPAARating:  "R",
		Directors:   []string{"Michael Mann"},
		Actors:      []string{"Al Pacino", "Robert De Niro"},
		Genres:      []string{"Crime"},
	}
	assert.Equal(t, []string{
		"isEpisode : false",
		"title : Heat",
		"movieYear : 1995",
		"description : A cop and a thief.",
		"starRating : x5",
		"mpaaRating : R4",
		"vDirector : Michael Mann",
		"vActor : Al Pacino",
		"vActor : Robert De Niro",
		"vProgramGenre : Crime",
	}, PyTivo{}.Movie(m))

	m.MPAARating = "NC-17"
	assert.Contains(t, PyTivo{}.Movie(m), "mpaaRating : N6")
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.mkv.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\nstale\nstale\n"), 0o644))

	require.NoError(t, Write(path, []string{"title : Amélie", "isEpisode : false"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title : Amelie\nisEpisode : false\n", string(data))
}
