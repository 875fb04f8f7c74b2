package metadata_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/metadata"
	"github.com/vmunix/arrshelf/internal/tmdb"
	"github.com/vmunix/arrshelf/pkg/tvdb"
)

// tvdbServer serves canned JSON bodies by path. Unknown paths are 404.
func tvdbServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			fmt.Fprint(w, `{"status":"success","data":{"token":"tok"}}`)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTVDB(t *testing.T, bodies map[string]string) *metadata.TVDB {
	srv := tvdbServer(t, bodies)
	return metadata.NewTVDB(tvdb.New("key", tvdb.WithBaseURL(srv.URL)), testLogger())
}

const officeEpisodes = `{"status":"success","data":{"episodes":[
	{"id":101,"seasonNumber":2,"number":5,"name":"Halloween","aired":"2005-10-18"},
	{"id":102,"seasonNumber":2,"number":6,"name":"The Fight","aired":"2005-11-01"}
]},"links":{"next":""}}`

func TestTVDB_EpisodeWithCredits(t *testing.T) {
	p := newTVDB(t, map[string]string{
		"/series/73244/episodes/default": officeEpisodes,
		"/episodes/101/extended": `{"status":"success","data":{"id":101,"seasonNumber":2,"number":5,
			"name":"Halloween","aired":"2005-10-18","characters":[
			{"personName":"Paul Feig","peopleType":"Director"},
			{"personName":"Greg Daniels","peopleType":"Writer"},
			{"personName":"Conan O'Brien","peopleType":"Host"}]}}`,
	})
	office := &library.Series{ID: 73244, Title: "The Office"}

	ep, err := p.Episode(context.Background(), office, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "Halloween", ep.Title)
	assert.Equal(t, int64(73244), ep.SeriesID)
	assert.Equal(t, []string{"Paul Feig"}, ep.Directors)
	assert.Equal(t, []string{"Greg Daniels"}, ep.Writers)
	assert.Equal(t, "Conan O'Brien", ep.Host)
	require.NotNil(t, ep.AirDate)
	assert.Equal(t, "2005-10-18", ep.AirDate.Format(library.AirDateLayout))
}

func TestTVDB_EpisodeWithoutCredits(t *testing.T) {
	p := newTVDB(t, map[string]string{"/series/73244/episodes/default": officeEpisodes})
	office := &library.Series{ID: 73244}

	ep, err := p.Episode(context.Background(), office, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, "The Fight", ep.Title)
	assert.Empty(t, ep.Directors)
}

func TestTVDB_EpisodeMissing(t *testing.T) {
	p := newTVDB(t, map[string]string{"/series/73244/episodes/default": officeEpisodes})

	_, err := p.Episode(context.Background(), &library.Series{ID: 73244}, 9, 1)
	assert.ErrorIs(t, err, metadata.ErrNotFound)

	_, err = p.Series(context.Background(), 1)
	assert.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestTVDB_EpisodeByDate(t *testing.T) {
	p := newTVDB(t, map[string]string{"/series/73244/episodes/default": officeEpisodes})
	office := &library.Series{ID: 73244}

	ep, err := p.EpisodeByDate(context.Background(), office, time.Date(2005, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 6, ep.Episode)

	_, err = p.EpisodeByDate(context.Background(), office, time.Date(2005, 11, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestTVDB_Series(t *testing.T) {
	p := newTVDB(t, map[string]string{
		"/series/73244/extended": `{"status":"success","data":{"id":73244,"name":"The Office",
			"overview":"A mockumentary.","firstAired":"2005-03-24",
			"genres":[{"name":"Comedy"}],
			"contentRatings":[{"name":"TV-14","country":"usa"}],
			"characters":[{"name":"Michael Scott","personName":"Steve Carell","peopleType":"Actor"}],
			"remoteIds":[{"id":"tt0386676","sourceName":"IMDB"},{"id":"EP00755779","sourceName":"Zap2it"}]}}`,
	})

	s, err := p.Series(context.Background(), 73244)
	require.NoError(t, err)
	assert.Equal(t, "The Office", s.Title)
	assert.Equal(t, []string{"Comedy"}, s.Genres)
	assert.Equal(t, "TV-14", s.ContentRating)
	assert.Equal(t, []string{"Steve Carell"}, s.Actors)
	assert.Equal(t, "tt0386676", s.IMDBID)
	assert.Equal(t, "EP00755779", s.Zap2itID)
}

func TestTVDB_Episodes(t *testing.T) {
	p := newTVDB(t, map[string]string{"/series/73244/episodes/default": officeEpisodes})

	eps, err := p.Episodes(context.Background(), &library.Series{ID: 73244})
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "Halloween", eps[0].Title)
}

func tmdbServer(t *testing.T) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/3/search/movie": `{"page":1,"results":[{"id":949,"title":"Heat","release_date":"1995-12-15","vote_average":7.9}],"total_results":1}`,
		"/3/movie/949":    `{"id":949,"imdb_id":"tt0113277","title":"Heat","release_date":"1995-12-15","vote_average":7.9,"genres":[{"id":80,"name":"Crime"}]}`,
		"/3/movie/949/credits": `{"cast":[{"name":"Robert De Niro","order":1},{"name":"Al Pacino","order":0}],
			"crew":[{"name":"Michael Mann","job":"Director","department":"Directing"},
			{"name":"Michael Mann","job":"Screenplay","department":"Writing"}]}`,
		"/3/movie/949/release_dates": `{"results":[{"iso_3166_1":"US","release_dates":[{"certification":"R","type":3}]}]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTMDB_Movie(t *testing.T) {
	srv := tmdbServer(t)
	p := metadata.NewTMDB(tmdb.NewClient("key", tmdb.WithBaseURL(srv.URL)))

	m, err := p.Movie(context.Background(), 949)
	require.NoError(t, err)
	assert.Equal(t, "Heat", m.Title)
	assert.Equal(t, 1995, m.Year)
	assert.Equal(t, "R", m.MPAARating)
	assert.Equal(t, []string{"Al Pacino", "Robert De Niro"}, m.Actors)
	assert.Equal(t, []string{"Michael Mann"}, m.Directors)
	assert.Equal(t, []string{"Michael Mann"}, m.Writers)
	assert.Equal(t, []string{"Crime"}, m.Genres)

	_, err = p.Movie(context.Background(), 1)
	assert.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestTMDB_SearchMovies(t *testing.T) {
	srv := tmdbServer(t)
	p := metadata.NewTMDB(tmdb.NewClient("key", tmdb.WithBaseURL(srv.URL)))

	got, err := p.SearchMovies(context.Background(), "heat")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(949), got[0].ID)
	assert.Equal(t, 1995, got[0].Year)
}
