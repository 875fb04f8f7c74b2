package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeProviders serves canned TVDB and TMDB responses by path.
func fakeProviders(t *testing.T) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/tvdb/search": `{"status":"success","data":[
			{"tvdb_id":"73244","name":"The Office","year":"2005","overview":"A mockumentary on a group of typical office workers."},
			{"tvdb_id":"78107","name":"The Office (UK)","year":"2001"}]}`,
		"/tvdb/series/73244/extended": `{"status":"success","data":{"id":73244,"name":"The Office",
			"overview":"A mockumentary.","genres":[{"name":"Comedy"}],
			"contentRatings":[{"name":"TV-14","country":"usa"}],
			"remoteIds":[{"id":"EP00755779","sourceName":"Zap2it"}]}}`,
		"/tvdb/series/73244/episodes/default": `{"status":"success","data":{"episodes":[
			{"id":101,"seasonNumber":2,"number":5,"name":"Halloween","aired":"2005-10-18"},
			{"id":102,"seasonNumber":2,"number":6,"name":"The Fight","aired":"2005-11-01"},
			{"id":103,"seasonNumber":3,"number":1,"name":"Gay Witch Hunt","aired":"2006-09-21"}]},"links":{"next":""}}`,
		"/tmdb/3/search/movie": `{"page":1,"results":[{"id":949,"title":"Heat","release_date":"1995-12-15"}],"total_results":1}`,
		"/tmdb/3/movie/949":    `{"id":949,"title":"Heat","release_date":"1995-12-15","vote_average":7.9,"genres":[{"id":80,"name":"Crime"}]}`,
		"/tmdb/3/movie/949/credits":       `{"cast":[{"name":"Al Pacino","order":0}],"crew":[{"name":"Michael Mann","job":"Director"}]}`,
		"/tmdb/3/movie/949/release_dates": `{"results":[{"iso_3166_1":"US","release_dates":[{"certification":"R","type":3}]}]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tvdb/login" {
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

type cliEnv struct {
	configPath string
	input      string
	movieInput string
	tv         string
	movies     string
	recent     string
	lockFile   string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	env := &cliEnv{
		configPath: filepath.Join(base, "config.toml"),
		input:      filepath.Join(base, "incoming"),
		movieInput: filepath.Join(base, "incoming-films"),
		tv:         filepath.Join(base, "tv"),
		movies:     filepath.Join(base, "films"),
		recent:     filepath.Join(base, "recent"),
		lockFile:   filepath.Join(base, "run", "arrshelf.lock"),
	}
	for _, dir := range []string{env.input, env.movieInput, env.tv, env.movies} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	srv := fakeProviders(t)
	content := fmt.Sprintf(`
[log]
level = "error"

[database]
path = %q

[library]
input_path = %q
movie_input_path = %q
tv_path = %q
movie_path = %q
recent_path = %q
recent_retention = "24h"

[matching]
title_chars_to_ignore = ".:'"
title_words_to_ignore = ["the"]
min_file_age = "1m"

[process]
lock_file = %q

[tvdb]
api_key = "tvdb-key"
base_url = %q

[tmdb]
api_key = "tmdb-key"
base_url = %q
`, filepath.Join(base, "data", "arrshelf.db"), env.input, env.movieInput, env.tv, env.movies,
		env.recent, env.lockFile, srv.URL+"/tvdb", srv.URL+"/tmdb")
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o644))
	return env
}

// writeMedia creates a media file old enough to pass the freshness gate.
func writeMedia(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
