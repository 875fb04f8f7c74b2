package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour

// maxActors caps the cast list kept per movie.
const maxActors = 10

// ErrNotFound is returned when a movie doesn't exist in TMDB.
var ErrNotFound = errors.New("movie not found")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	movies     *cache[int64, *Movie]
	searches   *cache[string, []SearchResult]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the in-process cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.movies = newCache[int64, *Movie](ttl)
		c.searches = newCache[string, []SearchResult](ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tmdb")
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		movies:   newCache[int64, *Movie](defaultCacheTTL),
		searches: newCache[string, []SearchResult](defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchMovies returns the first page of movies matching query.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]SearchResult, error) {
	if results, ok := c.searches.get(query); ok {
		return results, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := c.getJSON(ctx, "/3/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(resp.Results), "total", resp.TotalResults)
	}

	c.searches.set(query, resp.Results)
	return resp.Results, nil
}

// GetMovie fetches movie metadata by TMDB ID. Details, credits and release
// dates are requested concurrently and merged.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	if movie, ok := c.movies.get(tmdbID); ok {
		return movie, nil
	}

	start := time.Now()
	base := "/3/movie/" + strconv.FormatInt(tmdbID, 10)

	var (
		details  movieDetails
		credits  creditsResponse
		releases releaseDatesResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.getJSON(gctx, base, nil, &details) })
	g.Go(func() error { return c.getJSON(gctx, base+"/credits", nil, &credits) })
	g.Go(func() error { return c.getJSON(gctx, base+"/release_dates", nil, &releases) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", tmdbID, err)
	}

	movie := &Movie{
		ID:            details.ID,
		IMDBID:        details.IMDBID,
		Title:         details.Title,
		Overview:      details.Overview,
		ReleaseDate:   details.ReleaseDate,
		VoteAverage:   details.VoteAverage,
		Runtime:       details.Runtime,
		Certification: usCertification(releases),
	}
	for _, gr := range details.Genres {
		movie.Genres = append(movie.Genres, gr.Name)
	}
	applyCredits(movie, credits)

	if c.log != nil {
		c.log.Debug("fetched movie", "id", tmdbID, "title", movie.Title, "duration_ms", time.Since(start).Milliseconds())
	}

	c.movies.set(tmdbID, movie)
	return movie, nil
}

func applyCredits(m *Movie, credits creditsResponse) {
	cast := credits.Cast
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	for _, a := range cast {
		if len(m.Actors) == maxActors {
			break
		}
		m.Actors = append(m.Actors, a.Name)
	}

	add := func(list []string, name string) []string {
		if name == "" || slices.Contains(list, name) {
			return list
		}
		return append(list, name)
	}
	for _, p := range credits.Crew {
		switch {
		case p.Job == "Director":
			m.Directors = add(m.Directors, p.Name)
		case p.Department == "Writing":
			m.Writers = add(m.Writers, p.Name)
		case p.Job == "Producer":
			m.Producers = add(m.Producers, p.Name)
		}
	}
}

// usCertification picks the first non-empty US certification, preferring
// theatrical releases (type 3).
func usCertification(r releaseDatesResponse) string {
	for _, country := range r.Results {
		if country.Country != "US" {
			continue
		}
		var fallback string
		for _, rd := range country.ReleaseDates {
			if rd.Certification == "" {
				continue
			}
			if rd.Type == 3 {
				return rd.Certification
			}
			if fallback == "" {
				fallback = rd.Certification
			}
		}
		return fallback
	}
	return ""
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
