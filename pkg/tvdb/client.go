package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://api4.thetvdb.com/v4"

// Sentinel errors for TVDB API responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")

	// ErrEpisodeNotFound wraps ErrNotFound for episode lookups that came
	// back empty.
	ErrEpisodeNotFound = fmt.Errorf("episode %w", ErrNotFound)
)

// Client is a TVDB API v4 client with JWT authentication.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	// JWT token management (thread-safe)
	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
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
		c.log = log.With("component", "tvdb")
	}
}

// New creates a new TVDB API v4 client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// login authenticates with TVDB and stores the JWT token.
func (c *Client) login(ctx context.Context) error {
	body := map[string]string{"apikey": c.apiKey}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	if loginResp.Data.Token == "" {
		return errors.New("login response missing token")
	}

	c.mu.Lock()
	c.token = loginResp.Data.Token
	c.mu.Unlock()

	if c.log != nil {
		c.log.Debug("authenticated with TVDB")
	}

	return nil
}

// ensureToken ensures we have a valid JWT token, logging in if necessary.
func (c *Client) ensureToken(ctx context.Context) error {
	c.mu.RLock()
	hasToken := c.token != ""
	c.mu.RUnlock()

	if !hasToken {
		return c.login(ctx)
	}
	return nil
}

// doRequest performs an authenticated request, handling token refresh on 401.
func (c *Client) doRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	// Ensure we have a token
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	// Try the request
	resp, err := c.doAuthenticatedRequest(ctx, method, endpoint)
	if err != nil {
		return nil, err
	}

	// If unauthorized, refresh token and retry once
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		if c.log != nil {
			c.log.Debug("token expired, refreshing")
		}

		// Clear token and re-login
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()

		if err := c.login(ctx); err != nil {
			return nil, err
		}

		// Retry request
		return c.doAuthenticatedRequest(ctx, method, endpoint)
	}

	return resp, nil
}

// doAuthenticatedRequest performs a single authenticated request.
func (c *Client) doAuthenticatedRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	return resp, nil
}

// Search searches for series by name.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	start := time.Now()

	endpoint := "/search?query=" + url.QueryEscape(query) + "&type=series"
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResp.Data))
	for _, item := range searchResp.Data {
		// Parse TVDB ID from string
		tvdbID := atoi(item.TVDBID)
		if tvdbID == 0 {
			// Try objectID as fallback (format: "series-12345")
			if id, ok := strings.CutPrefix(item.ObjectID, "series-"); ok {
				tvdbID = atoi(id)
			}
		}

		results = append(results, SearchResult{
			ID:       tvdbID,
			Name:     item.Name,
			Year:     atoi(item.Year),
			Status:   item.Status,
			Overview: item.Overview,
			Network:  item.Network,
		})
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(results), "duration_ms", time.Since(start).Milliseconds())
	}

	return results, nil
}

// GetSeries fetches extended series metadata by TVDB ID, including genres,
// the US content rating, the cast and remote IDs.
func (c *Client) GetSeries(ctx context.Context, id int) (*Series, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("/series/%d/extended", id)
	var seriesResp seriesResponse
	if err := c.getJSON(ctx, endpoint, &seriesResp); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("series not found", "id", id)
		}
		return nil, err
	}

	series := seriesResp.Data.toSeries()

	if c.log != nil {
		c.log.Debug("fetched series", "id", id, "name", series.Name, "duration_ms", time.Since(start).Milliseconds())
	}

	return series, nil
}

// GetEpisodes fetches all episodes for a series, handling pagination automatically.
func (c *Client) GetEpisodes(ctx context.Context, seriesID int) ([]Episode, error) {
	return c.listEpisodes(ctx, seriesID, url.Values{})
}

// GetEpisode fetches one episode by season and episode number.
// Returns ErrNotFound if the series has no such episode.
func (c *Client) GetEpisode(ctx context.Context, seriesID, season, episode int) (*Episode, error) {
	q := url.Values{}
	q.Set("season", strconv.Itoa(season))
	q.Set("episodeNumber", strconv.Itoa(episode))

	eps, err := c.listEpisodes(ctx, seriesID, q)
	if err != nil {
		return nil, err
	}
	// The API may ignore filters it does not recognize, so check again.
	for i := range eps {
		if eps[i].Season == season && eps[i].Episode == episode {
			return &eps[i], nil
		}
	}
	return nil, ErrEpisodeNotFound
}

// GetEpisodeByAirDate fetches the episode that aired on the given day.
// Returns ErrNotFound when no episode, or more than one, aired that day.
func (c *Client) GetEpisodeByAirDate(ctx context.Context, seriesID int, day time.Time) (*Episode, error) {
	q := url.Values{}
	q.Set("airDate", day.Format("2006-01-02"))

	eps, err := c.listEpisodes(ctx, seriesID, q)
	if err != nil {
		return nil, err
	}
	var found []Episode
	for _, ep := range eps {
		if !ep.AirDate.IsZero() && ep.AirDate.Format("2006-01-02") == day.Format("2006-01-02") {
			found = append(found, ep)
		}
	}
	if len(found) != 1 {
		return nil, ErrEpisodeNotFound
	}
	return &found[0], nil
}

// GetEpisodeExtended fetches one episode by TVDB episode ID with its crew
// and guest credits.
func (c *Client) GetEpisodeExtended(ctx context.Context, episodeID int) (*Episode, error) {
	var episodeResp episodeResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/episodes/%d/extended", episodeID), &episodeResp); err != nil {
		return nil, err
	}
	ep := episodeResp.Data.toEpisode()
	return &ep, nil
}

func (c *Client) listEpisodes(ctx context.Context, seriesID int, query url.Values) ([]Episode, error) {
	start := time.Now()

	var allEpisodes []Episode
	page := 0

	for {
		query.Set("page", strconv.Itoa(page))
		endpoint := fmt.Sprintf("/series/%d/episodes/default?%s", seriesID, query.Encode())

		var episodesResp episodesResponse
		if err := c.getJSON(ctx, endpoint, &episodesResp); err != nil {
			return nil, err
		}

		for _, ep := range episodesResp.Data.Episodes {
			allEpisodes = append(allEpisodes, ep.toEpisode())
		}

		// Check for more pages
		if episodesResp.Links.Next == "" {
			break
		}
		page++

		// Safety limit to prevent infinite loops
		if page > 100 {
			if c.log != nil {
				c.log.Warn("hit pagination limit", "series_id", seriesID, "pages", page)
			}
			break
		}
	}

	if c.log != nil {
		c.log.Debug("fetched episodes", "series_id", seriesID, "count", len(allEpisodes), "pages", page+1, "duration_ms", time.Since(start).Milliseconds())
	}

	return allEpisodes, nil
}

// getJSON performs an authenticated GET and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// checkResponse checks the HTTP response for errors and returns appropriate sentinel errors.
func (c *Client) checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
