// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Movie is TMDB movie metadata merged from the details, credits and
// release dates endpoints.
type Movie struct {
	ID            int64    `json:"id"`
	IMDBID        string   `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Title         string   `json:"title"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"` // "2024-03-01"
	VoteAverage   float64  `json:"vote_average"` // ten-point scale
	Runtime       int      `json:"runtime"`      // minutes
	Genres        []string `json:"genres"`
	Directors     []string `json:"directors"`
	Writers       []string `json:"writers"`
	Producers     []string `json:"producers"`
	Actors        []string `json:"actors"`
	Certification string   `json:"certification"` // US MPAA rating, e.g. "PG-13"
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// SearchResult is a movie search hit. Only summary fields are present.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

// Year extracts the year from ReleaseDate.
func (r SearchResult) Year() int {
	return yearOf(r.ReleaseDate)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// movieDetails is the /3/movie/{id} response.
type movieDetails struct {
	ID          int64   `json:"id"`
	IMDBID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Runtime     int     `json:"runtime"`
	Genres      []genre `json:"genres"`
}

// creditsResponse is the /3/movie/{id}/credits response.
type creditsResponse struct {
	Cast []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		Name       string `json:"name"`
		Job        string `json:"job"`
		Department string `json:"department"`
	} `json:"crew"`
}

// releaseDatesResponse is the /3/movie/{id}/release_dates response.
type releaseDatesResponse struct {
	Results []struct {
		Country      string `json:"iso_3166_1"`
		ReleaseDates []struct {
			Certification string `json:"certification"`
			Type          int    `json:"type"`
		} `json:"release_dates"`
	} `json:"results"`
}

// searchResponse is the /3/search/movie response.
type searchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}
