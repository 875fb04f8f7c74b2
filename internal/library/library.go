// Package library is the local metadata cache: series, episodes and movies
// fetched from the remote providers, plus the watch flags that drive
// automatic library management.
package library

import (
	"encoding/json"
	"time"
)

// AirDateLayout is the storage and comparison format for episode air dates.
const AirDateLayout = "2006-01-02"

// Series is a TV series known to the cache. Watch marks it for automatic
// library management.
type Series struct {
	ID            int64 // TVDB series ID
	Title         string
	Description   string
	Zap2itID      string
	IMDBID        string
	Actors        []string
	Genres        []string
	ContentRating string
	Watch         bool
	AddedAt       time.Time
}

// Episode is the cached metadata of one episode of a series.
type Episode struct {
	ID                 int64
	SeriesID           int64
	Season             int
	Episode            int
	Title              string
	Description        string
	AirDate            *time.Time // nil when the provider has no air date
	Rating             float64    // ten-point scale
	Directors          []string
	Host               string
	Choreographer      string
	GuestStars         []string
	Writers            []string
	ExecutiveProducers []string
	Producers          []string

	// Series is populated on reads.
	Series *Series
}

// Movie is a movie known to the cache. Watch marks it for automatic
// library management.
type Movie struct {
	ID          int64 // TMDB movie ID
	IMDBID      string
	Title       string
	Description string
	Year        int
	Rating      float64 // ten-point scale
	Directors   []string
	Writers     []string
	Producers   []string
	Actors      []string
	Genres      []string
	MPAARating  string
	Watch       bool
	AddedAt     time.Time
}

// encodeList stores a string list as a JSON array.
func encodeList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeList is the inverse of encodeList. Malformed values decode to nil.
func decodeList(s string) []string {
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

func formatAirDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(AirDateLayout)
}
