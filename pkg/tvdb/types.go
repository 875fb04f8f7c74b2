// Package tvdb provides a client for the TVDB API v4.
package tvdb

import (
	"strings"
	"time"
)

// Series represents a TV series from TVDB.
type Series struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Year          int      `json:"year"`   // Extracted from firstAired
	Status        string   `json:"status"` // "Continuing" or "Ended"
	Overview      string   `json:"overview"`
	Genres        []string `json:"genres,omitempty"`
	ContentRating string   `json:"contentRating,omitempty"` // US rating, e.g. "TV-14"
	Actors        []string `json:"actors,omitempty"`
	IMDBID        string   `json:"imdbId,omitempty"`
	Zap2itID      string   `json:"zap2itId,omitempty"`
}

// Episode represents a single episode from TVDB. Crew lists are only
// populated by GetEpisodeExtended.
type Episode struct {
	ID                 int       `json:"id"`
	Season             int       `json:"seasonNumber"`
	Episode            int       `json:"number"`
	Name               string    `json:"name"`
	Overview           string    `json:"overview"`
	AirDate            time.Time `json:"aired"` // Parsed from YYYY-MM-DD
	Runtime            int       `json:"runtime"`
	Directors          []string  `json:"directors,omitempty"`
	Writers            []string  `json:"writers,omitempty"`
	GuestStars         []string  `json:"guestStars,omitempty"`
	Producers          []string  `json:"producers,omitempty"`
	ExecutiveProducers []string  `json:"executiveProducers,omitempty"`
	Hosts              []string  `json:"hosts,omitempty"`
}

// SearchResult represents a series search result.
type SearchResult struct {
	ID       int    `json:"tvdb_id"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	Status   string `json:"status"`
	Overview string `json:"overview"`
	Network  string `json:"network"`
}

// loginResponse is the TVDB login API response.
type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

// searchRecord is one entry of the search API response.
type searchRecord struct {
	ObjectID string `json:"objectID"`
	Name     string `json:"name"`
	Year     string `json:"year"`
	Status   string `json:"status"`
	Overview string `json:"overview"`
	Network  string `json:"network"`
	TVDBID   string `json:"tvdb_id"`
}

// searchResponse is the TVDB search API response.
type searchResponse struct {
	Status string         `json:"status"`
	Data   []searchRecord `json:"data"`
}

type nameRecord struct {
	Name string `json:"name"`
}

// characterRecord is a cast or crew credit. PeopleType is "Actor",
// "Director", "Writer", "Guest Star" and so on.
type characterRecord struct {
	Name       string `json:"name"`
	PersonName string `json:"personName"`
	PeopleType string `json:"peopleType"`
	Sort       int    `json:"sort"`
}

type contentRatingRecord struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type remoteIDRecord struct {
	ID         string `json:"id"`
	SourceName string `json:"sourceName"`
}

// seriesRecord is the series payload of the extended series endpoint.
type seriesRecord struct {
	ID             int                   `json:"id"`
	Name           string                `json:"name"`
	Status         nameRecord            `json:"status"`
	Overview       string                `json:"overview"`
	FirstAired     string                `json:"firstAired"` // YYYY-MM-DD
	Genres         []nameRecord          `json:"genres"`
	ContentRatings []contentRatingRecord `json:"contentRatings"`
	Characters     []characterRecord     `json:"characters"`
	RemoteIDs      []remoteIDRecord      `json:"remoteIds"`
}

// seriesResponse is the TVDB get series API response.
type seriesResponse struct {
	Status string       `json:"status"`
	Data   seriesRecord `json:"data"`
}

// episodeRecord is an episode as returned by the episode list and extended
// episode endpoints.
type episodeRecord struct {
	ID           int               `json:"id"`
	SeasonNumber int               `json:"seasonNumber"`
	Number       int               `json:"number"`
	Name         string            `json:"name"`
	Overview     string            `json:"overview"`
	Aired        string            `json:"aired"` // YYYY-MM-DD
	Runtime      int               `json:"runtime"`
	Characters   []characterRecord `json:"characters"`
}

// episodesResponse is the TVDB get episodes API response.
type episodesResponse struct {
	Status string `json:"status"`
	Data   struct {
		Episodes []episodeRecord `json:"episodes"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// episodeResponse is the TVDB extended episode API response.
type episodeResponse struct {
	Status string        `json:"status"`
	Data   episodeRecord `json:"data"`
}

func (r episodeRecord) toEpisode() Episode {
	// Parse air date (format: YYYY-MM-DD)
	var airDate time.Time
	if r.Aired != "" {
		airDate, _ = time.Parse("2006-01-02", r.Aired)
	}
	ep := Episode{
		ID:       r.ID,
		Season:   r.SeasonNumber,
		Episode:  r.Number,
		Name:     r.Name,
		Overview: r.Overview,
		AirDate:  airDate,
		Runtime:  r.Runtime,
	}
	for _, c := range r.Characters {
		if c.PersonName == "" {
			continue
		}
		switch strings.ToLower(c.PeopleType) {
		case "director":
			ep.Directors = append(ep.Directors, c.PersonName)
		case "writer":
			ep.Writers = append(ep.Writers, c.PersonName)
		case "guest star":
			ep.GuestStars = append(ep.GuestStars, c.PersonName)
		case "producer":
			ep.Producers = append(ep.Producers, c.PersonName)
		case "executive producer":
			ep.ExecutiveProducers = append(ep.ExecutiveProducers, c.PersonName)
		case "host":
			ep.Hosts = append(ep.Hosts, c.PersonName)
		}
	}
	return ep
}

func (r seriesRecord) toSeries() *Series {
	s := &Series{
		ID:       r.ID,
		Name:     r.Name,
		Status:   r.Status.Name,
		Overview: r.Overview,
	}
	// Extract year from firstAired (format: YYYY-MM-DD)
	if len(r.FirstAired) >= 4 {
		s.Year = atoi(r.FirstAired[:4])
	}
	for _, g := range r.Genres {
		s.Genres = append(s.Genres, g.Name)
	}
	for _, cr := range r.ContentRatings {
		if strings.EqualFold(cr.Country, "usa") {
			s.ContentRating = cr.Name
			break
		}
	}
	for _, c := range r.Characters {
		if strings.EqualFold(c.PeopleType, "actor") && c.PersonName != "" {
			s.Actors = append(s.Actors, c.PersonName)
		}
	}
	for _, id := range r.RemoteIDs {
		source := strings.ToLower(id.SourceName)
		switch {
		case strings.Contains(source, "imdb"):
			s.IMDBID = id.ID
		case strings.Contains(source, "zap2it"):
			s.Zap2itID = id.ID
		}
	}
	return s
}
