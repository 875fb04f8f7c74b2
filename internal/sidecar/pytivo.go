package sidecar

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vmunix/arrshelf/internal/library"
)

const pyTivoTimeLayout = "2006-01-02T15:04:05Z"

// PyTivo renders the pyTivo "key : value" text format.
type PyTivo struct{}

// Name implements Format.
func (PyTivo) Name() string { return "pytivo" }

// Extension implements Format.
func (PyTivo) Extension() string { return ".txt" }

var tvRatings = map[string]string{
	"TV-Y7": "x1",
	"TV-Y":  "x2",
	"TV-G":  "x3",
	"TV-PG": "x4",
	"TV-14": "x5",
	"TV-MA": "x6",
	"TV-NR": "x7",
}

var mpaaRatings = map[string]string{
	"G":     "G1",
	"PG":    "P2",
	"PG-13": "P3",
	"R":     "R4",
	"X":     "X5",
	"NC-17": "N6",
}

type lines []string

func (l *lines) add(key, value string) {
	*l = append(*l, key+" : "+value)
}

func (l *lines) addSet(key, value string) {
	if strings.TrimSpace(value) != "" {
		l.add(key, value)
	}
}

func (l *lines) addAll(key string, values []string) {
	for _, v := range values {
		l.addSet(key, v)
	}
}

// starRating converts a ten-point rating to pyTivo's x1..x7 half-star scale.
// Ratings too low to earn a star return ok false.
func starRating(rating float64) (string, bool) {
	stars := math.Round(8*rating/10) / 2
	n := int(stars*2) - 1
	if n < 1 {
		return "", false
	}
	return fmt.Sprintf("x%d", n), true
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", " "), "\n", " ")
}

// Episode implements Format.
func (PyTivo) Episode(ep *library.Episode, recorded time.Time) []string {
	var l lines
	l.add("isEpisode", "true")
	l.add("title", ep.Title)
	l.add("time", recorded.UTC().Format(pyTivoTimeLayout))
	l = append(l, fmt.Sprintf("description: #%d.  %s", ep.Episode, oneLine(ep.Description)))
	if ep.AirDate != nil {
		l.add("originalAirDate", ep.AirDate.UTC().Format(pyTivoTimeLayout))
	}
	l.addSet("vHost", ep.Host)
	l.addSet("vChoreographer", ep.Choreographer)
	l.addAll("vDirector", ep.Directors)
	l.addAll("vGuestStar", ep.GuestStars)
	l.addAll("vWriter", ep.Writers)
	l.addAll("vExecProducer", ep.ExecutiveProducers)
	l.addAll("vProducer", ep.Producers)
	if r, ok := starRating(ep.Rating); ok {
		l.add("starRating", r)
	}

	s := ep.Series
	if s == nil {
		return l
	}
	l.add("seriesTitle", s.Title)
	l.addSet("seriesId", s.Zap2itID)
	if s.ContentRating != "" {
		rating, ok := tvRatings[s.ContentRating]
		if !ok {
			rating = "x0"
		}
		l.add("tvRating", rating)
	}
	l.addAll("vActor", s.Actors)
	l.addAll("vProgramGenre", s.Genres)
	return l
}

// Movie implements Format.
func (PyTivo) Movie(m *library.Movie) []string {
	var l lines
	l.add("isEpisode", "false")
	l.add("title", m.Title)
	if m.Year > 0 {
		l.add("movieYear", fmt.Sprint(m.Year))
	}
	l.add("description", oneLine(m.Description))
	if r, ok := starRating(m.Rating); ok {
		l.add("starRating", r)
	}
	if r, ok := mpaaRatings[m.MPAARating]; ok {
		l.add("mpaaRating", r)
	}
	l.addAll("vDirector", m.Directors)
	l.addAll("vWriter", m.Writers)
	l.addAll("vProducer", m.Producers)
	l.addAll("vActor", m.Actors)
	l.addAll("vProgramGenre", m.Genres)
	return l
}
