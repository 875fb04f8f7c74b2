// Package matcher decides which watched series or movie a media file belongs
// to and extracts the episode or disc identity from its path.
package matcher

import (
	"fmt"
	"time"

	"github.com/vmunix/arrshelf/internal/library"
)

// Kind tags which shape an EpisodeIdentity carries.
type Kind int

const (
	// KindNumber identifies an episode by season and episode number.
	KindNumber Kind = iota
	// KindDate identifies an episode by its original air date.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// EpisodeIdentity is either a season/episode pair or an air date, never
// both. Build one with ByNumber or ByDate.
type EpisodeIdentity struct {
	kind    Kind
	season  int
	episode int
	airDate time.Time
}

// ByNumber returns an identity for season/episode.
func ByNumber(season, episode int) EpisodeIdentity {
	return EpisodeIdentity{kind: KindNumber, season: season, episode: episode}
}

// ByDate returns an identity for the episode that aired on the given day.
// The time of day is discarded.
func ByDate(day time.Time) EpisodeIdentity {
	y, m, d := day.Date()
	return EpisodeIdentity{kind: KindDate, airDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind reports the identity's shape.
func (id EpisodeIdentity) Kind() Kind { return id.kind }

// Number returns season and episode; ok is false for date identities.
func (id EpisodeIdentity) Number() (season, episode int, ok bool) {
	if id.kind != KindNumber {
		return 0, 0, false
	}
	return id.season, id.episode, true
}

// AirDate returns the air date; ok is false for numbered identities.
func (id EpisodeIdentity) AirDate() (time.Time, bool) {
	if id.kind != KindDate {
		return time.Time{}, false
	}
	return id.airDate, true
}

func (id EpisodeIdentity) String() string {
	if id.kind == KindDate {
		return id.airDate.Format(library.AirDateLayout)
	}
	return fmt.Sprintf("S%02dE%02d", id.season, id.episode)
}

// MovieIdentity identifies a movie file. Disc is empty for single-file
// releases.
type MovieIdentity struct {
	MovieID int64
	Disc    string
}

// Candidate is one possible interpretation of a media file. Exactly one of
// Series or Movie is set.
type Candidate struct {
	SourcePath string

	Series   *library.Series
	Identity EpisodeIdentity

	Movie         *library.Movie
	MovieIdentity MovieIdentity
}

// IsMovie reports whether the candidate names a movie.
func (c Candidate) IsMovie() bool { return c.Movie != nil }

// Title returns the matched series or movie title.
func (c Candidate) Title() string {
	if c.Movie != nil {
		return c.Movie.Title
	}
	if c.Series != nil {
		return c.Series.Title
	}
	return ""
}

func (c Candidate) String() string {
	if c.Movie != nil {
		if c.MovieIdentity.Disc != "" {
			return fmt.Sprintf("%s (%d) disc %s", c.Movie.Title, c.Movie.Year, c.MovieIdentity.Disc)
		}
		return fmt.Sprintf("%s (%d)", c.Movie.Title, c.Movie.Year)
	}
	return fmt.Sprintf("%s %s", c.Title(), c.Identity)
}
