package library

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const episodeColumns = `e.id, e.series_id, e.season, e.episode, e.title, e.description, e.air_date, e.rating,
	e.directors, e.host, e.choreographer, e.guest_stars, e.writers, e.executive_producers, e.producers`

const episodeSelect = `SELECT ` + episodeColumns + `,
	s.id, s.title, s.description, s.zap2it_id, s.imdb_id, s.actors, s.genres, s.content_rating, s.watch, s.added_at
	FROM episodes e JOIN series s ON s.id = e.series_id `

func scanEpisode(r rowScanner) (*Episode, error) {
	e := &Episode{Series: &Series{}}
	var airDate sql.NullString
	var directors, guests, writers, execProducers, producers, actors, genres string
	if err := r.Scan(&e.ID, &e.SeriesID, &e.Season, &e.Episode, &e.Title, &e.Description, &airDate, &e.Rating,
		&directors, &e.Host, &e.Choreographer, &guests, &writers, &execProducers, &producers,
		&e.Series.ID, &e.Series.Title, &e.Series.Description, &e.Series.Zap2itID, &e.Series.IMDBID,
		&actors, &genres, &e.Series.ContentRating, &e.Series.Watch, &e.Series.AddedAt); err != nil {
		return nil, err
	}
	if airDate.Valid && airDate.String != "" {
		if t, err := time.Parse(AirDateLayout, airDate.String); err == nil {
			e.AirDate = &t
		}
	}
	e.Directors = decodeList(directors)
	e.GuestStars = decodeList(guests)
	e.Writers = decodeList(writers)
	e.ExecutiveProducers = decodeList(execProducers)
	e.Producers = decodeList(producers)
	e.Series.Actors = decodeList(actors)
	e.Series.Genres = decodeList(genres)
	return e, nil
}

func addEpisode(q querier, e *Episode) (bool, error) {
	result, err := q.Exec(`
		INSERT OR IGNORE INTO episodes (series_id, season, episode, title, description, air_date, rating,
			directors, host, choreographer, guest_stars, writers, executive_producers, producers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SeriesID, e.Season, e.Episode, e.Title, e.Description, formatAirDate(e.AirDate), e.Rating,
		encodeList(e.Directors), e.Host, e.Choreographer, encodeList(e.GuestStars),
		encodeList(e.Writers), encodeList(e.ExecutiveProducers), encodeList(e.Producers),
	)
	if err != nil {
		return false, fmt.Errorf("insert episode %d s%02de%02d: %w", e.SeriesID, e.Season, e.Episode, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return true, nil
}

// AddEpisode inserts an episode unless one with the same series, season and
// episode number is already cached. Reports whether a row was inserted and
// sets ID when it was. The series must already be cached.
func (s *Store) AddEpisode(e *Episode) (bool, error) { return addEpisode(s.db, e) }

// AddEpisode inserts an episode within a transaction.
func (t *Tx) AddEpisode(e *Episode) (bool, error) { return addEpisode(t.tx, e) }

// AddEpisodes inserts a batch of episodes in one transaction and returns the
// number of new rows.
func (s *Store) AddEpisodes(eps []*Episode) (int, error) {
	tx, err := s.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, e := range eps {
		ok, err := tx.AddEpisode(e)
		if err != nil {
			return 0, err
		}
		if ok {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit episodes: %w", err)
	}
	return added, nil
}

func getEpisode(q querier, seriesID int64, season, episode int) (*Episode, error) {
	e, err := scanEpisode(q.QueryRow(episodeSelect+
		"WHERE e.series_id = ? AND e.season = ? AND e.episode = ?", seriesID, season, episode))
	if err != nil {
		return nil, fmt.Errorf("get episode %d s%02de%02d: %w", seriesID, season, episode, mapSQLiteError(err))
	}
	return e, nil
}

// GetEpisode retrieves an episode by series, season and episode number.
// Returns ErrNotFound if the episode is not cached.
func (s *Store) GetEpisode(seriesID int64, season, episode int) (*Episode, error) {
	return getEpisode(s.db, seriesID, season, episode)
}

// GetEpisode retrieves an episode within a transaction.
func (t *Tx) GetEpisode(seriesID int64, season, episode int) (*Episode, error) {
	return getEpisode(t.tx, seriesID, season, episode)
}

func getEpisodeByDate(q querier, seriesID int64, date time.Time) (*Episode, error) {
	day := date.Format(AirDateLayout)
	rows, err := q.Query(episodeSelect+"WHERE e.series_id = ? AND e.air_date = ? LIMIT 2", seriesID, day)
	if err != nil {
		return nil, fmt.Errorf("get episode %d on %s: %w", seriesID, day, err)
	}
	defer func() { _ = rows.Close() }()

	var found []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	// A day with several episodes is ambiguous.
	if len(found) != 1 {
		return nil, fmt.Errorf("get episode %d on %s: %w", seriesID, day, ErrNotFound)
	}
	return found[0], nil
}

// GetEpisodeByDate retrieves the single episode of a series that aired on
// date. Returns ErrNotFound when no episode, or more than one, aired that day.
func (s *Store) GetEpisodeByDate(seriesID int64, date time.Time) (*Episode, error) {
	return getEpisodeByDate(s.db, seriesID, date)
}

// GetEpisodeByDate retrieves an episode by air date within a transaction.
func (t *Tx) GetEpisodeByDate(seriesID int64, date time.Time) (*Episode, error) {
	return getEpisodeByDate(t.tx, seriesID, date)
}

func listEpisodes(q querier, f EpisodeFilter) ([]*Episode, error) {
	var conditions []string
	var args []any

	if f.SeriesID != nil {
		conditions = append(conditions, "e.series_id = ?")
		args = append(args, *f.SeriesID)
	}
	if f.Season != nil {
		conditions = append(conditions, "e.season = ?")
		args = append(args, *f.Season)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := episodeSelect + whereClause + " ORDER BY e.series_id, e.season, e.episode"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return results, nil
}

// ListEpisodes returns cached episodes matching the filter, ordered by
// season and episode.
func (s *Store) ListEpisodes(f EpisodeFilter) ([]*Episode, error) { return listEpisodes(s.db, f) }

// ListEpisodes returns cached episodes within a transaction.
func (t *Tx) ListEpisodes(f EpisodeFilter) ([]*Episode, error) { return listEpisodes(t.tx, f) }

func clearEpisodes(q querier, seriesID int64) (int64, error) {
	result, err := q.Exec("DELETE FROM episodes WHERE series_id = ?", seriesID)
	if err != nil {
		return 0, fmt.Errorf("clear episodes of %d: %w", seriesID, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ClearEpisodes drops every cached episode of a series so the next
// resolution refetches them. Returns the number of rows removed.
func (s *Store) ClearEpisodes(seriesID int64) (int64, error) { return clearEpisodes(s.db, seriesID) }

// ClearEpisodes drops cached episodes within a transaction.
func (t *Tx) ClearEpisodes(seriesID int64) (int64, error) { return clearEpisodes(t.tx, seriesID) }
