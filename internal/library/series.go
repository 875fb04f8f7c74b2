package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// mapSQLiteError converts SQLite errors to domain errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

const seriesColumns = `id, title, description, zap2it_id, imdb_id, actors, genres, content_rating, watch, added_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeries(r rowScanner) (*Series, error) {
	s := &Series{}
	var actors, genres string
	if err := r.Scan(&s.ID, &s.Title, &s.Description, &s.Zap2itID, &s.IMDBID,
		&actors, &genres, &s.ContentRating, &s.Watch, &s.AddedAt); err != nil {
		return nil, err
	}
	s.Actors = decodeList(actors)
	s.Genres = decodeList(genres)
	return s, nil
}

func addSeries(q querier, s *Series) (bool, error) {
	if s.AddedAt.IsZero() {
		s.AddedAt = time.Now().UTC()
	}
	result, err := q.Exec(`
		INSERT OR IGNORE INTO series (`+seriesColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, s.Description, s.Zap2itID, s.IMDBID,
		encodeList(s.Actors), encodeList(s.Genres), s.ContentRating, s.Watch, s.AddedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert series %d: %w", s.ID, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// AddSeries inserts a series if no series with the same ID exists.
// Reports whether a row was inserted; an existing row is left untouched.
func (s *Store) AddSeries(series *Series) (bool, error) { return addSeries(s.db, series) }

// AddSeries inserts a series within a transaction.
func (t *Tx) AddSeries(series *Series) (bool, error) { return addSeries(t.tx, series) }

func getSeries(q querier, id int64) (*Series, error) {
	s, err := scanSeries(q.QueryRow("SELECT "+seriesColumns+" FROM series WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, mapSQLiteError(err))
	}
	return s, nil
}

// GetSeries retrieves a series by TVDB ID.
// Returns ErrNotFound if the series is not cached.
func (s *Store) GetSeries(id int64) (*Series, error) { return getSeries(s.db, id) }

// GetSeries retrieves a series within a transaction.
func (t *Tx) GetSeries(id int64) (*Series, error) { return getSeries(t.tx, id) }

func listSeries(q querier, f SeriesFilter) ([]*Series, error) {
	var conditions []string
	var args []any

	if f.Watch != nil {
		conditions = append(conditions, "watch = ?")
		args = append(args, *f.Watch)
	}
	if f.Title != nil {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*f.Title+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT " + seriesColumns + " FROM series " + whereClause + " ORDER BY title, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return results, nil
}

// ListSeries returns cached series matching the filter, ordered by title.
func (s *Store) ListSeries(f SeriesFilter) ([]*Series, error) { return listSeries(s.db, f) }

// ListSeries returns cached series within a transaction.
func (t *Tx) ListSeries(f SeriesFilter) ([]*Series, error) { return listSeries(t.tx, f) }

// WatchedSeries returns every series flagged for automatic management.
func (s *Store) WatchedSeries() ([]*Series, error) {
	watch := true
	return listSeries(s.db, SeriesFilter{Watch: &watch})
}

func setSeriesWatch(q querier, id int64, watch bool) error {
	result, err := q.Exec("UPDATE series SET watch = ? WHERE id = ?", watch, id)
	if err != nil {
		return fmt.Errorf("update series %d: %w", id, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update series %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetSeriesWatch sets the watch flag on a cached series.
// Returns ErrNotFound if the series is not cached.
func (s *Store) SetSeriesWatch(id int64, watch bool) error { return setSeriesWatch(s.db, id, watch) }

// SetSeriesWatch sets the watch flag within a transaction.
func (t *Tx) SetSeriesWatch(id int64, watch bool) error { return setSeriesWatch(t.tx, id, watch) }

func deleteSeries(q querier, id int64) error {
	if _, err := q.Exec("DELETE FROM series WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete series %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteSeries removes a series and, by cascade, its episodes.
// This operation is idempotent.
func (s *Store) DeleteSeries(id int64) error { return deleteSeries(s.db, id) }

// DeleteSeries removes a series within a transaction.
func (t *Tx) DeleteSeries(id int64) error { return deleteSeries(t.tx, id) }
