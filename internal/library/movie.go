package library

import (
	"fmt"
	"strings"
	"time"
)

const movieColumns = `id, imdb_id, title, description, year, rating, directors, writers, producers,
	actors, genres, mpaa_rating, watch, added_at`

func scanMovie(r rowScanner) (*Movie, error) {
	m := &Movie{}
	var directors, writers, producers, actors, genres string
	if err := r.Scan(&m.ID, &m.IMDBID, &m.Title, &m.Description, &m.Year, &m.Rating,
		&directors, &writers, &producers, &actors, &genres, &m.MPAARating, &m.Watch, &m.AddedAt); err != nil {
		return nil, err
	}
	m.Directors = decodeList(directors)
	m.Writers = decodeList(writers)
	m.Producers = decodeList(producers)
	m.Actors = decodeList(actors)
	m.Genres = decodeList(genres)
	return m, nil
}

func addMovie(q querier, m *Movie) (bool, error) {
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now().UTC()
	}
	result, err := q.Exec(`
		INSERT OR IGNORE INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.IMDBID, m.Title, m.Description, m.Year, m.Rating,
		encodeList(m.Directors), encodeList(m.Writers), encodeList(m.Producers),
		encodeList(m.Actors), encodeList(m.Genres), m.MPAARating, m.Watch, m.AddedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert movie %d: %w", m.ID, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// AddMovie inserts a movie if no movie with the same ID is cached.
// Reports whether a row was inserted.
func (s *Store) AddMovie(m *Movie) (bool, error) { return addMovie(s.db, m) }

// AddMovie inserts a movie within a transaction.
func (t *Tx) AddMovie(m *Movie) (bool, error) { return addMovie(t.tx, m) }

func getMovie(q querier, id int64) (*Movie, error) {
	m, err := scanMovie(q.QueryRow("SELECT "+movieColumns+" FROM movies WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, mapSQLiteError(err))
	}
	return m, nil
}

// GetMovie retrieves a movie by TMDB ID.
// Returns ErrNotFound if the movie is not cached.
func (s *Store) GetMovie(id int64) (*Movie, error) { return getMovie(s.db, id) }

// GetMovie retrieves a movie within a transaction.
func (t *Tx) GetMovie(id int64) (*Movie, error) { return getMovie(t.tx, id) }

func listMovies(q querier, f MovieFilter) ([]*Movie, error) {
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

	query := "SELECT " + movieColumns + " FROM movies " + whereClause + " ORDER BY title, year, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return results, nil
}

// ListMovies returns cached movies matching the filter, ordered by title.
func (s *Store) ListMovies(f MovieFilter) ([]*Movie, error) { return listMovies(s.db, f) }

// ListMovies returns cached movies within a transaction.
func (t *Tx) ListMovies(f MovieFilter) ([]*Movie, error) { return listMovies(t.tx, f) }

// WatchedMovies returns every movie flagged for automatic management.
func (s *Store) WatchedMovies() ([]*Movie, error) {
	watch := true
	return listMovies(s.db, MovieFilter{Watch: &watch})
}

func setMovieWatch(q querier, id int64, watch bool) error {
	result, err := q.Exec("UPDATE movies SET watch = ? WHERE id = ?", watch, id)
	if err != nil {
		return fmt.Errorf("update movie %d: %w", id, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update movie %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetMovieWatch sets the watch flag on a cached movie.
// Returns ErrNotFound if the movie is not cached.
func (s *Store) SetMovieWatch(id int64, watch bool) error { return setMovieWatch(s.db, id, watch) }

// SetMovieWatch sets the watch flag within a transaction.
func (t *Tx) SetMovieWatch(id int64, watch bool) error { return setMovieWatch(t.tx, id, watch) }

func deleteMovie(q querier, id int64) error {
	if _, err := q.Exec("DELETE FROM movies WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete movie %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteMovie removes a cached movie. This operation is idempotent.
func (s *Store) DeleteMovie(id int64) error { return deleteMovie(s.db, id) }

// DeleteMovie removes a cached movie within a transaction.
func (t *Tx) DeleteMovie(id int64) error { return deleteMovie(t.tx, id) }
