package library

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedSeries(t *testing.T, store *Store, id int64, title string) *Series {
	t.Helper()
	s := &Series{ID: id, Title: title, Genres: []string{"Comedy"}, ContentRating: "TV-14"}
	added, err := store.AddSeries(s)
	require.NoError(t, err)
	require.True(t, added)
	return s
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
