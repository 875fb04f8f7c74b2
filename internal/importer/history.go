// internal/importer/history.go
package importer

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Event types for history records.
const (
	EventPlaced      = "placed"
	EventFailed      = "failed"
	EventRegenerated = "regenerated"
)

// Kinds of placed media.
const (
	KindEpisode = "episode"
	KindMovie   = "movie"
)

// HistoryEntry records one placement attempt.
type HistoryEntry struct {
	ID         int64
	Kind       string // KindEpisode or KindMovie
	TitleID    int64  // series ID for episodes, movie ID for movies
	Event      string
	SourcePath string
	DestPath   string
	Data       string // JSON blob
	CreatedAt  time.Time
}

// HistoryFilter specifies criteria for listing history.
type HistoryFilter struct {
	Kind    *string
	TitleID *int64
	Event   *string
	Limit   int
}

// HistoryStore persists history records.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a history store.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add inserts a new history entry.
func (s *HistoryStore) Add(h *HistoryEntry) error {
	if h.Data == "" {
		h.Data = "{}"
	}
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO history (kind, title_id, event, source_path, dest_path, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.Kind, h.TitleID, h.Event, h.SourcePath, h.DestPath, h.Data, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return nil
}

// Record adds an entry with data marshalled to JSON.
func (s *HistoryStore) Record(kind string, titleID int64, event, src, dest string, data map[string]any) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal history data: %w", err)
	}
	return s.Add(&HistoryEntry{
		Kind:       kind,
		TitleID:    titleID,
		Event:      event,
		SourcePath: src,
		DestPath:   dest,
		Data:       string(blob),
	})
}

// List returns history entries matching the filter.
// Results are ordered by most recent first.
func (s *HistoryStore) List(f HistoryFilter) ([]*HistoryEntry, error) {
	var conditions []string
	var args []any

	if f.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, *f.Kind)
	}
	if f.TitleID != nil {
		conditions = append(conditions, "title_id = ?")
		args = append(args, *f.TitleID)
	}
	if f.Event != nil {
		conditions = append(conditions, "event = ?")
		args = append(args, *f.Event)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, kind, title_id, event, source_path, dest_path, data, created_at
		FROM history ` + whereClause + ` ORDER BY created_at DESC, id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.Kind, &h.TitleID, &h.Event, &h.SourcePath, &h.DestPath, &h.Data, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}
