// Package history persists dispatch outcomes. The primary store is a local
// SQLite database; a JSONL file store stands in when the database cannot be
// opened.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	route TEXT NOT NULL,
	language TEXT NOT NULL,
	command TEXT NOT NULL,
	blocked INTEGER NOT NULL DEFAULT 0,
	success INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_dispatches_timestamp ON dispatches(timestamp);
`

// SQLiteStore implements ports.HistoryRepository on a local database file.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save appends one dispatch record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO dispatches (request_id, timestamp, route, language, command, blocked, success, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RequestID,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Route,
		record.Language,
		record.Command,
		boolToInt(record.Blocked),
		boolToInt(record.Success),
		record.DurationMS,
	)
	return err
}

// Records returns the most recent records, newest first. A non-empty search
// filters by command substring.
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	query := `SELECT request_id, timestamp, route, language, command, blocked, success, duration_ms
		FROM dispatches`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE command LIKE ?`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts string
		var blocked, success int
		if err := rows.Scan(&rec.RequestID, &ts, &rec.Route, &rec.Language, &rec.Command, &blocked, &success, &rec.DurationMS); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = parsed
		}
		rec.Blocked = blocked != 0
		rec.Success = success != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes every record.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM dispatches`)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ExpandPath resolves a config-relative history path against the home dir.
func ExpandPath(path string) string {
	if path == "" {
		path = filepath.Join(".hostpilot", "history.db")
	}
	if filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
