package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB implements the Database interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database instance
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %v", err)
	}

	// Create tables if they don't exist
	err = initTables(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %v", err)
	}

	return &SQLiteDB{db: db}, nil
}

// initTables creates the necessary tables if they don't exist
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS durations (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			mod_time TIMESTAMP NOT NULL,
			duration REAL NOT NULL,
			probed_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create index on probed_at for prune queries
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_durations_probed_at ON durations (probed_at)
	`)
	if err != nil {
		return err
	}

	return nil
}

// GetDuration returns the cached duration for a file, or nil if the cache
// has no entry or the entry no longer matches the file's size and mtime.
func (s *SQLiteDB) GetDuration(path string, size int64, modTime time.Time) (*DurationEntry, error) {
	var entry DurationEntry
	err := s.db.QueryRow(`
		SELECT path, size, mod_time, duration, probed_at
		FROM durations WHERE path = ?
	`, path).Scan(&entry.Path, &entry.Size, &entry.ModTime, &entry.Duration, &entry.ProbedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// A changed file invalidates its cache entry
	if entry.Size != size || !entry.ModTime.Equal(modTime) {
		return nil, nil
	}

	return &entry, nil
}

// UpsertDuration inserts or replaces a cached duration entry
func (s *SQLiteDB) UpsertDuration(entry DurationEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO durations (path, size, mod_time, duration, probed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mod_time = excluded.mod_time,
			duration = excluded.duration,
			probed_at = excluded.probed_at
	`, entry.Path, entry.Size, entry.ModTime, entry.Duration, entry.ProbedAt)
	return err
}

// ListDurations returns cached entries with pagination, newest probes first
func (s *SQLiteDB) ListDurations(limit, offset int) ([]DurationEntry, error) {
	rows, err := s.db.Query(`
		SELECT path, size, mod_time, duration, probed_at
		FROM durations ORDER BY probed_at DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []DurationEntry
	for rows.Next() {
		var entry DurationEntry
		if err := rows.Scan(&entry.Path, &entry.Size, &entry.ModTime, &entry.Duration, &entry.ProbedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteDuration removes a cached entry
func (s *SQLiteDB) DeleteDuration(path string) error {
	_, err := s.db.Exec(`DELETE FROM durations WHERE path = ?`, path)
	return err
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
