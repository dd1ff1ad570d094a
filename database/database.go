package database

import (
	"time"
)

// DurationEntry represents a cached media duration for one file on disk.
// Entries are keyed by path and validated against size and modification
// time so a replaced file is re-probed instead of served stale.
type DurationEntry struct {
	Path      string    `json:"path"`      // Absolute path to the media file
	Size      int64     `json:"size"`      // File size in bytes at probe time
	ModTime   time.Time `json:"modTime"`   // File modification time at probe time
	Duration  float64   `json:"duration"`  // Probed duration in seconds
	ProbedAt  time.Time `json:"probedAt"`  // When the probe ran
}

// Database defines the interface for database operations
type Database interface {
	// Duration cache operations
	GetDuration(path string, size int64, modTime time.Time) (*DurationEntry, error)
	UpsertDuration(entry DurationEntry) error
	ListDurations(limit, offset int) ([]DurationEntry, error)
	DeleteDuration(path string) error

	// Helper operations
	Close() error
}
