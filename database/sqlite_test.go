package database

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// TestSQLiteDB tests SQLite database operations
func TestSQLiteDB(t *testing.T) {
	// Create temporary directory for test database
	tempDir, err := os.MkdirTemp("", "dashview-db-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create SQLite database: %v", err)
	}
	defer db.Close()

	// Test UpsertDuration and GetDuration
	testUpsertAndGetDuration(t, db)

	// Test cache invalidation on file change
	testStaleEntryInvalidation(t, db)

	// Test ListDurations
	testListDurations(t, db)

	// Test DeleteDuration
	testDeleteDuration(t, db)
}

// testUpsertAndGetDuration tests storing and retrieving a cached duration
func testUpsertAndGetDuration(t *testing.T, db *SQLiteDB) {
	now := time.Now().Truncate(time.Second)
	entry := DurationEntry{
		Path:     "/clips/2025-10-01_14-09-51/2025-10-01_14-09-51-front.mp4",
		Size:     1024,
		ModTime:  now,
		Duration: 59.97,
		ProbedAt: now,
	}

	if err := db.UpsertDuration(entry); err != nil {
		t.Fatalf("Failed to upsert duration: %v", err)
	}

	retrieved, err := db.GetDuration(entry.Path, entry.Size, entry.ModTime)
	if err != nil {
		t.Fatalf("Failed to get duration: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Expected to retrieve duration entry, got nil")
	}
	if retrieved.Duration != entry.Duration {
		t.Errorf("Expected duration %f, got %f", entry.Duration, retrieved.Duration)
	}

	// Non-existent path returns nil without error
	missing, err := db.GetDuration("/clips/nope.mp4", 1, now)
	if err != nil {
		t.Fatalf("Expected no error for missing entry, got: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing entry, got: %v", missing)
	}

	// Upsert overwrites the existing row
	entry.Duration = 60.01
	if err := db.UpsertDuration(entry); err != nil {
		t.Fatalf("Failed to upsert updated duration: %v", err)
	}
	updated, err := db.GetDuration(entry.Path, entry.Size, entry.ModTime)
	if err != nil {
		t.Fatalf("Failed to get updated duration: %v", err)
	}
	if updated.Duration != 60.01 {
		t.Errorf("Expected updated duration 60.01, got %f", updated.Duration)
	}
}

// testStaleEntryInvalidation tests that a changed file misses the cache
func testStaleEntryInvalidation(t *testing.T, db *SQLiteDB) {
	now := time.Now().Truncate(time.Second)
	entry := DurationEntry{
		Path:     "/clips/stale-test.mp4",
		Size:     2048,
		ModTime:  now,
		Duration: 30.0,
		ProbedAt: now,
	}

	if err := db.UpsertDuration(entry); err != nil {
		t.Fatalf("Failed to upsert duration: %v", err)
	}

	// Different size misses
	bySize, err := db.GetDuration(entry.Path, 4096, now)
	if err != nil {
		t.Fatalf("Unexpected error on size mismatch: %v", err)
	}
	if bySize != nil {
		t.Error("Expected cache miss for changed size, got entry")
	}

	// Different mtime misses
	byTime, err := db.GetDuration(entry.Path, entry.Size, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Unexpected error on mtime mismatch: %v", err)
	}
	if byTime != nil {
		t.Error("Expected cache miss for changed mtime, got entry")
	}
}

// testListDurations tests listing entries with pagination
func testListDurations(t *testing.T, db *SQLiteDB) {
	now := time.Now().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		entry := DurationEntry{
			Path:     "/clips/list-test-" + strconv.Itoa(i) + ".mp4",
			Size:     int64(i * 1024),
			ModTime:  now,
			Duration: float64(i * 10),
			ProbedAt: now.Add(time.Duration(-i) * time.Hour),
		}
		if err := db.UpsertDuration(entry); err != nil {
			t.Fatalf("Failed to upsert list test entry: %v", err)
		}
	}

	entries, err := db.ListDurations(3, 0)
	if err != nil {
		t.Fatalf("Failed to list durations: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(entries))
	}

	more, err := db.ListDurations(100, 3)
	if err != nil {
		t.Fatalf("Failed to list durations with offset: %v", err)
	}

	// Check for duplicates between the two queries
	pathMap := make(map[string]bool)
	for _, e := range entries {
		pathMap[e.Path] = true
	}
	for _, e := range more {
		if pathMap[e.Path] {
			t.Errorf("Found duplicate path %s in paginated results", e.Path)
		}
	}
}

// testDeleteDuration tests deleting a cached entry
func testDeleteDuration(t *testing.T, db *SQLiteDB) {
	now := time.Now().Truncate(time.Second)
	entry := DurationEntry{
		Path:     "/clips/delete-test.mp4",
		Size:     512,
		ModTime:  now,
		Duration: 15.0,
		ProbedAt: now,
	}

	if err := db.UpsertDuration(entry); err != nil {
		t.Fatalf("Failed to upsert delete test entry: %v", err)
	}

	if err := db.DeleteDuration(entry.Path); err != nil {
		t.Fatalf("Failed to delete duration: %v", err)
	}

	gone, err := db.GetDuration(entry.Path, entry.Size, entry.ModTime)
	if err != nil {
		t.Fatalf("Failed to get duration after deletion: %v", err)
	}
	if gone != nil {
		t.Errorf("Expected entry to be deleted, but it still exists: %v", gone)
	}
}
