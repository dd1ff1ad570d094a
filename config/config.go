package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config contains all configuration for the application
type Config struct {
	// Library Configuration
	LibraryRoot string // Root directory containing event folders

	// Server Configuration
	ServerPort string
	BaseURL    string // Base URL for accessing media files

	// Database Configuration
	DatabasePath string

	// Probe Configuration
	ProbeConcurrency int // Max concurrent ffprobe processes per folder parse

	// Scheduled Jobs Configuration
	RescanSchedule     string // Cron schedule for registry rescans
	CachePruneSchedule string // Cron schedule for duration cache pruning

	// UI Configuration
	FilterDebounceMs   int // Debounce interval for search filtering
	PositionIntervalMs int // Interval for position updates from the primary handle
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	cfg := Config{
		LibraryRoot:        getEnv("LIBRARY_ROOT", "./clips"),
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:3000"),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/dashview.db"),
		ProbeConcurrency:   getEnvInt("PROBE_CONCURRENCY", 4),
		RescanSchedule:     getEnv("RESCAN_SCHEDULE", "@every 5m"),
		CachePruneSchedule: getEnv("CACHE_PRUNE_SCHEDULE", "@daily"),
		FilterDebounceMs:   getEnvInt("FILTER_DEBOUNCE_MS", 120),
		PositionIntervalMs: getEnvInt("POSITION_INTERVAL_MS", 100),
	}

	log.Printf("Library root: %s", cfg.LibraryRoot)
	log.Printf("Server running on port %s with base URL %s", cfg.ServerPort, cfg.BaseURL)
	log.Printf("Database path: %s", cfg.DatabasePath)

	return cfg
}

// getEnv returns environment variable or fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback value
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer for %s: %q, using %d", key, value, fallback)
	}
	return fallback
}

// EnsurePaths creates necessary paths
func EnsurePaths(config Config) {
	// Create database directory
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Printf("Failed to create database directory %s: %v", dbDir, err)
	}
}
