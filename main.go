package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashview/api"
	"dashview/config"
	"dashview/cron"
	"dashview/database"
	"dashview/monitoring"
	"dashview/player"
	"dashview/probe"
	"dashview/registry"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}

	cfg := config.LoadConfig()
	config.EnsurePaths(cfg)

	// Duration cache keeps folder opens fast after the first probe
	db, err := database.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open duration cache database: %v", err)
	}
	defer db.Close()

	prober := probe.NewCachedProber(probe.FFProbe{}, db)

	// Folder registry over the library root
	reg := registry.New(cfg.LibraryRoot, time.Duration(cfg.FilterDebounceMs)*time.Millisecond)
	if err := reg.Scan(); err != nil {
		log.Printf("WARNING: Initial library scan failed: %v", err)
	}
	if err := reg.Watch(); err != nil {
		log.Printf("WARNING: Library watcher unavailable, relying on scheduled rescans: %v", err)
	}
	defer reg.Close()

	// Playback controller driving one clock handle per camera
	controller := player.NewController(player.NewClockHandle, time.Duration(cfg.PositionIntervalMs)*time.Millisecond)
	defer controller.Unload()

	// Scheduled rescan and duration cache pruning
	rescanCron := cron.NewRescanCron(reg, cfg.RescanSchedule)
	rescanCron.Start()
	defer rescanCron.Stop()

	pruneCron := cron.NewCachePruneCron(db, cfg.CachePruneSchedule)
	pruneCron.Start()
	defer pruneCron.Stop()

	// Resource monitoring
	monitor, err := monitoring.NewMonitor(cfg.LibraryRoot)
	if err != nil {
		log.Fatalf("Failed to initialize resource monitor: %v", err)
	}
	monitor.Start(5 * time.Minute)

	server := api.NewServer(cfg, db, reg, controller, monitor, prober)
	go server.Start()

	log.Printf("dashview serving library %s on port %s", cfg.LibraryRoot, cfg.ServerPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %v, shutting down", sig)
}
