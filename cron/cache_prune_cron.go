package cron

import (
	"log"
	"os"
	"time"

	"dashview/database"

	"github.com/robfig/cron/v3"
)

// CachePruneCron removes duration cache rows whose media file no longer
// exists on disk, keeping the cache from growing unbounded as old event
// folders are deleted
type CachePruneCron struct {
	db       database.Database
	schedule string
	cron     *cron.Cron
	running  bool
}

// NewCachePruneCron creates a new cache prune cron instance
func NewCachePruneCron(db database.Database, schedule string) *CachePruneCron {
	return &CachePruneCron{
		db:       db,
		schedule: schedule,
		running:  false,
	}
}

// Start begins the cache prune cron job
func (cpc *CachePruneCron) Start() {
	if cpc.running {
		log.Println("Cache prune cron is already running")
		return
	}

	cpc.cron = cron.New()
	_, err := cpc.cron.AddFunc(cpc.schedule, cpc.runPrune)
	if err != nil {
		log.Printf("ERROR: Failed to schedule cache prune cron (%s): %v", cpc.schedule, err)
		return
	}

	cpc.cron.Start()
	cpc.running = true
	log.Printf("Cache prune cron job started with schedule %s", cpc.schedule)
}

// Stop stops the cache prune cron job
func (cpc *CachePruneCron) Stop() {
	if cpc.cron != nil {
		cpc.cron.Stop()
	}
	cpc.running = false
	log.Println("Stopping cache prune cron job")
}

// IsRunning returns whether the cron job is currently running
func (cpc *CachePruneCron) IsRunning() bool {
	return cpc.running
}

// RunManualPrune triggers a prune outside the schedule
func (cpc *CachePruneCron) RunManualPrune() {
	cpc.runPrune()
}

// runPrune walks the cache in pages and deletes rows for vanished files
func (cpc *CachePruneCron) runPrune() {
	log.Println("=== Starting duration cache prune ===")
	startTime := time.Now()

	pruned := 0
	errors := 0
	offset := 0
	const pageSize = 500

	for {
		entries, err := cpc.db.ListDurations(pageSize, offset)
		if err != nil {
			log.Printf("ERROR: Failed to list cached durations: %v", err)
			return
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if _, err := os.Stat(entry.Path); err == nil {
				continue
			}
			if err := cpc.db.DeleteDuration(entry.Path); err != nil {
				log.Printf("WARNING: Failed to prune cache entry %s: %v", entry.Path, err)
				errors++
				continue
			}
			pruned++
		}

		if len(entries) < pageSize {
			break
		}
		offset += pageSize
	}

	log.Printf("=== Duration cache prune completed in %v: %d pruned, %d errors ===",
		time.Since(startTime), pruned, errors)
}
