package cron

import (
	"log"

	"dashview/registry"

	"github.com/robfig/cron/v3"
)

// RescanCron periodically rescans the library root so event folders copied
// in while the viewer is running show up even if the filesystem watcher
// missed them
type RescanCron struct {
	registry *registry.Registry
	schedule string
	cron     *cron.Cron
	running  bool
}

// NewRescanCron creates a new registry rescan cron instance
func NewRescanCron(reg *registry.Registry, schedule string) *RescanCron {
	return &RescanCron{
		registry: reg,
		schedule: schedule,
		running:  false,
	}
}

// Start begins the rescan cron job
func (rc *RescanCron) Start() {
	if rc.running {
		log.Println("Rescan cron is already running")
		return
	}

	rc.cron = cron.New()
	_, err := rc.cron.AddFunc(rc.schedule, rc.runRescan)
	if err != nil {
		log.Printf("ERROR: Failed to schedule rescan cron (%s): %v", rc.schedule, err)
		return
	}

	rc.cron.Start()
	rc.running = true
	log.Printf("Rescan cron job started with schedule %s", rc.schedule)
}

// Stop stops the rescan cron job
func (rc *RescanCron) Stop() {
	if rc.cron != nil {
		rc.cron.Stop()
	}
	rc.running = false
	log.Println("Stopping rescan cron job")
}

// IsRunning returns whether the cron job is currently running
func (rc *RescanCron) IsRunning() bool {
	return rc.running
}

// runRescan performs one scheduled rescan
func (rc *RescanCron) runRescan() {
	if err := rc.registry.Scan(); err != nil {
		log.Printf("ERROR: Scheduled rescan failed: %v", err)
	}
}
