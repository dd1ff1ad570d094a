package probe

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dashview/database"

	"golang.org/x/sync/semaphore"
)

// Prober resolves the duration of a media file in seconds
type Prober interface {
	Duration(path string) (float64, error)
}

// IsMP4File checks if the given file is an MP4 file based on extension
func IsMP4File(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".mp4"
}

// FFProbe is a Prober backed by the ffprobe binary
type FFProbe struct{}

// Duration returns the duration of a video file in seconds using ffprobe
func (FFProbe) Duration(filePath string) (float64, error) {
	// Check if input file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("video file does not exist: %s", filePath)
	}

	// Use ffprobe to get video duration
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		filePath)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get video duration using ffprobe: %v", err)
	}

	// Parse duration from output
	durationStr := strings.TrimSpace(string(output))
	if durationStr == "" {
		return 0, fmt.Errorf("empty duration output from ffprobe")
	}

	var duration float64
	if _, err := fmt.Sscanf(durationStr, "%f", &duration); err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %v", durationStr, err)
	}

	return duration, nil
}

// CachedProber wraps a Prober with a database-backed duration cache so that
// re-opening a folder does not re-run ffprobe for unchanged files.
type CachedProber struct {
	inner Prober
	db    database.Database
}

// NewCachedProber creates a CachedProber over the given prober and database
func NewCachedProber(inner Prober, db database.Database) *CachedProber {
	return &CachedProber{inner: inner, db: db}
}

// Duration returns the cached duration when the file is unchanged, probing
// and recording it otherwise. Cache errors degrade to a plain probe.
func (p *CachedProber) Duration(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("video file does not exist: %s", path)
	}

	entry, err := p.db.GetDuration(path, info.Size(), info.ModTime())
	if err != nil {
		log.Printf("Warning: duration cache lookup failed for %s: %v", path, err)
	} else if entry != nil {
		return entry.Duration, nil
	}

	duration, err := p.inner.Duration(path)
	if err != nil {
		return 0, err
	}

	if err := p.db.UpsertDuration(database.DurationEntry{
		Path:     path,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Duration: duration,
		ProbedAt: time.Now(),
	}); err != nil {
		log.Printf("Warning: failed to cache duration for %s: %v", path, err)
	}

	return duration, nil
}

// DurationsFor probes all given paths with bounded concurrency and returns
// the durations that were resolved successfully. A failed probe drops that
// path from the result, it never aborts the batch.
func DurationsFor(prober Prober, paths []string, concurrency int) map[string]float64 {
	if concurrency < 1 {
		concurrency = 1
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	ctx := context.Background()

	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make(map[string]float64, len(paths))

	for _, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Printf("Error acquiring probe semaphore for %s: %v", path, err)
			continue
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			duration, err := prober.Duration(path)
			if err != nil {
				log.Printf("Warning: skipping %s: %v", filepath.Base(path), err)
				return
			}

			mu.Lock()
			results[path] = duration
			mu.Unlock()
		}(path)
	}

	wg.Wait()
	return results
}
