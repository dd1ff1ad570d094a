package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dashview/clips"
	"dashview/player"
	"dashview/registry"

	"github.com/gin-gonic/gin"
)

// listFolders serves the filtered event folder list. Requests are
// debounced registry-side; a request superseded by a newer filter before
// its debounce elapsed gets 204 and the client simply drops it.
func (s *Server) listFolders(c *gin.Context) {
	query := c.Query("query")

	resultCh := make(chan []registry.Entry, 1)
	s.registry.FilterAsync(query, func(entries []registry.Entry) {
		resultCh <- entries
	})

	select {
	case entries := <-resultCh:
		c.JSON(http.StatusOK, gin.H{
			"entries": entries,
			"count":   len(entries),
		})
	case <-time.After(s.filterWait):
		// Superseded by a newer filter request
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) rescanFolders(c *gin.Context) {
	if err := s.registry.Scan(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Rescan failed: %v", err)})
		return
	}
	entries := s.registry.Entries()
	c.JSON(http.StatusOK, gin.H{"count": len(entries)})
}

// openSession parses an event folder and installs it as the live session,
// tearing down any prior one
func (s *Server) openSession(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Folder not found: %s", req.Path)})
		return
	}

	cameras, eventInfo, err := clips.ParseFolder(req.Path, s.prober, s.config.ProbeConcurrency)
	if err != nil {
		if errors.Is(err, clips.ErrNoPlayableMedia) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Unable to parse folder. Please ensure you selected a valid dashcam event folder.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to parse folder: %v", err)})
		return
	}

	session := player.NewSession(cameras, eventInfo)
	s.controller.Load(session)

	c.JSON(http.StatusOK, s.stateResponse())
}

func (s *Server) closeSession(c *gin.Context) {
	s.controller.Unload()
	c.Status(http.StatusNoContent)
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.stateResponse())
}

func (s *Server) togglePlayPause(c *gin.Context) {
	playing, ok := s.controller.Toggle()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No session loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPlaying": playing})
}

func (s *Server) seek(c *gin.Context) {
	var req struct {
		Position *float64 `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || *req.Position < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position must be a non-negative number of seconds"})
		return
	}

	target := time.Duration(*req.Position * float64(time.Second))
	if !s.controller.Seek(target) {
		// Either no session is loaded or another seek is in flight;
		// overlapping seeks are dropped, not queued
		c.JSON(http.StatusConflict, gin.H{"error": "Seek dropped"})
		return
	}
	c.JSON(http.StatusOK, s.stateResponse())
}

// setRate applies a preset or custom playback rate. An invalid custom
// value is rejected with no rate change, mirroring the speed field that
// simply reverts.
func (s *Server) setRate(c *gin.Context) {
	var req struct {
		Preset float64 `json:"preset"`
		Custom string  `json:"custom"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rate := req.Preset
	if strings.TrimSpace(req.Custom) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(req.Custom), 64)
		if err != nil || !player.ValidRate(parsed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Custom rate must be a number in (0, 16]",
				"rate":  s.controller.Rate(),
			})
			return
		}
		rate = parsed
	} else if !isPresetRate(rate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Preset rate must be one of 0.5, 1, 2, 4, 8",
			"rate":  s.controller.Rate(),
		})
		return
	}

	if !s.controller.SetRate(rate) {
		c.JSON(http.StatusConflict, gin.H{"error": "No session loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}

func isPresetRate(rate float64) bool {
	for _, preset := range player.PresetRates {
		if rate == preset {
			return true
		}
	}
	return false
}

func (s *Server) jumpToEvent(c *gin.Context) {
	jumped := s.controller.JumpToEvent()
	c.JSON(http.StatusOK, gin.H{
		"jumped":   jumped,
		"position": s.controller.Position().Seconds(),
	})
}

func (s *Server) getSystemHealth(c *gin.Context) {
	healthResponse := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	// Check database connectivity with a simple query
	if _, err := s.db.ListDurations(1, 0); err != nil {
		healthResponse["status"] = "unhealthy"
		healthResponse["database"] = gin.H{"status": "failed", "error": err.Error()}
		c.JSON(http.StatusServiceUnavailable, healthResponse)
		return
	}
	healthResponse["database"] = gin.H{"status": "connected"}

	if usage, err := s.monitor.Usage(); err == nil {
		healthResponse["resources"] = usage
	}

	healthResponse["session"] = gin.H{"state": s.controller.State()}

	c.JSON(http.StatusOK, healthResponse)
}

// stateResponse augments the controller snapshot with media URLs and
// formatted time labels for the UI
func (s *Server) stateResponse() gin.H {
	snap := s.controller.Snapshot()

	cameras := make([]gin.H, len(snap.Cameras))
	for i, cam := range snap.Cameras {
		cameras[i] = gin.H{
			"id":           cam.ID,
			"name":         cam.Name,
			"active":       cam.Active,
			"source":       cam.Source,
			"sourceUrl":    s.mediaURL(cam.Source),
			"segmentIndex": cam.SegmentIndex,
			"offset":       cam.Offset,
		}
	}

	return gin.H{
		"state":        snap.State,
		"position":     snap.Position,
		"duration":     snap.Duration,
		"positionText": player.FormatClock(time.Duration(snap.Position * float64(time.Second))),
		"durationText": player.FormatClock(time.Duration(snap.Duration * float64(time.Second))),
		"rate":         snap.Rate,
		"isPlaying":    snap.IsPlaying,
		"ended":        snap.Ended,
		"cameras":      cameras,
		"event": gin.H{
			"state":       snap.EventState,
			"offset":      snap.EventOffset,
			"markerRatio": snap.MarkerRatio,
			"summary":     snap.EventSummary,
		},
		"controls": snap.Controls,
	}
}

// mediaURL maps an absolute segment path onto the static media mount.
// Sources outside the library root are returned as-is.
func (s *Server) mediaURL(source string) string {
	if source == "" {
		return ""
	}
	rel, err := filepath.Rel(s.config.LibraryRoot, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		return source
	}
	return "/media/" + filepath.ToSlash(rel)
}
