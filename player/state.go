package player

import (
	"fmt"
	"time"

	"dashview/clips"
)

// CameraState is the per-camera slice of a snapshot
type CameraState struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Active       bool    `json:"active"` // camera still has media at the current position
	Source       string  `json:"source"`
	SegmentIndex int     `json:"segmentIndex"`
	Offset       float64 `json:"offset"` // seconds within the current segment
}

// Controls are the derived enabled/disabled flags for the UI. They are a
// pure projection of session state, recomputed on every snapshot, never
// mutated in place.
type Controls struct {
	CanPlay        bool `json:"canPlay"`
	CanSeek        bool `json:"canSeek"`
	CanSetRate     bool `json:"canSetRate"`
	CanJumpToEvent bool `json:"canJumpToEvent"`
}

// Snapshot is the full state the UI collaborator renders
type Snapshot struct {
	State        State         `json:"state"`
	Position     float64       `json:"position"` // seconds
	Duration     float64       `json:"duration"` // seconds
	Rate         float64       `json:"rate"`
	IsPlaying    bool          `json:"isPlaying"`
	Ended        bool          `json:"ended"`
	Cameras      []CameraState `json:"cameras"`
	EventState   string        `json:"eventState"`
	EventOffset  float64       `json:"eventOffset"`  // seconds, meaningful unless state is unknown
	MarkerRatio  float64       `json:"markerRatio"`  // [0,1], or -1 when no marker
	EventSummary string        `json:"eventSummary"`
	Controls     Controls      `json:"controls"`
}

// Snapshot returns the current state as a derived projection
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:       c.stateLocked(),
		Rate:        c.rate,
		MarkerRatio: -1,
		EventState:  string(clips.MarkUnknown),
	}

	if c.session == nil {
		return snap
	}

	snap.Position = c.position.Seconds()
	snap.Duration = c.session.GlobalDuration.Seconds()
	snap.IsPlaying = c.playing
	snap.Ended = c.ended
	snap.EventState = string(c.session.Event.State)
	snap.EventOffset = c.session.Event.Offset.Seconds()
	snap.MarkerRatio = c.session.Event.MarkerRatio(c.session.GlobalDuration)
	snap.EventSummary = clips.FormatEventSummary(c.session.EventInfo)

	_, canJump := c.session.JumpTarget()
	snap.Controls = Controls{
		CanPlay:        true,
		CanSeek:        true,
		CanSetRate:     true,
		CanJumpToEvent: canJump,
	}

	snap.Cameras = make([]CameraState, len(c.session.Cameras))
	for i, camera := range c.session.Cameras {
		segIndex := c.segIndexes[i]
		active := c.position < camera.TotalDuration()
		snap.Cameras[i] = CameraState{
			ID:           string(camera.Camera),
			Name:         camera.Camera.DisplayName(),
			Active:       active,
			Source:       c.handles[i].Source(),
			SegmentIndex: segIndex,
			Offset:       c.handles[i].Position().Seconds(),
		}
	}

	return snap
}

// FormatClock renders a duration as MM:SS for time labels
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
