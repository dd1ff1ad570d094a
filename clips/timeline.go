package clips

import (
	"time"
)

// CameraTimeline treats one camera's ordered segment sequence as a single
// continuous logical timeline backed by multiple discrete files.
type CameraTimeline struct {
	Camera   Camera    `json:"camera"`
	Segments []Segment `json:"segments"` // Sorted ascending by timestamp
}

// TotalDuration returns the summed duration of all segments. Segments are
// immutable after parsing so recomputation is cheap and always consistent.
func (ct *CameraTimeline) TotalDuration() time.Duration {
	var total time.Duration
	for _, seg := range ct.Segments {
		total += seg.Duration
	}
	return total
}

// Resolve maps a global offset to (segment index, offset within segment).
// Offsets at or past the camera's own total duration clamp to the last
// segment so a camera that recorded less than the global timeline holds on
// its final segment instead of erroring.
func (ct *CameraTimeline) Resolve(globalOffset time.Duration) (int, time.Duration) {
	var accumulated time.Duration
	for i, seg := range ct.Segments {
		next := accumulated + seg.Duration
		if globalOffset < next {
			return i, globalOffset - accumulated
		}
		accumulated = next
	}

	// Past the end: clamp to the last segment
	if len(ct.Segments) == 0 {
		return 0, 0
	}
	lastIndex := len(ct.Segments) - 1
	offset := globalOffset - (ct.TotalDuration() - ct.Segments[lastIndex].Duration)
	if offset > ct.Segments[lastIndex].Duration {
		offset = ct.Segments[lastIndex].Duration
	}
	return lastIndex, offset
}

// CompletedBefore returns the summed duration of all segments preceding the
// segment at index. Used to translate a native segment position back onto
// the camera's logical timeline.
func (ct *CameraTimeline) CompletedBefore(index int) time.Duration {
	var total time.Duration
	for i := 0; i < index && i < len(ct.Segments); i++ {
		total += ct.Segments[i].Duration
	}
	return total
}
