package clips

import (
	"testing"
	"time"
)

func makeTimeline(durations ...time.Duration) *CameraTimeline {
	base := time.Date(2025, 10, 1, 14, 9, 51, 0, time.Local)
	segments := make([]Segment, len(durations))
	var offset time.Duration
	for i, d := range durations {
		segments[i] = Segment{
			Timestamp: base.Add(offset),
			Source:    "/clips/seg.mp4",
			Duration:  d,
		}
		offset += d
	}
	return &CameraTimeline{Camera: CameraFront, Segments: segments}
}

func TestResolveRoundTrip(t *testing.T) {
	ct := makeTimeline(60*time.Second, 45*time.Second, 30*time.Second)

	// Any offset inside the timeline must reconstruct exactly
	for _, offset := range []time.Duration{
		0,
		1 * time.Second,
		59 * time.Second,
		60 * time.Second,
		100 * time.Second,
		134 * time.Second,
	} {
		index, segOffset := ct.Resolve(offset)
		reconstructed := ct.CompletedBefore(index) + segOffset
		if reconstructed != offset {
			t.Errorf("Resolve(%v) = (%d, %v), reconstructs to %v", offset, index, segOffset, reconstructed)
		}
	}
}

func TestResolveSegmentBoundaries(t *testing.T) {
	ct := makeTimeline(60*time.Second, 60*time.Second)

	// Exactly at a boundary lands on the following segment
	index, offset := ct.Resolve(60 * time.Second)
	if index != 1 || offset != 0 {
		t.Errorf("Expected (1, 0) at boundary, got (%d, %v)", index, offset)
	}

	index, offset = ct.Resolve(0)
	if index != 0 || offset != 0 {
		t.Errorf("Expected (0, 0) at start, got (%d, %v)", index, offset)
	}
}

func TestResolveClampsPastEnd(t *testing.T) {
	ct := makeTimeline(60*time.Second, 45*time.Second)

	// A shorter camera holds on its final segment
	index, offset := ct.Resolve(500 * time.Second)
	if index != 1 {
		t.Errorf("Expected last segment index 1, got %d", index)
	}
	if offset > ct.Segments[1].Duration {
		t.Errorf("Expected offset clamped to segment duration %v, got %v", ct.Segments[1].Duration, offset)
	}

	// Exactly at total duration also clamps
	index, offset = ct.Resolve(105 * time.Second)
	if index != 1 {
		t.Errorf("Expected last segment index 1 at total duration, got %d", index)
	}
	if offset != 45*time.Second {
		t.Errorf("Expected offset 45s at total duration, got %v", offset)
	}
}

func TestResolveEmptyTimeline(t *testing.T) {
	ct := &CameraTimeline{Camera: CameraBack}
	index, offset := ct.Resolve(10 * time.Second)
	if index != 0 || offset != 0 {
		t.Errorf("Expected (0, 0) for empty timeline, got (%d, %v)", index, offset)
	}
	if ct.TotalDuration() != 0 {
		t.Errorf("Expected zero total duration, got %v", ct.TotalDuration())
	}
}

func TestTotalDuration(t *testing.T) {
	ct := makeTimeline(60*time.Second, 45*time.Second, 30*time.Second)
	if got := ct.TotalDuration(); got != 135*time.Second {
		t.Errorf("Expected total duration 135s, got %v", got)
	}
}
