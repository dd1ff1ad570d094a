package player

import (
	"sync"
	"time"
)

// Handle is the playback capability the controller commands for one
// camera. Implementations run their own decode/render machinery; the
// controller only issues commands and receives the end-of-source callback
// registered at construction.
type Handle interface {
	// Load replaces the current media resource and resets the playhead
	Load(source string, duration time.Duration)
	// Play starts or continues playback at the given rate
	Play(rate float64)
	// Pause halts playback, holding the current position
	Pause()
	// SeekTo moves the playhead to an exact offset within the loaded source
	SeekTo(offset time.Duration)
	// Position returns the current offset within the loaded source
	Position() time.Duration
	// Source returns the currently loaded media resource, or ""
	Source() string
	// Close releases the handle; no callbacks fire afterwards
	Close()
}

// HandleFactory creates a playback handle whose end-of-source signal is
// delivered to onEnd
type HandleFactory func(onEnd func()) Handle

// clockHandle advances a logical playhead on the wall clock at the
// commanded rate and fires end-of-source when the loaded segment's
// duration elapses. The browser UI maps this logical state onto its own
// video elements, so the process itself never decodes media.
type clockHandle struct {
	mu         sync.Mutex
	onEnd      func()
	source     string
	duration   time.Duration
	rate       float64
	playing    bool
	basePos    time.Duration // playhead position at baseTime
	baseTime   time.Time
	endTimer   *time.Timer
	generation int // invalidates timers from superseded load/seek/pause
	closed     bool
}

// NewClockHandle creates a clock-driven playback handle
func NewClockHandle(onEnd func()) Handle {
	return &clockHandle{onEnd: onEnd, rate: 1}
}

func (h *clockHandle) Load(source string, duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelTimerLocked()
	h.source = source
	h.duration = duration
	h.basePos = 0
	h.playing = false
}

func (h *clockHandle) Play(rate float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.source == "" || rate <= 0 {
		return
	}

	// Re-anchor the playhead before changing the rate
	h.basePos = h.positionLocked()
	h.baseTime = time.Now()
	h.rate = rate
	h.playing = true
	h.scheduleEndLocked()
}

func (h *clockHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.playing {
		return
	}
	h.basePos = h.positionLocked()
	h.playing = false
	h.cancelTimerLocked()
}

func (h *clockHandle) SeekTo(offset time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.source == "" {
		return
	}
	if offset < 0 {
		offset = 0
	}
	if offset > h.duration {
		offset = h.duration
	}
	h.basePos = offset
	h.baseTime = time.Now()
	if h.playing {
		h.scheduleEndLocked()
	}
}

func (h *clockHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.positionLocked()
}

func (h *clockHandle) Source() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.source
}

func (h *clockHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelTimerLocked()
	h.closed = true
	h.playing = false
	h.source = ""
}

// positionLocked computes the playhead position, clamped to the source
// duration. Caller holds mu.
func (h *clockHandle) positionLocked() time.Duration {
	pos := h.basePos
	if h.playing {
		elapsed := time.Since(h.baseTime)
		pos += time.Duration(float64(elapsed) * h.rate)
	}
	if pos > h.duration {
		pos = h.duration
	}
	return pos
}

// scheduleEndLocked arms the end-of-source timer for the remaining media
// time at the current rate. Caller holds mu.
func (h *clockHandle) scheduleEndLocked() {
	h.cancelTimerLocked()

	remaining := h.duration - h.basePos
	if remaining < 0 {
		remaining = 0
	}
	wallTime := time.Duration(float64(remaining) / h.rate)

	generation := h.generation
	h.endTimer = time.AfterFunc(wallTime, func() {
		h.mu.Lock()
		// A load/seek/pause since arming makes this timer stale
		if h.closed || h.generation != generation || !h.playing {
			h.mu.Unlock()
			return
		}
		h.basePos = h.duration
		h.playing = false
		onEnd := h.onEnd
		h.mu.Unlock()

		if onEnd != nil {
			onEnd()
		}
	})
}

// cancelTimerLocked stops any armed end timer and bumps the generation so
// an already-fired callback is discarded. Caller holds mu.
func (h *clockHandle) cancelTimerLocked() {
	h.generation++
	if h.endTimer != nil {
		h.endTimer.Stop()
		h.endTimer = nil
	}
}
