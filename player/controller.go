package player

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// State is the controller's lifecycle state
type State string

const (
	StateIdle    State = "idle"    // no session loaded
	StateLoaded  State = "loaded"  // session built, paused at position 0
	StatePlaying State = "playing" // all handles advancing
	StatePaused  State = "paused"  // handles halted, session retained
)

// PresetRates are the fixed playback speed presets offered by the UI
var PresetRates = []float64{0.5, 1, 2, 4, 8}

// maxCustomRate bounds user-supplied playback rates to (0, 16]
const maxCustomRate = 16

// ValidRate reports whether a custom playback rate is acceptable
func ValidRate(rate float64) bool {
	return rate > 0 && rate <= maxCustomRate
}

// seekSettle is how long position reporting stays suppressed after a seek
// so the scrub control does not fight the user's drag.
const seekSettle = 300 * time.Millisecond

// Controller owns one camera timeline and one playback handle per
// discovered camera and drives unified play, pause, seek, rate changes and
// per-camera segment rollover across all of them. The first camera in
// presentation order is the primary: its native position anchors the
// global position, and its final end-of-source ends the session.
type Controller struct {
	factory          HandleFactory
	positionInterval time.Duration

	mu         sync.Mutex
	session    *Session
	handles    []Handle
	segIndexes []int // current segment index per camera
	rate       float64
	playing    bool
	ended      bool
	position   time.Duration
	tickerStop chan struct{}

	// seekInFlight guards against overlapping seeks: a seek arriving while
	// one is active is dropped, not queued.
	seekInFlight atomic.Bool
	// suppressUntil holds position updates back while a seek settles
	suppressUntil atomic.Int64 // unix nanos
}

// NewController creates a controller that builds handles with factory and
// polls the primary handle's position at positionInterval
func NewController(factory HandleFactory, positionInterval time.Duration) *Controller {
	if positionInterval <= 0 {
		positionInterval = 100 * time.Millisecond
	}
	return &Controller{
		factory:          factory,
		positionInterval: positionInterval,
		rate:             1,
	}
}

// Load tears down any prior session and installs the new one, paused at
// rate 1 and position 0. Safe to call back-to-back during rapid folder
// switching: late callbacks from the old session check its ID and are
// dropped.
func (c *Controller) Load(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()

	c.session = session
	c.handles = make([]Handle, len(session.Cameras))
	c.segIndexes = make([]int, len(session.Cameras))
	c.rate = 1
	c.playing = false
	c.ended = false
	c.position = 0
	c.seekInFlight.Store(false)
	c.suppressUntil.Store(0)

	for i, camera := range session.Cameras {
		cameraIndex := i
		sessionID := session.ID
		c.handles[i] = c.factory(func() {
			c.handleEndOfSource(sessionID, cameraIndex)
		})
		first := camera.Segments[0]
		c.handles[i].Load(first.Source, first.Duration)
	}

	c.tickerStop = make(chan struct{})
	go c.positionLoop(session.ID, c.tickerStop)

	log.Printf("Loaded session %s: %d cameras, total %v", session.ID, len(session.Cameras), session.GlobalDuration)
}

// Unload tears the current session down and returns the controller to idle
func (c *Controller) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

// teardownLocked releases handles and stops the position loop. Caller
// holds mu.
func (c *Controller) teardownLocked() {
	if c.tickerStop != nil {
		close(c.tickerStop)
		c.tickerStop = nil
	}
	for _, handle := range c.handles {
		handle.Close()
	}
	c.handles = nil
	c.segIndexes = nil
	c.session = nil
	c.playing = false
	c.ended = false
	c.position = 0
}

// State returns the controller's lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.session == nil:
		return StateIdle
	case c.playing:
		return StatePlaying
	case c.position == 0 && !c.ended:
		return StateLoaded
	}
	return StatePaused
}

// Play starts playback on every handle at the current rate as one
// un-interleaved batch
func (c *Controller) Play() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false
	}
	c.ended = false
	c.playing = true
	for _, handle := range c.handles {
		handle.Play(c.rate)
	}
	return true
}

// Pause halts every handle as one un-interleaved batch
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false
	}
	c.playing = false
	for _, handle := range c.handles {
		handle.Pause()
	}
	return true
}

// Toggle flips between playing and paused, returning the resulting
// playing state
func (c *Controller) Toggle() (bool, bool) {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()

	if playing {
		return false, c.Pause()
	}
	return true, c.Play()
}

// SetRate applies a playback rate. An invalid rate is rejected and the
// previous rate retained.
func (c *Controller) SetRate(rate float64) bool {
	if !ValidRate(rate) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false
	}
	c.rate = rate
	if c.playing {
		for _, handle := range c.handles {
			handle.Play(rate)
		}
	}
	return true
}

// Rate returns the current playback rate
func (c *Controller) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Seek moves every camera to the given global position. For each camera
// the position resolves to a (segment, offset) pair; the handle's source
// is swapped only when it is not already on that segment, and the seek is
// exact so cameras cannot desync on keyframe slop. All handles are paused
// during the reassignment and resumed together if playback was active.
// Returns false when the position is invalid, no session is loaded, or a
// seek is already in flight (overlapping seeks are dropped, not queued).
func (c *Controller) Seek(position time.Duration) bool {
	if position < 0 {
		return false
	}
	if !c.seekInFlight.CompareAndSwap(false, true) {
		return false
	}
	defer c.seekInFlight.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false
	}
	if position > c.session.GlobalDuration {
		position = c.session.GlobalDuration
	}

	wasPlaying := c.playing

	// Pause everything so no camera is observed half-switched
	for _, handle := range c.handles {
		handle.Pause()
	}

	for i, camera := range c.session.Cameras {
		segIndex, offset := camera.Resolve(position)
		segment := camera.Segments[segIndex]

		if c.handles[i].Source() != segment.Source {
			c.handles[i].Load(segment.Source, segment.Duration)
		}
		c.segIndexes[i] = segIndex
		c.handles[i].SeekTo(offset)
	}

	c.position = position
	c.ended = false
	c.suppressUntil.Store(time.Now().Add(seekSettle).UnixNano())

	// Resume together at the previous rate
	if wasPlaying {
		for _, handle := range c.handles {
			handle.Play(c.rate)
		}
	}
	return true
}

// JumpToEvent seeks to just before the event moment. A session without a
// resolvable event makes this a no-op with no observable effect.
func (c *Controller) JumpToEvent() bool {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return false
	}
	target, ok := session.JumpTarget()
	if !ok {
		return false
	}
	return c.Seek(target)
}

// Position returns the last reported global position
func (c *Controller) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// handleEndOfSource advances one camera to its next segment when its
// handle signals end-of-resource. Rollover is autonomous per camera:
// siblings keep playing and are never re-synchronized here. A camera with
// no next segment simply stops; the primary camera ending its final
// segment pauses the whole session.
func (c *Controller) handleEndOfSource(sessionID string, cameraIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Stale callback from a torn-down session
	if c.session == nil || c.session.ID != sessionID {
		return
	}
	if cameraIndex >= len(c.session.Cameras) {
		return
	}

	camera := c.session.Cameras[cameraIndex]
	nextIndex := c.segIndexes[cameraIndex] + 1

	if nextIndex < len(camera.Segments) {
		next := camera.Segments[nextIndex]
		c.segIndexes[cameraIndex] = nextIndex
		c.handles[cameraIndex].Load(next.Source, next.Duration)
		if c.playing {
			c.handles[cameraIndex].Play(c.rate)
		}
		return
	}

	// No next segment: this camera holds its last frame. The primary
	// reaching its final end means logical end-of-playback.
	if cameraIndex == 0 {
		c.playing = false
		c.ended = true
		for _, handle := range c.handles {
			handle.Pause()
		}
		log.Printf("Session %s reached end of playback", sessionID)
	}
}

// positionLoop polls the primary handle and derives the global position:
// the handle's native position plus the summed duration of the primary's
// completed segments. Updates are suppressed while a seek settles, and the
// position is clamped at the global duration with a forced pause so the
// display never overshoots the nominal end.
func (c *Controller) positionLoop(sessionID string, stop chan struct{}) {
	ticker := time.NewTicker(c.positionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.updatePosition(sessionID)
		}
	}
}

func (c *Controller) updatePosition(sessionID string) {
	if c.seekInFlight.Load() || time.Now().UnixNano() < c.suppressUntil.Load() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.ID != sessionID || len(c.handles) == 0 {
		return
	}

	primary := c.session.Primary()
	elapsed := primary.CompletedBefore(c.segIndexes[0]) + c.handles[0].Position()

	if elapsed >= c.session.GlobalDuration {
		c.position = c.session.GlobalDuration
		if c.playing || !c.ended {
			c.playing = false
			c.ended = true
			for _, handle := range c.handles {
				handle.Pause()
			}
		}
		return
	}

	c.position = elapsed
}
