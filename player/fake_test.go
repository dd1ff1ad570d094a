package player

import (
	"sync"
	"time"

	"dashview/clips"
)

// fakeHandle is a scripted playback handle for controller tests
type fakeHandle struct {
	mu       sync.Mutex
	onEnd    func()
	source   string
	duration time.Duration
	position time.Duration
	rate     float64
	playing  bool
	closed   bool

	loads  int
	seeks  int
	pauses int

	// pauseBlock, when set, makes Pause wait until the channel closes.
	// Used to hold a seek in flight.
	pauseBlock chan struct{}
}

func (f *fakeHandle) Load(source string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source = source
	f.duration = duration
	f.position = 0
	f.playing = false
	f.loads++
}

func (f *fakeHandle) Play(rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = rate
	f.playing = true
}

func (f *fakeHandle) Pause() {
	f.mu.Lock()
	block := f.pauseBlock
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.pauses++
}

func (f *fakeHandle) SeekTo(offset time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = offset
	f.seeks++
}

func (f *fakeHandle) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeHandle) Source() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source
}

func (f *fakeHandle) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.source = ""
}

func (f *fakeHandle) setPosition(p time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = p
}

func (f *fakeHandle) state() (string, bool, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source, f.playing, f.rate
}

// fireEnd simulates the platform end-of-resource notification
func (f *fakeHandle) fireEnd() {
	f.onEnd()
}

// fakeFactory records every handle it creates, in creation order
type fakeFactory struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (ff *fakeFactory) new(onEnd func()) Handle {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	h := &fakeHandle{onEnd: onEnd, rate: 1}
	ff.handles = append(ff.handles, h)
	return h
}

// mustEvent is 10 seconds after the twoCameraSession origin
var mustEvent = clips.EventInfo{Timestamp: "2025-10-01T14:10:01"}

// twoCameraSession builds a session with a two-segment front camera
// (60s + 60s) and a single-segment back camera (45s)
func twoCameraSession(eventInfo *clips.EventInfo) *Session {
	base := time.Date(2025, 10, 1, 14, 9, 51, 0, time.Local)
	front := &clips.CameraTimeline{
		Camera: clips.CameraFront,
		Segments: []clips.Segment{
			{Timestamp: base, Source: "/clips/front-0.mp4", Duration: 60 * time.Second},
			{Timestamp: base.Add(60 * time.Second), Source: "/clips/front-1.mp4", Duration: 60 * time.Second},
		},
	}
	back := &clips.CameraTimeline{
		Camera: clips.CameraBack,
		Segments: []clips.Segment{
			{Timestamp: base, Source: "/clips/back-0.mp4", Duration: 45 * time.Second},
		},
	}
	return NewSession([]*clips.CameraTimeline{front, back}, eventInfo)
}
