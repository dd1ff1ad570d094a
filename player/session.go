package player

import (
	"time"

	"dashview/clips"

	"github.com/google/uuid"
)

// Session is the live aggregate built from one parsed event folder. It is
// replaced wholesale on each folder load; the ID lets the controller
// discard callbacks that belong to a torn-down session.
type Session struct {
	ID        string
	Cameras   []*clips.CameraTimeline // presentation order, primary first
	EventInfo *clips.EventInfo

	Origin         time.Time     // earliest first-segment timestamp across cameras
	GlobalDuration time.Duration // max camera total; shorter cameras end early
	Event          clips.EventMark
}

// NewSession builds a session from parser output
func NewSession(cameras []*clips.CameraTimeline, eventInfo *clips.EventInfo) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Cameras:   cameras,
		EventInfo: eventInfo,
	}

	for _, camera := range cameras {
		if total := camera.TotalDuration(); total > s.GlobalDuration {
			s.GlobalDuration = total
		}
		if len(camera.Segments) > 0 {
			first := camera.Segments[0].Timestamp
			if s.Origin.IsZero() || first.Before(s.Origin) {
				s.Origin = first
			}
		}
	}

	s.Event = clips.LocateEvent(eventInfo, s.Origin, s.GlobalDuration)
	return s
}

// Primary returns the reference camera whose native playback position
// anchors global position reporting
func (s *Session) Primary() *clips.CameraTimeline {
	if len(s.Cameras) == 0 {
		return nil
	}
	return s.Cameras[0]
}

// JumpTarget returns the seek position for jump-to-event: a few seconds
// before the event, never negative and never past the recording's end.
// The second return is false when there is no event to jump to.
func (s *Session) JumpTarget() (time.Duration, bool) {
	const lead = 10 * time.Second

	switch s.Event.State {
	case clips.MarkUnknown:
		return 0, false
	case clips.MarkPastEnd:
		target := s.GlobalDuration - lead
		if target < 0 {
			target = 0
		}
		return target, true
	}

	target := s.Event.Offset - lead
	if target < 0 {
		target = 0
	}
	return target, true
}
