package clips

import (
	"time"
)

// Camera identifies one of the six fixed dashcam angles
type Camera string

const (
	CameraFront         Camera = "front"
	CameraBack          Camera = "back"
	CameraLeftPillar    Camera = "left_pillar"
	CameraLeftRepeater  Camera = "left_repeater"
	CameraRightPillar   Camera = "right_pillar"
	CameraRightRepeater Camera = "right_repeater"
)

// cameraCheckOrder is the fixed order used to classify filenames. The first
// camera whose token appears in the lowercased base name wins, so the order
// is part of the classification contract and must not be reordered.
var cameraCheckOrder = []Camera{
	CameraFront,
	CameraBack,
	CameraLeftPillar,
	CameraLeftRepeater,
	CameraRightPillar,
	CameraRightRepeater,
}

// cameraPresentationOrder is the grid layout order:
// left pillar, front, right pillar on top, repeaters and back below.
var cameraPresentationOrder = []Camera{
	CameraLeftPillar,
	CameraFront,
	CameraRightPillar,
	CameraLeftRepeater,
	CameraBack,
	CameraRightRepeater,
}

// DisplayName returns the human readable name for a camera
func (c Camera) DisplayName() string {
	switch c {
	case CameraFront:
		return "Front"
	case CameraBack:
		return "Back"
	case CameraLeftPillar:
		return "Left Pillar"
	case CameraRightPillar:
		return "Right Pillar"
	case CameraLeftRepeater:
		return "Left Repeater"
	case CameraRightRepeater:
		return "Right Repeater"
	}
	return string(c)
}

// Segment is one media file with a start timestamp and duration, belonging
// to exactly one camera. Immutable once constructed.
type Segment struct {
	Timestamp time.Time     `json:"timestamp"` // Start time extracted from the filename
	Source    string        `json:"source"`    // Path to the playable media file
	Duration  time.Duration `json:"duration"`  // Probed media duration
}

// EventInfo is the optional event.json sidecar. Every field is optional;
// an empty string means the field was absent.
type EventInfo struct {
	Timestamp string `json:"timestamp"`
	City      string `json:"city"`
	EstLat    string `json:"est_lat"`
	EstLon    string `json:"est_lon"`
	Reason    string `json:"reason"`
	Camera    string `json:"camera"`
}
