package clips

import (
	"strings"
	"time"
)

// EventMarkState classifies where a reported event falls on the global
// timeline
type EventMarkState string

const (
	// MarkUnknown means the event timestamp was absent or unparseable
	MarkUnknown EventMarkState = "unknown"
	// MarkBeforeStart means the event happened before the timeline origin
	MarkBeforeStart EventMarkState = "before_start"
	// MarkWithin means the event falls inside the global timeline
	MarkWithin EventMarkState = "within"
	// MarkPastEnd means the event happened after the recording ended
	MarkPastEnd EventMarkState = "past_end"
)

// EventMark is the resolved position of an event on the global timeline
type EventMark struct {
	Offset time.Duration  `json:"offset"`
	State  EventMarkState `json:"state"`
}

// eventTimestampLayouts are tried in order; the first successful parse
// wins. The final naive layout is interpreted in the local timezone.
var eventTimestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
}

// ParseEventTimestamp resolves the free-form event timestamp string
func ParseEventTimestamp(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	for _, candidate := range eventTimestampLayouts {
		var parsed time.Time
		var err error
		if candidate.local {
			parsed, err = time.ParseInLocation(candidate.layout, text, time.Local)
		} else {
			parsed, err = time.Parse(candidate.layout, text)
		}
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// LocateEvent computes where the event falls relative to the timeline
// origin and classifies it against the global duration. A negative offset
// is reported as-is so callers can refuse to draw a marker before the
// origin; an offset past the end is valid but flagged so the marker and
// jump target clamp to the end.
func LocateEvent(info *EventInfo, origin time.Time, globalDuration time.Duration) EventMark {
	if info == nil || origin.IsZero() {
		return EventMark{State: MarkUnknown}
	}

	eventTime, ok := ParseEventTimestamp(info.Timestamp)
	if !ok {
		return EventMark{State: MarkUnknown}
	}

	offset := eventTime.Sub(origin)
	switch {
	case offset < 0:
		return EventMark{Offset: offset, State: MarkBeforeStart}
	case offset > globalDuration:
		return EventMark{Offset: offset, State: MarkPastEnd}
	}
	return EventMark{Offset: offset, State: MarkWithin}
}

// MarkerRatio returns the event marker position as a fraction of the
// global duration, clamped to [0, 1]. Returns -1 when no marker should be
// drawn.
func (m EventMark) MarkerRatio(globalDuration time.Duration) float64 {
	if globalDuration <= 0 {
		return -1
	}
	switch m.State {
	case MarkWithin:
		return float64(m.Offset) / float64(globalDuration)
	case MarkPastEnd:
		return 1
	}
	return -1
}

// FormatEventSummary joins the present metadata fields into the single
// line the viewer shows next to the controls
func FormatEventSummary(info *EventInfo) string {
	if info == nil {
		return ""
	}

	var parts []string
	if info.City != "" {
		parts = append(parts, info.City)
	}
	if info.Timestamp != "" {
		parts = append(parts, info.Timestamp)
	}
	if info.Reason != "" {
		parts = append(parts, info.Reason)
	}
	return strings.Join(parts, "  ")
}
