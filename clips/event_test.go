package clips

import (
	"testing"
	"time"
)

func TestParseEventTimestampFormats(t *testing.T) {
	cases := []struct {
		text string
		ok   bool
	}{
		{"2025-10-01T14:10:01.500Z", true},
		{"2025-10-01T14:10:01Z", true},
		{"2025-10-01T14:10:01+02:00", true},
		{"2025-10-01T14:10:01", true}, // naive local
		{"October 1st", false},
		{"", false},
	}

	for _, c := range cases {
		_, ok := ParseEventTimestamp(c.text)
		if ok != c.ok {
			t.Errorf("ParseEventTimestamp(%q) ok = %v, want %v", c.text, ok, c.ok)
		}
	}
}

func TestLocateEventWithin(t *testing.T) {
	origin := time.Date(2025, 10, 1, 14, 9, 51, 0, time.Local)
	info := &EventInfo{Timestamp: "2025-10-01T14:10:01"}

	mark := LocateEvent(info, origin, 120*time.Second)
	if mark.State != MarkWithin {
		t.Fatalf("Expected state within, got %s", mark.State)
	}
	if mark.Offset != 10*time.Second {
		t.Errorf("Expected offset 10s, got %v", mark.Offset)
	}
}

func TestLocateEventUnknown(t *testing.T) {
	origin := time.Date(2025, 10, 1, 14, 9, 51, 0, time.Local)

	// No metadata at all
	if mark := LocateEvent(nil, origin, time.Minute); mark.State != MarkUnknown {
		t.Errorf("Expected unknown for nil info, got %s", mark.State)
	}

	// Metadata without a timestamp
	if mark := LocateEvent(&EventInfo{City: "Palo Alto"}, origin, time.Minute); mark.State != MarkUnknown {
		t.Errorf("Expected unknown for missing timestamp, got %s", mark.State)
	}

	// Unparseable timestamp
	if mark := LocateEvent(&EventInfo{Timestamp: "yesterday"}, origin, time.Minute); mark.State != MarkUnknown {
		t.Errorf("Expected unknown for bad timestamp, got %s", mark.State)
	}
}

func TestLocateEventBeforeStart(t *testing.T) {
	origin := time.Date(2025, 10, 1, 14, 9, 51, 0, time.Local)
	info := &EventInfo{Timestamp: "2025-10-01T14:09:00"}

	mark := LocateEvent(info, origin, 120*time.Second)
	if mark.State != MarkBeforeStart {
		t.Fatalf("Expected state before_start, got %s", mark.State)
	}
	if mark.Offset >= 0 {
		t.Errorf("Expected negative offset, got %v", mark.Offset)
	}
	if ratio := mark.MarkerRatio(120 * time.Second); ratio != -1 {
		t.Errorf("Expected no marker before start, got ratio %f", ratio)
	}
}

func TestLocateEventPastEnd(t *testing.T) {
	origin := time.Date(2025, 10, 1, 14, 9, 51, 0, time.Local)
	info := &EventInfo{Timestamp: "2025-10-01T14:13:11"} // 200s after origin

	mark := LocateEvent(info, origin, 120*time.Second)
	if mark.State != MarkPastEnd {
		t.Fatalf("Expected state past_end, got %s", mark.State)
	}
	if ratio := mark.MarkerRatio(120 * time.Second); ratio != 1 {
		t.Errorf("Expected marker clamped to 1, got %f", ratio)
	}
}

func TestMarkerRatioWithin(t *testing.T) {
	mark := EventMark{Offset: 30 * time.Second, State: MarkWithin}
	if ratio := mark.MarkerRatio(120 * time.Second); ratio != 0.25 {
		t.Errorf("Expected ratio 0.25, got %f", ratio)
	}
}

func TestFormatEventSummary(t *testing.T) {
	info := &EventInfo{
		Timestamp: "2025-10-01T14:10:01",
		City:      "Palo Alto",
		Reason:    "sentry_aware_object_detection",
	}
	got := FormatEventSummary(info)
	want := "Palo Alto  2025-10-01T14:10:01  sentry_aware_object_detection"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if FormatEventSummary(nil) != "" {
		t.Error("Expected empty summary for nil info")
	}
	if FormatEventSummary(&EventInfo{Reason: "user_interaction"}) != "user_interaction" {
		t.Error("Expected reason-only summary")
	}
}
