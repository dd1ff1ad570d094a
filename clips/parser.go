package clips

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"dashview/probe"
)

// ErrNoPlayableMedia indicates the selected folder yielded no usable camera
var ErrNoPlayableMedia = errors.New("no playable media found in folder")

// EventMetadataFile is the sidecar filename describing the triggering event
const EventMetadataFile = "event.json"

// timestampPattern matches the YYYY-MM-DD_HH-MM-SS token embedded in
// dashcam filenames and event folder names.
var timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}`)

const timestampLayout = "2006-01-02_15-04-05"

// classifiedFile is a media file matched to a camera with a valid timestamp
type classifiedFile struct {
	camera    Camera
	timestamp time.Time
	path      string
}

// ParseFolder scans an event folder and builds one timeline per discovered
// camera, plus the optional event metadata. Cameras are returned in the
// fixed presentation order. Files that match no camera token or carry no
// parseable timestamp are skipped; a file whose duration probe fails is
// dropped. The only failure is a folder with no usable camera at all.
func ParseFolder(folderPath string, prober probe.Prober, probeConcurrency int) ([]*CameraTimeline, *EventInfo, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read folder %s: %w", folderPath, err)
	}

	var mediaFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if probe.IsMP4File(entry.Name()) {
			mediaFiles = append(mediaFiles, filepath.Join(folderPath, entry.Name()))
		}
	}

	if len(mediaFiles) == 0 {
		return nil, nil, ErrNoPlayableMedia
	}

	// Read event.json if present. A missing or malformed sidecar never
	// fails the parse, the viewer just has no event to mark.
	eventInfo := readEventInfo(filepath.Join(folderPath, EventMetadataFile))

	// Classify files by camera token and extract timestamps
	var classified []classifiedFile
	for _, path := range mediaFiles {
		base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		camera, ok := classifyCamera(base)
		if !ok {
			continue
		}

		match := timestampPattern.FindString(base)
		if match == "" {
			continue
		}
		timestamp, err := time.ParseInLocation(timestampLayout, match, time.Local)
		if err != nil {
			continue
		}

		classified = append(classified, classifiedFile{camera: camera, timestamp: timestamp, path: path})
	}

	// Probe durations for all classified files. A failed probe drops that
	// file only, never the whole camera.
	paths := make([]string, len(classified))
	for i, cf := range classified {
		paths[i] = cf.path
	}
	durations := probe.DurationsFor(prober, paths, probeConcurrency)

	// Group by camera and sort each group by timestamp
	groups := make(map[Camera][]Segment)
	for _, cf := range classified {
		seconds, ok := durations[cf.path]
		if !ok {
			continue
		}
		groups[cf.camera] = append(groups[cf.camera], Segment{
			Timestamp: cf.timestamp,
			Source:    cf.path,
			Duration:  time.Duration(seconds * float64(time.Second)),
		})
	}
	for camera := range groups {
		segments := groups[camera]
		sort.Slice(segments, func(i, j int) bool {
			return segments[i].Timestamp.Before(segments[j].Timestamp)
		})
		groups[camera] = segments
	}

	// Emit cameras in the fixed presentation order
	var timelines []*CameraTimeline
	for _, camera := range cameraPresentationOrder {
		segments, ok := groups[camera]
		if !ok || len(segments) == 0 {
			continue
		}
		timelines = append(timelines, &CameraTimeline{Camera: camera, Segments: segments})
	}

	if len(timelines) == 0 {
		return nil, nil, ErrNoPlayableMedia
	}

	return timelines, eventInfo, nil
}

// classifyCamera tests a lowercased base name against the six camera tokens
// in the fixed check order. First match wins.
func classifyCamera(base string) (Camera, bool) {
	for _, camera := range cameraCheckOrder {
		if strings.Contains(base, string(camera)) {
			return camera, true
		}
	}
	return "", false
}

// readEventInfo loads the sidecar metadata, returning nil when the file is
// missing or undecodable
func readEventInfo(path string) *EventInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var info EventInfo
	if err := json.Unmarshal(data, &info); err != nil {
		log.Printf("Warning: malformed %s: %v", EventMetadataFile, err)
		return nil
	}
	return &info
}
