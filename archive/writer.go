// Package archive persists a session's final state to disk: a structured
// document (JSON or YAML) for post-race review, and an optional raw
// packet-capture log for later replay (SPEC_FULL.md §6 "Persisted
// artifacts").
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/psybedev/f1telemetry/analytics"
	"github.com/psybedev/f1telemetry/config"
	"github.com/psybedev/f1telemetry/racemodel"
)

// Document is the full shape written out on session end: the race model's
// final snapshot plus the analytics records the model itself does not
// retain (compound aggregates, speed-trap bests).
type Document struct {
	GeneratedAt     time.Time                          `json:"generatedAt" yaml:"generatedAt"`
	Session         racemodel.Session                  `json:"session" yaml:"session"`
	Drivers         [22]racemodel.DriverRecord          `json:"drivers" yaml:"drivers"`
	NumDrivers      uint8                               `json:"numDrivers" yaml:"numDrivers"`
	Collisions      []racemodel.Collision               `json:"collisions" yaml:"collisions"`
	CustomMarkers   []racemodel.CustomMarker            `json:"customMarkers" yaml:"customMarkers"`
	Weather         []racemodel.WeatherSample           `json:"weather" yaml:"weather"`
	Records         racemodel.LapSectorRecords          `json:"records" yaml:"records"`
	CompoundRecords map[string]analytics.CompoundStats  `json:"compoundRecords" yaml:"compoundRecords"`
	SpeedTraps      map[uint8]float32                   `json:"speedTraps" yaml:"speedTraps"`
}

// NewDocument assembles an archive Document from a race-model snapshot and
// the analytics trackers that live outside the model (record/speed-trap
// state is owned by the analytics layer, not racemodel, per §5.4).
func NewDocument(snap *racemodel.Snapshot, records *analytics.RecordTracker, speedTraps *analytics.SpeedTrapTracker) Document {
	doc := Document{
		GeneratedAt:   time.Now(),
		Session:       snap.Session,
		Drivers:       snap.Drivers,
		NumDrivers:    snap.NumDrivers,
		Collisions:    snap.Collisions,
		CustomMarkers: snap.CustomMarkers,
		Weather:       snap.Weather,
		Records:       snap.Records,
	}
	if records != nil {
		doc.CompoundRecords = records.AllStats()
	}
	if speedTraps != nil {
		doc.SpeedTraps = speedTraps.All()
	}
	return doc
}

// Writer serializes Documents to a directory, in the configured format.
type Writer struct {
	dir    string
	format config.ArchiveFormat
}

// NewWriter returns a Writer rooted at dir, creating it if it does not
// exist.
func NewWriter(dir string, format config.ArchiveFormat) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: creating directory %q: %w", dir, err)
	}
	return &Writer{dir: dir, format: format}, nil
}

// Write serializes doc and saves it under a filename built from the track
// id, session type, and generation timestamp (SPEC_FULL.md §6). It returns
// the full path written.
func (w *Writer) Write(doc Document) (string, error) {
	var (
		data []byte
		err  error
		ext  string
	)
	switch w.format {
	case config.ArchiveFormatYAML:
		data, err = yaml.Marshal(doc)
		ext = "yaml"
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		ext = "json"
	}
	if err != nil {
		return "", fmt.Errorf("archive: marshaling document: %w", err)
	}

	name := filename(doc, ext)
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("archive: writing %q: %w", path, err)
	}
	return path, nil
}

// filename builds "<track>_<session-type>_<unix-ts>.<ext>", sanitizing the
// session-type name (which may contain hyphens from the open-enum decode)
// into a filesystem-safe token.
func filename(doc Document, ext string) string {
	sessionType := doc.Session.SessionType.Name
	if sessionType == "" {
		sessionType = "unknown"
	}
	sessionType = strings.ReplaceAll(sessionType, " ", "-")

	return fmt.Sprintf("track%d_%s_%d.%s",
		doc.Session.TrackID, sessionType, doc.GeneratedAt.Unix(), ext)
}
