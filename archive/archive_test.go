package archive

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psybedev/f1telemetry/analytics"
	"github.com/psybedev/f1telemetry/config"
	"github.com/psybedev/f1telemetry/packet"
	"github.com/psybedev/f1telemetry/racemodel"
)

func sampleSnapshot() *racemodel.Snapshot {
	snap := &racemodel.Snapshot{
		Session: racemodel.Session{
			UID:         1,
			TrackID:     9,
			SessionType: packet.SessionType{Raw: 10, Name: "race", Known: true},
		},
		NumDrivers: 2,
	}
	snap.Drivers[0].Participant = racemodel.Participant{CarIndex: 0, Name: "VER"}
	snap.Drivers[1].Participant = racemodel.Participant{CarIndex: 1, Name: "HAM"}
	return snap
}

func TestNewDocumentCarriesRecordsAndSpeedTraps(t *testing.T) {
	snap := sampleSnapshot()
	records := analytics.NewRecordTracker()
	records.RecordStintClose("soft", 0, 18, 36.0)
	traps := analytics.NewSpeedTrapTracker()
	traps.Record(0, 327.4)

	doc := NewDocument(snap, records, traps)

	if doc.Session.TrackID != 9 {
		t.Errorf("Session.TrackID = %d, want 9", doc.Session.TrackID)
	}
	if doc.Drivers[0].Participant.Name != "VER" {
		t.Errorf("Drivers[0].Participant.Name = %q, want VER", doc.Drivers[0].Participant.Name)
	}
	if got := doc.CompoundRecords["soft"].LongestStintLaps; got != 18 {
		t.Errorf("CompoundRecords[soft].LongestStintLaps = %d, want 18", got)
	}
	if got := doc.SpeedTraps[0]; got != 327.4 {
		t.Errorf("SpeedTraps[0] = %v, want 327.4", got)
	}
}

func TestWriterWritesJSONAndFilenameEncodesTrackAndSession(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, config.ArchiveFormatJSON)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	doc := NewDocument(sampleSnapshot(), analytics.NewRecordTracker(), analytics.NewSpeedTrapTracker())
	path, err := w.Write(doc)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	base := filepath.Base(path)
	if !strings.Contains(base, "track9") || !strings.Contains(base, "race") || !strings.HasSuffix(base, ".json") {
		t.Errorf("filename %q does not encode track id/session type/json extension", base)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got Document
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.Session.TrackID != 9 {
		t.Errorf("round-tripped TrackID = %d, want 9", got.Session.TrackID)
	}
}

func TestWriterWritesYAML(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, config.ArchiveFormatYAML)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	doc := NewDocument(sampleSnapshot(), nil, nil)
	path, err := w.Write(doc)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasSuffix(path, ".yaml") {
		t.Errorf("path = %q, want .yaml suffix", path)
	}
}

func TestCaptureWriterAppendsFramedDatagrams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin")
	cw, err := NewCaptureWriter(path)
	if err != nil {
		t.Fatalf("NewCaptureWriter() error = %v", err)
	}

	payloadA := []byte{0x01, 0x02, 0x03}
	payloadB := []byte{0xAA, 0xBB}
	if err := cw.Append(1000, payloadA); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := cw.Append(2000, payloadB); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	ts1 := binary.BigEndian.Uint64(raw[0:8])
	len1 := binary.BigEndian.Uint32(raw[8:12])
	got1 := raw[12 : 12+len1]
	if ts1 != 1000 || string(got1) != string(payloadA) {
		t.Errorf("first record = (ts=%d, payload=%v), want (1000, %v)", ts1, got1, payloadA)
	}

	offset := 12 + int(len1)
	ts2 := binary.BigEndian.Uint64(raw[offset : offset+8])
	len2 := binary.BigEndian.Uint32(raw[offset+8 : offset+12])
	got2 := raw[offset+12 : offset+12+int(len2)]
	if ts2 != 2000 || string(got2) != string(payloadB) {
		t.Errorf("second record = (ts=%d, payload=%v), want (2000, %v)", ts2, got2, payloadB)
	}
}
