package analytics

import "github.com/samber/lo"

// CompoundStats is the per-compound aggregate the RecordTracker maintains
// across stint closures (spec §4.4).
type CompoundStats struct {
	LongestStintLaps   int
	LongestStintDriver uint8
	LowestWearPerLap   float64
	LowestWearDriver   uint8
	HighestTotalWear   float64
	HighestWearDriver  uint8
	seenAny            bool
}

// RecordTracker aggregates per-compound stint records. It is updated once
// per stint close (or a session-end refresh), not per lap.
type RecordTracker struct {
	stats map[string]*CompoundStats
}

// NewRecordTracker returns a tracker pre-seeded with the five known
// compounds so callers can always look one up without a nil check.
func NewRecordTracker() *RecordTracker {
	t := &RecordTracker{stats: make(map[string]*CompoundStats, 5)}
	for _, name := range []string{"soft", "medium", "hard", "inter", "wet"} {
		t.stats[name] = &CompoundStats{}
	}
	return t
}

// RecordStintClose updates the compound's aggregate with one closed stint.
func (t *RecordTracker) RecordStintClose(compound string, driver uint8, stintLaps int, totalWear float64) {
	s, ok := t.stats[compound]
	if !ok {
		s = &CompoundStats{}
		t.stats[compound] = s
	}
	if stintLaps <= 0 {
		return
	}
	wearPerLap := totalWear / float64(stintLaps)

	if !s.seenAny || stintLaps > s.LongestStintLaps {
		s.LongestStintLaps = stintLaps
		s.LongestStintDriver = driver
	}
	if !s.seenAny || wearPerLap < s.LowestWearPerLap {
		s.LowestWearPerLap = wearPerLap
		s.LowestWearDriver = driver
	}
	if !s.seenAny || totalWear > s.HighestTotalWear {
		s.HighestTotalWear = totalWear
		s.HighestWearDriver = driver
	}
	s.seenAny = true
}

// Stats returns the current aggregate for a compound (zero value if never
// observed).
func (t *RecordTracker) Stats(compound string) CompoundStats {
	if s, ok := t.stats[compound]; ok {
		return *s
	}
	return CompoundStats{}
}

// AllStats returns a snapshot of every compound's aggregate, keyed by
// compound name. Used by the session archive writer, which persists the
// full table rather than querying one compound at a time.
func (t *RecordTracker) AllStats() map[string]CompoundStats {
	return lo.MapValues(t.stats, func(v *CompoundStats, _ string) CompoundStats {
		return *v
	})
}

// SpeedTrapTracker records the fastest observed speed-trap reading per
// driver across the session (spec §4.4).
type SpeedTrapTracker struct {
	best map[uint8]float32
}

// NewSpeedTrapTracker returns an empty tracker.
func NewSpeedTrapTracker() *SpeedTrapTracker {
	return &SpeedTrapTracker{best: make(map[uint8]float32)}
}

// Record updates the driver's maximum speed-trap reading if speed exceeds
// the stored value.
func (t *SpeedTrapTracker) Record(driver uint8, speed float32) {
	if speed > t.best[driver] {
		t.best[driver] = speed
	}
}

// Best returns a driver's fastest recorded speed-trap reading.
func (t *SpeedTrapTracker) Best(driver uint8) float32 {
	return t.best[driver]
}

// All returns a snapshot of every driver's best speed-trap reading, keyed
// by car index. Used by the session archive writer.
func (t *SpeedTrapTracker) All() map[uint8]float32 {
	out := make(map[uint8]float32, len(t.best))
	for k, v := range t.best {
		out[k] = v
	}
	return out
}
