package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/psybedev/f1telemetry/config"
	"github.com/psybedev/f1telemetry/racemodel"
)

func TestNewLoggerDefaultsToInfoLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	logger, closer := newLogger(cfg)
	defer closer()

	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("GetLevel() = %v, want InfoLevel", logger.GetLevel())
	}
}

func TestNewLoggerDebugFlagSelectsDebugLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Debug = true
	logger, closer := newLogger(cfg)
	defer closer()

	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("GetLevel() = %v, want DebugLevel", logger.GetLevel())
	}
}

func TestNewLoggerWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f1telemetryd.log")

	cfg := config.DefaultConfig()
	cfg.LogFile = path
	logger, closer := newLogger(cfg)
	logger.Info().Msg("hello")
	closer()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty, want at least one line written")
	}
}

func TestAutosaveEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.Config
		want bool
	}{
		{"both disabled", &config.Config{}, false},
		{"autosave flag", &config.Config{PostRaceDataAutosave: true}, true},
		{"capture autosave mode", &config.Config{PacketCaptureMode: config.CaptureEnabledAutosave}, true},
		{"capture enabled without autosave", &config.Config{PacketCaptureMode: config.CaptureEnabled}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := autosaveEnabled(tc.cfg); got != tc.want {
				t.Errorf("autosaveEnabled() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWorstStintWearPicksMaxAcrossCornersAndSamples(t *testing.T) {
	st := racemodel.Stint{
		WearSamples: []racemodel.WearSample{
			{LapInStint: 1, FL: 10, FR: 12, RL: 9, RR: 11},
			{LapInStint: 2, FL: 20, FR: 15, RL: 30, RR: 18},
		},
	}
	if got := worstStintWear(st); got != 30 {
		t.Errorf("worstStintWear() = %v, want 30", got)
	}
}

func TestWorstStintWearNoSamples(t *testing.T) {
	if got := worstStintWear(racemodel.Stint{}); got != 0 {
		t.Errorf("worstStintWear() = %v, want 0", got)
	}
}

func TestPlayerOverlayPayloadNoPlayerReturnsEmpty(t *testing.T) {
	snap := &racemodel.Snapshot{NumDrivers: 2}
	snap.Drivers[0] = racemodel.DriverRecord{Position: 1}
	snap.Drivers[1] = racemodel.DriverRecord{Position: 2}

	got := playerOverlayPayload(snap, 2)
	if got.Ahead != nil || got.Behind != nil {
		t.Errorf("playerOverlayPayload() = %+v, want a zero PaceComparison with no player present", got)
	}
}

func TestPlayerOverlayPayloadFindsPlayerAndSorts(t *testing.T) {
	snap := &racemodel.Snapshot{NumDrivers: 3}
	snap.Drivers[0] = racemodel.DriverRecord{Position: 3}
	snap.Drivers[1] = racemodel.DriverRecord{Position: 1}
	snap.Drivers[2] = racemodel.DriverRecord{Position: 2, Participant: racemodel.Participant{IsPlayer: true}}

	got := playerOverlayPayload(snap, 1)
	if got.Ahead == nil {
		t.Fatal("Ahead = nil, want the car at position 1")
	}
	if got.Ahead.CarIndex != 1 {
		t.Errorf("Ahead.CarIndex = %d, want 1", got.Ahead.CarIndex)
	}
	if got.Behind == nil {
		t.Fatal("Behind = nil, want the car at position 3")
	}
	if got.Behind.CarIndex != 0 {
		t.Errorf("Behind.CarIndex = %d, want 0", got.Behind.CarIndex)
	}
}
