package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig() produced an invalid config: %v", err)
	}
}

func TestParseFlagsOverridesDefaults(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"--telemetry-port", "30000",
		"--server-port", "8080",
		"--packet-capture-mode", "enabled-with-autosave",
		"--refresh-interval", "100",
	})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if cfg.TelemetryPort != 30000 {
		t.Errorf("TelemetryPort = %d, want 30000", cfg.TelemetryPort)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.PacketCaptureMode != CaptureEnabledAutosave {
		t.Errorf("PacketCaptureMode = %v, want %v", cfg.PacketCaptureMode, CaptureEnabledAutosave)
	}
	if cfg.RefreshInterval != 100*time.Millisecond {
		t.Errorf("RefreshInterval = %v, want 100ms", cfg.RefreshInterval)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TelemetryPort = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for port 0")
	}
}

func TestValidateRejectsUnknownCaptureMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PacketCaptureMode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for unknown capture mode")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForwardEndpoints = []string{"127.0.0.1:20778"}

	clone := cfg.Clone()
	clone.ForwardEndpoints[0] = "mutated"
	clone.TelemetryPort = 1

	if cfg.ForwardEndpoints[0] != "127.0.0.1:20778" {
		t.Error("Clone() shares the ForwardEndpoints backing array with the original")
	}
	if cfg.TelemetryPort == clone.TelemetryPort {
		t.Error("Clone() did not produce an independent copy")
	}
}
