// Package config assembles the process configuration from CLI flags and
// environment variables, in the shape of the teacher's strategy.Config: a
// plain struct with a DefaultConfig constructor, field validation, and no
// process-wide mutable singleton.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// CaptureMode controls packet-capture-to-disk behavior.
type CaptureMode string

const (
	CaptureDisabled          CaptureMode = "disabled"
	CaptureEnabled           CaptureMode = "enabled"
	CaptureEnabledAutosave   CaptureMode = "enabled-with-autosave"
)

// ArchiveFormat selects the on-disk shape of the session archive.
type ArchiveFormat string

const (
	ArchiveFormatJSON ArchiveFormat = "json"
	ArchiveFormatYAML ArchiveFormat = "yaml"
)

// Config holds every knob the CLI surface (spec §6) exposes.
type Config struct {
	TelemetryPort          int
	ServerPort             int
	PacketCaptureMode      CaptureMode
	PostRaceDataAutosave   bool
	ReplayServer           bool
	RefreshInterval        time.Duration
	UDPCustomActionCode    int
	NumAdjacentCars        int
	DisableBrowserAutoload bool
	LogFile                string
	Debug                  bool
	ArchiveFormat          ArchiveFormat

	ForwardEndpoints []string

	IngressQueueSize         int
	MaxConsecutiveSlowWrites int
	RequestTimeout           time.Duration
	ShutdownDrainTimeout     time.Duration

	AdvisorAPIKey string
	AdvisorModel  string
}

// DefaultConfig returns the documented defaults for every flag.
func DefaultConfig() *Config {
	return &Config{
		TelemetryPort:            20777,
		ServerPort:               5000,
		PacketCaptureMode:        CaptureDisabled,
		PostRaceDataAutosave:     false,
		ReplayServer:             false,
		RefreshInterval:          200 * time.Millisecond,
		UDPCustomActionCode:      -1,
		NumAdjacentCars:          2,
		DisableBrowserAutoload:   false,
		LogFile:                  "",
		Debug:                    false,
		ArchiveFormat:            ArchiveFormatJSON,
		IngressQueueSize:         2048,
		MaxConsecutiveSlowWrites: 5,
		RequestTimeout:           3 * time.Second,
		ShutdownDrainTimeout:     500 * time.Millisecond,
	}
}

// ParseFlags parses args (typically os.Args[1:]) into a Config, starting
// from DefaultConfig and falling back to environment variables for secrets
// that should not be passed on the command line.
func ParseFlags(args []string) (*Config, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("f1telemetryd", flag.ContinueOnError)

	fs.IntVar(&cfg.TelemetryPort, "telemetry-port", cfg.TelemetryPort, "UDP bind port for inbound game telemetry")
	fs.IntVar(&cfg.ServerPort, "server-port", cfg.ServerPort, "HTTP/WS bind port for frontends")
	captureMode := fs.String("packet-capture-mode", string(cfg.PacketCaptureMode), "disabled|enabled|enabled-with-autosave")
	fs.BoolVar(&cfg.PostRaceDataAutosave, "post-race-data-autosave", cfg.PostRaceDataAutosave, "write the archived model as a structured document on session end")
	fs.BoolVar(&cfg.ReplayServer, "replay-server", cfg.ReplayServer, "serve a TCP replay listener instead of binding UDP")
	refreshMs := fs.Int("refresh-interval", int(cfg.RefreshInterval/time.Millisecond), "broadcaster cadence in milliseconds")
	fs.IntVar(&cfg.UDPCustomActionCode, "udp-custom-action-code", cfg.UDPCustomActionCode, "inbound code that injects a custom marker")
	fs.IntVar(&cfg.NumAdjacentCars, "num-adjacent-cars", cfg.NumAdjacentCars, "default pace-comparator window")
	fs.BoolVar(&cfg.DisableBrowserAutoload, "disable-browser-autoload", cfg.DisableBrowserAutoload, "do not auto-open the dashboard in a browser")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file instead of stderr")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug-level logging")
	archiveFormat := fs.String("archive-format", string(cfg.ArchiveFormat), "json|yaml")
	fs.StringVar(&cfg.AdvisorAPIKey, "advisor-api-key", "", "Gemini API key enabling the race-engineer advisory; falls back to GEMINI_API_KEY/GOOGLE_API_KEY")
	fs.StringVar(&cfg.AdvisorModel, "advisor-model", "gemini-2.0-flash", "Gemini model used for race-engineer advisories")
	forwardEndpoints := fs.String("forward-endpoints", "", "comma-separated host:port list to tee raw inbound UDP packets to")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.PacketCaptureMode = CaptureMode(*captureMode)
	cfg.ArchiveFormat = ArchiveFormat(*archiveFormat)
	cfg.RefreshInterval = time.Duration(*refreshMs) * time.Millisecond
	if *forwardEndpoints != "" {
		cfg.ForwardEndpoints = strings.Split(*forwardEndpoints, ",")
	}

	if cfg.AdvisorAPIKey == "" {
		cfg.AdvisorAPIKey = firstNonEmptyEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstNonEmptyEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that every field holds a sane value, returning the first
// violation found.
func (c *Config) Validate() error {
	if c.TelemetryPort <= 0 || c.TelemetryPort > 65535 {
		return fmt.Errorf("telemetry-port must be between 1 and 65535, got %d", c.TelemetryPort)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server-port must be between 1 and 65535, got %d", c.ServerPort)
	}
	switch c.PacketCaptureMode {
	case CaptureDisabled, CaptureEnabled, CaptureEnabledAutosave:
	default:
		return fmt.Errorf("packet-capture-mode must be one of disabled, enabled, enabled-with-autosave, got %q", c.PacketCaptureMode)
	}
	switch c.ArchiveFormat {
	case ArchiveFormatJSON, ArchiveFormatYAML:
	default:
		return fmt.Errorf("archive-format must be one of json, yaml, got %q", c.ArchiveFormat)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh-interval must be positive")
	}
	if c.NumAdjacentCars < 0 {
		return fmt.Errorf("num-adjacent-cars cannot be negative")
	}
	if c.IngressQueueSize <= 0 {
		return fmt.Errorf("ingress queue size must be positive")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ForwardEndpoints = append([]string(nil), c.ForwardEndpoints...)
	return &clone
}
