package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/psybedev/f1telemetry/analytics"
)

func TestNewWithEmptyAPIKeyIsDisabled(t *testing.T) {
	a, err := New(context.Background(), zerolog.Nop(), "", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.Enabled() {
		t.Error("Enabled() = true, want false with no API key")
	}
}

func TestAdviseOnDisabledAdvisorNeverCalls(t *testing.T) {
	a, _ := New(context.Background(), zerolog.Nop(), "", "")

	_, ok := a.Advise(context.Background(), LapTrend{DriverIndex: 1}, analytics.PitWindowEstimate{})
	if ok {
		t.Error("Advise() ok = true on a disabled advisor, want false")
	}
}

func TestBuildPromptMentionsRecommendedLap(t *testing.T) {
	trend := LapTrend{DriverIndex: 3, CurrentCompound: "medium", LapsCompleted: 12, LastLapDeltaMs: 250}
	estimate := analytics.PitWindowEstimate{RecommendedLap: 18, WearAtLap: 86}

	prompt := buildPrompt(trend, estimate)
	if !strings.Contains(prompt, "18") {
		t.Errorf("prompt %q does not mention the recommended lap", prompt)
	}
	if !strings.Contains(prompt, "medium") {
		t.Errorf("prompt %q does not mention the compound", prompt)
	}
}

func TestBuildPromptHandlesNoWindowFound(t *testing.T) {
	trend := LapTrend{DriverIndex: 3, CurrentCompound: "hard", LapsCompleted: 4}
	estimate := analytics.PitWindowEstimate{Reason: "no threshold crossing within scan horizon"}

	prompt := buildPrompt(trend, estimate)
	if strings.Contains(prompt, "pitting on lap 0") {
		t.Errorf("prompt %q should not reference a recommended lap of 0", prompt)
	}
}
