// Package advisor is the optional race-engineer advisory enrichment
// (SPEC_FULL.md §5.8): it turns deterministic analytics (pit-window
// estimate, lap trend) into a short natural-language sentence via Gemini,
// rate-limited, cached, and circuit-broken so a flaky or absent API key
// never slows down the core telemetry pipeline.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/psybedev/f1telemetry/analytics"
	"github.com/psybedev/f1telemetry/resilience"
)

// PitWindowAdvisory is the narrated counterpart to
// analytics.PitWindowEstimate (spec §9 Open Question 3's optional half).
type PitWindowAdvisory struct {
	DriverIndex uint8
	Sentence    string
}

// LapTrend is the compact per-driver context the advisor folds into its
// prompt alongside the pit-window estimate.
type LapTrend struct {
	DriverIndex     uint8
	CurrentCompound string
	LastLapDeltaMs  int32
	LapsCompleted   int
}

// Advisor wraps a Gemini client with the shared resilience primitives.
// It is nil-safe: a zero-value *Advisor (or one built with no API key)
// always returns ("", false) from Advise without calling the network.
type Advisor struct {
	Logger zerolog.Logger

	client  *genai.Client
	model   string
	limiter *resilience.RateLimiter
	cache   *resilience.TTLCache
	breaker *resilience.CircuitBreaker
}

// New constructs an Advisor. If apiKey is empty, the returned Advisor is
// still safe to call but never performs a network request (the disabled
// contract spec §5.8 requires: "never blocks lap processing"). logger
// receives one line when the advisor is disabled and one per call
// failure; the zero value is a valid (fully silent) logger.
func New(ctx context.Context, logger zerolog.Logger, apiKey, model string) (*Advisor, error) {
	if apiKey == "" {
		logger.Info().Msg("advisor: no API key configured, running disabled")
		return &Advisor{Logger: logger}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: creating Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Advisor{
		Logger:  logger,
		client:  client,
		model:   model,
		limiter: resilience.NewRateLimiter(10, time.Minute),
		cache:   resilience.NewTTLCache(2*time.Minute, 256),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}, nil
}

// Enabled reports whether the advisor was constructed with a usable API
// key.
func (a *Advisor) Enabled() bool {
	return a != nil && a.client != nil
}

// Advise turns a pit-window estimate and lap trend into a narrated
// sentence. It never returns an error to the caller: any failure (rate
// limited, circuit open, network error, empty response) is swallowed and
// reported as (PitWindowAdvisory{}, false), matching spec §5.8's
// best-effort contract.
func (a *Advisor) Advise(ctx context.Context, trend LapTrend, estimate analytics.PitWindowEstimate) (PitWindowAdvisory, bool) {
	if !a.Enabled() {
		return PitWindowAdvisory{}, false
	}

	cacheKey := fmt.Sprintf("%d:%d", trend.DriverIndex, estimate.RecommendedLap)
	if cached, ok := a.cache.Get(cacheKey); ok {
		if sentence, ok := cached.(string); ok {
			return PitWindowAdvisory{DriverIndex: trend.DriverIndex, Sentence: sentence}, true
		}
	}

	if !a.limiter.Allow() {
		return PitWindowAdvisory{}, false
	}

	var sentence string
	err := a.breaker.Execute(func() error {
		var callErr error
		sentence, callErr = a.call(ctx, trend, estimate)
		return callErr
	})
	if err != nil || sentence == "" {
		a.Logger.Debug().Err(err).Uint8("driver_index", trend.DriverIndex).Msg("advisor: advise failed, suppressing")
		return PitWindowAdvisory{}, false
	}

	a.cache.Set(cacheKey, sentence)
	return PitWindowAdvisory{DriverIndex: trend.DriverIndex, Sentence: sentence}, true
}

func (a *Advisor) call(ctx context.Context, trend LapTrend, estimate analytics.PitWindowEstimate) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	prompt := buildPrompt(trend, estimate)
	result, err := a.client.Models.GenerateContent(ctx, a.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("advisor: Gemini call: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("advisor: no candidates in Gemini response")
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("advisor: empty Gemini response content")
	}

	var sentence strings.Builder
	for _, part := range candidate.Content.Parts {
		sentence.WriteString(part.Text)
	}
	return strings.TrimSpace(sentence.String()), nil
}

func buildPrompt(trend LapTrend, estimate analytics.PitWindowEstimate) string {
	if estimate.RecommendedLap == 0 {
		return fmt.Sprintf(
			"You are a terse F1 race engineer. Driver %d is on %s tyres, %d laps in. "+
				"No pit window has been identified yet. Give one short radio-style sentence.",
			trend.DriverIndex, trend.CurrentCompound, trend.LapsCompleted)
	}
	return fmt.Sprintf(
		"You are a terse F1 race engineer. Driver %d is on %s tyres, %d laps in, "+
			"last lap delta %dms. Tyre wear model recommends pitting on lap %d "+
			"(projected wear %.0f%%). Give one short radio-style sentence recommending the stop.",
		trend.DriverIndex, trend.CurrentCompound, trend.LapsCompleted, trend.LastLapDeltaMs,
		estimate.RecommendedLap, estimate.WearAtLap)
}
