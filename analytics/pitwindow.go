package analytics

// PitWindowEstimate is the rule-based, purely numeric half of spec §9 Open
// Question 3: derived from tyre-wear extrapolation alone, with no LLM
// involved. The optional LLM-narrated counterpart lives in package advisor
// and consumes this as an input rather than replacing it.
type PitWindowEstimate struct {
	RecommendedLap int
	WearAtLap      float64
	Reason         string
}

// PitWindowEstimator finds the lap at which a corner's predicted wear
// first crosses a wear threshold, scanning forward from the current lap.
type PitWindowEstimator struct {
	WearThresholdPct float64
	MaxLapsToScan    int
}

// NewPitWindowEstimator returns an estimator using the documented default
// threshold (85% wear) and scan horizon (40 laps).
func NewPitWindowEstimator() *PitWindowEstimator {
	return &PitWindowEstimator{WearThresholdPct: 85, MaxLapsToScan: 40}
}

// Estimate scans forward from currentLapInStint using predictor's worst
// (max) corner fit, returning the first lap whose predicted wear meets or
// exceeds the threshold.
func (e *PitWindowEstimator) Estimate(predictor *TyreWearPredictor, currentLapInStint int) PitWindowEstimate {
	for lap := currentLapInStint + 1; lap <= currentLapInStint+e.MaxLapsToScan; lap++ {
		_, worst := predictor.PredictAll(float64(lap))
		if worst.Insufficient {
			continue
		}
		if worst.WearPct >= e.WearThresholdPct {
			return PitWindowEstimate{
				RecommendedLap: lap,
				WearAtLap:      worst.WearPct,
				Reason:         "worst-corner wear crosses threshold",
			}
		}
	}
	return PitWindowEstimate{Reason: "no threshold crossing within scan horizon"}
}
