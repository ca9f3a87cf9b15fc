// Package analytics derives higher-order race insight from racemodel
// snapshots: fuel-rate regression, tyre-wear prediction, records, pace
// comparison, and speed traps (SPEC_FULL.md §5.4).
package analytics

// FuelEstimator tracks rolling fuel-consumption samples for one driver and
// answers both fuel-target-rate modes named in spec §9 Open Question 2.
type FuelEstimator struct {
	lapFuelDeltas []float64 // consumption per completed lap, most recent last
	maxSamples    int
	rollingWindow int
}

// NewFuelEstimator creates an estimator keeping at most maxSamples (≤10)
// lap deltas and averaging the last rollingWindow (≤3) for the rolling
// rate, per spec §4.4.
func NewFuelEstimator(maxSamples, rollingWindow int) *FuelEstimator {
	if maxSamples <= 0 {
		maxSamples = 10
	}
	if rollingWindow <= 0 {
		rollingWindow = 3
	}
	return &FuelEstimator{maxSamples: maxSamples, rollingWindow: rollingWindow}
}

// RecordLap records the fuel consumed on a just-completed lap (previous
// tank reading minus current tank reading; callers must pass a
// non-negative delta, i.e. account for any fuel save/boost separately).
func (f *FuelEstimator) RecordLap(consumedKg float64) {
	f.lapFuelDeltas = append(f.lapFuelDeltas, consumedKg)
	if len(f.lapFuelDeltas) > f.maxSamples {
		f.lapFuelDeltas = f.lapFuelDeltas[len(f.lapFuelDeltas)-f.maxSamples:]
	}
}

// RollingRate is the mean consumption over the last rollingWindow laps.
func (f *FuelEstimator) RollingRate() float64 {
	n := f.rollingWindow
	if n > len(f.lapFuelDeltas) {
		n = len(f.lapFuelDeltas)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.lapFuelDeltas[len(f.lapFuelDeltas)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// LinearRegressionRate fits lap index -> cumulative fuel consumed by
// ordinary least squares over all recorded samples, returning the slope
// (consumption per lap). This is the PNG-computed alternative to the
// game-reported rolling rate (spec §4.4).
func (f *FuelEstimator) LinearRegressionRate() (float64, bool) {
	n := len(f.lapFuelDeltas)
	if n < 2 {
		return 0, false
	}
	xs := make([]float64, n)
	cumulative := 0.0
	ys := make([]float64, n)
	for i, delta := range f.lapFuelDeltas {
		xs[i] = float64(i + 1)
		cumulative += delta
		ys[i] = cumulative
	}
	slope, _, ok := linearFit(xs, ys)
	return slope, ok
}

// AverageRemainingLaps answers "fuel remaining laps" as tank / rolling
// rate (spec Open Question 2, mode 1).
func (f *FuelEstimator) AverageRemainingLaps(tankKg float64) float64 {
	rate := f.RollingRate()
	if rate <= 0 {
		return 0
	}
	laps := tankKg / rate
	if laps < 0 {
		return 0
	}
	return laps
}

// NextLapTargetRate answers the other mode: the consumption rate the
// driver must hold on the very next lap to finish the remaining laps on
// the fuel in the tank (spec Open Question 2, mode 2).
func (f *FuelEstimator) NextLapTargetRate(tankKg float64, lapsRemaining int) (float64, bool) {
	if lapsRemaining <= 0 {
		return 0, false
	}
	return tankKg / float64(lapsRemaining), true
}

// FuelEstimate is the fuel-remaining-laps value surfaced on driver-info,
// selected by the ?fuelMode=average|target query parameter (spec §5.4,
// §9 Open Question 2). Exactly one of RemainingLaps/TargetRateKg is
// meaningful, per Mode.
type FuelEstimate struct {
	Mode          string // "average" or "target"
	RemainingLaps float64 // mode=average: tank / rolling consumption rate
	TargetRateKg  float64 // mode=target: rate required to finish on the fuel in the tank
	Valid         bool    // false until enough lap history exists to estimate
}

// BuildFuelEstimate derives the requested-mode estimate from a driver's
// lap-crossing fuel-in-tank readings (oldest first). mode selects
// NextLapTargetRate ("target") over the default AverageRemainingLaps
// (anything else, including "").
func BuildFuelEstimate(fuelInTankByLap []float32, currentTankKg float64, lapsRemaining int, mode string) FuelEstimate {
	est := NewFuelEstimator(10, 3)
	for i := 1; i < len(fuelInTankByLap); i++ {
		delta := float64(fuelInTankByLap[i-1] - fuelInTankByLap[i])
		if delta < 0 {
			delta = 0 // a mid-session refuel/formation lap is never negative consumption
		}
		est.RecordLap(delta)
	}

	if mode == "target" {
		rate, ok := est.NextLapTargetRate(currentTankKg, lapsRemaining)
		return FuelEstimate{Mode: "target", TargetRateKg: rate, Valid: ok}
	}
	laps := est.AverageRemainingLaps(currentTankKg)
	return FuelEstimate{Mode: "average", RemainingLaps: laps, Valid: laps > 0}
}
