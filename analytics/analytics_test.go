package analytics

import "testing"

func TestFuelEstimatorRollingRate(t *testing.T) {
	f := NewFuelEstimator(10, 3)
	// fuel-in-tank {50.0, 48.2, 46.4, 44.6} at lap boundaries 1..4
	f.RecordLap(50.0 - 48.2)
	f.RecordLap(48.2 - 46.4)
	f.RecordLap(46.4 - 44.6)

	rate := f.RollingRate()
	if rate < 1.75 || rate > 1.85 {
		t.Errorf("RollingRate() = %v, want ~1.8", rate)
	}

	remaining := f.AverageRemainingLaps(20.0)
	if remaining < 11.0 || remaining > 11.2 {
		t.Errorf("AverageRemainingLaps(20.0) = %v, want ~11.11", remaining)
	}
}

func TestFuelEstimatorNextLapTargetRate(t *testing.T) {
	f := NewFuelEstimator(10, 3)
	rate, ok := f.NextLapTargetRate(20.0, 10)
	if !ok {
		t.Fatal("NextLapTargetRate() ok = false, want true")
	}
	if rate != 2.0 {
		t.Errorf("NextLapTargetRate(20.0, 10) = %v, want 2.0", rate)
	}

	if _, ok := f.NextLapTargetRate(20.0, 0); ok {
		t.Error("NextLapTargetRate with 0 laps remaining should report ok=false")
	}
}

func TestBuildFuelEstimateAverageMode(t *testing.T) {
	fuelByLap := []float32{50.0, 48.2, 46.4, 44.6}
	est := BuildFuelEstimate(fuelByLap, 20.0, 8, "average")
	if est.Mode != "average" {
		t.Errorf("Mode = %q, want average", est.Mode)
	}
	if !est.Valid {
		t.Fatal("Valid = false, want true with 3 lap deltas recorded")
	}
	if est.RemainingLaps < 11.0 || est.RemainingLaps > 11.2 {
		t.Errorf("RemainingLaps = %v, want ~11.11", est.RemainingLaps)
	}
}

func TestBuildFuelEstimateTargetMode(t *testing.T) {
	est := BuildFuelEstimate(nil, 20.0, 10, "target")
	if est.Mode != "target" {
		t.Errorf("Mode = %q, want target", est.Mode)
	}
	if !est.Valid || est.TargetRateKg != 2.0 {
		t.Errorf("got %+v, want Valid=true TargetRateKg=2.0", est)
	}
}

func TestBuildFuelEstimateNoHistoryIsInvalid(t *testing.T) {
	est := BuildFuelEstimate(nil, 20.0, 10, "average")
	if est.Valid {
		t.Errorf("Valid = true with no lap history, want false")
	}
}

func TestTyreWearPredictorClampsAt100(t *testing.T) {
	p := NewTyreWearPredictor()
	// wear samples {5, 15, 30} at laps-in-stint {1, 2, 3}
	p.AddSample(CornerFL, 1, 5)
	p.AddSample(CornerFL, 2, 15)
	p.AddSample(CornerFL, 3, 30)

	fit := p.PredictCorner(CornerFL, 10)
	if fit.Insufficient {
		t.Fatal("PredictCorner() reported insufficient data with 3 samples")
	}
	if fit.WearPct > 100 {
		t.Errorf("WearPct = %v, want <= 100", fit.WearPct)
	}
}

func TestTyreWearPredictorFallsBackToLinear(t *testing.T) {
	p := NewTyreWearPredictor()
	p.AddSample(CornerRR, 1, 10)
	p.AddSample(CornerRR, 2, 20)

	fit := p.PredictCorner(CornerRR, 5)
	if fit.Insufficient {
		t.Fatal("PredictCorner() reported insufficient data with 2 samples")
	}
	if fit.Method != "linear" {
		t.Errorf("Method = %q, want linear (only 2 samples)", fit.Method)
	}
}

func TestTyreWearPredictorInsufficientData(t *testing.T) {
	p := NewTyreWearPredictor()
	p.AddSample(CornerRL, 1, 10)

	fit := p.PredictCorner(CornerRL, 5)
	if !fit.Insufficient {
		t.Error("PredictCorner() with 1 sample should report insufficient data")
	}
}

func TestRecordTrackerTracksLongestLowestHighest(t *testing.T) {
	tr := NewRecordTracker()
	tr.RecordStintClose("medium", 1, 10, 20.0) // 2.0%/lap
	tr.RecordStintClose("medium", 2, 15, 18.0) // 1.2%/lap, longer stint

	stats := tr.Stats("medium")
	if stats.LongestStintLaps != 15 || stats.LongestStintDriver != 2 {
		t.Errorf("longest stint = %d by driver %d, want 15 by driver 2", stats.LongestStintLaps, stats.LongestStintDriver)
	}
	if stats.LowestWearDriver != 2 {
		t.Errorf("lowest wear/lap driver = %d, want 2", stats.LowestWearDriver)
	}
	if stats.HighestWearDriver != 1 {
		t.Errorf("highest total wear driver = %d, want 1", stats.HighestWearDriver)
	}
}

func TestComparePaceFindsAheadAndBehind(t *testing.T) {
	grid := []DriverLapSectors{
		{CarIndex: 5, Position: 1, Sector1Ms: 28000},
		{CarIndex: 0, Position: 2, Sector1Ms: 28500},
		{CarIndex: 9, Position: 3, Sector1Ms: 29000},
	}
	cmp := ComparePace(grid, 0, 2)
	if cmp.Ahead == nil || cmp.Ahead.CarIndex != 5 {
		t.Fatalf("Ahead = %+v, want car 5", cmp.Ahead)
	}
	if cmp.Behind == nil || cmp.Behind.CarIndex != 9 {
		t.Fatalf("Behind = %+v, want car 9", cmp.Behind)
	}
	if cmp.Ahead.Sector1DeltaMs != -500 {
		t.Errorf("Ahead.Sector1DeltaMs = %d, want -500", cmp.Ahead.Sector1DeltaMs)
	}
}

func TestPitWindowEstimatorFindsThresholdCrossing(t *testing.T) {
	p := NewTyreWearPredictor()
	for corner := CornerFL; corner <= CornerRR; corner++ {
		p.AddSample(corner, 1, 5)
		p.AddSample(corner, 2, 15)
		p.AddSample(corner, 3, 28)
	}
	est := NewPitWindowEstimator()
	result := est.Estimate(p, 3)
	if result.RecommendedLap == 0 {
		t.Fatal("Estimate() found no threshold crossing, want one within the scan horizon")
	}
}

func TestSpeedTrapTrackerKeepsMax(t *testing.T) {
	tr := NewSpeedTrapTracker()
	tr.Record(4, 310.2)
	tr.Record(4, 305.0)
	tr.Record(4, 318.9)

	if got := tr.Best(4); got != 318.9 {
		t.Errorf("Best(4) = %v, want 318.9", got)
	}
}
