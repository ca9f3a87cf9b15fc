package racemodel

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/psybedev/f1telemetry/analytics"
)

// DriverDetail is the extended per-driver record exposed to the
// engineer-view/eng-view clients (spec §4.3 driverDetail).
type DriverDetail struct {
	Participant   Participant
	CurrentLap    Lap
	History       []Lap
	Stints        []Stint
	TyreSets      [20]TyreSet
	FittedTyreSet uint8
	Damage        DamageSnapshot
	Warnings      []WarningPenalty
	Collisions    []Collision
	Status        CarStatusSnapshot
	StatusHistory []CarStatusSnapshot
	State         DriverState
	Fuel          analytics.FuelEstimate
}

// ErrNoSuchDriver is returned by DriverDetail for an out-of-range index.
var ErrNoSuchDriver = fmt.Errorf("no driver at that car index")

// DriverDetail returns the extended record for one driver, including the
// fuel estimate selected by fuelMode ("average" or "target"; spec §5.4).
// Safe for concurrent callers: it operates on a single Snapshot obtained
// once.
func (m *Model) DriverDetail(index uint8, fuelMode string) (DriverDetail, error) {
	snap := m.Snapshot()
	if index >= snap.NumDrivers {
		return DriverDetail{}, ErrNoSuchDriver
	}
	d := snap.Drivers[index]

	collisions := lo.Filter(snap.Collisions, func(c Collision, _ int) bool {
		return c.CarIndex1 == index || c.CarIndex2 == index
	})

	fuelByLap := make([]float32, len(d.StatusHistory))
	for i, s := range d.StatusHistory {
		fuelByLap[i] = s.FuelInTank
	}
	lapsRemaining := int(snap.Session.TotalLaps) - int(d.CurrentLap.LapNumber)
	fuel := analytics.BuildFuelEstimate(fuelByLap, float64(d.Status.FuelInTank), lapsRemaining, fuelMode)

	return DriverDetail{
		Participant:   d.Participant,
		CurrentLap:    d.CurrentLap,
		History:       d.History,
		Stints:        d.Stints,
		TyreSets:      d.TyreSets,
		FittedTyreSet: d.FittedTyreSet,
		Damage:        d.Damage,
		Warnings:      d.Warnings,
		Collisions:    collisions,
		Status:        d.Status,
		StatusHistory: d.StatusHistory,
		State:         d.State,
		Fuel:          fuel,
	}, nil
}

// RaceStatsResult aggregates records, custom markers, and a per-driver
// position-by-lap history (spec §4.3 raceStats).
type RaceStatsResult struct {
	Records         LapSectorRecords
	CompoundRecords map[string]CompoundRecord
	CustomMarkers   []CustomMarker
	PositionsByLap  map[uint8]map[uint8]uint8 // lap -> carIndex -> position
}

// RaceStats returns the model's aggregated, cross-driver analytics.
func (m *Model) RaceStats() RaceStatsResult {
	snap := m.Snapshot()

	positions := make(map[uint8]map[uint8]uint8)
	for i := uint8(0); i < snap.NumDrivers; i++ {
		for _, lap := range snap.Drivers[i].History {
			if positions[lap.LapNumber] == nil {
				positions[lap.LapNumber] = make(map[uint8]uint8)
			}
			positions[lap.LapNumber][i] = lap.Position
		}
	}

	return RaceStatsResult{
		Records:         snap.Records,
		CompoundRecords: snap.Compound,
		CustomMarkers:   snap.CustomMarkers,
		PositionsByLap:  positions,
	}
}
