package analytics

// PaceSnapshot is one comparison car's last-lap sector deltas and ERS
// state, as exposed to the player's pace comparator (spec §4.4, GLOSSARY).
type PaceSnapshot struct {
	CarIndex        uint8
	Position        uint8
	Sector1DeltaMs  int32
	Sector2DeltaMs  int32
	Sector3DeltaMs  int32
	ERSStoreEnergy  float32
}

// DriverLapSectors is the minimal per-driver input the comparator needs.
type DriverLapSectors struct {
	CarIndex       uint8
	Position       uint8
	Sector1Ms      uint32
	Sector2Ms      uint32
	Sector3Ms      uint32
	ERSStoreEnergy float32
}

// PaceComparison is the pair (car ahead, car behind) relative to the
// player, each carrying sector-time deltas against the player's own laps.
type PaceComparison struct {
	Ahead  *PaceSnapshot
	Behind *PaceSnapshot
}

// ComparePace builds the ahead/behind pair for playerIdx from the cars
// immediately ahead of and behind it in byPosition. numAdjacent
// (--num-adjacent-cars) is accepted but not used: the comparison always
// covers exactly one car in each direction. byPosition must be sorted by
// ascending Position.
func ComparePace(byPosition []DriverLapSectors, playerIdx uint8, numAdjacent int) PaceComparison {
	playerPos := -1
	for i, d := range byPosition {
		if d.CarIndex == playerIdx {
			playerPos = i
			break
		}
	}
	if playerPos < 0 {
		return PaceComparison{}
	}
	player := byPosition[playerPos]

	var cmp PaceComparison
	if playerPos > 0 {
		ahead := byPosition[playerPos-1]
		s := paceSnapshotFrom(ahead, player)
		cmp.Ahead = &s
	}
	if playerPos < len(byPosition)-1 {
		behind := byPosition[playerPos+1]
		s := paceSnapshotFrom(behind, player)
		cmp.Behind = &s
	}
	_ = numAdjacent // reserved for widening the comparison window beyond +-1
	return cmp
}

func paceSnapshotFrom(other, player DriverLapSectors) PaceSnapshot {
	return PaceSnapshot{
		CarIndex:       other.CarIndex,
		Position:       other.Position,
		Sector1DeltaMs: int32(other.Sector1Ms) - int32(player.Sector1Ms),
		Sector2DeltaMs: int32(other.Sector2Ms) - int32(player.Sector2Ms),
		Sector3DeltaMs: int32(other.Sector3Ms) - int32(player.Sector3Ms),
		ERSStoreEnergy: other.ERSStoreEnergy,
	}
}
