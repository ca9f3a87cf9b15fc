package racemodel

import "github.com/psybedev/f1telemetry/packet"

// applyLapData implements spec §4.3.2-3: lap completion, sector
// transitions, and stint lifecycle, driven off the current-lap-number
// field incrementing for a given car.
func applyLapData(s *staging, p packet.LapDataPacket, counters *Counters) {
	frame := p.Header.FrameIdentifier
	for i := range p.Laps {
		if uint8(i) >= s.NumDrivers {
			break
		}
		l := p.Laps[i]
		d := &s.Drivers[i]

		if d.lastLapDataFrame != 0 && frame <= d.lastLapDataFrame {
			counters.recordStaleDropped()
			continue
		}
		d.lastLapDataFrame = frame

		d.Position = l.CarPosition
		d.GridPosition = l.GridPosition
		d.ResultStatus = l.ResultStatus

		prevLapNum := d.CurrentLap.LapNumber
		d.CurrentLap.LapNumber = l.CurrentLapNum
		d.CurrentLap.Sector1Ms = uint32(l.Sector1TimeMinutes)*60000 + uint32(l.Sector1TimeMs)
		d.CurrentLap.Sector2Ms = uint32(l.Sector2TimeMinutes)*60000 + uint32(l.Sector2TimeMs)
		d.CurrentLap.Valid = l.CurrentLapInvalid == 0

		if l.PitStatus == packet.PitStatusPitting || l.PitStatus == packet.PitStatusInPitArea {
			if !d.State.IsTerminal() {
				d.State = DriverPitting
			}
		} else if d.State == DriverPitting {
			d.State = DriverRacing
		}

		if l.CurrentLapNum > prevLapNum && prevLapNum > 0 {
			completeLap(s, uint8(i), prevLapNum, l)
		}
	}
}

// completeLap moves the just-finished lap into history and rolls the stint
// forward, sampling tyre wear from the most recent damage snapshot.
func completeLap(s *staging, carIdx uint8, completedLapNum uint8, l packet.LapData) {
	d := &s.Drivers[carIdx]

	finished := d.CurrentLap
	finished.LapNumber = completedLapNum
	finished.LapTimeMs = l.LastLapTimeMs
	finished.Sector3Ms = lapSector3(finished)
	finished.TyreSetIndex = d.FittedTyreSet
	finished.Position = d.Position
	d.History = append(d.History, finished)

	d.StatusHistory = append(d.StatusHistory, d.Status)

	rollStint(d, completedLapNum, l.CurrentLapNum)
	updateRecords(s, carIdx, finished)
}

// lapSector3 derives sector 3 as the remainder of the lap time; the game
// does not transmit it directly on LapData (only via session history).
func lapSector3(l Lap) uint32 {
	if l.LapTimeMs == 0 {
		return 0
	}
	rem := int64(l.LapTimeMs) - int64(l.Sector1Ms) - int64(l.Sector2Ms)
	if rem < 0 {
		return 0
	}
	return uint32(rem)
}

// rollStint closes the current stint if the fitted tyre set changed since
// the last lap, opens a new one, and records a wear sample either way.
func rollStint(d *DriverRecord, completedLapNum, newLapNum uint8) {
	sample := WearSample{
		LapInStint: completedLapNum,
		FL:         d.Damage.TyresWear[0],
		FR:         d.Damage.TyresWear[1],
		RL:         d.Damage.TyresWear[2],
		RR:         d.Damage.TyresWear[3],
	}

	if len(d.Stints) == 0 {
		d.Stints = append(d.Stints, Stint{
			StartLap: 1, EndLap: completedLapNum, Open: true,
			TyreSetRef: d.FittedTyreSet,
			WearSamples: []WearSample{sample},
		})
		return
	}

	open := &d.Stints[len(d.Stints)-1]
	if open.TyreSetRef != d.FittedTyreSet {
		open.EndLap = completedLapNum
		open.Open = false
		d.Stints = append(d.Stints, Stint{
			StartLap: newLapNum, EndLap: newLapNum, Open: true,
			TyreSetRef: d.FittedTyreSet,
		})
		return
	}

	open.EndLap = completedLapNum
	open.WearSamples = append(open.WearSamples, sample)
}

func updateRecords(s *staging, carIdx uint8, lap Lap) {
	d := s.Drivers[carIdx]
	if lap.LapTimeMs > 0 && (s.Records.FastestLap.TimeMs == 0 || lap.LapTimeMs < s.Records.FastestLap.TimeMs) {
		s.Records.FastestLap = RecordHolder{CarIndex: carIdx, TeamID: d.Participant.TeamID, LapNumber: lap.LapNumber, TimeMs: lap.LapTimeMs}
	}
	if lap.Sector1Ms > 0 && (s.Records.FastestSector1.TimeMs == 0 || lap.Sector1Ms < s.Records.FastestSector1.TimeMs) {
		s.Records.FastestSector1 = RecordHolder{CarIndex: carIdx, TeamID: d.Participant.TeamID, LapNumber: lap.LapNumber, TimeMs: lap.Sector1Ms}
	}
	if lap.Sector2Ms > 0 && (s.Records.FastestSector2.TimeMs == 0 || lap.Sector2Ms < s.Records.FastestSector2.TimeMs) {
		s.Records.FastestSector2 = RecordHolder{CarIndex: carIdx, TeamID: d.Participant.TeamID, LapNumber: lap.LapNumber, TimeMs: lap.Sector2Ms}
	}
	if lap.Sector3Ms > 0 && (s.Records.FastestSector3.TimeMs == 0 || lap.Sector3Ms < s.Records.FastestSector3.TimeMs) {
		s.Records.FastestSector3 = RecordHolder{CarIndex: carIdx, TeamID: d.Participant.TeamID, LapNumber: lap.LapNumber, TimeMs: lap.Sector3Ms}
	}
}

// SectorStatus is {invalid, yellow, green, purple, n/a} relative to a
// driver's own best and the session best (spec §4.3.3).
type SectorStatus string

const (
	SectorInvalid SectorStatus = "invalid"
	SectorYellow  SectorStatus = "yellow"
	SectorGreen   SectorStatus = "green"
	SectorPurple  SectorStatus = "purple"
	SectorNA      SectorStatus = "n/a"
)

// ClassifySector compares a sector time against the driver's personal best
// and the session-wide best for that sector. A tie with the personal best
// reports green, never purple (spec §4.3.3 tie rule).
func ClassifySector(timeMs, personalBestMs, sessionBestMs uint32, valid bool) SectorStatus {
	if timeMs == 0 {
		return SectorNA
	}
	if !valid {
		return SectorInvalid
	}
	if sessionBestMs > 0 && timeMs < sessionBestMs {
		return SectorPurple
	}
	if personalBestMs > 0 && timeMs <= personalBestMs {
		return SectorGreen
	}
	return SectorYellow
}
