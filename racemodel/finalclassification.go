package racemodel

import "github.com/psybedev/f1telemetry/packet"

// applyFinalClassification merges the authoritative final result over
// anything previously inferred (spec §4.3.5): finishing position and
// result status override, and DNF/DSQ sets a terminal state.
func applyFinalClassification(s *staging, p packet.FinalClassificationPacket) {
	for i := uint8(0); i < p.NumCars && int(i) < len(s.Drivers); i++ {
		row := p.Classification[i]
		d := &s.Drivers[i]
		d.Position = row.Position
		d.GridPosition = row.GridPosition
		d.ResultStatus = row.ResultStatus

		switch row.ResultStatus {
		case packet.ResultStatusDidNotFinish:
			d.State = DriverDNF
		case packet.ResultStatusDisqualified:
			d.State = DriverDSQ
		case packet.ResultStatusRetired:
			d.State = DriverRetired
		case packet.ResultStatusFinished:
			d.State = DriverFinished
		}
	}
}
