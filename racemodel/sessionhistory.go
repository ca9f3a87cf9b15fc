package racemodel

import "github.com/psybedev/f1telemetry/packet"

// applySessionHistory reconciles the authoritative per-lap sector-3 times
// the game only ships via this packet (LapData never carries sector 3
// directly), overwriting the estimate completeLap derives by subtraction.
func applySessionHistory(s *staging, p packet.SessionHistoryPacket) {
	if int(p.CarIdx) >= len(s.Drivers) {
		return
	}
	frame := p.Header.FrameIdentifier
	d := &s.Drivers[p.CarIdx]
	if d.lastSessionHistFrame != 0 && frame <= d.lastSessionHistFrame {
		return
	}
	d.lastSessionHistFrame = frame

	for idx, histLap := range p.LapHistory {
		lapNumber := uint8(idx + 1)
		for hi := range d.History {
			if d.History[hi].LapNumber != lapNumber {
				continue
			}
			d.History[hi].Sector1Ms = uint32(histLap.Sector1TimeMinutes)*60000 + uint32(histLap.Sector1TimeMs)
			d.History[hi].Sector2Ms = uint32(histLap.Sector2TimeMinutes)*60000 + uint32(histLap.Sector2TimeMs)
			d.History[hi].Sector3Ms = uint32(histLap.Sector3TimeMinutes)*60000 + uint32(histLap.Sector3TimeMs)
			if histLap.LapTimeMs > 0 {
				d.History[hi].LapTimeMs = histLap.LapTimeMs
			}
			d.History[hi].Valid = histLap.LapValidBitFlags&0x01 != 0
			break
		}
	}
}
