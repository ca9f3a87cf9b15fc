package racemodel

import "github.com/psybedev/f1telemetry/packet"

func applyTyreSets(s *staging, p packet.TyreSetsPacket) {
	if int(p.CarIdx) >= len(s.Drivers) {
		return
	}
	frame := p.Header.FrameIdentifier
	d := &s.Drivers[p.CarIdx]
	if d.lastTyreSetsFrame != 0 && frame <= d.lastTyreSetsFrame {
		return
	}
	d.lastTyreSetsFrame = frame
	d.FittedTyreSet = p.FittedIdx

	for i, t := range p.TyreSets {
		d.TyreSets[i] = TyreSet{
			Index:          uint8(i),
			ActualCompound: t.ActualCompound,
			VisualCompound: t.VisualCompound,
			AgeLaps:        t.LifeSpan,
			WearPercent:    float32(t.Wear),
			LifespanLaps:   t.UsableLife,
			DeltaToSetZero: t.LapDeltaTime,
			Available:      t.Available == 1,
		}
	}
	if len(d.Stints) > 0 && int(p.FittedIdx) < len(d.TyreSets) {
		d.Stints[len(d.Stints)-1].Compound = d.TyreSets[p.FittedIdx].VisualCompound
	}
}
