package packet

// FinalClassificationData is one driver's final results-table row.
type FinalClassificationData struct {
	Position        uint8
	NumLaps         uint8
	GridPosition    uint8
	Points          uint8
	NumPitStops     uint8
	ResultStatus    ResultStatus
	ResultReason    uint8
	BestLapTimeMs   uint32
	TotalRaceTimeSec float64
	PenaltiesTimeSec uint8
	NumPenalties     uint8
	NumTyreStints    uint8
	TyreStintsActual [8]TyreCompound
	TyreStintsVisual [8]VisualTyreCompound
	TyreStintsEndLaps [8]uint8
}

// FinalClassificationPacket is packet id 8.
type FinalClassificationPacket struct {
	Header        Header
	NumCars       uint8
	Classification [numCars]FinalClassificationData
}

func decodeFinalClassification(h Header, body []byte) (FinalClassificationPacket, error) {
	rd := newReader(body)
	var p FinalClassificationPacket
	p.Header = h
	p.NumCars = rd.u8()
	for i := range p.Classification {
		d := &p.Classification[i]
		d.Position = rd.u8()
		d.NumLaps = rd.u8()
		d.GridPosition = rd.u8()
		d.Points = rd.u8()
		d.NumPitStops = rd.u8()
		d.ResultStatus = ResultStatus(rd.u8())
		if h.PacketFormat >= Format2025 {
			d.ResultReason = rd.u8()
		}
		d.BestLapTimeMs = rd.u32()
		d.TotalRaceTimeSec = rd.f64()
		d.PenaltiesTimeSec = rd.u8()
		d.NumPenalties = rd.u8()
		d.NumTyreStints = rd.u8()
		for s := range d.TyreStintsActual {
			d.TyreStintsActual[s] = decodeTyreCompound(h.PacketFormat, rd.u8())
		}
		for s := range d.TyreStintsVisual {
			d.TyreStintsVisual[s] = decodeVisualCompound(rd.u8())
		}
		for s := range d.TyreStintsEndLaps {
			d.TyreStintsEndLaps[s] = rd.u8()
		}
	}
	if !rd.ok {
		return FinalClassificationPacket{}, newDecodeError(ErrShortRead, IDFinalClassification, "final-classification payload truncated")
	}
	return p, nil
}
