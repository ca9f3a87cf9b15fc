package packet

// LapHistoryData is one completed (or in-progress) lap as reported by the
// session-history packet, independent of the LapData packet's own view.
type LapHistoryData struct {
	LapTimeMs      uint32
	Sector1TimeMs  uint16
	Sector1TimeMinutes uint8
	Sector2TimeMs  uint16
	Sector2TimeMinutes uint8
	Sector3TimeMs  uint16
	Sector3TimeMinutes uint8
	LapValidBitFlags uint8
}

// TyreStintHistoryData records which tyre was fitted for a contiguous lap
// range.
type TyreStintHistoryData struct {
	EndLap         uint8
	TyreActualCompound TyreCompound
	TyreVisualCompound VisualTyreCompound
}

const maxLapHistory = 100
const maxTyreStintsHistory = 8

// SessionHistoryPacket is packet id 11: per-car lap/tyre history, sent on a
// rotation rather than every frame.
type SessionHistoryPacket struct {
	Header               Header
	CarIdx               uint8
	NumLaps              uint8
	NumTyreStints        uint8
	BestLapTimeLapNum    uint8
	BestSector1LapNum     uint8
	BestSector2LapNum     uint8
	BestSector3LapNum     uint8
	LapHistory           []LapHistoryData
	TyreStintsHistory    []TyreStintHistoryData
}

func decodeSessionHistory(h Header, body []byte) (SessionHistoryPacket, error) {
	rd := newReader(body)
	var p SessionHistoryPacket
	p.Header = h
	p.CarIdx = rd.u8()
	p.NumLaps = rd.u8()
	p.NumTyreStints = rd.u8()
	p.BestLapTimeLapNum = rd.u8()
	p.BestSector1LapNum = rd.u8()
	p.BestSector2LapNum = rd.u8()
	p.BestSector3LapNum = rd.u8()

	p.LapHistory = make([]LapHistoryData, 0, p.NumLaps)
	for i := uint8(0); i < maxLapHistory; i++ {
		lap := LapHistoryData{
			LapTimeMs:          rd.u32(),
			Sector1TimeMs:      rd.u16(),
			Sector1TimeMinutes: rd.u8(),
			Sector2TimeMs:      rd.u16(),
			Sector2TimeMinutes: rd.u8(),
			Sector3TimeMs:      rd.u16(),
			Sector3TimeMinutes: rd.u8(),
			LapValidBitFlags:   rd.u8(),
		}
		if i < p.NumLaps {
			p.LapHistory = append(p.LapHistory, lap)
		}
	}

	p.TyreStintsHistory = make([]TyreStintHistoryData, 0, p.NumTyreStints)
	for i := uint8(0); i < maxTyreStintsHistory; i++ {
		stint := TyreStintHistoryData{
			EndLap:             rd.u8(),
			TyreActualCompound: decodeTyreCompound(h.PacketFormat, rd.u8()),
			TyreVisualCompound: decodeVisualCompound(rd.u8()),
		}
		if i < p.NumTyreStints {
			p.TyreStintsHistory = append(p.TyreStintsHistory, stint)
		}
	}

	if !rd.ok {
		return SessionHistoryPacket{}, newDecodeError(ErrShortRead, IDSessionHistory, "session-history payload truncated")
	}
	return p, nil
}
