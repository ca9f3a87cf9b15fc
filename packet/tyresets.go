package packet

// TyreSetData is one entry in a car's tyre-set inventory.
type TyreSetData struct {
	ActualCompound TyreCompound
	VisualCompound VisualTyreCompound
	Wear           uint8
	Available      uint8
	RecommendedSession uint8
	LifeSpan       uint8
	UsableLife     uint8
	LapDeltaTime   int16
	Fitted         uint8
}

const maxTyreSets = 20

// TyreSetsPacket is packet id 12: the full tyre-set inventory for a single
// car, sent on request/rotation rather than every frame.
type TyreSetsPacket struct {
	Header     Header
	CarIdx     uint8
	TyreSets   [maxTyreSets]TyreSetData
	FittedIdx  uint8
}

func decodeTyreSets(h Header, body []byte) (TyreSetsPacket, error) {
	rd := newReader(body)
	var p TyreSetsPacket
	p.Header = h
	p.CarIdx = rd.u8()
	for i := range p.TyreSets {
		s := &p.TyreSets[i]
		s.ActualCompound = decodeTyreCompound(h.PacketFormat, rd.u8())
		s.VisualCompound = decodeVisualCompound(rd.u8())
		s.Wear = rd.u8()
		s.Available = rd.u8()
		s.RecommendedSession = rd.u8()
		s.LifeSpan = rd.u8()
		s.UsableLife = rd.u8()
		s.LapDeltaTime = rd.i16()
		s.Fitted = rd.u8()
	}
	p.FittedIdx = rd.u8()

	if !rd.ok {
		return TyreSetsPacket{}, newDecodeError(ErrShortRead, IDTyreSets, "tyre-sets payload truncated")
	}
	return p, nil
}

// TimeTrialDataSet is one time-trial record row (player's best, personal
// best, or rival).
type TimeTrialDataSet struct {
	CarIdx         uint8
	TeamID         uint8
	LapTimeMs      uint32
	Sector1TimeMs  uint32
	Sector2TimeMs  uint32
	Sector3TimeMs  uint32
	TractionControl uint8
	GearboxAssist  uint8
	AntiLockBrakes uint8
	EqualCarPerformance uint8
	CustomSetup    uint8
	Valid          uint8
}

// TimeTrialPacket is packet id 14.
type TimeTrialPacket struct {
	Header       Header
	PlayerSession TimeTrialDataSet
	PersonalBest  TimeTrialDataSet
	Rival         TimeTrialDataSet
}

func decodeTimeTrial(h Header, body []byte) (TimeTrialPacket, error) {
	rd := newReader(body)
	var p TimeTrialPacket
	p.Header = h
	readSet := func() TimeTrialDataSet {
		return TimeTrialDataSet{
			CarIdx:              rd.u8(),
			TeamID:              rd.u8(),
			LapTimeMs:           rd.u32(),
			Sector1TimeMs:       rd.u32(),
			Sector2TimeMs:       rd.u32(),
			Sector3TimeMs:       rd.u32(),
			TractionControl:     rd.u8(),
			GearboxAssist:       rd.u8(),
			AntiLockBrakes:      rd.u8(),
			EqualCarPerformance: rd.u8(),
			CustomSetup:         rd.u8(),
			Valid:               rd.u8(),
		}
	}
	p.PlayerSession = readSet()
	p.PersonalBest = readSet()
	p.Rival = readSet()

	if !rd.ok {
		return TimeTrialPacket{}, newDecodeError(ErrShortRead, IDTimeTrial, "time-trial payload truncated")
	}
	return p, nil
}
