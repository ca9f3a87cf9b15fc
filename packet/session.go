package packet

// WeatherForecastSample is a single forward-looking weather prediction.
type WeatherForecastSample struct {
	SessionType        SessionType
	TimeOffsetMinutes  uint8
	Weather            Weather
	TrackTemperature   int8
	AirTemperature     int8
	RainPercentage     uint8
}

// MarshalZone is a track-relative segment the game flags for corner-cutting
// rules.
type MarshalZone struct {
	ZoneStart float32
	ZoneFlag  int8
}

const maxWeatherSamples = 64
const maxMarshalZones = 21

// SessionPacket is packet id 1: session-wide configuration and state.
type SessionPacket struct {
	Header Header

	Weather            Weather
	TrackTemperature   int8
	AirTemperature     int8
	TotalLaps          uint8
	TrackLength        uint16
	SessionType        SessionType
	TrackID            int8
	Formula            uint8
	SessionTimeLeft    uint16
	SessionDuration    uint16
	PitSpeedLimit      uint8
	GamePaused         uint8
	IsSpectating       uint8
	SpectatorCarIndex  uint8
	SLIProNativeSupport uint8

	MarshalZones []MarshalZone

	SafetyCarStatus     SafetyCarStatus
	NetworkGame         uint8
	WeatherForecast     []WeatherForecastSample
	PitStopWindowStart  uint8
	PitStopWindowLength uint8
	SessionLength       uint8

	PitSpeedLimitKph uint8
}

func decodeSession(h Header, body []byte) (SessionPacket, error) {
	rd := newReader(body)
	var p SessionPacket
	p.Header = h

	p.Weather = decodeWeather(rd.u8())
	p.TrackTemperature = rd.i8()
	p.AirTemperature = rd.i8()
	p.TotalLaps = rd.u8()
	p.TrackLength = rd.u16()
	p.SessionType = decodeSessionType(rd.u8())
	p.TrackID = rd.i8()
	p.Formula = rd.u8()
	p.SessionTimeLeft = rd.u16()
	p.SessionDuration = rd.u16()
	p.PitSpeedLimit = rd.u8()
	p.GamePaused = rd.u8()
	p.IsSpectating = rd.u8()
	p.SpectatorCarIndex = rd.u8()
	p.SLIProNativeSupport = rd.u8()

	zoneCount := rd.u8()
	p.MarshalZones = make([]MarshalZone, 0, maxMarshalZones)
	for i := uint8(0); i < maxMarshalZones; i++ {
		z := MarshalZone{ZoneStart: rd.f32(), ZoneFlag: rd.i8()}
		if i < zoneCount {
			p.MarshalZones = append(p.MarshalZones, z)
		}
	}

	p.SafetyCarStatus = SafetyCarStatus(rd.u8())
	p.NetworkGame = rd.u8()

	forecastCount := rd.u8()
	p.WeatherForecast = make([]WeatherForecastSample, 0, maxWeatherSamples)
	for i := uint8(0); i < maxWeatherSamples; i++ {
		s := WeatherForecastSample{
			SessionType:       decodeSessionType(rd.u8()),
			TimeOffsetMinutes: rd.u8(),
			Weather:           decodeWeather(rd.u8()),
			TrackTemperature:  rd.i8(),
			AirTemperature:    rd.i8(),
			RainPercentage:    rd.u8(),
		}
		if i < forecastCount {
			p.WeatherForecast = append(p.WeatherForecast, s)
		}
	}

	p.PitStopWindowStart = rd.u8()
	p.PitStopWindowLength = rd.u8()
	p.SessionLength = rd.u8()

	if h.PacketFormat >= Format2024 {
		p.PitSpeedLimitKph = rd.u8()
		rd.skip(1) // gamePaced/gameSpeed style toggle, not modeled
	}

	if !rd.ok {
		return SessionPacket{}, newDecodeError(ErrShortRead, IDSession, "session payload truncated")
	}
	return p, nil
}
