package racemodel

import "github.com/psybedev/f1telemetry/packet"

func applySession(s *staging, p packet.SessionPacket) {
	s.Session.UID = p.Header.SessionUID
	s.Session.FormatYear = p.Header.PacketFormat
	s.Session.GameMajorVersion = p.Header.GameMajorVersion
	s.Session.GameMinorVersion = p.Header.GameMinorVersion
	s.Session.SessionType = p.SessionType
	s.Session.TrackID = p.TrackID
	s.Session.TotalLaps = p.TotalLaps
	s.Session.SessionTimeLeft = p.SessionTimeLeft
	s.Session.SessionDuration = p.SessionDuration
	s.Session.PitSpeedLimit = p.PitSpeedLimit
	s.Session.SafetyCarStatus = p.SafetyCarStatus
	s.Session.AirTemperature = p.AirTemperature
	s.Session.TrackTemperature = p.TrackTemperature
	s.Session.WeatherForecast = p.WeatherForecast

	s.Weather = append(s.Weather, WeatherSample{
		SessionTimeLeft:  p.SessionTimeLeft,
		Weather:          p.Weather,
		AirTemperature:   p.AirTemperature,
		TrackTemperature: p.TrackTemperature,
	})
}
