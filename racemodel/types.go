// Package racemodel holds the single-writer, multi-reader authoritative
// race state: session, participants, lap history, tyre sets, damage,
// collisions, and the other entities in SPEC_FULL.md §4. Readers only ever
// see immutable Snapshot values obtained from Model.Snapshot.
package racemodel

import "github.com/psybedev/f1telemetry/packet"

// Session is the game-wide configuration and state, replaced wholesale on
// a session-UID change rather than mutated field by field.
type Session struct {
	UID              uint64
	FormatYear       packet.FormatYear
	GameMajorVersion uint8
	GameMinorVersion uint8
	SessionType      packet.SessionType
	TrackID          int8
	TotalLaps        uint8
	SessionTimeLeft  uint16
	SessionDuration  uint16
	PitSpeedLimit    uint8
	SafetyCarStatus  packet.SafetyCarStatus
	AirTemperature   int8
	TrackTemperature int8
	WeatherForecast  []packet.WeatherForecastSample
}

// Participant is a stable, car-index-keyed identity, immutable for the
// lifetime of a Session.
type Participant struct {
	CarIndex      uint8
	Name          string
	TeamID        uint8
	RaceNumber    uint8
	Nationality   uint8
	IsPlayer      bool
	IsAI          bool
	IsSpectating  bool
	NetworkID     uint8
	TelemetryVisible bool
}

// Lap is one completed (or in-progress) lap for a participant.
type Lap struct {
	LapNumber     uint8
	LapTimeMs     uint32
	Sector1Ms     uint32
	Sector2Ms     uint32
	Sector3Ms     uint32
	Valid         bool
	TyreSetIndex  uint8
	TopSpeedKph   float32
	Position      uint8 // race position held when this lap completed
}

// TyreSet mirrors one row of a car's tyre-set inventory.
type TyreSet struct {
	Index          uint8
	ActualCompound packet.TyreCompound
	VisualCompound packet.VisualTyreCompound
	AgeLaps        uint8
	WearPercent    float32
	LifespanLaps   uint8
	DeltaToSetZero int16
	Available      bool
}

// WearSample is one lap's worth of per-corner tyre wear, taken at lap
// completion from the most recent damage snapshot.
type WearSample struct {
	LapInStint uint8
	FL, FR, RL, RR float32
}

// Stint is a contiguous run on one tyre set.
type Stint struct {
	StartLap    uint8
	EndLap      uint8 // equals current lap while open
	Open        bool
	TyreSetRef  uint8
	Compound    packet.VisualTyreCompound
	WearSamples []WearSample
}

// CarStatusSnapshot is the ERS/fuel/DRS state at one instant (e.g. a lap
// crossing), retained for history.
type CarStatusSnapshot struct {
	LapNumber          uint8
	ERSStoreEnergy     float32
	ERSDeployedThisLap float32
	ERSHarvestedMGUH   float32
	ERSHarvestedMGUK   float32
	ERSMode            packet.ERSDeployMode
	FuelInTank         float32
	FuelCapacity       float32
	FuelRemainingLaps  float32 // game-reported estimate, spec §4.4
	FuelMix            packet.FuelMix
	DRSAllowed         bool
	DRSActive          bool
}

// DamageSnapshot is the most recently observed damage/wear state for a car.
type DamageSnapshot struct {
	TyresWear            [4]float32
	TyresDamage          [4]uint8
	FrontLeftWingDamage  uint8
	FrontRightWingDamage uint8
	RearWingDamage       uint8
	FloorDamage          uint8
	DiffuserDamage       uint8
	SidepodDamage        uint8
	EngineDamage         uint8
	GearBoxDamage        uint8
}

// WarningPenalty is one warning or penalty event.
type WarningPenalty struct {
	CarIndex      uint8
	Lap           uint8
	Sector        uint8
	LapProgress   float32
	Kind          packet.PenaltyType
	OldValue      uint8
	NewValue      uint8
}

// Collision is a de-duplicated collision record between two cars.
type Collision struct {
	CarIndex1 uint8
	CarIndex2 uint8
	Lap       uint8
}

// collisionKey is the stable fingerprint used for de-duplication (spec
// §4.3.4): the ordered pair plus the lap of the lower index.
func collisionKey(i, j, lap uint8) (uint8, uint8, uint8) {
	if i > j {
		i, j = j, i
	}
	return i, j, lap
}

// CustomMarker is a user/external-triggered bookmark.
type CustomMarker struct {
	CarIndex      uint8
	Lap           uint8
	Sector        uint8
	LapProgress   float32
	EventType     string
	Track         int8
	CurrentLapMs  uint32
}

// WeatherSample is one observed (not forecast) weather reading, kept for
// the session archive.
type WeatherSample struct {
	SessionTimeLeft uint16
	Weather         packet.Weather
	AirTemperature  int8
	TrackTemperature int8
}

// RecordHolder names the driver owning a record value.
type RecordHolder struct {
	CarIndex uint8
	TeamID   uint8
	LapNumber uint8
	TimeMs   uint32
}

// LapSectorRecords is the global fastest-lap/sector tracker.
type LapSectorRecords struct {
	FastestLap     RecordHolder
	FastestSector1 RecordHolder
	FastestSector2 RecordHolder
	FastestSector3 RecordHolder
}

// CompoundRecord is the per-compound aggregate the analytics layer updates
// on stint close.
type CompoundRecord struct {
	LongestStintLaps  uint8
	LongestStintDriver uint8
	LowestWearPerLap   float32
	LowestWearDriver   uint8
	HighestTotalWear   float32
	HighestWearDriver  uint8
}

// DriverState is the terminal/ongoing classification state machine (spec
// §4.3: Racing -> Pitting|DNF|DSQ|Retired|Finished).
type DriverState string

const (
	DriverRacing   DriverState = "racing"
	DriverPitting  DriverState = "pitting"
	DriverDNF      DriverState = "dnf"
	DriverDSQ      DriverState = "dsq"
	DriverRetired  DriverState = "retired"
	DriverFinished DriverState = "finished"
)

// IsTerminal reports whether state inhibits further lap updates.
func (s DriverState) IsTerminal() bool {
	switch s {
	case DriverDNF, DriverDSQ, DriverRetired, DriverFinished:
		return true
	default:
		return false
	}
}

// DriverRecord holds everything the model tracks for a single car index.
type DriverRecord struct {
	Participant    Participant
	CurrentLap     Lap
	History        []Lap
	TyreSets       [20]TyreSet
	FittedTyreSet  uint8
	Stints         []Stint
	Status         CarStatusSnapshot
	StatusHistory  []CarStatusSnapshot
	Damage         DamageSnapshot
	Warnings       []WarningPenalty
	Position       uint8
	GridPosition   uint8
	ResultStatus   packet.ResultStatus
	State          DriverState
	SpeedTrapKph   float32

	// Per-kind last-applied frame id, used to detect and drop stale
	// (out-of-order, lower frame id) packets without crashing (spec §4.3).
	lastLapDataFrame      uint32
	lastCarStatusFrame    uint32
	lastCarDamageFrame    uint32
	lastTyreSetsFrame     uint32
	lastSessionHistFrame  uint32
}
