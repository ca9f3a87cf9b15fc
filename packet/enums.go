package packet

import "fmt"

// Every enum below follows the same shape: a closed Go type with named
// constants for the values the game actually sends, plus an Unknown
// fallback that retains the raw numeric value so the caller can still log
// or forward it (spec §4.1: "out-of-range values surface the numeric value
// alongside an unknown tag").

// SessionType enumerates the game's session kinds.
type SessionType struct {
	Raw   uint8
	Name  string
	Known bool
}

var sessionTypeNames = map[uint8]string{
	0: "unknown", 1: "practice-1", 2: "practice-2", 3: "practice-3", 4: "practice-short",
	5: "qualifying-1", 6: "qualifying-2", 7: "qualifying-3", 8: "qualifying-short",
	9: "one-shot-qualifying", 10: "race", 11: "race-2", 12: "race-3",
	13: "time-trial", 14: "qualifying-sprint-shootout", 15: "sprint-race", 16: "sprint-shootout",
}

func decodeSessionType(raw uint8) SessionType {
	name, ok := sessionTypeNames[raw]
	if !ok {
		return SessionType{Raw: raw, Name: fmt.Sprintf("unknown(%d)", raw), Known: false}
	}
	return SessionType{Raw: raw, Name: name, Known: true}
}

// Weather enumerates the game's weather states.
type Weather struct {
	Raw   uint8
	Name  string
	Known bool
}

var weatherNames = map[uint8]string{
	0: "clear", 1: "light-cloud", 2: "overcast", 3: "light-rain", 4: "heavy-rain", 5: "storm",
}

func decodeWeather(raw uint8) Weather {
	name, ok := weatherNames[raw]
	if !ok {
		return Weather{Raw: raw, Name: fmt.Sprintf("unknown(%d)", raw), Known: false}
	}
	return Weather{Raw: raw, Name: name, Known: true}
}

// SafetyCarStatus enumerates the game's safety-car states.
type SafetyCarStatus uint8

const (
	SafetyCarNone         SafetyCarStatus = 0
	SafetyCarFull         SafetyCarStatus = 1
	SafetyCarVirtual      SafetyCarStatus = 2
	SafetyCarFormationLap SafetyCarStatus = 3
)

func (s SafetyCarStatus) String() string {
	switch s {
	case SafetyCarNone:
		return "none"
	case SafetyCarFull:
		return "full"
	case SafetyCarVirtual:
		return "virtual"
	case SafetyCarFormationLap:
		return "formation-lap"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// SurfaceType is a per-wheel track surface classification.
type SurfaceType uint8

const (
	SurfaceTarmac SurfaceType = iota
	SurfaceRumbleStrip
	SurfaceConcrete
	SurfaceRock
	SurfaceGravel
	SurfaceMud
	SurfaceSand
	SurfaceGrass
	SurfaceWater
	SurfaceCobblestone
	SurfaceMetal
	SurfaceRidged
)

func (s SurfaceType) String() string {
	names := [...]string{"tarmac", "rumble-strip", "concrete", "rock", "gravel", "mud", "sand",
		"grass", "water", "cobblestone", "metal", "ridged"}
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// ERSDeployMode enumerates the player-selectable ERS strategy.
type ERSDeployMode uint8

const (
	ERSModeNone ERSDeployMode = iota
	ERSModeMedium
	ERSModeHotlap
	ERSModeOvertake
)

func (m ERSDeployMode) String() string {
	switch m {
	case ERSModeNone:
		return "none"
	case ERSModeMedium:
		return "medium"
	case ERSModeHotlap:
		return "hotlap"
	case ERSModeOvertake:
		return "overtake"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// FuelMix enumerates the player-selectable fuel mixture.
type FuelMix uint8

const (
	FuelMixLean FuelMix = iota
	FuelMixStandard
	FuelMixRich
	FuelMixMax
)

func (m FuelMix) String() string {
	switch m {
	case FuelMixLean:
		return "lean"
	case FuelMixStandard:
		return "standard"
	case FuelMixRich:
		return "rich"
	case FuelMixMax:
		return "max"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// TyreCompound is a closed mapping from the game's numeric compound ids
// (which differ between the "actual" dry/wet scale and classic events) to a
// stable symbol. Keyed by format year since the numeric ids have shifted
// across titles.
type TyreCompound struct {
	Raw   uint8
	Name  string
	Known bool
}

var tyreCompoundNamesByYear = map[FormatYear]map[uint8]string{
	Format2023: {16: "C5", 17: "C4", 18: "C3", 19: "C2", 20: "C1", 21: "C0",
		7: "inter", 8: "wet", 9: "dry-classic", 10: "wet-classic"},
	Format2024: {16: "C5", 17: "C4", 18: "C3", 19: "C2", 20: "C1", 21: "C0", 22: "C6",
		7: "inter", 8: "wet", 9: "dry-classic", 10: "wet-classic"},
	Format2025: {16: "C5", 17: "C4", 18: "C3", 19: "C2", 20: "C1", 21: "C0", 22: "C6",
		7: "inter", 8: "wet", 9: "dry-classic", 10: "wet-classic"},
}

func decodeTyreCompound(year FormatYear, raw uint8) TyreCompound {
	table, ok := tyreCompoundNamesByYear[year]
	if !ok {
		table = tyreCompoundNamesByYear[Format2024]
	}
	name, ok := table[raw]
	if !ok {
		return TyreCompound{Raw: raw, Name: fmt.Sprintf("unknown(%d)", raw), Known: false}
	}
	return TyreCompound{Raw: raw, Name: name, Known: true}
}

// VisualTyreCompound is the compound as shown to the player (soft/medium/hard
// rather than the Cn scale).
type VisualTyreCompound struct {
	Raw   uint8
	Name  string
	Known bool
}

var visualCompoundNames = map[uint8]string{
	16: "soft", 17: "medium", 18: "hard", 7: "inter", 8: "wet",
	15: "wet-classic", 19: "super-soft-classic", 20: "soft-classic",
	21: "medium-classic", 22: "hard-classic",
}

func decodeVisualCompound(raw uint8) VisualTyreCompound {
	name, ok := visualCompoundNames[raw]
	if !ok {
		return VisualTyreCompound{Raw: raw, Name: fmt.Sprintf("unknown(%d)", raw), Known: false}
	}
	return VisualTyreCompound{Raw: raw, Name: name, Known: true}
}

// PenaltyType enumerates penalty kinds carried by Penalty events.
type PenaltyType struct {
	Raw   uint8
	Name  string
	Known bool
}

var penaltyTypeNames = map[uint8]string{
	0: "drive-through", 1: "stop-go", 2: "grid-penalty", 3: "penalty-reminder",
	4: "time-penalty", 5: "warning", 6: "disqualified", 7: "removed-from-formation-lap",
	8: "parked-too-long-timer", 9: "tyre-regulations", 10: "this-lap-invalidated",
	11: "this-and-next-lap-invalidated", 12: "this-lap-invalidated-no-reason",
	13: "this-and-next-lap-invalidated-no-reason", 14: "this-and-previous-lap-invalidated",
	15: "this-and-previous-lap-invalidated-no-reason", 16: "retired",
	17: "black-flag-timer",
}

func decodePenaltyType(raw uint8) PenaltyType {
	name, ok := penaltyTypeNames[raw]
	if !ok {
		return PenaltyType{Raw: raw, Name: fmt.Sprintf("unknown(%d)", raw), Known: false}
	}
	return PenaltyType{Raw: raw, Name: name, Known: true}
}

// InfringementType enumerates the cause of a penalty/warning.
type InfringementType struct {
	Raw   uint8
	Name  string
	Known bool
}

var infringementTypeNames = map[uint8]string{
	0: "blocking-by-slow-driving", 1: "blocking-by-wrong-way-driving",
	2: "reversing-off-the-start-line", 3: "big-collision", 4: "small-collision",
	5: "collision-failed-to-hand-back-position-single",
	6: "collision-failed-to-hand-back-position-multiple",
	7: "corner-cutting-gained-time", 8: "corner-cutting-overtake-single",
	9: "corner-cutting-overtake-multiple", 10: "crossed-pit-exit-lane",
	11: "ignoring-blue-flags", 12: "ignoring-yellow-flags", 13: "ignoring-drive-through",
	14: "too-many-drive-throughs", 15: "drive-through-reminder-serve-within-n-laps",
	16: "drive-through-reminder-serve-this-lap", 17: "pit-lane-speeding",
	18: "parked-for-too-long", 19: "ignoring-tyre-regulations",
	20: "too-many-penalties", 21: "multiple-warnings", 22: "approaching-disqualification",
	23: "tyre-regulations-select-single", 24: "tyre-regulations-select-multiple",
	25: "lap-invalidated-corner-cutting", 26: "lap-invalidated-running-wide",
	27: "corner-cutting-ran-wide-gained-time-minor", 28: "corner-cutting-ran-wide-gained-time-significant",
	29: "corner-cutting-ran-wide-gained-time-extreme", 30: "lap-invalidated-wall-riding",
	31: "lap-invalidated-flashback-used", 32: "lap-invalidated-reset-to-track",
	33: "blocking-the-pitlane", 34: "jump-start", 35: "safety-car-to-car-collision",
	36: "safety-car-illegal-overtake", 37: "safety-car-exceeding-allowed-pace",
	38: "virtual-safety-car-exceeding-allowed-pace",
	39: "formation-lap-below-allowed-speed", 40: "formation-lap-parking",
	41: "retired-mechanical-failure", 42: "retired-terminally-damaged",
	43: "safety-car-falling-too-far-back", 44: "black-flag-timer",
	45: "unserved-stop-go-penalty", 46: "unserved-drive-through-penalty",
	47: "engine-component-change", 48: "gearbox-change", 49: "parc-ferme-change",
	50: "league-grid-penalty", 51: "retry-penalty", 52: "illegal-time-gain",
	53: "mandatory-pitstop", 54: "attribute-assigned",
}

func decodeInfringementType(raw uint8) InfringementType {
	name, ok := infringementTypeNames[raw]
	if !ok {
		return InfringementType{Raw: raw, Name: fmt.Sprintf("unknown(%d)", raw), Known: false}
	}
	return InfringementType{Raw: raw, Name: name, Known: true}
}

// ResultStatus is the terminal/ongoing classification state of a driver.
type ResultStatus uint8

const (
	ResultStatusInvalid    ResultStatus = 0
	ResultStatusInactive   ResultStatus = 1
	ResultStatusActive     ResultStatus = 2
	ResultStatusFinished   ResultStatus = 3
	ResultStatusDidNotFinish ResultStatus = 4
	ResultStatusDisqualified ResultStatus = 5
	ResultStatusNotClassified ResultStatus = 6
	ResultStatusRetired    ResultStatus = 7
)

func (s ResultStatus) String() string {
	switch s {
	case ResultStatusInvalid:
		return "invalid"
	case ResultStatusInactive:
		return "inactive"
	case ResultStatusActive:
		return "active"
	case ResultStatusFinished:
		return "finished"
	case ResultStatusDidNotFinish:
		return "dnf"
	case ResultStatusDisqualified:
		return "dsq"
	case ResultStatusNotClassified:
		return "not-classified"
	case ResultStatusRetired:
		return "retired"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// PitStatus indicates whether a car is currently in the pit lane/pitting.
type PitStatus uint8

const (
	PitStatusNone PitStatus = iota
	PitStatusPitting
	PitStatusInPitArea
)

func (p PitStatus) String() string {
	switch p {
	case PitStatusNone:
		return "none"
	case PitStatusPitting:
		return "pitting"
	case PitStatusInPitArea:
		return "in-pit-area"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// knownEventCodes documents the 4-byte ASCII codes an Event packet may carry
// (spec §4.1). decodeEvent does not consult it: any other code is returned
// as-is with an empty Detail rather than failing the packet.
var knownEventCodes = map[string]bool{
	"SSTA": true, "SEND": true, "FTLP": true, "RTMT": true, "DRSE": true, "DRSD": true,
	"TMPT": true, "CHQF": true, "RCWN": true, "PENA": true, "SPTP": true, "STLG": true,
	"DTSV": true, "SGSV": true, "FLBK": true, "BUTN": true, "RDFL": true, "OVTK": true,
	"SCAR": true, "COLL": true,
}
