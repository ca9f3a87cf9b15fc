package packet

// PacketID identifies one of the 15 kinds the game emits.
type PacketID uint8

const (
	IDMotion              PacketID = 0
	IDSession             PacketID = 1
	IDLapData             PacketID = 2
	IDEvent               PacketID = 3
	IDParticipants        PacketID = 4
	IDCarSetups           PacketID = 5
	IDCarTelemetry        PacketID = 6
	IDCarStatus           PacketID = 7
	IDFinalClassification PacketID = 8
	IDLobbyInfo           PacketID = 9
	IDCarDamage           PacketID = 10
	IDSessionHistory      PacketID = 11
	IDTyreSets            PacketID = 12
	IDMotionEx            PacketID = 13
	IDTimeTrial           PacketID = 14
)

func (id PacketID) String() string {
	switch id {
	case IDMotion:
		return "motion"
	case IDSession:
		return "session"
	case IDLapData:
		return "lap-data"
	case IDEvent:
		return "event"
	case IDParticipants:
		return "participants"
	case IDCarSetups:
		return "car-setups"
	case IDCarTelemetry:
		return "car-telemetry"
	case IDCarStatus:
		return "car-status"
	case IDFinalClassification:
		return "final-classification"
	case IDLobbyInfo:
		return "lobby-info"
	case IDCarDamage:
		return "car-damage"
	case IDSessionHistory:
		return "session-history"
	case IDTyreSets:
		return "tyre-sets"
	case IDMotionEx:
		return "motion-ex"
	case IDTimeTrial:
		return "time-trial"
	default:
		return "unknown"
	}
}

// FormatYear is the game's declared packet-format year. The codec switches
// on this value, never on runtime payload length, whenever a packet kind's
// layout differs across years (spec §9, Open Question 1).
type FormatYear uint16

const (
	Format2023 FormatYear = 2023
	Format2024 FormatYear = 2024
	Format2025 FormatYear = 2025
)

// Supported reports whether this codec has a schema for the given year.
func (y FormatYear) Supported() bool {
	switch y {
	case Format2023, Format2024, Format2025:
		return true
	default:
		return false
	}
}

// Header is the version-stamped preamble common to every packet kind.
type Header struct {
	PacketFormat            FormatYear
	GameYear                uint8
	GameMajorVersion        uint8
	GameMinorVersion        uint8
	PacketVersion           uint8
	PacketID                PacketID
	SessionUID              uint64
	SessionTime             float32
	FrameIdentifier         uint32
	OverallFrameIdentifier  uint32
	PlayerCarIndex          uint8
	SecondaryPlayerCarIndex uint8
}

// headerSize is identical across 2023-2025 (29 bytes); earlier formats are
// out of scope per spec §1.
const headerSize = 29

// decodeHeader parses the common preamble. The caller is responsible for
// re-slicing the remaining payload to the packet-kind-specific decoder.
func decodeHeader(data []byte) (Header, []byte, error) {
	if len(data) < headerSize {
		return Header{}, nil, newDecodeError(ErrShortRead, 0, "header truncated")
	}
	rd := newReader(data[:headerSize])

	var h Header
	h.PacketFormat = FormatYear(rd.u16())
	h.GameYear = rd.u8()
	h.GameMajorVersion = rd.u8()
	h.GameMinorVersion = rd.u8()
	h.PacketVersion = rd.u8()
	h.PacketID = PacketID(rd.u8())
	h.SessionUID = rd.u64()
	h.SessionTime = rd.f32()
	h.FrameIdentifier = rd.u32()
	h.OverallFrameIdentifier = rd.u32()
	h.PlayerCarIndex = rd.u8()
	h.SecondaryPlayerCarIndex = rd.u8()

	if !rd.ok {
		return Header{}, nil, newDecodeError(ErrShortRead, h.PacketID, "header field truncated")
	}
	if !h.PacketFormat.Supported() {
		return Header{}, nil, newDecodeError(ErrUnsupportedFormat, h.PacketID, "unsupported format year")
	}
	return h, data[headerSize:], nil
}
