package protocol

// Wire layout, fixed 7 bytes:
//
//	Marker(1) | Dest(1) | Src(1) | Command(1) | PayloadHi(1) | PayloadLo(1) | CRC8(1)
//
// The CRC covers the first six bytes.
const (
	FrameSize = 7
	Marker    = 0x0A

	// CRC8 parameters: reflected polynomial 0x8C, seed 0 (Dallas/Maxim).
	CRCPolynomial = 0x8C
	CRCSeed       = 0x00

	// Payload values with a reserved meaning.
	PenaltyTime = 0xFFFF
	VibrateGo   = 0xFF

	// Highest measured time that can be reported without colliding with PenaltyTime.
	MaxReportableTime = PenaltyTime - 1

	// Radio channel shared by every node of one game.
	DefaultChannel = 6
)

// Game modes carried in the high byte of GAME_START.
const (
	ModeReaction byte = 0x01
	ModeShake    byte = 0x02
)
