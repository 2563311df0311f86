package protocol

import "fmt"

// Command selects the meaning of a frame's payload.
// Unknown values decode fine and are ignored by every state machine.
type Command byte

const (
	CmdAck       Command = 0x0B
	CmdJoin      Command = 0x0D // REQUEST_JOIN, peer -> host
	CmdGameStart Command = 0x21 // hi = mode, lo = param
	CmdVibrate   Command = 0x23 // lo 0xFF = go-signal, else duration x 10ms
	CmdIdle      Command = 0x24
	CmdCountdown Command = 0x25 // lo = 3, 2, 1
	CmdReaction  Command = 0x26 // REACTION_DONE, peer -> host, ms or PenaltyTime
	CmdShake     Command = 0x27 // SHAKE_DONE, peer -> host, ms or PenaltyTime
)

var commandNames = map[Command]string{
	CmdAck:       "ACK",
	CmdJoin:      "REQUEST_JOIN",
	CmdGameStart: "GAME_START",
	CmdVibrate:   "VIBRATE",
	CmdIdle:      "IDLE",
	CmdCountdown: "COUNTDOWN",
	CmdReaction:  "REACTION_DONE",
	CmdShake:     "SHAKE_DONE",
}

// Known reports whether c is part of the vocabulary.
func (c Command) Known() bool {
	_, ok := commandNames[c]
	return ok
}

// FromPeer reports whether c travels peer -> host. Every other known command
// travels host -> peer/display; no command is valid both ways.
func (c Command) FromPeer() bool {
	switch c {
	case CmdJoin, CmdReaction, CmdShake:
		return true
	}
	return false
}

// IsReport reports whether c carries a round result.
func (c Command) IsReport() bool {
	return c == CmdReaction || c == CmdShake
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CMD(0x%02X)", byte(c))
}
