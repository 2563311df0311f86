package game

import (
	"fmt"
	"time"

	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// MaxPlayers is the number of player slots a host tracks.
const MaxPlayers = protocol.MaxPeers

// NoWinner marks a round or game that nobody won.
const NoWinner = -1

// State enumerates the phases shared by the host, peer and display machines.
// Each machine uses the subset that applies to it.
type State int

const (
	StateIdle State = iota
	StateJoining
	StateCountdown
	StateReactionWait
	StateReactionActive
	StateShakeActive
	StateGo
	StateResults
	StateFinal
)

var stateNames = [...]string{
	StateIdle:           "IDLE",
	StateJoining:        "JOINING",
	StateCountdown:      "COUNTDOWN",
	StateReactionWait:   "REACTION_WAIT",
	StateReactionActive: "REACTION_ACTIVE",
	StateShakeActive:    "SHAKE_ACTIVE",
	StateGo:             "GO",
	StateResults:        "RESULTS",
	StateFinal:          "FINAL",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Active reports whether s is a phase in which round results are collected.
func (s State) Active() bool {
	return s == StateReactionActive || s == StateShakeActive
}

// Mode selects the round variant.
type Mode byte

const (
	ModeReaction = Mode(protocol.ModeReaction)
	ModeShake    = Mode(protocol.ModeShake)
)

func (m Mode) String() string {
	switch m {
	case ModeReaction:
		return "reaction"
	case ModeShake:
		return "shake"
	}
	return fmt.Sprintf("Mode(0x%02X)", byte(m))
}

// ParseMode accepts "reaction" or "shake".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "reaction", "":
		return ModeReaction, nil
	case "shake":
		return ModeShake, nil
	}
	return 0, fmt.Errorf("unknown game mode %q", s)
}

// ReportCommand is the status report a peer sends for the mode.
func (m Mode) ReportCommand() protocol.Command {
	if m == ModeShake {
		return protocol.CmdShake
	}
	return protocol.CmdReaction
}

// ActiveState is the host/peer phase that runs the mode.
func (m Mode) ActiveState() State {
	if m == ModeShake {
		return StateShakeActive
	}
	return StateReactionActive
}

// Timing holds every phase duration. Zero values are never valid; use DefaultTiming.
type Timing struct {
	Idle              time.Duration `yaml:"idle"`
	JoinTimeout       time.Duration `yaml:"join_timeout"`
	JoinIdle          time.Duration `yaml:"join_idle"`
	JoinRetry         time.Duration `yaml:"join_retry"`
	CountdownInterval time.Duration `yaml:"countdown_interval"`
	ReactionTimeout   time.Duration `yaml:"reaction_timeout"`
	ShakeTimeout      time.Duration `yaml:"shake_timeout"`
	Results           time.Duration `yaml:"results"`
	Final             time.Duration `yaml:"final"`
}

// DefaultTiming mirrors the firmware constants.
func DefaultTiming() Timing {
	return Timing{
		Idle:              3 * time.Second,
		JoinTimeout:       30 * time.Second,
		JoinIdle:          5 * time.Second,
		JoinRetry:         time.Second,
		CountdownInterval: time.Second,
		ReactionTimeout:   10 * time.Second,
		ShakeTimeout:      30 * time.Second,
		Results:           5 * time.Second,
		Final:             10 * time.Second,
	}
}

// Validate rejects non-positive durations; a zero phase would let a machine
// cycle through states without time passing.
func (t Timing) Validate() error {
	for _, d := range []struct {
		name string
		d    time.Duration
	}{
		{"idle", t.Idle},
		{"join_timeout", t.JoinTimeout},
		{"join_idle", t.JoinIdle},
		{"join_retry", t.JoinRetry},
		{"countdown_interval", t.CountdownInterval},
		{"reaction_timeout", t.ReactionTimeout},
		{"shake_timeout", t.ShakeTimeout},
		{"results", t.Results},
		{"final", t.Final},
	} {
		if d.d <= 0 {
			return fmt.Errorf("timing %s must be positive, got %s", d.name, d.d)
		}
	}
	return nil
}

// Timeout returns the active-phase timeout for the mode.
func (t Timing) Timeout(m Mode) time.Duration {
	if m == ModeShake {
		return t.ShakeTimeout
	}
	return t.ReactionTimeout
}

const (
	DefaultRounds        = 5
	DefaultCountdownFrom = 3
)

// DefaultShakeTargets are the motion counts a shake round may ask for.
var DefaultShakeTargets = []int{10, 15, 20}
