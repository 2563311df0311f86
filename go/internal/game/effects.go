package game

import (
	"time"

	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// Input is everything a machine sees on one step: at most one inbound frame
// and the sampled local input.
type Input struct {
	Frame *protocol.Frame

	// Pressed is the button level: start button on the host, reaction button on a peer.
	Pressed bool
	// PressedAt is when the button went down, if the input knows. It is
	// earlier than the step time when the press landed between steps.
	PressedAt time.Time
	// Shakes counts motion triggers since the previous step.
	Shakes int
}

// FrameInput wraps an inbound frame with the current input level.
func FrameInput(f protocol.Frame, pressed bool) Input {
	return Input{Frame: &f, Pressed: pressed}
}

// Effect is a side effect returned by a state machine step. The runtime
// dispatches effects in order; machines never call out themselves.
type Effect interface {
	isEffect()
}

// Send transmits a frame.
type Send struct {
	Frame protocol.Frame
}

// ShowIdle resets the presentation to its attract screen.
type ShowIdle struct{}

// ShowCountdown renders one countdown value.
type ShowCountdown struct {
	N int
}

// ShowGo renders the go-signal.
type ShowGo struct{}

// ShowResults renders one round's outcome.
type ShowResults struct {
	Round   int
	Players [MaxPlayers]PlayerResult
	Winner  int
	Scores  [MaxPlayers]int
}

// ShowFinal renders cumulative scores after the last round.
type ShowFinal struct {
	Scores    [MaxPlayers]int
	Champions []int
}

// SetPlayerActive shows or hides a player.
type SetPlayerActive struct {
	Player int
	Active bool
}

// PlaySound enqueues an audio clip.
type PlaySound struct {
	Sound Sound
}

// SetAmbient switches the LED ring animation.
type SetAmbient struct {
	Mode   AmbientMode
	Lights [MaxPlayers]Light
}

// Vibrate drives the peer's haptic motor.
type Vibrate struct {
	Duration time.Duration
}

// Reported records the result a peer sent for its round.
type Reported struct {
	Time uint16
}

// RoundCompleted is published to observers outside the radio network.
type RoundCompleted struct {
	Round   int
	Mode    Mode
	Players [MaxPlayers]PlayerResult
	Winner  int
	Scores  [MaxPlayers]int
}

// GameCompleted is published after the final round.
type GameCompleted struct {
	Rounds    int
	Scores    [MaxPlayers]int
	Champions []int
}

func (Send) isEffect()            {}
func (ShowIdle) isEffect()        {}
func (ShowCountdown) isEffect()   {}
func (ShowGo) isEffect()          {}
func (ShowResults) isEffect()     {}
func (ShowFinal) isEffect()       {}
func (SetPlayerActive) isEffect() {}
func (PlaySound) isEffect()       {}
func (SetAmbient) isEffect()      {}
func (Vibrate) isEffect()         {}
func (Reported) isEffect()        {}
func (RoundCompleted) isEffect()  {}
func (GameCompleted) isEffect()   {}

// Machine is a role state machine. Step must not block.
type Machine interface {
	Step(now time.Time, in Input) []Effect
	State() State
}
