package peer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// GoBuzz is the haptic pulse played when the go-signal starts a round.
const GoBuzz = 300 * time.Millisecond

// Config describes one handheld.
type Config struct {
	Self protocol.Role
	// Join makes the peer announce itself with REQUEST_JOIN until acknowledged.
	Join   bool
	Timing game.Timing
}

// Peer follows host broadcasts and measures one player's reaction.
// The only decisions it makes alone are the early-press and timeout penalties.
type Peer struct {
	cfg    Config
	logger zerolog.Logger

	state   game.State
	entered time.Time

	mode     game.Mode
	target   int
	shakes   int
	reported bool
	lastTime uint16

	joined    bool
	lastJoin  time.Time
	askedOnce bool
}

func New(cfg Config, logger zerolog.Logger) (*Peer, error) {
	if !cfg.Self.IsPeer() {
		return nil, fmt.Errorf("peer role must be peer1..peer4, got %v", cfg.Self)
	}
	return &Peer{
		cfg:    cfg,
		logger: logger.With().Str("machine", cfg.Self.String()).Logger(),
		state:  game.StateIdle,
		mode:   game.ModeReaction,
	}, nil
}

func (p *Peer) State() game.State { return p.state }

// LastTime is the most recent reported result, PenaltyTime included.
func (p *Peer) LastTime() uint16 { return p.lastTime }

func (p *Peer) Joined() bool { return p.joined }

func (p *Peer) Mode() game.Mode { return p.mode }

// Accepts keeps frames addressed to this peer or broadcast by the host.
func (p *Peer) Accepts(f protocol.Frame) bool {
	return protocol.Relevant(f.Dest, p.cfg.Self) && f.Src == protocol.RoleHost
}

// Step handles an inbound frame, then samples the button and shake input.
func (p *Peer) Step(now time.Time, in game.Input) []game.Effect {
	var fx []game.Effect
	if in.Frame != nil && p.Accepts(*in.Frame) {
		if p.receive(now, *in.Frame, in.Pressed, &fx) {
			return fx
		}
	}
	p.poll(now, in, &fx)
	return fx
}

// receive reports true when the frame started a round on this step.
func (p *Peer) receive(now time.Time, f protocol.Frame, pressed bool, fx *[]game.Effect) bool {
	switch f.Command {
	case protocol.CmdIdle:
		p.state = game.StateIdle
		p.entered = now
		p.reported = false
		if p.cfg.Join {
			p.joined = false
			p.askedOnce = false
		}
		*fx = append(*fx, game.ShowIdle{})

	case protocol.CmdAck:
		if f.Dest != p.cfg.Self {
			return false
		}
		if !p.joined {
			p.joined = true
			p.logger.Info().Msg("joined game")
			*fx = append(*fx, game.Vibrate{Duration: 100 * time.Millisecond})
		}

	case protocol.CmdGameStart:
		// Every round is announced, so a go-signal is honoured even when
		// all of its countdown frames were lost.
		if !p.state.Active() {
			p.reported = false
		}
		p.mode = game.Mode(f.Hi)
		if p.mode == game.ModeShake {
			p.target = int(f.Lo)
			if p.target == 0 {
				p.target = game.DefaultShakeTargets[0]
			}
		}
		p.logger.Debug().Stringer("mode", p.mode).Uint8("param", f.Lo).Msg("round announced")

	case protocol.CmdCountdown:
		if p.state.Active() {
			return false
		}
		p.state = game.StateCountdown
		p.entered = now
		p.reported = false
		*fx = append(*fx, game.ShowCountdown{N: int(f.Lo)})

	case protocol.CmdVibrate:
		if !f.IsGo() {
			*fx = append(*fx, game.Vibrate{Duration: time.Duration(f.Payload()) * 10 * time.Millisecond})
			return false
		}
		return p.start(now, pressed, fx)
	}
	return false
}

func (p *Peer) start(now time.Time, pressed bool, fx *[]game.Effect) bool {
	if p.state.Active() || p.reported {
		p.logger.Debug().Msg("repeated go-signal ignored")
		return false
	}

	if p.mode == game.ModeShake {
		p.state = game.StateShakeActive
		p.entered = now
		p.shakes = 0
		*fx = append(*fx, game.ShowGo{}, game.Vibrate{Duration: GoBuzz})
		return true
	}

	if pressed {
		p.logger.Info().Msg("early press, penalty")
		p.report(now, protocol.PenaltyTime, fx)
		return true
	}
	p.state = game.StateReactionActive
	p.entered = now
	*fx = append(*fx, game.ShowGo{}, game.Vibrate{Duration: GoBuzz})
	return true
}

func (p *Peer) poll(now time.Time, in game.Input, fx *[]game.Effect) {
	elapsed := now.Sub(p.entered)

	switch p.state {
	case game.StateIdle:
		if p.cfg.Join && !p.joined && (!p.askedOnce || now.Sub(p.lastJoin) >= p.cfg.Timing.JoinRetry) {
			p.askedOnce = true
			p.lastJoin = now
			*fx = append(*fx, game.Send{Frame: protocol.Encode(protocol.RoleHost, p.cfg.Self, protocol.CmdJoin, 0)})
		}

	case game.StateReactionActive:
		if in.Pressed {
			at := now
			if in.PressedAt.After(p.entered) && in.PressedAt.Before(now) {
				at = in.PressedAt
			}
			p.report(now, elapsedMillis(at.Sub(p.entered)), fx)
			return
		}
		if elapsed >= p.cfg.Timing.ReactionTimeout {
			p.logger.Info().Msg("no press before timeout, penalty")
			p.report(now, protocol.PenaltyTime, fx)
		}

	case game.StateShakeActive:
		p.shakes += in.Shakes
		if p.shakes >= p.target {
			p.report(now, elapsedMillis(elapsed), fx)
			return
		}
		if elapsed >= p.cfg.Timing.ShakeTimeout {
			p.logger.Info().Int("shakes", p.shakes).Int("target", p.target).Msg("shake timeout, penalty")
			p.report(now, protocol.PenaltyTime, fx)
		}
	}
}

// report sends the round's single status report and drops back to idle.
func (p *Peer) report(now time.Time, ms uint16, fx *[]game.Effect) {
	p.lastTime = ms
	p.reported = true
	p.state = game.StateIdle
	p.entered = now
	p.logger.Info().Uint16("time_ms", ms).Stringer("mode", p.mode).Msg("reporting result")
	*fx = append(*fx,
		game.Send{Frame: protocol.Encode(protocol.RoleHost, p.cfg.Self, p.mode.ReportCommand(), ms)},
		game.Reported{Time: ms},
	)
}

func elapsedMillis(d time.Duration) uint16 {
	ms := d.Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > protocol.MaxReportableTime {
		return protocol.MaxReportableTime
	}
	return uint16(ms)
}
