package host

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// PlayerSlot is the host's authoritative record for one player.
type PlayerSlot struct {
	Joined       bool
	Finished     bool
	ReactionTime uint16
	Score        int
}

// maxTransitions bounds the state changes one Step may make, so a phase that
// ends immediately is finished on the next step instead of spinning.
const maxTransitions = 4

// Host orchestrates rounds. It is the only node that decides transitions;
// peers and the display follow its broadcasts.
type Host struct {
	cfg    Config
	logger zerolog.Logger

	booted  bool
	state   game.State
	entered time.Time
	pressed bool

	slots     [game.MaxPlayers]PlayerSlot
	round     int
	countdown int
	lastTick  time.Time
	lastJoin  time.Time
	hold      time.Duration
	target    int
}

// New validates cfg and returns a host that enters IDLE on its first step.
func New(cfg Config, logger zerolog.Logger) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Host{
		cfg:    cfg,
		logger: logger.With().Str("machine", "host").Logger(),
		state:  game.StateIdle,
	}, nil
}

func (h *Host) State() game.State { return h.state }

func (h *Host) Round() int { return h.round }

func (h *Host) Countdown() int { return h.countdown }

// Slot returns a copy of player slot i.
func (h *Host) Slot(i int) PlayerSlot { return h.slots[i] }

// Accepts keeps host-addressed and broadcast frames from other nodes.
func (h *Host) Accepts(f protocol.Frame) bool {
	return protocol.Relevant(f.Dest, protocol.RoleHost) && f.Src != protocol.RoleHost
}

// Step handles one inbound frame (if any), then advances phase timers.
// in.Pressed is the start button; a rising edge counts as one press.
func (h *Host) Step(now time.Time, in game.Input) []game.Effect {
	var fx []game.Effect
	if !h.booted {
		h.booted = true
		h.enter(now, game.StateIdle, &fx)
	}

	start := in.Pressed && !h.pressed
	h.pressed = in.Pressed

	if in.Frame != nil && h.Accepts(*in.Frame) {
		h.receive(now, *in.Frame, &fx)
	}

	for i := 0; i < maxTransitions; i++ {
		next, ok := h.advance(now, start, &fx)
		if !ok {
			break
		}
		start = false
		h.enter(now, next, &fx)
	}
	return fx
}

func (h *Host) advance(now time.Time, start bool, fx *[]game.Effect) (game.State, bool) {
	elapsed := now.Sub(h.entered)
	t := h.cfg.Timing

	switch h.state {
	case game.StateIdle:
		if start || elapsed >= t.Idle {
			if h.joinedCount() > 0 {
				return game.StateCountdown, true
			}
			return game.StateJoining, true
		}

	case game.StateJoining:
		if h.joinedCount() == 0 {
			if elapsed >= t.JoinTimeout {
				h.logger.Info().Msg("nobody joined, back to idle")
				return game.StateIdle, true
			}
			return 0, false
		}
		if start || now.Sub(h.lastJoin) >= t.JoinIdle {
			return game.StateCountdown, true
		}

	case game.StateCountdown:
		if now.Sub(h.lastTick) < t.CountdownInterval {
			return 0, false
		}
		h.countdown--
		if h.countdown <= 0 {
			return game.StateReactionWait, true
		}
		h.lastTick = now
		h.sendCountdown(fx)

	case game.StateReactionWait:
		if elapsed >= h.hold {
			return h.cfg.Mode.ActiveState(), true
		}

	case game.StateReactionActive, game.StateShakeActive:
		if h.allFinished() {
			return game.StateResults, true
		}
		if elapsed >= t.Timeout(h.cfg.Mode) {
			h.logger.Info().Int("round", h.round).Msg("round timed out")
			return game.StateResults, true
		}

	case game.StateResults:
		if elapsed >= t.Results {
			if h.round < h.cfg.Rounds {
				h.round++
				return game.StateCountdown, true
			}
			return game.StateFinal, true
		}

	case game.StateFinal:
		if start || elapsed >= t.Final {
			return game.StateIdle, true
		}
	}
	return 0, false
}

func (h *Host) enter(now time.Time, s game.State, fx *[]game.Effect) {
	h.logger.Info().Str("from", h.state.String()).Str("to", s.String()).Int("round", h.round).Msg("host transition")
	h.state = s
	h.entered = now

	switch s {
	case game.StateIdle:
		h.reset()
		h.broadcast(fx, protocol.CmdIdle, 0)
		*fx = append(*fx,
			game.ShowIdle{},
			game.PlaySound{Sound: game.SoundGetReady},
			game.SetAmbient{Mode: game.AmbientRainbow},
		)
		for i := range h.slots {
			*fx = append(*fx, game.SetPlayerActive{Player: i, Active: h.slots[i].Joined})
		}

	case game.StateJoining:
		h.lastJoin = now
		*fx = append(*fx,
			game.PlaySound{Sound: game.SoundPressToJoin},
			game.SetAmbient{Mode: game.AmbientStatus, Lights: h.joinLights()},
		)

	case game.StateCountdown:
		for i := range h.slots {
			h.slots[i].Finished = false
			h.slots[i].ReactionTime = 0
		}
		h.countdown = h.cfg.CountdownFrom
		h.lastTick = now
		param := uint16(h.round)
		if h.cfg.Mode == game.ModeShake {
			h.target = h.cfg.ShakeTargets[h.cfg.Intn(len(h.cfg.ShakeTargets))]
			param = uint16(h.target)
		}
		h.broadcast(fx, protocol.CmdGameStart, uint16(h.cfg.Mode)<<8|param&0xFF)
		if h.cfg.Mode == game.ModeShake {
			*fx = append(*fx, game.PlaySound{Sound: game.SoundShakeIt})
			if snd, ok := game.NumberSound(h.target); ok {
				*fx = append(*fx, game.PlaySound{Sound: snd})
			}
		}
		*fx = append(*fx, game.SetAmbient{Mode: game.AmbientCountdown})
		h.sendCountdown(fx)

	case game.StateReactionWait:
		h.hold = 0
		if n := len(h.cfg.ReactionDelays); n > 0 {
			h.hold = h.cfg.ReactionDelays[h.cfg.Intn(n)]
		}
		h.logger.Debug().Dur("hold", h.hold).Msg("holding go-signal")

	case game.StateReactionActive, game.StateShakeActive:
		h.broadcast(fx, protocol.CmdVibrate, protocol.VibrateGo)
		*fx = append(*fx,
			game.ShowGo{},
			game.PlaySound{Sound: game.SoundBeep},
			game.SetAmbient{Mode: game.AmbientGo},
		)

	case game.StateResults:
		h.results(fx)

	case game.StateFinal:
		scores := h.scores()
		champions := game.Champions(scores[:])
		h.logger.Info().Ints("scores", scores[:]).Ints("champions", champions).Msg("game over")
		*fx = append(*fx,
			game.ShowFinal{Scores: scores, Champions: champions},
			game.PlaySound{Sound: game.SoundGameOver},
			game.PlaySound{Sound: game.SoundVictory},
			game.SetAmbient{Mode: game.AmbientRainbow},
			game.GameCompleted{Rounds: h.round, Scores: scores, Champions: champions},
		)
	}
}

func (h *Host) results(fx *[]game.Effect) {
	players := h.playerResults()
	winner := game.Winner(players[:])
	if winner != game.NoWinner {
		h.slots[winner].Score++
	}
	scores := h.scores()

	ev := h.logger.Info().Int("round", h.round)
	for i, p := range players {
		if p.Active {
			ev = ev.Uint16(protocol.PeerRole(i).String(), p.Time).Bool(protocol.PeerRole(i).String()+"_finished", p.Finished)
		}
	}
	ev.Int("winner", winner).Msg("round results")

	*fx = append(*fx, game.ShowResults{Round: h.round, Players: players, Winner: winner, Scores: scores})
	if winner != game.NoWinner {
		snd, _ := game.NumberSound(winner + 1)
		*fx = append(*fx,
			game.PlaySound{Sound: game.SoundPlayer},
			game.PlaySound{Sound: snd},
			game.PlaySound{Sound: game.SoundWins},
		)
	} else {
		*fx = append(*fx, game.PlaySound{Sound: game.SoundError})
	}

	var lights [game.MaxPlayers]game.Light
	for i, p := range players {
		switch {
		case !p.Active:
			lights[i] = game.LightOff
		case !p.Finished:
			lights[i] = game.LightYellow
		case p.Penalized():
			lights[i] = game.LightRed
		default:
			lights[i] = game.LightGreen
		}
	}
	*fx = append(*fx,
		game.SetAmbient{Mode: game.AmbientStatus, Lights: lights},
		game.RoundCompleted{Round: h.round, Mode: h.cfg.Mode, Players: players, Winner: winner, Scores: scores},
	)
}

func (h *Host) receive(now time.Time, f protocol.Frame, fx *[]game.Effect) {
	switch f.Command {
	case protocol.CmdJoin:
		h.join(now, f.Src, fx)
	case protocol.CmdReaction, protocol.CmdShake:
		h.report(f)
	default:
		h.logger.Debug().Stringer("frame", f).Msg("ignoring frame")
	}
}

func (h *Host) join(now time.Time, src protocol.Role, fx *[]game.Effect) {
	i, ok := src.Slot()
	if !ok {
		return
	}
	slot := &h.slots[i]
	if !slot.Joined {
		if h.state != game.StateJoining {
			h.logger.Debug().Stringer("peer", src).Str("state", h.state.String()).Msg("join outside joining phase")
			return
		}
		slot.Joined = true
		h.lastJoin = now
		h.logger.Info().Stringer("peer", src).Int("players", h.joinedCount()).Msg("player joined")
		*fx = append(*fx,
			game.PlaySound{Sound: game.SoundJoined},
			game.SetPlayerActive{Player: i, Active: true},
			game.SetAmbient{Mode: game.AmbientStatus, Lights: h.joinLights()},
		)
	}
	*fx = append(*fx, game.Send{Frame: protocol.Encode(src, protocol.RoleHost, protocol.CmdAck, 0)})
}

// report stores the first result of the round for a joined peer.
func (h *Host) report(f protocol.Frame) {
	if !h.state.Active() || f.Command != h.cfg.Mode.ReportCommand() {
		h.logger.Debug().Stringer("frame", f).Str("state", h.state.String()).Msg("report outside active phase")
		return
	}
	i, ok := f.Src.Slot()
	if !ok || !h.slots[i].Joined {
		return
	}
	slot := &h.slots[i]
	if slot.Finished {
		h.logger.Debug().Stringer("peer", f.Src).Msg("duplicate report ignored")
		return
	}
	slot.Finished = true
	slot.ReactionTime = f.Payload()
	h.logger.Info().Stringer("peer", f.Src).Uint16("time_ms", slot.ReactionTime).Msg("report received")
}

func (h *Host) reset() {
	h.slots = [game.MaxPlayers]PlayerSlot{}
	for _, i := range h.cfg.Roster {
		h.slots[i].Joined = true
	}
	h.round = 1
	h.countdown = 0
}

func (h *Host) sendCountdown(fx *[]game.Effect) {
	h.broadcast(fx, protocol.CmdCountdown, uint16(h.countdown))
	*fx = append(*fx, game.ShowCountdown{N: h.countdown})
	if snd, ok := game.NumberSound(h.countdown); ok {
		*fx = append(*fx, game.PlaySound{Sound: snd})
	}
}

func (h *Host) broadcast(fx *[]game.Effect, cmd protocol.Command, payload uint16) {
	*fx = append(*fx, game.Send{Frame: protocol.Encode(protocol.RoleBroadcast, protocol.RoleHost, cmd, payload)})
}

func (h *Host) joinedCount() int {
	n := 0
	for _, s := range h.slots {
		if s.Joined {
			n++
		}
	}
	return n
}

func (h *Host) allFinished() bool {
	for _, s := range h.slots {
		if s.Joined && !s.Finished {
			return false
		}
	}
	return true
}

func (h *Host) playerResults() [game.MaxPlayers]game.PlayerResult {
	var out [game.MaxPlayers]game.PlayerResult
	for i, s := range h.slots {
		out[i] = game.PlayerResult{Active: s.Joined, Finished: s.Finished, Time: s.ReactionTime}
	}
	return out
}

func (h *Host) scores() [game.MaxPlayers]int {
	var out [game.MaxPlayers]int
	for i, s := range h.slots {
		out[i] = s.Score
	}
	return out
}

func (h *Host) joinLights() [game.MaxPlayers]game.Light {
	var out [game.MaxPlayers]game.Light
	for i, s := range h.slots {
		if s.Joined {
			out[i] = game.LightGreen
		} else {
			out[i] = game.LightRed
		}
	}
	return out
}
