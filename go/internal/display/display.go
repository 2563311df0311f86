package display

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// ResultsGrace is how long after the host's timeout the display waits for
// reports before rendering what it has.
const ResultsGrace = time.Second

// JoinSettle is how long the display keeps listening once every player it
// knows of has reported. Without a fixed roster a missed REQUEST_JOIN would
// otherwise end the round before the unseen player's report arrives.
const JoinSettle = 500 * time.Millisecond

// Config describes the spectator display.
type Config struct {
	// Roster lists player slots shown from power-up; others appear when
	// they are overheard joining or reporting.
	Roster []int
	Timing game.Timing
}

// Display renders host broadcasts and overheard peer reports. It never
// transmits; its winner is advisory and the host's scoring is authoritative.
type Display struct {
	cfg    Config
	logger zerolog.Logger

	state   game.State
	entered time.Time
	mode    game.Mode
	round   int

	active  [game.MaxPlayers]bool
	results [game.MaxPlayers]game.PlayerResult
	wins    [game.MaxPlayers]int

	// settleAt is set while waiting for reports from players not seen joining.
	settleAt time.Time
}

func New(cfg Config, logger zerolog.Logger) *Display {
	d := &Display{
		cfg:    cfg,
		logger: logger.With().Str("machine", "display").Logger(),
		state:  game.StateIdle,
		mode:   game.ModeReaction,
	}
	d.resetRoster()
	return d
}

func (d *Display) State() game.State { return d.state }

// Wins returns the advisory per-player tally since the last IDLE.
func (d *Display) Wins() [game.MaxPlayers]int { return d.wins }

// Accepts keeps frames for the host or broadcast, so peer reports are overheard.
func (d *Display) Accepts(f protocol.Frame) bool {
	return protocol.Relevant(f.Dest, protocol.RoleHost)
}

// Start returns the effects that draw the initial screen.
func (d *Display) Start() []game.Effect {
	fx := []game.Effect{game.ShowIdle{}}
	for i, a := range d.active {
		fx = append(fx, game.SetPlayerActive{Player: i, Active: a})
	}
	return fx
}

func (d *Display) Step(now time.Time, in game.Input) []game.Effect {
	var fx []game.Effect
	if in.Frame != nil && d.Accepts(*in.Frame) {
		d.receive(now, *in.Frame, &fx)
	}

	if d.collecting() && !d.settleAt.IsZero() && !now.Before(d.settleAt) {
		d.showResults(now, &fx)
	}
	if d.state == game.StateGo && now.Sub(d.entered) >= d.cfg.Timing.Timeout(d.mode)+ResultsGrace {
		d.logger.Debug().Msg("reports missing, showing partial results")
		d.showResults(now, &fx)
	}
	return fx
}

func (d *Display) receive(now time.Time, f protocol.Frame, fx *[]game.Effect) {
	if f.Command.FromPeer() {
		d.overhear(now, f, fx)
		return
	}
	if f.Src != protocol.RoleHost {
		return
	}

	switch f.Command {
	case protocol.CmdIdle:
		d.state = game.StateIdle
		d.entered = now
		d.round = 0
		d.results = [game.MaxPlayers]game.PlayerResult{}
		d.wins = [game.MaxPlayers]int{}
		d.settleAt = time.Time{}
		d.resetRoster()
		*fx = append(*fx, d.Start()...)

	case protocol.CmdGameStart:
		d.mode = game.Mode(f.Hi)
		d.round++
		d.results = [game.MaxPlayers]game.PlayerResult{}
		d.settleAt = time.Time{}

	case protocol.CmdCountdown:
		if d.state != game.StateCountdown {
			d.results = [game.MaxPlayers]game.PlayerResult{}
		}
		d.state = game.StateCountdown
		d.entered = now
		*fx = append(*fx, game.ShowCountdown{N: int(f.Lo)})

	case protocol.CmdVibrate:
		if f.IsGo() && d.state != game.StateGo {
			d.state = game.StateGo
			d.entered = now
			*fx = append(*fx, game.ShowGo{})
		}
	}
}

func (d *Display) overhear(now time.Time, f protocol.Frame, fx *[]game.Effect) {
	i, ok := f.Src.Slot()
	if !ok {
		return
	}
	if !d.active[i] {
		d.active[i] = true
		*fx = append(*fx, game.SetPlayerActive{Player: i, Active: true})
	}
	if !f.Command.IsReport() {
		return
	}
	if !d.collecting() {
		return
	}
	if d.results[i].Finished {
		return
	}
	d.results[i] = game.PlayerResult{Active: true, Finished: true, Time: f.Payload()}
	d.logger.Debug().Stringer("peer", f.Src).Uint16("time_ms", f.Payload()).Msg("report overheard")

	for j, a := range d.active {
		if a && !d.results[j].Finished {
			return
		}
	}
	if len(d.cfg.Roster) == 0 {
		d.settleAt = now.Add(JoinSettle)
		return
	}
	d.showResults(now, fx)
}

func (d *Display) collecting() bool {
	return d.state == game.StateCountdown || d.state == game.StateGo
}

func (d *Display) showResults(now time.Time, fx *[]game.Effect) {
	players := d.results
	for i := range players {
		players[i].Active = d.active[i]
	}
	winner := game.Winner(players[:])
	if winner != game.NoWinner {
		d.wins[winner]++
	}
	d.state = game.StateResults
	d.entered = now
	d.settleAt = time.Time{}
	*fx = append(*fx, game.ShowResults{Round: d.round, Players: players, Winner: winner, Scores: d.wins})
}

func (d *Display) resetRoster() {
	d.active = [game.MaxPlayers]bool{}
	for _, i := range d.cfg.Roster {
		if i >= 0 && i < game.MaxPlayers {
			d.active[i] = true
		}
	}
}
