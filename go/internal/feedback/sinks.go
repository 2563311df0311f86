package feedback

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

// LogPresenter writes presentation calls to the log. Useful on headless nodes.
type LogPresenter struct {
	Logger zerolog.Logger
}

func (p LogPresenter) ShowIdle() { p.Logger.Info().Msg("screen: idle") }

func (p LogPresenter) ShowCountdown(n int) { p.Logger.Info().Int("n", n).Msg("screen: countdown") }

func (p LogPresenter) ShowGo() { p.Logger.Info().Msg("screen: go") }

func (p LogPresenter) ShowResults(r game.ShowResults) {
	ev := p.Logger.Info().Int("round", r.Round).Int("winner", r.Winner)
	for i, pr := range r.Players {
		if pr.Active {
			ev = ev.Interface("player"+string(rune('1'+i)), pr)
		}
	}
	ev.Msg("screen: results")
}

func (p LogPresenter) ShowFinal(f game.ShowFinal) {
	p.Logger.Info().Ints("scores", f.Scores[:]).Ints("champions", f.Champions).Msg("screen: final")
}

func (p LogPresenter) SetPlayerActive(player int, active bool) {
	p.Logger.Debug().Int("player", player).Bool("active", active).Msg("player visibility")
}

// LogHaptic stands in for the vibration motor.
type LogHaptic struct {
	Logger zerolog.Logger
}

func (h LogHaptic) Vibrate(d time.Duration) {
	h.Logger.Info().Dur("duration", d).Msg("vibrate")
}

// LogStrip logs LED frames when the lit pattern changes.
type LogStrip struct {
	Logger zerolog.Logger
	last   [RingCount]Color
}

func (s *LogStrip) Show(pixels []Color) {
	var rings [RingCount]Color
	for i := range rings {
		if i*PixelsPerRing < len(pixels) {
			rings[i] = pixels[i*PixelsPerRing]
		}
	}
	if rings == s.last {
		return
	}
	s.last = rings
	ev := s.Logger.Trace()
	for i, c := range rings {
		ev = ev.Hex("ring"+string(rune('0'+i)), []byte{byte(c >> 16), byte(c >> 8), byte(c)})
	}
	ev.Msg("led rings")
}
