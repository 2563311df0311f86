package feedback

import (
	"sync"
	"time"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

// Screen names the view a presenter is showing.
type Screen string

const (
	ScreenIdle      Screen = "idle"
	ScreenCountdown Screen = "countdown"
	ScreenGo        Screen = "go"
	ScreenResults   Screen = "results"
	ScreenFinal     Screen = "final"
)

// View is a snapshot of everything a spectator screen shows.
type View struct {
	Screen    Screen                             `json:"screen"`
	Countdown int                                `json:"countdown,omitempty"`
	Round     int                                `json:"round,omitempty"`
	Active    [game.MaxPlayers]bool              `json:"active"`
	Players   [game.MaxPlayers]game.PlayerResult `json:"players"`
	Winner    int                                `json:"winner"`
	Scores    [game.MaxPlayers]int               `json:"scores"`
	Champions []int                              `json:"champions,omitempty"`
	UpdatedAt time.Time                          `json:"updated_at"`
}

// Board folds presentation calls into a View. It is safe for concurrent use.
type Board struct {
	mu   sync.RWMutex
	view View
	now  func() time.Time
}

func NewBoard() *Board {
	return &Board{view: View{Screen: ScreenIdle, Winner: game.NoWinner}, now: time.Now}
}

// View returns a copy of the current snapshot.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v := b.view
	v.Champions = append([]int(nil), b.view.Champions...)
	return v
}

func (b *Board) update(fn func(v *View)) View {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.view)
	b.view.UpdatedAt = b.now()
	v := b.view
	v.Champions = append([]int(nil), b.view.Champions...)
	return v
}

func (b *Board) ShowIdle() View {
	return b.update(func(v *View) {
		*v = View{Screen: ScreenIdle, Active: v.Active, Winner: game.NoWinner}
	})
}

func (b *Board) ShowCountdown(n int) View {
	return b.update(func(v *View) {
		v.Screen = ScreenCountdown
		v.Countdown = n
	})
}

func (b *Board) ShowGo() View {
	return b.update(func(v *View) {
		v.Screen = ScreenGo
		v.Countdown = 0
		v.Players = [game.MaxPlayers]game.PlayerResult{}
	})
}

func (b *Board) ShowResults(r game.ShowResults) View {
	return b.update(func(v *View) {
		v.Screen = ScreenResults
		v.Round = r.Round
		v.Players = r.Players
		v.Winner = r.Winner
		v.Scores = r.Scores
	})
}

func (b *Board) ShowFinal(f game.ShowFinal) View {
	return b.update(func(v *View) {
		v.Screen = ScreenFinal
		v.Scores = f.Scores
		v.Champions = append([]int(nil), f.Champions...)
	})
}

func (b *Board) SetPlayerActive(player int, active bool) View {
	return b.update(func(v *View) {
		if player >= 0 && player < game.MaxPlayers {
			v.Active[player] = active
		}
	})
}
