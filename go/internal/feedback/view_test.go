package feedback

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pterm/pterm"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

func newTestBoard() *Board {
	b := NewBoard()
	b.now = func() time.Time { return t0 }
	return b
}

func TestBoardFlow(t *testing.T) {
	b := newTestBoard()
	b.SetPlayerActive(0, true)
	b.SetPlayerActive(1, true)
	b.SetPlayerActive(7, true)

	v := b.ShowCountdown(2)
	if v.Screen != ScreenCountdown || v.Countdown != 2 {
		t.Fatalf("countdown view = %+v", v)
	}

	b.ShowGo()
	players := [game.MaxPlayers]game.PlayerResult{
		{Active: true, Finished: true, Time: 180},
		{Active: true, Finished: true, Time: 240},
	}
	v = b.ShowResults(game.ShowResults{Round: 2, Players: players, Winner: 0, Scores: [game.MaxPlayers]int{2, 0}})

	want := View{
		Screen:    ScreenResults,
		Round:     2,
		Active:    [game.MaxPlayers]bool{true, true},
		Players:   players,
		Winner:    0,
		Scores:    [game.MaxPlayers]int{2, 0},
		UpdatedAt: t0,
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("results view (-want +got):\n%s", diff)
	}

	v = b.ShowIdle()
	if v.Screen != ScreenIdle || v.Round != 0 || v.Winner != game.NoWinner {
		t.Errorf("idle view = %+v", v)
	}
	if !v.Active[0] || !v.Active[1] {
		t.Errorf("idle dropped active players: %v", v.Active)
	}
}

func TestBoardViewIsCopy(t *testing.T) {
	b := newTestBoard()
	b.ShowFinal(game.ShowFinal{Scores: [game.MaxPlayers]int{3, 3}, Champions: []int{0, 1}})

	v := b.View()
	v.Champions[0] = 9
	if got := b.View().Champions; !cmp.Equal(got, []int{0, 1}) {
		t.Errorf("Champions mutated through copy: %v", got)
	}
}

func TestRender(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	tests := []struct {
		name string
		view View
		want []string
	}{
		{
			name: "idle",
			view: View{Screen: ScreenIdle, Winner: game.NoWinner},
			want: []string{"REACTION DUEL", "Waiting for the host"},
		},
		{
			name: "countdown",
			view: View{Screen: ScreenCountdown, Countdown: 3, Active: [game.MaxPlayers]bool{true, true}},
			want: []string{"3", "peer1", "peer2", "ready"},
		},
		{
			name: "results",
			view: View{
				Screen: ScreenResults,
				Round:  1,
				Active: [game.MaxPlayers]bool{true, true, true},
				Players: [game.MaxPlayers]game.PlayerResult{
					{Active: true, Finished: true, Time: 212},
					{Active: true, Finished: true, Time: 0xFFFF},
					{Active: true},
				},
				Winner: 0,
				Scores: [game.MaxPlayers]int{1},
			},
			want: []string{"ROUND 1", "peer1 wins!", "212 ms", "penalty", "no report", "wins: 1"},
		},
		{
			name: "tie",
			view: View{Screen: ScreenResults, Round: 4, Winner: game.NoWinner},
			want: []string{"No winner"},
		},
		{
			name: "final",
			view: View{Screen: ScreenFinal, Winner: game.NoWinner, Champions: []int{1, 3}},
			want: []string{"GAME OVER", "Champion: peer2, peer4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.view)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Render() missing %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestTerminalPresenterWritesFrames(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	p, err := NewTerminalPresenter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	p.SetPlayerActive(0, true)
	p.ShowGo()
	if !strings.Contains(buf.String(), "PRESS NOW") {
		t.Errorf("output missing go screen:\n%s", buf.String())
	}
}
