package display

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newDisplay(roster ...int) *Display {
	return New(Config{Roster: roster, Timing: game.DefaultTiming()}, zerolog.Nop())
}

func host(cmd protocol.Command, payload uint16) game.Input {
	return game.FrameInput(protocol.Encode(protocol.RoleBroadcast, protocol.RoleHost, cmd, payload), false)
}

func report(peer protocol.Role, ms uint16) game.Input {
	return game.FrameInput(protocol.Encode(protocol.RoleHost, peer, protocol.CmdReaction, ms), false)
}

func find[T game.Effect](fx []game.Effect) (T, bool) {
	for _, e := range fx {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func toGo(d *Display, at time.Time) {
	d.Step(at, host(protocol.CmdGameStart, uint16(game.ModeReaction)<<8|1))
	d.Step(at, host(protocol.CmdCountdown, 3))
	d.Step(at.Add(time.Second), host(protocol.CmdCountdown, 2))
	d.Step(at.Add(2*time.Second), host(protocol.CmdCountdown, 1))
	d.Step(at.Add(3*time.Second), host(protocol.CmdVibrate, protocol.VibrateGo))
}

func TestDisplayFollowsHost(t *testing.T) {
	d := newDisplay(0, 1)

	fx := d.Step(t0, host(protocol.CmdCountdown, 3))
	if diff := cmp.Diff([]game.Effect{game.ShowCountdown{N: 3}}, fx); diff != "" {
		t.Errorf("countdown effects (-want +got):\n%s", diff)
	}
	fx = d.Step(t0.Add(3*time.Second), host(protocol.CmdVibrate, protocol.VibrateGo))
	if diff := cmp.Diff([]game.Effect{game.ShowGo{}}, fx); diff != "" {
		t.Errorf("go effects (-want +got):\n%s", diff)
	}
	if d.State() != game.StateGo {
		t.Errorf("state = %v, want GO", d.State())
	}
	if fx := d.Step(t0.Add(3*time.Second), host(protocol.CmdVibrate, 30)); len(fx) != 0 {
		t.Errorf("plain vibration produced %v", fx)
	}
}

func TestDisplayResults(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint16
		winner int
	}{
		{"fastest wins", 180, 250, 0},
		{"penalty loses", protocol.PenaltyTime, 220, 1},
		{"all penalized", protocol.PenaltyTime, protocol.PenaltyTime, game.NoWinner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDisplay(0, 1)
			toGo(d, t0)
			goAt := t0.Add(3 * time.Second)

			if fx := d.Step(goAt.Add(300*time.Millisecond), report(protocol.RolePeer1, tt.a)); len(fx) != 0 {
				t.Fatalf("first report produced %v", fx)
			}
			fx := d.Step(goAt.Add(400*time.Millisecond), report(protocol.RolePeer2, tt.b))
			res, ok := find[game.ShowResults](fx)
			if !ok {
				t.Fatal("expected ShowResults")
			}
			if res.Winner != tt.winner {
				t.Errorf("winner = %d, want %d", res.Winner, tt.winner)
			}
			if res.Players[0].Time != tt.a || res.Players[1].Time != tt.b {
				t.Errorf("times = %d %d", res.Players[0].Time, res.Players[1].Time)
			}
			if d.State() != game.StateResults {
				t.Errorf("state = %v, want RESULTS", d.State())
			}
		})
	}
}

func TestDisplayPartialResults(t *testing.T) {
	d := newDisplay(0, 1)
	toGo(d, t0)
	goAt := t0.Add(3 * time.Second)

	d.Step(goAt.Add(time.Second), report(protocol.RolePeer2, 300))
	if fx := d.Step(goAt.Add(10*time.Second), game.Input{}); len(fx) != 0 {
		t.Fatalf("results shown before grace: %v", fx)
	}
	fx := d.Step(goAt.Add(11*time.Second), game.Input{})
	res, ok := find[game.ShowResults](fx)
	if !ok {
		t.Fatal("expected ShowResults after the grace period")
	}
	if res.Winner != 1 || res.Players[0].Finished {
		t.Errorf("results = %+v", res)
	}
}

func TestDisplayIgnoresDuplicatesAndStrays(t *testing.T) {
	d := newDisplay(0, 1)
	toGo(d, t0)
	goAt := t0.Add(3 * time.Second)

	d.Step(goAt.Add(200*time.Millisecond), report(protocol.RolePeer1, 200))
	d.Step(goAt.Add(210*time.Millisecond), report(protocol.RolePeer1, 100))
	d.Step(goAt.Add(220*time.Millisecond), game.FrameInput(protocol.Encode(protocol.RolePeer2, protocol.RolePeer1, protocol.CmdReaction, 5), false))
	fx := d.Step(goAt.Add(300*time.Millisecond), report(protocol.RolePeer2, 250))

	res, _ := find[game.ShowResults](fx)
	if res.Players[0].Time != 200 {
		t.Errorf("player 1 time = %d, want first report 200", res.Players[0].Time)
	}
}

func TestDisplayLearnsPlayers(t *testing.T) {
	d := newDisplay()
	if diff := cmp.Diff([]game.Effect{
		game.ShowIdle{},
		game.SetPlayerActive{Player: 0}, game.SetPlayerActive{Player: 1},
		game.SetPlayerActive{Player: 2}, game.SetPlayerActive{Player: 3},
	}, d.Start()); diff != "" {
		t.Errorf("start effects (-want +got):\n%s", diff)
	}

	join := game.FrameInput(protocol.Encode(protocol.RoleHost, protocol.RolePeer3, protocol.CmdJoin, 0), false)
	fx := d.Step(t0, join)
	if diff := cmp.Diff([]game.Effect{game.SetPlayerActive{Player: 2, Active: true}}, fx); diff != "" {
		t.Errorf("join effects (-want +got):\n%s", diff)
	}

	toGo(d, t0.Add(time.Second))
	if fx := d.Step(t0.Add(5*time.Second), report(protocol.RolePeer3, 333)); len(fx) != 0 {
		t.Fatalf("results shown before settling: %v", fx)
	}
	fx = d.Step(t0.Add(5*time.Second+JoinSettle), game.Input{})
	res, ok := find[game.ShowResults](fx)
	if !ok || res.Winner != 2 {
		t.Errorf("results = %+v, want peer3 winning alone", res)
	}
	if d.Wins()[2] != 1 {
		t.Errorf("wins = %v", d.Wins())
	}

	d.Step(t0.Add(20*time.Second), host(protocol.CmdIdle, 0))
	if d.Wins()[2] != 0 || d.State() != game.StateIdle {
		t.Errorf("IDLE should clear the tally, wins %v state %v", d.Wins(), d.State())
	}
}

func TestDisplayWaitsForUnseenJoiner(t *testing.T) {
	d := newDisplay()
	// peer1's REQUEST_JOIN was heard, peer2's was lost.
	d.Step(t0, game.FrameInput(protocol.Encode(protocol.RoleHost, protocol.RolePeer1, protocol.CmdJoin, 0), false))

	toGo(d, t0.Add(time.Second))
	goAt := t0.Add(4 * time.Second)
	if fx := d.Step(goAt.Add(200*time.Millisecond), report(protocol.RolePeer1, 200)); len(fx) != 0 {
		t.Fatalf("first report ended the round: %v", fx)
	}
	d.Step(goAt.Add(500*time.Millisecond), report(protocol.RolePeer2, 150))

	if fx := d.Step(goAt.Add(600*time.Millisecond), game.Input{}); len(fx) != 0 {
		t.Fatalf("results shown while settling: %v", fx)
	}
	fx := d.Step(goAt.Add(500*time.Millisecond+JoinSettle), game.Input{})
	res, ok := find[game.ShowResults](fx)
	if !ok {
		t.Fatal("expected ShowResults once settled")
	}
	if res.Winner != 1 || res.Players[0].Time != 200 || res.Players[1].Time != 150 {
		t.Errorf("results = %+v, want both players with peer2 winning", res)
	}
}
