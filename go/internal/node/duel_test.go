package node

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/display"
	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/host"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/peer"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

const tick = 10 * time.Millisecond

// duel wires a host, two peers and a display onto one simulated channel.
type duel struct {
	t       *testing.T
	clock   *clockwork.FakeClock
	air     *link.Air
	host    *host.Host
	peers   []*peer.Peer
	buttons []*Buttons
	nodes   []*Node
	screen  *sinkRecorder
	pub     *publishRecorder
	start   time.Time
}

func newDuel(t *testing.T) *duel {
	t.Helper()
	air, err := link.NewAir(0, 7)
	if err != nil {
		t.Fatal(err)
	}
	d := &duel{
		t:      t,
		clock:  clockwork.NewFakeClockAt(t0),
		air:    air,
		screen: &sinkRecorder{},
		pub:    &publishRecorder{},
		start:  t0,
	}
	logger := zerolog.Nop()

	hcfg := host.DefaultConfig()
	hcfg.Rounds = 1
	hcfg.Intn = func(int) int { return 0 }
	h, err := host.New(hcfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	d.host = h
	d.add(Config{Self: protocol.RoleHost}, h, "host", nil, Sinks{Publisher: d.pub})

	for i := 0; i < 2; i++ {
		role := protocol.PeerRole(i)
		p, err := peer.New(peer.Config{Self: role, Timing: game.DefaultTiming()}, logger)
		if err != nil {
			t.Fatal(err)
		}
		b := &Buttons{}
		d.peers = append(d.peers, p)
		d.buttons = append(d.buttons, b)
		d.add(Config{Self: role}, p, role.String(), b, Sinks{})
	}

	disp := display.New(display.Config{Roster: []int{0, 1}, Timing: game.DefaultTiming()}, logger)
	d.add(Config{Name: "display", Passive: true}, disp, "display", nil, Sinks{Presenter: d.screen})
	return d
}

func (d *duel) add(cfg Config, m Machine, name string, in Input, sinks Sinks) {
	d.t.Helper()
	cfg.Clock = d.clock
	n, err := New(cfg, m, d.air.Radio(name), in, sinks, zerolog.Nop())
	if err != nil {
		d.t.Fatal(err)
	}
	d.nodes = append(d.nodes, n)
}

// until steps every node once per tick until at is reached.
func (d *duel) until(at time.Duration) {
	ctx := context.Background()
	for d.clock.Now().Sub(d.start) < at {
		for _, n := range d.nodes {
			n.Step(ctx)
		}
		d.clock.Advance(tick)
	}
	for _, n := range d.nodes {
		n.Step(ctx)
	}
}

// press holds a peer's button at the given offset for one tick.
func (d *duel) press(player int, at time.Duration) {
	d.until(at - tick)
	d.clock.Advance(tick)
	d.buttons[player].SetPressed(true)
	for _, n := range d.nodes {
		n.Step(context.Background())
	}
	d.buttons[player].SetPressed(false)
}

// Idle lasts 3s and the countdown 3s, so the go-signal lands at 6s.
const goAt = 6 * time.Second

func TestDuelOverTheAir(t *testing.T) {
	d := newDuel(t)

	d.until(goAt)
	if got := d.host.State(); got != game.StateReactionActive {
		t.Fatalf("host state at go = %v", got)
	}
	for i, p := range d.peers {
		if p.State() != game.StateReactionActive {
			t.Fatalf("peer %d state at go = %v", i, p.State())
		}
	}
	if want := []int{3, 2, 1}; !cmp.Equal(want, d.screen.countdown) {
		t.Errorf("display countdown = %v, want %v", d.screen.countdown, want)
	}

	d.press(0, goAt+200*time.Millisecond)
	d.press(1, goAt+350*time.Millisecond)
	d.until(goAt + 400*time.Millisecond)

	if got := d.host.State(); got != game.StateResults {
		t.Fatalf("host state after reports = %v, want Results", got)
	}
	if len(d.pub.rounds) != 1 {
		t.Fatalf("published %d rounds, want 1", len(d.pub.rounds))
	}
	round := d.pub.rounds[0]
	if round.Winner != 0 || round.Players[0].Time != 200 || round.Players[1].Time != 350 {
		t.Errorf("round = %+v", round)
	}
	if d.host.Slot(0).Score != 1 {
		t.Errorf("peer1 score = %d, want 1", d.host.Slot(0).Score)
	}

	if len(d.screen.results) != 1 {
		t.Fatalf("display showed %d results, want 1", len(d.screen.results))
	}
	shown := d.screen.results[0]
	if shown.Winner != 0 || shown.Players[0].Time != 200 || shown.Players[1].Time != 350 {
		t.Errorf("display results = %+v", shown)
	}

	// Results 5s, then the single round ends in the final screen.
	d.until(goAt + 6*time.Second)
	if got := d.host.State(); got != game.StateFinal {
		t.Errorf("host state = %v, want Final", got)
	}
	if len(d.pub.games) != 1 || d.pub.games[0].Scores[0] != 1 {
		t.Errorf("games = %+v", d.pub.games)
	}
}

func TestDuelLostGoSignal(t *testing.T) {
	d := newDuel(t)
	d.air.SetFilter(func(from, to *link.SimRadio, data []byte) bool {
		return !(from.Name() == "host" && to.Name() == "peer2" && data[3] == byte(protocol.CmdVibrate))
	})

	d.until(goAt)
	if got := d.peers[1].State(); got == game.StateReactionActive {
		t.Fatal("peer2 started without the go-signal")
	}
	d.press(0, goAt+180*time.Millisecond)
	d.press(1, goAt+250*time.Millisecond)

	// The host waits out the reaction timeout for the missing report.
	d.until(goAt + 9*time.Second)
	if got := d.host.State(); got != game.StateReactionActive {
		t.Fatalf("host state before timeout = %v", got)
	}
	d.until(goAt + 10*time.Second)
	if len(d.pub.rounds) != 1 {
		t.Fatalf("published %d rounds, want 1", len(d.pub.rounds))
	}
	round := d.pub.rounds[0]
	if round.Winner != 0 || !round.Players[0].Finished || round.Players[1].Finished {
		t.Errorf("round = %+v", round)
	}

	// The display gives up one second after the host's timeout.
	if len(d.screen.results) != 0 {
		t.Fatalf("display showed results early: %+v", d.screen.results)
	}
	d.until(goAt + 11*time.Second)
	if len(d.screen.results) != 1 {
		t.Fatalf("display showed %d results, want 1", len(d.screen.results))
	}
	if got := d.screen.results[0]; got.Winner != 0 || got.Players[1].Finished {
		t.Errorf("display results = %+v", got)
	}
}
