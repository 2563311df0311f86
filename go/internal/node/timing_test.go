package node

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/peer"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

type timedPeer struct {
	node    *Node
	radio   *fakeRadio
	buttons *Buttons
}

func newTimedPeer(t *testing.T, clock *clockwork.FakeClock, role protocol.Role) timedPeer {
	t.Helper()
	p, err := peer.New(peer.Config{Self: role, Timing: game.DefaultTiming()}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	tp := timedPeer{radio: &fakeRadio{}, buttons: NewButtons(clock)}
	tp.node, err = New(Config{Self: role, Tick: 10 * time.Millisecond, Clock: clock}, p, tp.radio, tp.buttons, Sinks{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return tp
}

// reported decodes the single report a peer sent.
func (tp timedPeer) reported(t *testing.T) uint16 {
	t.Helper()
	if len(tp.radio.tx) != 1 {
		t.Fatalf("sent %d frames, want one report", len(tp.radio.tx))
	}
	f, err := protocol.Decode(tp.radio.tx[0])
	if err != nil {
		t.Fatal(err)
	}
	return f.Payload()
}

func TestReactionTimedBetweenTicks(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	a := newTimedPeer(t, clock, protocol.RolePeer1)
	b := newTimedPeer(t, clock, protocol.RolePeer2)
	ctx := context.Background()
	step := func() {
		a.node.Step(ctx)
		b.node.Step(ctx)
	}

	step()
	clock.Advance(time.Millisecond)
	goSignal := protocol.Encode(protocol.RoleBroadcast, protocol.RoleHost, protocol.CmdVibrate, protocol.VibrateGo).Bytes()
	a.radio.deliver(goSignal)
	b.radio.deliver(goSignal)

	// Ticks land on 10 ms boundaries; the presses do not.
	clock.Advance(9 * time.Millisecond)
	step()
	clock.Advance(171 * time.Millisecond)
	a.buttons.Tap()
	clock.Advance(8 * time.Millisecond)
	b.buttons.Tap()
	clock.Advance(time.Millisecond)
	step()

	ta, tb := a.reported(t), b.reported(t)
	if ta != 180 || tb != 188 {
		t.Errorf("reported %d ms and %d ms, want 180 and 188", ta, tb)
	}
	results := []game.PlayerResult{
		{Active: true, Finished: true, Time: ta},
		{Active: true, Finished: true, Time: tb},
	}
	if w := game.Winner(results); w != 0 {
		t.Errorf("winner = %d, want 0", w)
	}
}

func TestPressAfterGoInSameTick(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	p := newTimedPeer(t, clock, protocol.RolePeer1)
	ctx := context.Background()

	p.node.Step(ctx)
	clock.Advance(time.Millisecond)
	p.radio.deliver(protocol.Encode(protocol.RoleBroadcast, protocol.RoleHost, protocol.CmdVibrate, protocol.VibrateGo).Bytes())
	clock.Advance(4 * time.Millisecond)
	p.buttons.Tap()
	clock.Advance(5 * time.Millisecond)
	p.node.Step(ctx)

	if got := p.reported(t); got != 4 {
		t.Errorf("reported %d ms, want 4 (not an early-press penalty)", got)
	}
}

func TestPressBeforeGoInSameTick(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	p := newTimedPeer(t, clock, protocol.RolePeer1)
	ctx := context.Background()

	p.node.Step(ctx)
	clock.Advance(2 * time.Millisecond)
	p.buttons.Tap()
	clock.Advance(time.Millisecond)
	p.radio.deliver(protocol.Encode(protocol.RoleBroadcast, protocol.RoleHost, protocol.CmdVibrate, protocol.VibrateGo).Bytes())
	clock.Advance(7 * time.Millisecond)
	p.node.Step(ctx)

	if got := p.reported(t); got != protocol.PenaltyTime {
		t.Errorf("reported %d ms, want the early-press penalty", got)
	}
}
