package main

import (
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

const (
	botMinDelay = 180 * time.Millisecond
	botMaxDelay = 450 * time.Millisecond
)

// bot plays one peer. It watches the peer's screen for the go-signal, presses
// after a random reaction time and shakes steadily until it has reported.
// Every method runs on the peer node's loop.
type bot struct {
	clock clockwork.Clock
	rng   *rand.Rand

	armed bool
	goAt  time.Time
	delay time.Duration
}

func newBot(clock clockwork.Clock, seed uint64) *bot {
	return &bot{clock: clock, rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (b *bot) Sample() (bool, int) {
	if !b.armed {
		return false, 0
	}
	shakes := 0
	if b.rng.IntN(3) == 0 {
		shakes = 1
	}
	return b.clock.Since(b.goAt) >= b.delay, shakes
}

func (b *bot) ShowIdle()         { b.armed = false }
func (b *bot) ShowCountdown(int) { b.armed = false }

func (b *bot) ShowGo() {
	b.armed = true
	b.goAt = b.clock.Now()
	b.delay = botMinDelay + time.Duration(b.rng.Int64N(int64(botMaxDelay-botMinDelay)))
}

func (b *bot) ShowResults(game.ShowResults) {}
func (b *bot) ShowFinal(game.ShowFinal)     {}
func (b *bot) SetPlayerActive(int, bool)    {}

func (b *bot) Report(uint16) { b.armed = false }
