package node

import (
	"context"
	"time"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

// Presenter draws the game for people in the room.
type Presenter interface {
	ShowIdle()
	ShowCountdown(n int)
	ShowGo()
	ShowResults(r game.ShowResults)
	ShowFinal(f game.ShowFinal)
	SetPlayerActive(player int, active bool)
}

// AudioSink queues clips. Tick is called once per loop iteration.
type AudioSink interface {
	Enqueue(s game.Sound)
	Tick(now time.Time)
}

// AmbientSink drives the LED rings.
type AmbientSink interface {
	SetMode(mode game.AmbientMode, lights [game.MaxPlayers]game.Light)
	Tick(now time.Time)
}

type Haptic interface {
	Vibrate(d time.Duration)
}

// Publisher forwards round and game outcomes off the radio network.
type Publisher interface {
	RoundCompleted(ctx context.Context, r game.RoundCompleted) error
	GameCompleted(ctx context.Context, g game.GameCompleted) error
}

// Sinks are the outputs of one node. Nil sinks are skipped.
type Sinks struct {
	Presenter Presenter
	Audio     AudioSink
	Ambient   AmbientSink
	Haptic    Haptic
	Publisher Publisher
	// OnReport is called with every time a peer reports.
	OnReport func(ms uint16)
}

// Presenters fans presentation calls out to several presenters.
type Presenters []Presenter

func (ps Presenters) ShowIdle() {
	for _, p := range ps {
		p.ShowIdle()
	}
}

func (ps Presenters) ShowCountdown(n int) {
	for _, p := range ps {
		p.ShowCountdown(n)
	}
}

func (ps Presenters) ShowGo() {
	for _, p := range ps {
		p.ShowGo()
	}
}

func (ps Presenters) ShowResults(r game.ShowResults) {
	for _, p := range ps {
		p.ShowResults(r)
	}
}

func (ps Presenters) ShowFinal(f game.ShowFinal) {
	for _, p := range ps {
		p.ShowFinal(f)
	}
}

func (ps Presenters) SetPlayerActive(player int, active bool) {
	for _, p := range ps {
		p.SetPlayerActive(player, active)
	}
}
