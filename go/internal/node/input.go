package node

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Input is sampled once per loop iteration.
type Input interface {
	// Sample returns the button level and the shakes counted since the last call.
	Sample() (pressed bool, shakes int)
}

// TimedInput also knows when the button went down, so a press that lands
// between two loop iterations keeps its own instant.
type TimedInput interface {
	Input
	SampleAt() (pressed bool, at time.Time, shakes int)
}

// Buttons is an Input fed from another goroutine, such as a terminal UI.
// Terminals report key presses without releases, so Tap holds the button
// down for exactly one sample. With a clock, presses are timestamped.
type Buttons struct {
	clock clockwork.Clock

	held   atomic.Bool
	tapped atomic.Bool
	downAt atomic.Int64
	shakes atomic.Int64
}

// NewButtons returns Buttons that stamp presses with clock.
func NewButtons(clock clockwork.Clock) *Buttons {
	return &Buttons{clock: clock}
}

func (b *Buttons) SetPressed(pressed bool) {
	if pressed && !b.held.Load() {
		b.stamp()
	}
	b.held.Store(pressed)
}

func (b *Buttons) Tap() {
	b.stamp()
	b.tapped.Store(true)
}

func (b *Buttons) Shake(n int) { b.shakes.Add(int64(n)) }

func (b *Buttons) Sample() (bool, int) {
	pressed, _, shakes := b.SampleAt()
	return pressed, shakes
}

func (b *Buttons) SampleAt() (bool, time.Time, int) {
	tapped := b.tapped.Swap(false)
	pressed := b.held.Load() || tapped

	var at time.Time
	if ns := b.downAt.Load(); pressed && ns != 0 {
		at = time.Unix(0, ns)
	}
	return pressed, at, int(b.shakes.Swap(0))
}

func (b *Buttons) stamp() {
	if b.clock != nil {
		b.downAt.Store(b.clock.Now().UnixNano())
	}
}

type noInput struct{}

func (noInput) Sample() (bool, int) { return false, 0 }
