package link

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Air is an in-process radio channel. It delivers each transmission
// synchronously to every other listening radio, dropping a seeded random
// percentage of deliveries.
type Air struct {
	mu      sync.Mutex
	radios  []*SimRadio
	dropPct int
	rng     *rand.Rand
	filter  func(from, to *SimRadio, data []byte) bool
}

// NewAir creates a channel that loses dropPct percent (0..100) of deliveries.
func NewAir(dropPct int, seed uint64) (*Air, error) {
	if dropPct < 0 || dropPct > 100 {
		return nil, fmt.Errorf("drop percentage out of range: %d", dropPct)
	}
	return &Air{
		dropPct: dropPct,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}, nil
}

// SetFilter installs a delivery predicate; returning false drops that delivery.
func (a *Air) SetFilter(fn func(from, to *SimRadio, data []byte) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filter = fn
}

// Radio attaches a new radio to the channel.
func (a *Air) Radio(name string) *SimRadio {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := &SimRadio{air: a, name: name}
	a.radios = append(a.radios, r)
	return r
}

func (a *Air) deliver(from *SimRadio, data []byte) {
	type target struct {
		radio *SimRadio
		fn    func([]byte)
	}

	a.mu.Lock()
	var targets []target
	for _, r := range a.radios {
		if r == from {
			continue
		}
		fn := r.listener()
		if fn == nil {
			continue
		}
		if a.dropPct > 0 && a.rng.IntN(100) < a.dropPct {
			continue
		}
		if a.filter != nil && !a.filter(from, r, data) {
			continue
		}
		targets = append(targets, target{radio: r, fn: fn})
	}
	a.mu.Unlock()

	for _, t := range targets {
		frame := make([]byte, len(data))
		copy(frame, data)
		t.fn(frame)
	}
}

// SimRadio is one node's attachment to an Air.
type SimRadio struct {
	air  *Air
	name string

	mu     sync.Mutex
	fn     func([]byte)
	closed bool
	txLog  [][]byte
}

func (r *SimRadio) Name() string { return r.name }

func (r *SimRadio) Tx(data []byte) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	r.txLog = append(r.txLog, frame)
	r.mu.Unlock()

	r.air.deliver(r, frame)
	return nil
}

func (r *SimRadio) Listen(fn func(data []byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.fn = fn
	return nil
}

func (r *SimRadio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.fn = nil
	return nil
}

// TxLog returns a copy of every frame this radio transmitted.
func (r *SimRadio) TxLog() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.txLog))
	for i, f := range r.txLog {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

func (r *SimRadio) listener() func([]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fn
}
