package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

const (
	// DefaultInboxSize matches the firmware receive queue.
	DefaultInboxSize = 8
	// DefaultTick is the firmware loop period. Frames and presses carry
	// their own instants, so the tick only bounds timer resolution.
	DefaultTick = time.Millisecond
)

// Machine is a role state machine that can filter inbound frames.
type Machine interface {
	game.Machine
	Accepts(f protocol.Frame) bool
}

// starter is implemented by machines that draw something before the first step.
type starter interface {
	Start() []game.Effect
}

type Config struct {
	Name string
	// Self is the node's own role. Frames claiming to come from it are dropped.
	Self protocol.Role
	// Passive nodes only listen; Send effects are discarded.
	Passive bool

	Tick      time.Duration
	InboxSize int
	Clock     clockwork.Clock
}

func (c *Config) validate() {
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	if c.InboxSize <= 0 {
		c.InboxSize = DefaultInboxSize
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Name == "" {
		c.Name = c.Self.String()
	}
}

// arrival is a queued frame and the instant the radio delivered it.
type arrival struct {
	frame protocol.Frame
	at    time.Time
}

// Stats counts frames seen by a node.
type Stats struct {
	Received uint64 `json:"received"`
	Rejected uint64 `json:"rejected"`
	Ignored  uint64 `json:"ignored"`
	Overflow uint64 `json:"overflow"`
	Sent     uint64 `json:"sent"`
	TxErrors uint64 `json:"tx_errors"`
}

// Node runs one machine against a radio. The radio callback only decodes and
// queues frames; the machine and every sink run on the node's own loop.
type Node struct {
	id      uuid.UUID
	cfg     Config
	machine Machine
	radio   link.Radio
	input   Input
	sinks   Sinks
	logger  zerolog.Logger

	inbox   chan arrival
	started bool
	last    time.Time

	received, rejected, ignored, overflow, sent, txErrors atomic.Uint64

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(cfg Config, m Machine, radio link.Radio, input Input, sinks Sinks, logger zerolog.Logger) (*Node, error) {
	if m == nil {
		return nil, errors.New("node: machine is required")
	}
	if radio == nil {
		return nil, errors.New("node: radio is required")
	}
	cfg.validate()
	if input == nil {
		input = noInput{}
	}

	id := uuid.New()
	n := &Node{
		id:       id,
		cfg:      cfg,
		machine:  m,
		radio:    radio,
		input:    input,
		sinks:    sinks,
		logger:   logger.With().Str("node", cfg.Name).Str("instance", id.String()).Logger(),
		inbox:    make(chan arrival, cfg.InboxSize),
		stopChan: make(chan struct{}),
	}
	if err := radio.Listen(n.onReceive); err != nil {
		return nil, fmt.Errorf("listen on radio: %w", err)
	}
	return n, nil
}

func (n *Node) ID() uuid.UUID { return n.id }

func (n *Node) Machine() Machine { return n.machine }

func (n *Node) Stats() Stats {
	return Stats{
		Received: n.received.Load(),
		Rejected: n.rejected.Load(),
		Ignored:  n.ignored.Load(),
		Overflow: n.overflow.Load(),
		Sent:     n.sent.Load(),
		TxErrors: n.txErrors.Load(),
	}
}

// onReceive runs on the radio's goroutine and must not block.
func (n *Node) onReceive(data []byte) {
	f, err := protocol.Decode(data)
	if err != nil {
		n.rejected.Add(1)
		n.logger.Debug().Err(err).Hex("data", data).Msg("dropping bad frame")
		return
	}
	if !n.cfg.Passive && f.Src == n.cfg.Self {
		n.ignored.Add(1)
		return
	}
	if !n.machine.Accepts(f) {
		n.ignored.Add(1)
		return
	}

	select {
	case n.inbox <- arrival{frame: f, at: n.cfg.Clock.Now()}:
		n.received.Add(1)
	default:
		n.overflow.Add(1)
		n.logger.Warn().Stringer("frame", f).Msg("inbox full, dropping frame")
	}
}

// Step runs one loop iteration: sinks, queued frames, then the phase timers.
func (n *Node) Step(ctx context.Context) {
	now := n.cfg.Clock.Now()
	if !n.started {
		n.started = true
		if s, ok := n.machine.(starter); ok {
			n.apply(ctx, s.Start())
		}
	}

	if n.sinks.Audio != nil {
		n.sinks.Audio.Tick(now)
	}
	if n.sinks.Ambient != nil {
		n.sinks.Ambient.Tick(now)
	}

	in := n.sample()

drain:
	for i := 0; i < cap(n.inbox); i++ {
		select {
		case a := <-n.inbox:
			at := a.at
			if at.Before(n.last) {
				at = n.last
			}
			if at.After(now) {
				at = now
			}
			// A press stamped after the frame arrived did not happen yet.
			pressed := in.Pressed && !in.PressedAt.After(at)
			n.logger.Trace().Stringer("frame", a.frame).Msg("rx")
			n.apply(ctx, n.machine.Step(at, game.FrameInput(a.frame, pressed)))
		default:
			break drain
		}
	}

	n.apply(ctx, n.machine.Step(now, in))
	n.last = now
}

func (n *Node) sample() game.Input {
	if ti, ok := n.input.(TimedInput); ok {
		pressed, at, shakes := ti.SampleAt()
		return game.Input{Pressed: pressed, PressedAt: at, Shakes: shakes}
	}
	pressed, shakes := n.input.Sample()
	return game.Input{Pressed: pressed, Shakes: shakes}
}

func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return fmt.Errorf("node %s already running", n.cfg.Name)
	}
	n.running = true
	n.mu.Unlock()

	n.wg.Add(1)
	go n.run(ctx)

	n.logger.Info().
		Dur("tick", n.cfg.Tick).
		Int("inbox", n.cfg.InboxSize).
		Msg("node started")
	return nil
}

func (n *Node) Stop() error {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return fmt.Errorf("node %s not running", n.cfg.Name)
	}
	n.running = false
	n.mu.Unlock()

	close(n.stopChan)
	n.wg.Wait()

	st := n.Stats()
	n.logger.Info().
		Uint64("received", st.Received).
		Uint64("sent", st.Sent).
		Uint64("overflow", st.Overflow).
		Msg("node stopped")
	return nil
}

func (n *Node) run(ctx context.Context) {
	defer n.wg.Done()

	ticker := n.cfg.Clock.NewTicker(n.cfg.Tick)
	defer ticker.Stop()

	n.Step(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.stopChan:
			return
		case <-ticker.Chan():
			n.Step(ctx)
		}
	}
}

func (n *Node) apply(ctx context.Context, fx []game.Effect) {
	for _, e := range fx {
		switch e := e.(type) {
		case game.Send:
			n.send(e.Frame)
		case game.ShowIdle:
			if p := n.sinks.Presenter; p != nil {
				p.ShowIdle()
			}
		case game.ShowCountdown:
			if p := n.sinks.Presenter; p != nil {
				p.ShowCountdown(e.N)
			}
		case game.ShowGo:
			if p := n.sinks.Presenter; p != nil {
				p.ShowGo()
			}
		case game.ShowResults:
			if p := n.sinks.Presenter; p != nil {
				p.ShowResults(e)
			}
		case game.ShowFinal:
			if p := n.sinks.Presenter; p != nil {
				p.ShowFinal(e)
			}
		case game.SetPlayerActive:
			if p := n.sinks.Presenter; p != nil {
				p.SetPlayerActive(e.Player, e.Active)
			}
		case game.PlaySound:
			if a := n.sinks.Audio; a != nil {
				a.Enqueue(e.Sound)
			}
		case game.SetAmbient:
			if a := n.sinks.Ambient; a != nil {
				a.SetMode(e.Mode, e.Lights)
			}
		case game.Vibrate:
			if h := n.sinks.Haptic; h != nil {
				h.Vibrate(e.Duration)
			}
		case game.Reported:
			if n.sinks.OnReport != nil {
				n.sinks.OnReport(e.Time)
			}
		case game.RoundCompleted:
			if p := n.sinks.Publisher; p != nil {
				if err := p.RoundCompleted(ctx, e); err != nil {
					n.logger.Error().Err(err).Int("round", e.Round).Msg("failed to publish round")
				}
			}
		case game.GameCompleted:
			if p := n.sinks.Publisher; p != nil {
				if err := p.GameCompleted(ctx, e); err != nil {
					n.logger.Error().Err(err).Msg("failed to publish game")
				}
			}
		default:
			n.logger.Warn().Str("effect", fmt.Sprintf("%T", e)).Msg("unhandled effect")
		}
	}
}

func (n *Node) send(f protocol.Frame) {
	if n.cfg.Passive {
		n.logger.Warn().Stringer("frame", f).Msg("passive node tried to transmit")
		return
	}
	if err := n.radio.Tx(f.Bytes()); err != nil {
		n.txErrors.Add(1)
		n.logger.Error().Err(err).Stringer("frame", f).Msg("transmit failed")
		return
	}
	n.sent.Add(1)
	n.logger.Trace().Stringer("frame", f).Msg("tx")
}
