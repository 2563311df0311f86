package main

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/config"
	"github.com/mcdev12/reactionduel/go/internal/display"
	"github.com/mcdev12/reactionduel/go/internal/events"
	"github.com/mcdev12/reactionduel/go/internal/feedback"
	"github.com/mcdev12/reactionduel/go/internal/host"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/node"
	"github.com/mcdev12/reactionduel/go/internal/peer"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// Party is a whole game on one simulated channel: the host, a bot per
// player and the display.
type Party struct {
	Air      *link.Air
	Host     *host.Host
	Buttons  *node.Buttons
	Recorder *events.Recorder
	Display  *node.Node
	Nodes    []*node.Node
}

type partyDeps struct {
	Clock      clockwork.Clock
	Presenters node.Presenters
	Publisher  events.EventPublisher
	Logger     zerolog.Logger
}

func setupParty(cfg *config.Config, deps partyDeps) (*Party, error) {
	// Wire up the radio first; every node listens from construction.
	air, err := link.NewAir(cfg.Radio.DropPct, cfg.Radio.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create air: %w", err)
	}

	hostCfg, err := cfg.HostConfig()
	if err != nil {
		return nil, err
	}

	p := &Party{
		Air:      air,
		Buttons:  node.NewButtons(deps.Clock),
		Recorder: events.NewRecorder(deps.Publisher),
	}

	// Host
	hostLog := deps.Logger.With().Str("role", "host").Logger()
	h, err := host.New(hostCfg, hostLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create host: %w", err)
	}
	p.Host = h
	speaker := feedback.AssetSpeaker{ClipLength: cfg.Audio.ClipLength, Logger: hostLog}
	if err := p.add(cfg, h, protocol.RoleHost.String(), node.Config{Self: protocol.RoleHost}, p.Buttons, node.Sinks{
		Presenter: feedback.LogPresenter{Logger: hostLog},
		Audio:     feedback.NewAudioQueue(cfg.Audio.Dir, cfg.Audio.QueueSize, speaker, hostLog),
		Ambient:   feedback.NewRing(&feedback.LogStrip{Logger: hostLog}),
		Publisher: p.Recorder,
	}, deps); err != nil {
		return nil, err
	}

	// Peers, one bot each. Without a fixed roster they join over the air.
	players, join := cfg.Game.Roster, cfg.Node.Join
	if len(players) == 0 {
		players, join = []int{0, 1}, true
	}
	for _, slot := range players {
		role := protocol.PeerRole(slot)
		peerLog := deps.Logger.With().Str("role", role.String()).Logger()
		m, err := peer.New(peer.Config{Self: role, Join: join, Timing: cfg.Game.Timing}, peerLog)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", role, err)
		}
		b := newBot(deps.Clock, cfg.Radio.Seed+uint64(slot)+1)
		if err := p.add(cfg, m, role.String(), node.Config{Self: role}, b, node.Sinks{
			Presenter: b,
			Haptic:    feedback.LogHaptic{Logger: peerLog},
			OnReport:  b.Report,
		}, deps); err != nil {
			return nil, err
		}
	}

	// Display
	dispLog := deps.Logger.With().Str("role", config.KindDisplay).Logger()
	disp := display.New(display.Config{Roster: cfg.Game.Roster, Timing: cfg.Game.Timing}, dispLog)
	if err := p.add(cfg, disp, config.KindDisplay, node.Config{Passive: true}, nil, node.Sinks{
		Presenter: deps.Presenters,
	}, deps); err != nil {
		return nil, err
	}
	p.Display = p.Nodes[len(p.Nodes)-1]

	return p, nil
}

func (p *Party) add(cfg *config.Config, m node.Machine, name string, nc node.Config, in node.Input, sinks node.Sinks, deps partyDeps) error {
	nc.Name = name
	nc.Tick = cfg.Node.Tick
	nc.Clock = deps.Clock
	n, err := node.New(nc, m, p.Air.Radio(name), in, sinks, deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to create %s node: %w", name, err)
	}
	p.Nodes = append(p.Nodes, n)
	return nil
}
