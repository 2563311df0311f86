package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/reactionduel/go/internal/config"
	"github.com/mcdev12/reactionduel/go/internal/events"
	"github.com/mcdev12/reactionduel/go/internal/feedback"
	"github.com/mcdev12/reactionduel/go/internal/host"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/node"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := flag.String("config", config.DefaultPath(), "path to the yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	hostCfg, err := cfg.HostConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game config")
	}

	log.Info().
		Str("nats_url", cfg.Radio.NATSURL).
		Int("channel", cfg.Radio.Channel).
		Str("mode", hostCfg.Mode.String()).
		Int("rounds", hostCfg.Rounds).
		Ints("roster", hostCfg.Roster).
		Msg("starting host")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	radio, err := link.DialNATS(cfg.NATSRadio())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open radio")
	}
	defer radio.Close()

	var publisher events.EventPublisher = events.LogPublisher{}
	if cfg.Events.Enabled {
		jsCfg := events.DefaultJetStreamConfig()
		jsCfg.URL = cfg.Radio.NATSURL
		jsCfg.StreamName = cfg.Events.Stream
		jsp, err := events.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		defer jsp.Close()
		publisher = jsp
	}

	logger := log.Logger.With().Str("role", "host").Logger()
	machine, err := host.New(hostCfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create host")
	}

	feedback.ListAssets(cfg.Audio.Dir, logger)
	speaker := feedback.AssetSpeaker{ClipLength: cfg.Audio.ClipLength, Logger: logger}
	sinks := node.Sinks{
		Presenter: feedback.LogPresenter{Logger: logger},
		Audio:     feedback.NewAudioQueue(cfg.Audio.Dir, cfg.Audio.QueueSize, speaker, logger),
		Ambient:   feedback.NewRing(&feedback.LogStrip{Logger: logger}),
		Publisher: events.NewRecorder(publisher),
	}

	// Enter on stdin is the start button.
	buttons := node.NewButtons(clockwork.NewRealClock())
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			buttons.Tap()
		}
	}()

	n, err := node.New(node.Config{
		Name: cfg.Name(),
		Self: protocol.RoleHost,
		Tick: cfg.Node.Tick,
	}, machine, radio, buttons, sinks, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create node")
	}
	if err := n.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start node")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	if err := n.Stop(); err != nil {
		log.Error().Err(err).Msg("node shutdown failed")
	}
	cancel()

	// Let the radio drain queued frames.
	time.Sleep(200 * time.Millisecond)
	log.Info().Msg("host shutdown complete")
}
