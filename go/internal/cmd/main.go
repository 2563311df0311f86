package main

import (
	"bufio"
	"context"
	"flag"
	"net/http"
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
	"github.com/mcdev12/reactionduel/go/internal/gateway"
	"github.com/mcdev12/reactionduel/go/internal/node"
)

// The party binary plays a whole game in one process: a host, a bot per
// player and the spectator display, all sharing a simulated channel.
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher events.EventPublisher = events.LogPublisher{}
	gatewayConfig := gateway.DefaultConfig()
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

		results := gateway.DefaultJetStreamConsumerConfig()
		results.URL = cfg.Radio.NATSURL
		results.StreamName = cfg.Events.Stream
		gatewayConfig.Results = &results
	}

	var party *Party
	gatewayConfig.Stats = func() any {
		if party == nil {
			return nil
		}
		return party.Display.Stats()
	}
	gatewayService, err := gateway.NewService(ctx, gatewayConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway service")
	}

	presenters := node.Presenters{gatewayService.Presenter()}
	if cfg.Display.Terminal {
		// The screen owns stdout; keep the log out of its way.
		logFile, err := os.OpenFile("party.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open log file")
		}
		defer logFile.Close()
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, NoColor: true})

		screen, err := feedback.NewTerminalPresenter(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start terminal screen")
		}
		defer screen.Stop()
		presenters = append(presenters, screen)
	}

	feedback.ListAssets(cfg.Audio.Dir, log.Logger)

	party, err = setupParty(cfg, partyDeps{
		Clock:      clockwork.NewRealClock(),
		Presenters: presenters,
		Publisher:  publisher,
		Logger:     log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up party")
	}

	log.Info().
		Str("mode", cfg.Game.Mode).
		Int("rounds", cfg.Game.Rounds).
		Ints("roster", cfg.Game.Roster).
		Int("drop_pct", cfg.Radio.DropPct).
		Int("port", cfg.Display.GatewayPort).
		Msg("starting party")

	// Enter on stdin is the host's start button.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			party.Buttons.Tap()
		}
	}()

	server := setupServer(cfg.Display.GatewayPort, gatewayService)

	// Start gateway service (includes event consumer and connection manager)
	go func() {
		if err := gatewayService.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	// Start HTTP server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	for _, n := range party.Nodes {
		if err := n.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start node")
		}
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	for _, n := range party.Nodes {
		if err := n.Stop(); err != nil {
			log.Error().Err(err).Msg("node shutdown failed")
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	cancel()

	log.Info().Msg("party shutdown complete")
}
