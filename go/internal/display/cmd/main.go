package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/reactionduel/go/internal/config"
	"github.com/mcdev12/reactionduel/go/internal/display"
	"github.com/mcdev12/reactionduel/go/internal/feedback"
	"github.com/mcdev12/reactionduel/go/internal/gateway"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/node"
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
	if cfg.Node.ID == "" {
		cfg.Node.ID = config.KindDisplay
	}

	log.Info().
		Str("nats_url", cfg.Radio.NATSURL).
		Int("channel", cfg.Radio.Channel).
		Int("port", cfg.Display.GatewayPort).
		Bool("terminal", cfg.Display.Terminal).
		Msg("starting display")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	radio, err := link.DialNATS(cfg.NATSRadio())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open radio")
	}
	defer radio.Close()

	gatewayConfig := gateway.DefaultConfig()
	if cfg.Events.Enabled {
		results := gateway.DefaultJetStreamConsumerConfig()
		results.URL = cfg.Radio.NATSURL
		results.StreamName = cfg.Events.Stream
		gatewayConfig.Results = &results
	}

	// Stats is set once the node exists; the gateway reads it per request.
	var n *node.Node
	gatewayConfig.Stats = func() any {
		if n == nil {
			return nil
		}
		return n.Stats()
	}

	gatewayService, err := gateway.NewService(ctx, gatewayConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway service")
	}

	presenters := node.Presenters{gatewayService.Presenter()}
	if cfg.Display.Terminal {
		// The screen owns stdout; keep the log out of its way.
		logFile, err := os.OpenFile(cfg.Name()+".log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
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

	logger := log.Logger.With().Str("role", config.KindDisplay).Logger()
	machine := display.New(display.Config{
		Roster: cfg.Game.Roster,
		Timing: cfg.Game.Timing,
	}, logger)

	n, err = node.New(node.Config{
		Name:    cfg.Name(),
		Passive: true,
		Tick:    cfg.Node.Tick,
	}, machine, radio, nil, node.Sinks{Presenter: presenters}, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create node")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Display.GatewayPort),
		Handler:      gatewayService.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Cancel service context to stop gateway service
	cancel()

	// Give services time to clean up
	time.Sleep(1 * time.Second)

	log.Info().Msg("display shutdown complete")
}
