package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/reactionduel/go/internal/config"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/node"
	"github.com/mcdev12/reactionduel/go/internal/peer"
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

	role, ok := cfg.Role()
	if !ok || !role.IsPeer() {
		log.Fatal().Str("role", cfg.Node.Role).Msg("peer binary needs role peer1..peer4")
	}

	// The terminal belongs to the TUI from here on.
	logFile, err := tea.LogToFile(cfg.Name()+".log", "")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open log file")
	}
	defer logFile.Close()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, NoColor: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	radio, err := link.DialNATS(cfg.NATSRadio())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open radio")
	}
	defer radio.Close()

	logger := log.Logger.With().Str("role", role.String()).Logger()
	machine, err := peer.New(peer.Config{
		Self:   role,
		Join:   cfg.Node.Join,
		Timing: cfg.Game.Timing,
	}, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create peer")
	}

	buttons := node.NewButtons(clockwork.NewRealClock())
	program := tea.NewProgram(newModel(role, buttons), tea.WithAltScreen())
	sink := programSink{p: program}

	n, err := node.New(node.Config{
		Name: cfg.Name(),
		Self: role,
		Tick: cfg.Node.Tick,
	}, machine, radio, buttons, node.Sinks{
		Presenter: sink,
		Haptic:    sink,
		OnReport:  sink.Report,
	}, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create node")
	}
	if err := n.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start node")
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "peer screen failed: %v\n", err)
	}

	if err := n.Stop(); err != nil {
		log.Error().Err(err).Msg("node shutdown failed")
	}
	log.Info().Msg("peer shutdown complete")
}
