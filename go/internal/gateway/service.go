package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Service serves the spectator websocket, the state API and health.
type Service struct {
	connectionManager *ConnectionManager
	presenter         *Presenter
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	eventConsumer     *EventConsumer
}

type Config struct {
	ConnectionConfig ConnectionConfig
	// Results, when set, also forwards host results from JetStream.
	Results *JetStreamConsumerConfig
	// Stats adds node counters to /api/state.
	Stats func() any
}

func DefaultConfig() Config {
	return Config{ConnectionConfig: DefaultConnectionConfig()}
}

func NewService(ctx context.Context, config Config) (*Service, error) {
	cm := NewConnectionManager(config.ConnectionConfig)
	presenter := NewPresenter(cm)

	s := &Service{
		connectionManager: cm,
		presenter:         presenter,
		wsHandler:         NewWebSocketHandler(cm, presenter),
		stateHandler:      NewStateHandler(presenter, config.Stats),
	}

	if config.Results != nil {
		ec, err := NewEventConsumer(ctx, cm, *config.Results)
		if err != nil {
			return nil, fmt.Errorf("failed to create event consumer: %w", err)
		}
		s.eventConsumer = ec
	}
	return s, nil
}

// Presenter is the display sink that feeds spectators.
func (s *Service) Presenter() *Presenter { return s.presenter }

// Start runs until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting spectator gateway")

	go s.connectionManager.Start(ctx)

	if s.eventConsumer != nil {
		go func() {
			if err := s.eventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("spectator gateway shutting down")
	return s.Stop()
}

func (s *Service) Stop() error {
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	}
	log.Info().Msg("spectator gateway stopped")
	return nil
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

// Handler returns the routes wrapped with CORS and cleartext HTTP/2.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return h2c.NewHandler(c.Handler(mux), &http2.Server{})
}

func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
