package link

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// SubjectPrefix namespaces radio channels on the NATS server.
const SubjectPrefix = "duel.air"

// NATSConfig holds connection settings for the NATS-backed air.
type NATSConfig struct {
	URL           string
	Channel       int
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Channel:       6,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Subject returns the NATS subject that carries one radio channel.
func Subject(channel int) string {
	return fmt.Sprintf("%s.ch%d", SubjectPrefix, channel)
}

// NATSRadio models the radio channel as a core NATS subject: at-most-once,
// fan-out to every subscriber, no persistence.
type NATSRadio struct {
	nc      *nats.Conn
	subject string

	mu  sync.Mutex
	sub *nats.Subscription
}

// DialNATS connects to NATS with echo disabled so a node never hears itself.
func DialNATS(cfg NATSConfig) (*NATSRadio, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.NoEcho(),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSRadio{nc: nc, subject: Subject(cfg.Channel)}, nil
}

// Conn exposes the connection so other publishers can share it.
func (r *NATSRadio) Conn() *nats.Conn { return r.nc }

func (r *NATSRadio) Tx(data []byte) error {
	if r.nc.IsClosed() {
		return ErrClosed
	}
	if err := r.nc.Publish(r.subject, data); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

func (r *NATSRadio) Listen(fn func(data []byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		if err := r.sub.Unsubscribe(); err != nil {
			return fmt.Errorf("replace subscription: %w", err)
		}
	}
	sub, err := r.nc.Subscribe(r.subject, func(m *nats.Msg) {
		fn(m.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.subject, err)
	}
	r.sub = sub

	log.Info().Str("subject", r.subject).Msg("listening on radio channel")
	return nil
}

func (r *NATSRadio) Close() error {
	if r.nc.IsClosed() {
		return nil
	}
	if err := r.nc.Drain(); err != nil {
		r.nc.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
