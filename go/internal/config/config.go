package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/reactionduel/go/internal/feedback"
	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/host"
	"github.com/mcdev12/reactionduel/go/internal/link"
	"github.com/mcdev12/reactionduel/go/internal/node"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// Node kinds that are not radio roles.
const (
	KindDisplay = "display"
	KindParty   = "party"
)

const (
	TransportNATS = "nats"
	TransportSim  = "sim"
)

type Config struct {
	Node struct {
		Role string        `yaml:"role"`
		ID   string        `yaml:"id"`
		Join bool          `yaml:"join"`
		Tick time.Duration `yaml:"tick"`
	} `yaml:"node"`

	Radio struct {
		Transport string `yaml:"transport"`
		NATSURL   string `yaml:"nats_url"`
		Channel   int    `yaml:"channel"`
		DropPct   int    `yaml:"drop_pct"`
		Seed      uint64 `yaml:"seed"`
	} `yaml:"radio"`

	Game struct {
		Mode           string          `yaml:"mode"`
		Rounds         int             `yaml:"rounds"`
		Roster         []int           `yaml:"roster"`
		CountdownFrom  int             `yaml:"countdown_from"`
		ReactionDelays []time.Duration `yaml:"reaction_delays"`
		ShakeTargets   []int           `yaml:"shake_targets"`
		Timing         game.Timing     `yaml:"timing"`
	} `yaml:"game"`

	Display struct {
		Terminal    bool `yaml:"terminal"`
		GatewayPort int  `yaml:"gateway_port"`
	} `yaml:"display"`

	Audio struct {
		Dir        string        `yaml:"dir"`
		QueueSize  int           `yaml:"queue_size"`
		ClipLength time.Duration `yaml:"clip_length"`
	} `yaml:"audio"`

	Events struct {
		Enabled bool   `yaml:"enabled"`
		Stream  string `yaml:"stream"`
	} `yaml:"events"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default mirrors the firmware constants.
func Default() *Config {
	var c Config
	c.Node.Role = "host"
	c.Node.Tick = node.DefaultTick

	c.Radio.Transport = TransportNATS
	c.Radio.NATSURL = "nats://localhost:4222"
	c.Radio.Channel = protocol.DefaultChannel

	hc := host.DefaultConfig()
	c.Game.Mode = hc.Mode.String()
	c.Game.Rounds = hc.Rounds
	c.Game.Roster = hc.Roster
	c.Game.CountdownFrom = hc.CountdownFrom
	c.Game.ShakeTargets = hc.ShakeTargets
	c.Game.Timing = hc.Timing

	c.Display.Terminal = true
	c.Display.GatewayPort = 8081

	c.Audio.Dir = "sounds"
	c.Audio.QueueSize = feedback.DefaultQueueSize
	c.Audio.ClipLength = 800 * time.Millisecond

	c.Events.Stream = "DUEL_EVENTS"
	c.Log.Level = "info"
	return &c
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Node.Role = getEnv("NODE_ROLE", c.Node.Role)
	c.Node.ID = getEnv("NODE_ID", c.Node.ID)
	c.Radio.NATSURL = getEnv("NATS_URL", c.Radio.NATSURL)
	c.Radio.Channel = getEnvAsInt("RADIO_CHANNEL", c.Radio.Channel)
	c.Display.GatewayPort = getEnvAsInt("GATEWAY_PORT", c.Display.GatewayPort)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Game.Mode = getEnv("GAME_MODE", c.Game.Mode)
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Node.Role {
	case KindDisplay, KindParty:
	default:
		if _, err := protocol.ParseRole(c.Node.Role); err != nil {
			errs = append(errs, fmt.Errorf("invalid role %q", c.Node.Role))
		}
	}
	if c.Radio.Transport != TransportNATS && c.Radio.Transport != TransportSim {
		errs = append(errs, fmt.Errorf("invalid radio transport %q", c.Radio.Transport))
	}
	if c.Radio.Channel < 0 || c.Radio.Channel > 125 {
		errs = append(errs, fmt.Errorf("radio channel %d out of range", c.Radio.Channel))
	}
	if c.Radio.DropPct < 0 || c.Radio.DropPct > 100 {
		errs = append(errs, fmt.Errorf("drop percentage %d out of range", c.Radio.DropPct))
	}
	if _, err := game.ParseMode(c.Game.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	if c.Node.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", c.Node.Tick))
	}
	if _, err := c.HostConfig(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Role is the radio role for host and peer nodes.
func (c *Config) Role() (protocol.Role, bool) {
	r, err := protocol.ParseRole(c.Node.Role)
	return r, err == nil
}

func (c *Config) Mode() game.Mode {
	m, _ := game.ParseMode(c.Game.Mode)
	return m
}

func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// HostConfig builds and checks the host game settings.
func (c *Config) HostConfig() (host.Config, error) {
	hc := host.Config{
		Mode:           c.Mode(),
		Rounds:         c.Game.Rounds,
		Roster:         c.Game.Roster,
		CountdownFrom:  c.Game.CountdownFrom,
		Timing:         c.Game.Timing,
		ReactionDelays: c.Game.ReactionDelays,
		ShakeTargets:   c.Game.ShakeTargets,
	}
	if err := hc.Validate(); err != nil {
		return host.Config{}, err
	}
	return hc, nil
}

func (c *Config) NATSRadio() link.NATSConfig {
	nc := link.DefaultNATSConfig()
	nc.URL = c.Radio.NATSURL
	nc.Channel = c.Radio.Channel
	nc.Name = c.Name()
	return nc
}

// Name identifies the node in logs and on the NATS server.
func (c *Config) Name() string {
	if c.Node.ID != "" {
		return c.Node.ID
	}
	return c.Node.Role
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// DefaultPath is the config file named by DUEL_CONFIG, if any.
func DefaultPath() string {
	return getEnv("DUEL_CONFIG", "")
}
