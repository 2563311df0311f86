package host

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

// Config controls one host game.
type Config struct {
	Mode   game.Mode
	Rounds int

	// Roster lists the zero-based player slots that play without joining.
	// An empty roster makes the host collect players through REQUEST_JOIN.
	Roster []int

	CountdownFrom  int
	Timing         game.Timing
	ReactionDelays []time.Duration
	ShakeTargets   []int

	// Intn picks an index in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

// DefaultConfig is a five round reaction game with two fixed players.
func DefaultConfig() Config {
	return Config{
		Mode:          game.ModeReaction,
		Rounds:        game.DefaultRounds,
		Roster:        []int{0, 1},
		CountdownFrom: game.DefaultCountdownFrom,
		Timing:        game.DefaultTiming(),
		ShakeTargets:  game.DefaultShakeTargets,
	}
}

// Validate checks the settings and fills in Intn.
func (c *Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.CountdownFrom < 1 || c.CountdownFrom > 255 {
		return fmt.Errorf("countdown must start between 1 and 255, got %d", c.CountdownFrom)
	}
	for _, p := range c.Roster {
		if p < 0 || p >= game.MaxPlayers {
			return fmt.Errorf("roster slot %d out of range", p)
		}
	}
	if err := c.Timing.Validate(); err != nil {
		return err
	}
	for _, d := range c.ReactionDelays {
		if d < 0 {
			return fmt.Errorf("reaction delay %s is negative", d)
		}
	}
	if c.Mode == game.ModeShake && len(c.ShakeTargets) == 0 {
		return fmt.Errorf("shake mode needs at least one shake target")
	}
	for _, n := range c.ShakeTargets {
		if n < 1 || n > 255 {
			return fmt.Errorf("shake target %d out of range", n)
		}
	}
	if c.Intn == nil {
		c.Intn = rand.IntN
	}
	return nil
}
