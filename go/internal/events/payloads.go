package events

import "time"

// PlayerPayload is one player's line in a round.
type PlayerPayload struct {
	Player   string `json:"player"`
	Finished bool   `json:"finished"`
	Penalty  bool   `json:"penalty"`
	TimeMs   uint16 `json:"time_ms"`
	Score    int    `json:"score"`
}

// RoundCompletedPayload is the payload for a RoundCompleted event
type RoundCompletedPayload struct {
	Round       int             `json:"round"`
	Mode        string          `json:"mode"`
	Players     []PlayerPayload `json:"players"`
	Winner      string          `json:"winner,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}

// GameCompletedPayload is the payload for a GameCompleted event
type GameCompletedPayload struct {
	Rounds      int            `json:"rounds"`
	Scores      map[string]int `json:"scores"`
	Champions   []string       `json:"champions"`
	CompletedAt time.Time      `json:"completed_at"`
}
