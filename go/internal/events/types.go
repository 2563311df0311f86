package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRoundCompleted = "RoundCompleted"
	EventTypeGameCompleted  = "GameCompleted"
)

// Event is one host outcome ready to leave the radio network.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	GameID    uuid.UUID       `json:"game_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
