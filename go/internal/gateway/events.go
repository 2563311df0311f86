package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ViewEvent is the message pushed to spectators.
type ViewEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type EventType string

const (
	EventTypeSnapshot       EventType = "snapshot"
	EventTypeIdle           EventType = "idle"
	EventTypeCountdown      EventType = "countdown"
	EventTypeGo             EventType = "go"
	EventTypeResults        EventType = "results"
	EventTypeFinal          EventType = "final"
	EventTypePlayerActive   EventType = "player_active"
	EventTypeRoundCompleted EventType = "round_completed"
	EventTypeGameCompleted  EventType = "game_completed"
)

func newViewEvent(t EventType, data any, now time.Time) (*ViewEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", t, err)
	}
	return &ViewEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: now,
		Data:      raw,
	}, nil
}
