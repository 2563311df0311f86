package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// Recorder turns host outcomes into events. Every game gets its own id; a new
// one is minted after GameCompleted.
type Recorder struct {
	publisher EventPublisher
	now       func() time.Time

	mu     sync.Mutex
	gameID uuid.UUID
}

func NewRecorder(publisher EventPublisher) *Recorder {
	return &Recorder{publisher: publisher, now: time.Now, gameID: uuid.New()}
}

func (r *Recorder) GameID() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameID
}

func (r *Recorder) RoundCompleted(ctx context.Context, rc game.RoundCompleted) error {
	now := r.now()
	payload := RoundCompletedPayload{
		Round:       rc.Round,
		Mode:        rc.Mode.String(),
		CompletedAt: now,
	}
	for i, p := range rc.Players {
		if !p.Active {
			continue
		}
		payload.Players = append(payload.Players, PlayerPayload{
			Player:   protocol.PeerRole(i).String(),
			Finished: p.Finished,
			Penalty:  p.Penalized(),
			TimeMs:   p.Time,
			Score:    rc.Scores[i],
		})
	}
	if rc.Winner != game.NoWinner {
		payload.Winner = protocol.PeerRole(rc.Winner).String()
	}
	return r.publish(ctx, EventTypeRoundCompleted, payload, now, false)
}

func (r *Recorder) GameCompleted(ctx context.Context, gc game.GameCompleted) error {
	now := r.now()
	payload := GameCompletedPayload{
		Rounds:      gc.Rounds,
		Scores:      map[string]int{},
		Champions:   []string{},
		CompletedAt: now,
	}
	for i, s := range gc.Scores {
		payload.Scores[protocol.PeerRole(i).String()] = s
	}
	for _, c := range gc.Champions {
		payload.Champions = append(payload.Champions, protocol.PeerRole(c).String())
	}
	return r.publish(ctx, EventTypeGameCompleted, payload, now, true)
}

func (r *Recorder) publish(ctx context.Context, eventType string, payload any, now time.Time, last bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	r.mu.Lock()
	gameID := r.gameID
	if last {
		r.gameID = uuid.New()
	}
	r.mu.Unlock()

	return r.publisher.Publish(ctx, Event{
		ID:        uuid.New(),
		GameID:    gameID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: now,
	})
}
