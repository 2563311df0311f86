package gateway

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/reactionduel/go/internal/feedback"
	"github.com/mcdev12/reactionduel/go/internal/game"
)

// Presenter mirrors the display's screen to spectators. Each call updates the
// board and broadcasts the new view.
type Presenter struct {
	board *feedback.Board
	cm    *ConnectionManager
	now   func() time.Time
}

func NewPresenter(cm *ConnectionManager) *Presenter {
	return &Presenter{board: feedback.NewBoard(), cm: cm, now: time.Now}
}

// View returns the current screen.
func (p *Presenter) View() feedback.View { return p.board.View() }

// Snapshot is the greeting sent to a new spectator.
func (p *Presenter) Snapshot() *ViewEvent {
	ev, err := newViewEvent(EventTypeSnapshot, p.board.View(), p.now())
	if err != nil {
		return nil
	}
	return ev
}

func (p *Presenter) ShowIdle() { p.publish(EventTypeIdle, p.board.ShowIdle()) }

func (p *Presenter) ShowCountdown(n int) { p.publish(EventTypeCountdown, p.board.ShowCountdown(n)) }

func (p *Presenter) ShowGo() { p.publish(EventTypeGo, p.board.ShowGo()) }

func (p *Presenter) ShowResults(r game.ShowResults) {
	p.publish(EventTypeResults, p.board.ShowResults(r))
}

func (p *Presenter) ShowFinal(f game.ShowFinal) { p.publish(EventTypeFinal, p.board.ShowFinal(f)) }

func (p *Presenter) SetPlayerActive(player int, active bool) {
	p.publish(EventTypePlayerActive, p.board.SetPlayerActive(player, active))
}

func (p *Presenter) publish(t EventType, v feedback.View) {
	ev, err := newViewEvent(t, v, p.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to build view event")
		return
	}
	p.cm.Broadcast(ev)
}
