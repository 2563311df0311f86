package game

import "github.com/mcdev12/reactionduel/go/internal/protocol"

// PlayerResult is one player's outcome as seen by a node.
type PlayerResult struct {
	Active   bool   `json:"active"`
	Finished bool   `json:"finished"`
	Time     uint16 `json:"time_ms"`
}

// Penalized reports whether the player reported the penalty sentinel.
func (r PlayerResult) Penalized() bool {
	return r.Finished && r.Time == protocol.PenaltyTime
}

// Winner returns the index of the active, finished player with the strictly
// lowest time. Penalized and unfinished players never win. A tie at the
// lowest time has no winner.
func Winner(results []PlayerResult) int {
	winner := NoWinner
	best := uint16(protocol.PenaltyTime)
	tied := false
	for i, r := range results {
		if !r.Active || !r.Finished || r.Time == protocol.PenaltyTime {
			continue
		}
		switch {
		case r.Time < best:
			best, winner, tied = r.Time, i, false
		case r.Time == best:
			tied = true
		}
	}
	if tied {
		return NoWinner
	}
	return winner
}

// Champions returns every player holding the top score. Nobody is a champion
// when no round was won.
func Champions(scores []int) []int {
	top := 0
	for _, s := range scores {
		if s > top {
			top = s
		}
	}
	if top == 0 {
		return nil
	}
	var out []int
	for i, s := range scores {
		if s == top {
			out = append(out, i)
		}
	}
	return out
}
