package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/reactionduel/go/internal/feedback"
)

// StateProvider supplies the screen for the REST API.
type StateProvider interface {
	View() feedback.View
}

type StateResponse struct {
	View  feedback.View `json:"view"`
	Stats any           `json:"stats,omitempty"`
}

type StateHandler struct {
	state StateProvider
	stats func() any
}

// NewStateHandler serves state; stats, when set, adds node counters.
func NewStateHandler(state StateProvider, stats func() any) *StateHandler {
	return &StateHandler{state: state, stats: stats}
}

// HandleGetState handles GET /api/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := StateResponse{View: h.state.View()}
	if h.stats != nil {
		resp.Stats = h.stats()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode state response")
	}
}

func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.HandleGetState)
}
