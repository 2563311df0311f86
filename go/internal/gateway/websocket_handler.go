package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type WebSocketHandler struct {
	connectionManager *ConnectionManager
	presenter         *Presenter
}

func NewWebSocketHandler(cm *ConnectionManager, presenter *Presenter) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		presenter:         presenter,
	}
}

// HandleSpectator upgrades to a websocket that receives every view change.
func (h *WebSocketHandler) HandleSpectator(w http.ResponseWriter, r *http.Request) {
	if err := h.connectionManager.UpgradeConnection(w, r, h.presenter.Snapshot()); err != nil {
		// The upgrader has already replied to the client.
		log.Error().Err(err).Str("remote", r.RemoteAddr).Msg("failed to upgrade WebSocket connection")
	}
}

func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleSpectator)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
