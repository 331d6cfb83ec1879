package handler

import (
	"net/http"

	"github.com/lexc24/tictactoe/internal/api/apierr"
	"github.com/lexc24/tictactoe/internal/api/response"
	"github.com/lexc24/tictactoe/internal/services/queue"
)

// RosterHandler serves read-only roster queries. Browsers get live rosters
// over the WebSocket push; this endpoint exists for tooling and the CLI.
type RosterHandler struct {
	coordinator *queue.Coordinator
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(coordinator *queue.Coordinator) *RosterHandler {
	return &RosterHandler{coordinator: coordinator}
}

// Get handles GET /api/v1/roster
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	roster, err := h.coordinator.Roster(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RosterFromModel(roster))
}
