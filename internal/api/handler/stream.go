package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/api/sse"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/game"
	"github.com/ollieshotz/shotz/internal/services/profile"
)

// StreamHandler serves the live SSE feed for a game
type StreamHandler struct {
	games   *game.Service
	manager *sse.Manager
	access  access
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(games *game.Service, manager *sse.Manager, profiles *profile.Service) *StreamHandler {
	return &StreamHandler{
		games:   games,
		manager: manager,
		access:  access{profiles: profiles},
	}
}

// Stream handles GET /games/{id}/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.access.require(r, scope, g.ChildID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	// The hub and its feed subscription outlive this request
	hub, err := h.manager.GetOrCreateHub(context.Background(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, hub)
}
