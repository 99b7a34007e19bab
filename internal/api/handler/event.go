package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/api/request"
	"github.com/ollieshotz/shotz/internal/api/response"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/game"
	"github.com/ollieshotz/shotz/internal/services/offline"
	"github.com/ollieshotz/shotz/internal/services/profile"
)

// EventHandler serves the live event recording endpoints. Recording is the
// first place a dead store shows up rink-side, so failures here feed the
// connectivity monitor.
type EventHandler struct {
	games   *game.Service
	monitor *offline.Monitor
	access  access
}

// NewEventHandler creates a new event handler
func NewEventHandler(games *game.Service, profiles *profile.Service, monitor *offline.Monitor) *EventHandler {
	return &EventHandler{
		games:   games,
		monitor: monitor,
		access:  access{profiles: profiles},
	}
}

// Record handles POST /games/{id}/events
func (h *EventHandler) Record(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.access.require(r, scope, g.ChildID, accessEdit); err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.AddEventRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	event, err := h.games.RecordEvent(r.Context(), gameID, model.EventType(req.Type), req.Period, scope.Actor())
	if err != nil {
		h.monitor.ObserveError(err)
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.EventFromModel(event))
}

// Undo handles DELETE /games/{id}/events/last
func (h *EventHandler) Undo(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.access.require(r, scope, g.ChildID, accessEdit); err != nil {
		apierr.WriteError(w, err)
		return
	}

	undone, err := h.games.UndoLastEvent(r.Context(), gameID)
	if err != nil {
		h.monitor.ObserveError(err)
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.EventFromModel(undone))
}
