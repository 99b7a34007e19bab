package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/api/request"
	"github.com/ollieshotz/shotz/internal/api/response"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/export"
	"github.com/ollieshotz/shotz/internal/services/game"
	"github.com/ollieshotz/shotz/internal/services/profile"
	"github.com/ollieshotz/shotz/internal/services/stats"
)

// GameHandler serves game lifecycle, event recording, and export endpoints
type GameHandler struct {
	games  *game.Service
	export *export.Service
	stats  *stats.Service
	access access
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Service, exportService *export.Service, profiles *profile.Service) *GameHandler {
	return &GameHandler{
		games:  games,
		export: exportService,
		stats:  stats.New(),
		access: access{profiles: profiles},
	}
}

// Create handles POST /games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())

	var req request.CreateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	childID := model.ProfileID(req.ChildID)
	if err := h.access.require(r, scope, childID, accessEdit); err != nil {
		apierr.WriteError(w, err)
		return
	}

	created, err := h.games.CreateGame(r.Context(), game.CreateGameParams{
		ChildID:  childID,
		GameDate: req.GameDate,
		Opponent: req.Opponent,
		Location: req.Location,
		Periods:  req.Periods,
		Status:   model.GameStatus(req.Status),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GameFromModel(created))
}

// List handles GET /profiles/{id}/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	games, err := h.games.ListGames(r.Context(), childID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GamesFromModels(games))
}

// Get handles GET /games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	g, events, err := h.games.GetGameWithEvents(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.access.require(r, scope, g.ChildID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameDetail{
		Game:   response.GameFromModel(g),
		Events: response.EventsFromModels(events),
		Stats:  h.stats.Calculate(events),
	})
}

// Delete handles DELETE /games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.access.require(r, scope, g.ChildID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.games.DeleteGame(r.Context(), gameID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// UpdateStatus handles PATCH /games/{id}/status
func (h *GameHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	h.updateGame(w, r, func(gameID model.GameID) (*model.Game, error) {
		var req request.UpdateStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.games.UpdateStatus(r.Context(), gameID, model.GameStatus(req.Status))
	})
}

// UpdateNotes handles PATCH /games/{id}/notes
func (h *GameHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	h.updateGame(w, r, func(gameID model.GameID) (*model.Game, error) {
		var req request.UpdateNotesRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.games.UpdateNotes(r.Context(), gameID, req.Notes)
	})
}

// AddPeriod handles POST /games/{id}/periods
func (h *GameHandler) AddPeriod(w http.ResponseWriter, r *http.Request) {
	h.updateGame(w, r, func(gameID model.GameID) (*model.Game, error) {
		var req request.AddPeriodRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		if req.Label == "" {
			return nil, apierr.NewInvalidRequestError("Label is required")
		}
		return h.games.AddPeriod(r.Context(), gameID, req.Label)
	})
}

// updateGame runs an edit-scoped game mutation and writes the updated game
func (h *GameHandler) updateGame(w http.ResponseWriter, r *http.Request, apply func(model.GameID) (*model.Game, error)) {
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

	updated, err := apply(gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(updated))
}

// ExportCSV handles GET /games/{id}/export
func (h *GameHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	g, events, err := h.games.GetGameWithEvents(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.access.require(r, scope, g.ChildID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	csv := h.export.GameCSV(g, events)
	response.CSV(w, fmt.Sprintf("game_%s.csv", g.GameDate.Format("2006-01-02")), csv)
}

// SeasonExport handles GET /profiles/{id}/export
func (h *GameHandler) SeasonExport(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	games, err := h.games.ListGames(r.Context(), childID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	season := make([]export.GameWithEvents, 0, len(games))
	for _, g := range games {
		_, events, err := h.games.GetGameWithEvents(r.Context(), g.ID)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		season = append(season, export.GameWithEvents{Game: g, Events: events})
	}

	csv := h.export.SeasonCSV(season)
	response.CSV(w, "season.csv", csv)
}
