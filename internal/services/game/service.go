// Package game manages the game lifecycle outside a live session: creation,
// listing, scheduling fields, and period labels.
package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Service provides game management operations
type Service struct {
	store  store.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new game service
func New(st store.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		clock:  clk,
		random: rnd,
		logger: logger,
	}
}

// CreateGameParams holds the caller-supplied fields for a new game
type CreateGameParams struct {
	ChildID  model.ProfileID
	GameDate time.Time
	Opponent string
	Location string

	// Periods defaults to the standard three-period layout when empty
	Periods []string

	// Status defaults to live: games are usually created rink-side as the
	// puck drops
	Status model.GameStatus
}

// CreateGame creates a new game for a child profile
func (s *Service) CreateGame(ctx context.Context, params CreateGameParams) (*model.Game, error) {
	if _, err := s.store.GetProfile(ctx, params.ChildID); err != nil {
		return nil, err
	}

	periods := params.Periods
	if len(periods) == 0 {
		periods = model.DefaultPeriods()
	}
	if err := model.ValidatePeriods(periods); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = model.GameStatusLive
	}
	if !status.Valid() {
		return nil, model.ErrInvalidGameStatus
	}

	gameDate := params.GameDate
	if gameDate.IsZero() {
		gameDate = s.clock.Now()
	}

	now := s.clock.Now()
	game := &model.Game{
		ID:        model.GameID(random.ID(s.random, "game_")),
		ChildID:   params.ChildID,
		GameDate:  gameDate,
		Opponent:  params.Opponent,
		Location:  params.Location,
		Periods:   periods,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("child_id", string(game.ChildID)),
		slog.String("status", string(game.Status)))
	return game, nil
}

// GetGame fetches a game by id
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.store.GetGame(ctx, id)
}

// GetGameWithEvents fetches a game and its ordered event history
func (s *Service) GetGameWithEvents(ctx context.Context, id model.GameID) (*model.Game, []model.GameEvent, error) {
	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.store.FetchEvents(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return game, events, nil
}

// ListGames returns all games for a child profile, most recent first
func (s *Service) ListGames(ctx context.Context, childID model.ProfileID) ([]*model.Game, error) {
	games, err := s.store.ListGames(ctx, childID)
	if err != nil {
		return nil, err
	}
	model.SortGamesByDateDesc(games)
	return games, nil
}

// DeleteGame deletes a game and all its events
func (s *Service) DeleteGame(ctx context.Context, id model.GameID) error {
	if err := s.store.DeleteGame(ctx, id); err != nil {
		return err
	}
	s.logger.Info("game deleted", slog.String("game_id", string(id)))
	return nil
}

// UpdateStatus transitions a game to the given status
func (s *Service) UpdateStatus(ctx context.Context, id model.GameID, status model.GameStatus) (*model.Game, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidGameStatus
	}
	return s.mutate(ctx, id, func(game *model.Game) error {
		game.Status = status
		return nil
	})
}

// UpdateNotes replaces a game's notes
func (s *Service) UpdateNotes(ctx context.Context, id model.GameID, notes string) (*model.Game, error) {
	return s.mutate(ctx, id, func(game *model.Game) error {
		game.Notes = notes
		return nil
	})
}

// AddPeriod appends a new period label (overtime, shootout) to a game
func (s *Service) AddPeriod(ctx context.Context, id model.GameID, label string) (*model.Game, error) {
	return s.mutate(ctx, id, func(game *model.Game) error {
		game.Periods = append(game.Periods, label)
		return model.ValidatePeriods(game.Periods)
	})
}

// RecordEvent appends a save or goal to a game's event log
func (s *Service) RecordEvent(ctx context.Context, id model.GameID, eventType model.EventType, period string, createdBy model.UserID) (*model.GameEvent, error) {
	return s.store.AppendEvent(ctx, id, eventType, period, createdBy)
}

// UndoLastEvent deletes the game's most recent event and returns it
func (s *Service) UndoLastEvent(ctx context.Context, id model.GameID) (*model.GameEvent, error) {
	events, err := s.store.FetchEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, model.ErrNothingToUndo
	}

	last := events[len(events)-1]
	if err := s.store.DeleteEvent(ctx, last.ID); err != nil {
		return nil, err
	}
	return &last, nil
}

// mutate applies fn to a copy of the game and saves it if fn succeeds
func (s *Service) mutate(ctx context.Context, id model.GameID, fn func(*model.Game) error) (*model.Game, error) {
	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *game
	updated.Periods = append([]string(nil), game.Periods...)
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.clock.Now()

	if err := s.store.SaveGame(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
