// Package session implements the live game session controller: an in-memory
// view of one game's event log that applies local writes optimistically,
// reconciles them against the remote store, and merges the store's change
// feed while suppressing echoes of its own confirmed writes.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/stats"
	"github.com/ollieshotz/shotz/internal/store"
)

// Controller manages a live view of one game. All exported methods are safe
// for concurrent use; feed notifications may arrive on any goroutine.
type Controller struct {
	store  store.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	creator model.UserID

	mu     sync.Mutex
	gameID model.GameID
	game   *model.Game
	events []model.GameEvent

	// selfInserted holds confirmed event ids whose feed echo has not yet
	// arrived. The first matching insert notification is dropped and its
	// marker cleared.
	selfInserted map[model.EventID]struct{}

	unsubscribe store.Unsubscribe
	loaded      bool
	closed      bool

	statsService *stats.Service
}

// NewController creates a controller for the given user. Call Load before
// recording events.
func NewController(st store.Store, clk clock.Clock, rnd random.Random, creator model.UserID, logger *slog.Logger) *Controller {
	return &Controller{
		store:        st,
		clock:        clk,
		random:       rnd,
		logger:       logger,
		creator:      creator,
		selfInserted: make(map[model.EventID]struct{}),
		statsService: stats.New(),
	}
}

// Ensure the controller can consume the change feed directly
var _ store.FeedHandler = (*Controller)(nil)

// Load fetches the game row and its ordered history, then subscribes to the
// game's change feed. Not-found and transient failures surface unchanged so
// callers can distinguish them.
func (c *Controller) Load(ctx context.Context, gameID model.GameID) error {
	game, err := c.store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	events, err := c.store.FetchEvents(ctx, gameID)
	if err != nil {
		return err
	}

	unsubscribe, err := c.store.Subscribe(ctx, gameID, c)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		unsubscribe()
		return model.ErrSessionClosed
	}

	c.gameID = gameID
	c.game = game
	c.events = events
	c.unsubscribe = unsubscribe
	c.loaded = true

	c.logger.Info("game session loaded",
		slog.String("game_id", string(gameID)),
		slog.Int("events", len(events)))
	return nil
}

// AddEvent records a save or goal optimistically and confirms it against the
// remote store. The provisional event is visible in Events immediately; on
// remote failure it is rolled back and the error returned.
func (c *Controller) AddEvent(ctx context.Context, eventType model.EventType, period string) (*model.GameEvent, error) {
	if !eventType.Valid() {
		return nil, model.ErrInvalidEventType
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, model.ErrSessionClosed
	}
	if !c.loaded {
		c.mu.Unlock()
		return nil, model.ErrSessionLoading
	}
	if !c.game.HasPeriod(period) {
		c.mu.Unlock()
		return nil, model.ErrUnknownPeriod
	}

	provisional := model.GameEvent{
		ID:         model.EventID(random.ID(c.random, "tmp_")),
		GameID:     c.gameID,
		Type:       eventType,
		Period:     period,
		RecordedAt: c.clock.Now(),
		Synced:     false,
		CreatedBy:  c.creator,
	}
	c.events = append(c.events, provisional)
	model.SortEventsByRecordedAt(c.events)
	gameID := c.gameID
	c.mu.Unlock()

	confirmed, err := c.store.AppendEvent(ctx, gameID, eventType, period, c.creator)
	if err != nil {
		c.removeEvent(provisional.ID)
		c.logger.Warn("event append failed, rolled back",
			slog.String("game_id", string(gameID)),
			slog.String("type", string(eventType)),
			slog.Any("error", err))
		return nil, err
	}

	c.confirm(provisional.ID, *confirmed)
	return confirmed, nil
}

// confirm swaps the provisional event for the store-confirmed one. The feed
// echo can arrive before the append call returns; when it already merged the
// confirmed event, only the provisional copy is dropped and no suppression
// marker is left behind.
func (c *Controller) confirm(provisionalID model.EventID, confirmed model.GameEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if c.indexOf(confirmed.ID) >= 0 {
		c.removeLocked(provisionalID)
		return
	}

	if i := c.indexOf(provisionalID); i >= 0 {
		c.events[i] = confirmed
	} else {
		c.events = append(c.events, confirmed)
	}
	model.SortEventsByRecordedAt(c.events)
	c.selfInserted[confirmed.ID] = struct{}{}
}

// UndoLastEvent removes the most recent event and deletes it remotely. An
// empty log returns ErrNothingToUndo without a remote call; remote failure
// rolls the removal back.
func (c *Controller) UndoLastEvent(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrSessionClosed
	}
	if !c.loaded {
		c.mu.Unlock()
		return model.ErrSessionLoading
	}
	if len(c.events) == 0 {
		c.mu.Unlock()
		return model.ErrNothingToUndo
	}

	last := c.events[len(c.events)-1]
	c.events = c.events[:len(c.events)-1]
	c.mu.Unlock()

	if err := c.store.DeleteEvent(ctx, last.ID); err != nil {
		c.mu.Lock()
		if !c.closed && c.indexOf(last.ID) < 0 {
			c.events = append(c.events, last)
			model.SortEventsByRecordedAt(c.events)
		}
		c.mu.Unlock()
		c.logger.Warn("undo failed, event restored",
			slog.String("event_id", string(last.ID)),
			slog.Any("error", err))
		return err
	}
	return nil
}

// UpdateStatus transitions the game to the given status
func (c *Controller) UpdateStatus(ctx context.Context, status model.GameStatus) error {
	if !status.Valid() {
		return model.ErrInvalidGameStatus
	}
	return c.updateGame(ctx, func(game *model.Game) {
		game.Status = status
	})
}

// UpdateNotes replaces the game's notes
func (c *Controller) UpdateNotes(ctx context.Context, notes string) error {
	return c.updateGame(ctx, func(game *model.Game) {
		game.Notes = notes
	})
}

func (c *Controller) updateGame(ctx context.Context, mutate func(*model.Game)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrSessionClosed
	}
	if !c.loaded {
		c.mu.Unlock()
		return model.ErrSessionLoading
	}
	updated := *c.game
	updated.Periods = append([]string(nil), c.game.Periods...)
	mutate(&updated)
	updated.UpdatedAt = c.clock.Now()
	c.mu.Unlock()

	if err := c.store.SaveGame(ctx, &updated); err != nil {
		return err
	}

	c.mu.Lock()
	if !c.closed {
		c.game = &updated
	}
	c.mu.Unlock()
	return nil
}

// Game returns a snapshot of the loaded game
func (c *Controller) Game() *model.Game {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game == nil {
		return nil
	}
	snapshot := *c.game
	snapshot.Periods = append([]string(nil), c.game.Periods...)
	return &snapshot
}

// Events returns a snapshot of the current event log, ordered by recorded
// timestamp ascending
func (c *Controller) Events() []model.GameEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.GameEvent(nil), c.events...)
}

// Stats summarizes the current event log, provisional events included
func (c *Controller) Stats() stats.GameStats {
	return c.statsService.Calculate(c.Events())
}

// Close tears down the feed subscription. Confirmations and notifications
// arriving afterwards are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Feed ingestion

// OnEventInsert merges an insert notification. The first echo of an event
// this controller confirmed is dropped and its marker cleared; duplicates of
// known events are ignored.
func (c *Controller) OnEventInsert(event model.GameEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if _, ok := c.selfInserted[event.ID]; ok {
		delete(c.selfInserted, event.ID)
		return
	}
	if c.indexOf(event.ID) >= 0 {
		return
	}

	c.events = append(c.events, event)
	model.SortEventsByRecordedAt(c.events)
}

// OnEventDelete removes an event if present. Deleting an unknown id is a
// no-op.
func (c *Controller) OnEventDelete(id model.EventID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.removeLocked(id)
}

// OnGameUpdate replaces the game row wholesale
func (c *Controller) OnGameUpdate(game model.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.loaded {
		return
	}
	c.game = &game
}

// Internal helpers. Callers must hold c.mu unless noted.

func (c *Controller) indexOf(id model.EventID) int {
	for i, e := range c.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) removeLocked(id model.EventID) bool {
	if i := c.indexOf(id); i >= 0 {
		c.events = append(c.events[:i], c.events[i+1:]...)
		return true
	}
	return false
}

// removeEvent removes an event under lock (for rollback paths)
func (c *Controller) removeEvent(id model.EventID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}
