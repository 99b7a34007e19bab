package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ollieshotz/shotz/internal/dependencies/mocks"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
	"github.com/ollieshotz/shotz/internal/store/memory"
	"github.com/ollieshotz/shotz/internal/testutil"
)

// interceptStore wraps a real store with error injection and call counting.
// With feedOff set, Subscribe registers nothing so feed notifications can be
// driven by hand.
type interceptStore struct {
	store.Store

	appendErr error
	deleteErr error
	saveErr   error
	feedOff   bool

	deleteCalls int
}

func (s *interceptStore) AppendEvent(ctx context.Context, gameID model.GameID, eventType model.EventType, period string, createdBy model.UserID) (*model.GameEvent, error) {
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	return s.Store.AppendEvent(ctx, gameID, eventType, period, createdBy)
}

func (s *interceptStore) DeleteEvent(ctx context.Context, id model.EventID) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.DeleteEvent(ctx, id)
}

func (s *interceptStore) SaveGame(ctx context.Context, game *model.Game) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.SaveGame(ctx, game)
}

func (s *interceptStore) Subscribe(ctx context.Context, gameID model.GameID, handler store.FeedHandler) (store.Unsubscribe, error) {
	if s.feedOff {
		return func() {}, nil
	}
	return s.Store.Subscribe(ctx, gameID, handler)
}

type ControllerSuite struct {
	suite.Suite
	backing    *memory.Store
	storage    *interceptStore
	controller *Controller
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.backing = memory.New(s.clock, s.random)
	s.storage = &interceptStore{Store: s.backing}
	s.controller = NewController(s.storage, s.clock, s.random, "user-1", testutil.NopLogger())
	s.ctx = context.Background()

	game := &model.Game{
		ID:       "game-1",
		ChildID:  "child-1",
		GameDate: s.clock.Now(),
		Opponent: "Ice Hawks",
		Periods:  model.DefaultPeriods(),
		Status:   model.GameStatusLive,
	}
	s.Require().NoError(s.backing.SaveGame(s.ctx, game))
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Close()
}

func (s *ControllerSuite) load() {
	s.Require().NoError(s.controller.Load(s.ctx, "game-1"))
}

// addEvent queues ids for the provisional and confirmed copies and records
// one event through the controller.
func (s *ControllerSuite) addEvent(eventType model.EventType, period, tmpID, remoteID string) *model.GameEvent {
	s.random.QueueString(tmpID, remoteID)
	event, err := s.controller.AddEvent(s.ctx, eventType, period)
	s.Require().NoError(err)
	return event
}

func (s *ControllerSuite) TestLoadUnknownGame() {
	err := s.controller.Load(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestLoadPopulatesHistory() {
	s.random.QueueString("hist")
	_, err := s.backing.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-2")
	s.Require().NoError(err)

	s.load()

	s.Require().Len(s.controller.Events(), 1)
	s.Equal(model.GameID("game-1"), s.controller.Game().ID)
}

func (s *ControllerSuite) TestAddEventBeforeLoad() {
	_, err := s.controller.AddEvent(s.ctx, model.EventTypeSave, "P1")
	s.ErrorIs(err, model.ErrSessionLoading)
}

func (s *ControllerSuite) TestAddEventConfirmed() {
	s.load()

	event := s.addEvent(model.EventTypeSave, "P1", "t1", "e1")
	s.Equal(model.EventID("evt_e1"), event.ID)
	s.True(event.Synced)

	events := s.controller.Events()
	s.Require().Len(events, 1)
	s.Equal(model.EventID("evt_e1"), events[0].ID)
}

func (s *ControllerSuite) TestAddEventValidation() {
	s.load()

	_, err := s.controller.AddEvent(s.ctx, "block", "P1")
	s.ErrorIs(err, model.ErrInvalidEventType)

	_, err = s.controller.AddEvent(s.ctx, model.EventTypeSave, "OT")
	s.ErrorIs(err, model.ErrUnknownPeriod)
}

func (s *ControllerSuite) TestAddEventRollbackOnFailure() {
	s.load()
	s.storage.appendErr = model.ErrStoreUnavailable

	s.random.QueueString("t1")
	_, err := s.controller.AddEvent(s.ctx, model.EventTypeGoal, "P2")
	s.ErrorIs(err, model.ErrStoreUnavailable)
	s.Empty(s.controller.Events())
}

func (s *ControllerSuite) TestAddEventEchoAfterConfirmSuppressed() {
	s.storage.feedOff = true
	s.load()

	event := s.addEvent(model.EventTypeSave, "P1", "t1", "e1")

	// Late echo of our own insert: dropped, marker cleared
	s.controller.OnEventInsert(*event)
	s.Require().Len(s.controller.Events(), 1)

	// A replayed duplicate after the marker is gone still merges only once
	s.controller.OnEventInsert(*event)
	s.Len(s.controller.Events(), 1)
}

func (s *ControllerSuite) TestUndoEmptyLogSkipsRemote() {
	s.load()

	err := s.controller.UndoLastEvent(s.ctx)
	s.ErrorIs(err, model.ErrNothingToUndo)
	s.Zero(s.storage.deleteCalls)
}

func (s *ControllerSuite) TestUndoRemovesLastEvent() {
	s.load()
	s.addEvent(model.EventTypeSave, "P1", "t1", "e1")
	s.clock.Advance(time.Minute)
	s.addEvent(model.EventTypeGoal, "P2", "t2", "e2")

	s.Require().NoError(s.controller.UndoLastEvent(s.ctx))

	events := s.controller.Events()
	s.Require().Len(events, 1)
	s.Equal(model.EventID("evt_e1"), events[0].ID)

	remote, err := s.backing.FetchEvents(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Len(remote, 1)
}

func (s *ControllerSuite) TestUndoRollbackOnFailure() {
	s.load()
	s.addEvent(model.EventTypeSave, "P1", "t1", "e1")
	s.clock.Advance(time.Minute)
	s.addEvent(model.EventTypeGoal, "P2", "t2", "e2")

	s.storage.deleteErr = model.ErrStoreUnavailable
	err := s.controller.UndoLastEvent(s.ctx)
	s.ErrorIs(err, model.ErrStoreUnavailable)

	events := s.controller.Events()
	s.Require().Len(events, 2)
	s.Equal(model.EventID("evt_e2"), events[1].ID)
}

func (s *ControllerSuite) TestUndoAbsentOnRemoteIsSuccess() {
	s.storage.feedOff = true
	s.load()
	event := s.addEvent(model.EventTypeSave, "P1", "t1", "e1")

	// Another device already deleted it remotely
	s.Require().NoError(s.backing.DeleteEvent(s.ctx, event.ID))

	s.NoError(s.controller.UndoLastEvent(s.ctx))
	s.Empty(s.controller.Events())
}

func (s *ControllerSuite) TestFeedInsertFromOtherWriterSorted() {
	s.load()
	s.clock.Advance(time.Hour)
	s.addEvent(model.EventTypeSave, "P2", "t1", "e1")

	earlier := model.GameEvent{
		ID:         "evt_other",
		GameID:     "game-1",
		Type:       model.EventTypeGoal,
		Period:     "P1",
		RecordedAt: s.clock.Now().Add(-30 * time.Minute),
		Synced:     true,
		CreatedBy:  "user-2",
	}
	s.controller.OnEventInsert(earlier)

	events := s.controller.Events()
	s.Require().Len(events, 2)
	s.Equal(model.EventID("evt_other"), events[0].ID)
	s.Equal(model.EventID("evt_e1"), events[1].ID)
}

func (s *ControllerSuite) TestFeedDeleteIdempotent() {
	s.load()
	event := s.addEvent(model.EventTypeSave, "P1", "t1", "e1")

	s.controller.OnEventDelete(event.ID)
	s.controller.OnEventDelete(event.ID)
	s.controller.OnEventDelete("evt_unknown")
	s.Empty(s.controller.Events())
}

func (s *ControllerSuite) TestFeedGameUpdateReplaces() {
	s.load()

	updated := *s.controller.Game()
	updated.Status = model.GameStatusCompleted
	updated.Notes = "great game"
	s.controller.OnGameUpdate(updated)

	game := s.controller.Game()
	s.Equal(model.GameStatusCompleted, game.Status)
	s.Equal("great game", game.Notes)
}

func (s *ControllerSuite) TestUpdateStatus() {
	s.load()

	s.Require().NoError(s.controller.UpdateStatus(s.ctx, model.GameStatusCompleted))
	s.Equal(model.GameStatusCompleted, s.controller.Game().Status)

	remote, err := s.backing.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, remote.Status)
}

func (s *ControllerSuite) TestUpdateStatusInvalid() {
	s.load()
	s.ErrorIs(s.controller.UpdateStatus(s.ctx, "paused"), model.ErrInvalidGameStatus)
}

func (s *ControllerSuite) TestUpdateNotes() {
	s.load()

	s.Require().NoError(s.controller.UpdateNotes(s.ctx, "faced heavy pressure in P3"))

	remote, err := s.backing.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal("faced heavy pressure in P3", remote.Notes)
}

func (s *ControllerSuite) TestUpdateGameFailure() {
	s.load()
	s.storage.saveErr = model.ErrStoreUnavailable

	s.ErrorIs(s.controller.UpdateNotes(s.ctx, "x"), model.ErrStoreUnavailable)
	s.Empty(s.controller.Game().Notes)
}

func (s *ControllerSuite) TestStats() {
	s.load()
	s.addEvent(model.EventTypeSave, "P1", "t1", "e1")
	s.addEvent(model.EventTypeSave, "P1", "t2", "e2")
	s.addEvent(model.EventTypeSave, "P2", "t3", "e3")
	s.addEvent(model.EventTypeGoal, "P3", "t4", "e4")

	stats := s.controller.Stats()
	s.Equal(3, stats.Saves)
	s.Equal(1, stats.Goals)
	s.InDelta(75.0, stats.SavePercentage, 0.001)
}

func (s *ControllerSuite) TestCloseIgnoresLateActivity() {
	s.load()
	s.controller.Close()

	s.controller.OnEventInsert(model.GameEvent{ID: "evt_late", GameID: "game-1", Type: model.EventTypeSave, Period: "P1"})
	s.Empty(s.controller.Events())

	_, err := s.controller.AddEvent(s.ctx, model.EventTypeSave, "P1")
	s.ErrorIs(err, model.ErrSessionClosed)
	s.ErrorIs(s.controller.UndoLastEvent(s.ctx), model.ErrSessionClosed)
}
