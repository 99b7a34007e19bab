package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ollieshotz/shotz/internal/dependencies/mocks"
	"github.com/ollieshotz/shotz/internal/model"
)

type MemoryStoreSuite struct {
	suite.Suite
	store  *Store
	clock  *mocks.MockClock
	random *mocks.MockRandom
	ctx    context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.store = New(s.clock, s.random)
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) saveGame(id model.GameID) *model.Game {
	game := &model.Game{
		ID:       id,
		ChildID:  "child-1",
		GameDate: s.clock.Now(),
		Opponent: "Ice Hawks",
		Periods:  model.DefaultPeriods(),
		Status:   model.GameStatusLive,
	}
	s.Require().NoError(s.store.SaveGame(s.ctx, game))
	return game
}

func (s *MemoryStoreSuite) TestProfileRoundTrip() {
	profile := &model.ChildProfile{ID: "c1", OwnerID: "u1", Name: "Ollie"}
	s.Require().NoError(s.store.SaveProfile(s.ctx, profile))

	retrieved, err := s.store.GetProfile(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal("Ollie", retrieved.Name)

	_, err = s.store.GetProfile(s.ctx, "missing")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *MemoryStoreSuite) TestListProfilesByOwner() {
	_ = s.store.SaveProfile(s.ctx, &model.ChildProfile{ID: "c1", OwnerID: "u1"})
	_ = s.store.SaveProfile(s.ctx, &model.ChildProfile{ID: "c2", OwnerID: "u2"})

	profiles, err := s.store.ListProfilesByOwner(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(profiles, 1)
}

func (s *MemoryStoreSuite) TestPinSessionByToken() {
	session := &model.PinSession{ID: "sess-1", ChildID: "c1", Token: "tok"}
	s.Require().NoError(s.store.SavePinSession(s.ctx, session))

	retrieved, err := s.store.GetPinSessionByToken(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)

	_, err = s.store.GetPinSessionByToken(s.ctx, "bogus")
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *MemoryStoreSuite) TestAppendEventAssignsServerFields() {
	s.saveGame("game-1")
	s.random.QueueString("aaa1")

	event, err := s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)
	s.Equal(model.EventID("evt_aaa1"), event.ID)
	s.Equal(s.clock.Now(), event.RecordedAt)
	s.True(event.Synced)
}

func (s *MemoryStoreSuite) TestAppendEventValidation() {
	s.saveGame("game-1")

	_, err := s.store.AppendEvent(s.ctx, "game-1", "block", "P1", "user-1")
	s.ErrorIs(err, model.ErrInvalidEventType)

	_, err = s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "OT", "user-1")
	s.ErrorIs(err, model.ErrUnknownPeriod)

	_, err = s.store.AppendEvent(s.ctx, "missing", model.EventTypeSave, "P1", "user-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *MemoryStoreSuite) TestFetchEventsOrdered() {
	s.saveGame("game-1")
	s.random.QueueString("late", "early")

	s.clock.Advance(time.Hour)
	_, err := s.store.AppendEvent(s.ctx, "game-1", model.EventTypeGoal, "P2", "user-1")
	s.Require().NoError(err)

	s.clock.Set(s.clock.Now().Add(-2 * time.Hour))
	_, err = s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	events, err := s.store.FetchEvents(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(model.EventID("evt_early"), events[0].ID)
	s.Equal(model.EventID("evt_late"), events[1].ID)
}

func (s *MemoryStoreSuite) TestDeleteEventIdempotent() {
	s.saveGame("game-1")
	s.random.QueueString("aaa1")
	event, err := s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	s.NoError(s.store.DeleteEvent(s.ctx, event.ID))
	s.NoError(s.store.DeleteEvent(s.ctx, event.ID))
}

func (s *MemoryStoreSuite) TestDeleteGameCascades() {
	s.saveGame("game-1")
	s.random.QueueString("aaa1")
	_, err := s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteGame(s.ctx, "game-1"))

	_, err = s.store.FetchEvents(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
	s.Empty(s.store.events)
}

type recordingHandler struct {
	inserts []model.GameEvent
	deletes []model.EventID
	updates []model.Game
}

func (h *recordingHandler) OnEventInsert(event model.GameEvent) { h.inserts = append(h.inserts, event) }
func (h *recordingHandler) OnEventDelete(id model.EventID)      { h.deletes = append(h.deletes, id) }
func (h *recordingHandler) OnGameUpdate(game model.Game)        { h.updates = append(h.updates, game) }

func (s *MemoryStoreSuite) TestFeedNotifications() {
	game := s.saveGame("game-1")

	handler := &recordingHandler{}
	unsubscribe, err := s.store.Subscribe(s.ctx, "game-1", handler)
	s.Require().NoError(err)
	defer unsubscribe()

	s.random.QueueString("aaa1")
	event, err := s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)
	s.Require().NoError(s.store.DeleteEvent(s.ctx, event.ID))

	game.Status = model.GameStatusCompleted
	s.Require().NoError(s.store.SaveGame(s.ctx, game))

	s.Require().Len(handler.inserts, 1)
	s.Equal(event.ID, handler.inserts[0].ID)
	s.Require().Len(handler.deletes, 1)
	s.Require().Len(handler.updates, 1)
	s.Equal(model.GameStatusCompleted, handler.updates[0].Status)
}

func (s *MemoryStoreSuite) TestUnsubscribeStopsNotifications() {
	s.saveGame("game-1")

	handler := &recordingHandler{}
	unsubscribe, err := s.store.Subscribe(s.ctx, "game-1", handler)
	s.Require().NoError(err)
	unsubscribe()

	s.random.QueueString("aaa1")
	_, err = s.store.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	s.Empty(handler.inserts)
}
