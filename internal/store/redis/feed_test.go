package redis

import (
	"time"

	"github.com/ollieshotz/shotz/internal/model"
)

// captureHandler buffers feed notifications onto channels for test assertions
type captureHandler struct {
	inserts chan model.GameEvent
	deletes chan model.EventID
	updates chan model.Game
}

func newCaptureHandler() *captureHandler {
	return &captureHandler{
		inserts: make(chan model.GameEvent, 8),
		deletes: make(chan model.EventID, 8),
		updates: make(chan model.Game, 8),
	}
}

func (h *captureHandler) OnEventInsert(event model.GameEvent) { h.inserts <- event }
func (h *captureHandler) OnEventDelete(id model.EventID)      { h.deletes <- id }
func (h *captureHandler) OnGameUpdate(game model.Game)        { h.updates <- game }

const feedWait = 2 * time.Second

func (s *StorageSuite) TestFeedDeliversEventInsert() {
	s.saveGame("game-1")

	handler := newCaptureHandler()
	unsubscribe, err := s.storage.Subscribe(s.ctx, "game-1", handler)
	s.Require().NoError(err)
	defer unsubscribe()

	s.random.QueueString("aaa1")
	appended, err := s.storage.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	select {
	case event := <-handler.inserts:
		s.Equal(appended.ID, event.ID)
		s.Equal(model.EventTypeSave, event.Type)
	case <-time.After(feedWait):
		s.Fail("timed out waiting for insert notification")
	}
}

func (s *StorageSuite) TestFeedDeliversEventDelete() {
	s.saveGame("game-1")
	s.random.QueueString("aaa1")
	event, err := s.storage.AppendEvent(s.ctx, "game-1", model.EventTypeGoal, "P2", "user-1")
	s.Require().NoError(err)

	handler := newCaptureHandler()
	unsubscribe, err := s.storage.Subscribe(s.ctx, "game-1", handler)
	s.Require().NoError(err)
	defer unsubscribe()

	s.Require().NoError(s.storage.DeleteEvent(s.ctx, event.ID))

	select {
	case id := <-handler.deletes:
		s.Equal(event.ID, id)
	case <-time.After(feedWait):
		s.Fail("timed out waiting for delete notification")
	}
}

func (s *StorageSuite) TestFeedDeliversGameUpdate() {
	game := s.saveGame("game-1")

	handler := newCaptureHandler()
	unsubscribe, err := s.storage.Subscribe(s.ctx, "game-1", handler)
	s.Require().NoError(err)
	defer unsubscribe()

	game.Status = model.GameStatusCompleted
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	select {
	case updated := <-handler.updates:
		s.Equal(model.GameStatusCompleted, updated.Status)
	case <-time.After(feedWait):
		s.Fail("timed out waiting for game update notification")
	}
}

func (s *StorageSuite) TestFeedScopedToGame() {
	s.saveGame("game-1")
	s.saveGame("game-2")

	handler := newCaptureHandler()
	unsubscribe, err := s.storage.Subscribe(s.ctx, "game-1", handler)
	s.Require().NoError(err)
	defer unsubscribe()

	s.random.QueueString("bbb1")
	_, err = s.storage.AppendEvent(s.ctx, "game-2", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	select {
	case event := <-handler.inserts:
		s.Failf("unexpected notification", "got insert for %s", event.ID)
	case <-time.After(200 * time.Millisecond):
	}
}
