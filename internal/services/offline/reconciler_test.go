package offline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ollieshotz/shotz/internal/dependencies/mocks"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/queue"
	"github.com/ollieshotz/shotz/internal/store"
	"github.com/ollieshotz/shotz/internal/store/memory"
	"github.com/ollieshotz/shotz/internal/testutil"
)

// faultStore wraps the memory store with per-call error injection
type faultStore struct {
	store.Store

	failAppendPeriods map[string]error
	deleteErr         error
}

func (s *faultStore) AppendEvent(ctx context.Context, gameID model.GameID, eventType model.EventType, period string, createdBy model.UserID) (*model.GameEvent, error) {
	if err, ok := s.failAppendPeriods[period]; ok {
		return nil, err
	}
	return s.Store.AppendEvent(ctx, gameID, eventType, period, createdBy)
}

func (s *faultStore) DeleteEvent(ctx context.Context, id model.EventID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.DeleteEvent(ctx, id)
}

type ReconcilerSuite struct {
	suite.Suite
	backing    *memory.Store
	storage    *faultStore
	queue      *queue.MemoryQueue
	reconciler *Reconciler
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	ctx        context.Context
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.backing = memory.New(s.clock, s.random)
	s.storage = &faultStore{Store: s.backing}
	s.queue = queue.NewMemory(s.clock, s.random)
	s.reconciler = NewReconciler(s.storage, s.queue, "user-1", testutil.NopLogger())
	s.ctx = context.Background()

	game := &model.Game{
		ID:      "game-1",
		ChildID: "child-1",
		Periods: model.DefaultPeriods(),
		Status:  model.GameStatusLive,
	}
	s.Require().NoError(s.backing.SaveGame(s.ctx, game))
}

func (s *ReconcilerSuite) queueCreate(mutID, period string, eventType model.EventType) *model.QueuedMutation {
	s.random.QueueString(mutID)
	mutation, err := s.reconciler.QueueCreateEvent(s.ctx, "game-1", eventType, period)
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return mutation
}

func (s *ReconcilerSuite) TestSyncEmptyQueue() {
	result, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{}, result)
}

func (s *ReconcilerSuite) TestSyncDrainsQueuedCreates() {
	// A whole offline stretch: three saves and a goal
	s.queueCreate("m1", "P1", model.EventTypeSave)
	s.queueCreate("m2", "P1", model.EventTypeSave)
	s.queueCreate("m3", "P2", model.EventTypeSave)
	s.queueCreate("m4", "P3", model.EventTypeGoal)
	s.random.QueueString("e1", "e2", "e3", "e4")

	result, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{Synced: 4, Failed: 0}, result)

	events, err := s.backing.FetchEvents(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(events, 4)
	for _, e := range events {
		s.True(e.Synced)
	}

	count, err := s.reconciler.PendingCount(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *ReconcilerSuite) TestSyncQueuedDelete() {
	s.random.QueueString("e1")
	event, err := s.backing.AppendEvent(s.ctx, "game-1", model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	s.random.QueueString("m1")
	_, err = s.reconciler.QueueDeleteEvent(s.ctx, event.ID)
	s.Require().NoError(err)

	result, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{Synced: 1}, result)

	events, err := s.backing.FetchEvents(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *ReconcilerSuite) TestSyncDeleteAbsentCountsAsSynced() {
	s.random.QueueString("m1")
	_, err := s.reconciler.QueueDeleteEvent(s.ctx, "evt_gone")
	s.Require().NoError(err)

	result, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{Synced: 1}, result)
}

func (s *ReconcilerSuite) TestSyncPartialFailureLeavesRecordQueued() {
	s.queueCreate("m1", "P1", model.EventTypeSave)
	s.queueCreate("m2", "P2", model.EventTypeGoal)
	s.storage.failAppendPeriods = map[string]error{"P2": model.ErrStoreUnavailable}
	s.random.QueueString("e1")

	result, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{Synced: 1, Failed: 1, Unreachable: true}, result)

	pending, err := s.queue.ListUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(model.MutationID("mut_m2"), pending[0].ID)

	// Connectivity restored: the retry drains the remainder
	s.storage.failAppendPeriods = nil
	s.random.QueueString("e2")
	result, err = s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{Synced: 1, Failed: 0}, result)
}

func (s *ReconcilerSuite) TestSyncNonConnectivityFailureNotUnreachable() {
	s.queueCreate("m1", "P1", model.EventTypeSave)
	s.storage.failAppendPeriods = map[string]error{"P1": model.ErrUnknownPeriod}

	result, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal(Result{Failed: 1}, result)
	s.False(result.Unreachable)
}

func (s *ReconcilerSuite) TestSyncPurgesSyncedRecords() {
	s.queueCreate("m1", "P1", model.EventTypeSave)
	s.random.QueueString("e1")

	_, err := s.reconciler.Sync(s.ctx)
	s.Require().NoError(err)

	pending, err := s.queue.ListUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Empty(pending)
}
