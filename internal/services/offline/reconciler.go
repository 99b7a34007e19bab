// Package offline bridges the local durable queue and the remote store:
// mutations recorded while unreachable are drained back once connectivity
// returns.
package offline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/queue"
	"github.com/ollieshotz/shotz/internal/store"
)

// Result reports the outcome of one sync pass. Unreachable is set when any
// failure in the pass was a store reachability error, so callers can feed
// the connectivity monitor.
type Result struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`

	Unreachable bool `json:"-"`
}

// Reconciler drains the offline queue against the remote store. Sync passes
// are serialized; callers may trigger them from connectivity callbacks and
// API requests concurrently.
type Reconciler struct {
	store  store.Store
	queue  queue.Queue
	logger *slog.Logger

	creator model.UserID

	syncMu sync.Mutex
}

// NewReconciler creates a reconciler that applies queued mutations on behalf
// of the given user
func NewReconciler(st store.Store, q queue.Queue, creator model.UserID, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:   st,
		queue:   q,
		logger:  logger,
		creator: creator,
	}
}

// QueueCreateEvent records a pending event insert for later sync
func (r *Reconciler) QueueCreateEvent(ctx context.Context, gameID model.GameID, eventType model.EventType, period string) (*model.QueuedMutation, error) {
	return r.queue.EnqueueCreate(ctx, model.CreateEventPayload{
		GameID: gameID,
		Type:   eventType,
		Period: period,
	})
}

// QueueDeleteEvent records a pending event delete for later sync
func (r *Reconciler) QueueDeleteEvent(ctx context.Context, eventID model.EventID) (*model.QueuedMutation, error) {
	return r.queue.EnqueueDelete(ctx, model.DeleteEventPayload{EventID: eventID})
}

// PendingCount reports how many mutations still await sync
func (r *Reconciler) PendingCount(ctx context.Context) (int, error) {
	return r.queue.CountUnsynced(ctx)
}

// Sync drains all unsynced mutations in enqueue order. Each applied mutation
// is marked synced; a mutation that fails stays queued and counts as failed.
// Deleting an event that is already gone remotely counts as success. Synced
// records are purged at the end of the pass.
func (r *Reconciler) Sync(ctx context.Context) (Result, error) {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	pending, err := r.queue.ListUnsynced(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(pending) == 0 {
		return Result{}, nil
	}

	result := Result{}
	for _, mutation := range pending {
		if err := r.apply(ctx, mutation); err != nil {
			result.Failed++
			if errors.Is(err, model.ErrStoreUnavailable) {
				result.Unreachable = true
			}
			r.logger.Warn("mutation sync failed",
				slog.String("mutation_id", string(mutation.ID)),
				slog.String("action", string(mutation.Action)),
				slog.Any("error", err))
			continue
		}

		if err := r.queue.MarkSynced(ctx, mutation.ID); err != nil {
			result.Failed++
			continue
		}
		result.Synced++
	}

	if _, err := r.queue.PurgeSynced(ctx); err != nil {
		r.logger.Warn("purge of synced mutations failed", slog.Any("error", err))
	}

	r.logger.Info("offline sync pass complete",
		slog.Int("synced", result.Synced),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (r *Reconciler) apply(ctx context.Context, mutation *model.QueuedMutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	switch mutation.Action {
	case model.ActionCreateEvent:
		_, err := r.store.AppendEvent(ctx, mutation.Create.GameID, mutation.Create.Type, mutation.Create.Period, r.creator)
		return err
	case model.ActionDeleteEvent:
		err := r.store.DeleteEvent(ctx, mutation.Delete.EventID)
		if errors.Is(err, model.ErrEventNotFound) {
			// Already gone remotely; the intent is satisfied
			return nil
		}
		return err
	default:
		return model.ErrInvalidMutation
	}
}
