// Package queue provides the durable outbox for event mutations recorded
// while the remote store is unreachable. Mutations are drained in enqueue
// order by the offline reconciler.
package queue

import (
	"context"

	"github.com/ollieshotz/shotz/internal/model"
)

// Queue is the pending-mutation outbox contract. Implementations must
// preserve enqueue order for ListUnsynced and keep MarkSynced idempotent.
type Queue interface {
	// EnqueueCreate records a pending event insert
	EnqueueCreate(ctx context.Context, payload model.CreateEventPayload) (*model.QueuedMutation, error)

	// EnqueueDelete records a pending event delete
	EnqueueDelete(ctx context.Context, payload model.DeleteEventPayload) (*model.QueuedMutation, error)

	// ListUnsynced returns mutations not yet applied remotely, oldest first
	ListUnsynced(ctx context.Context) ([]*model.QueuedMutation, error)

	// MarkSynced flags a mutation as applied. Marking an already-synced
	// mutation is a no-op; an unknown id is ErrMutationNotFound.
	MarkSynced(ctx context.Context, id model.MutationID) error

	// Remove deletes a mutation outright. Removing an absent mutation
	// succeeds.
	Remove(ctx context.Context, id model.MutationID) error

	// PurgeSynced deletes all synced mutations and reports how many went
	PurgeSynced(ctx context.Context) (int, error)

	// CountUnsynced returns the number of pending mutations
	CountUnsynced(ctx context.Context) (int, error)

	// Close releases any underlying resources
	Close() error
}
