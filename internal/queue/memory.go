package queue

import (
	"context"
	"sync"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
)

// MemoryQueue is an in-memory queue implementation. It keeps mutations in
// enqueue order and is intended for tests and single-process setups where
// durability across restarts is not needed.
type MemoryQueue struct {
	mu        sync.Mutex
	mutations []*model.QueuedMutation

	clock  clock.Clock
	random random.Random
}

// NewMemory creates a new in-memory queue
func NewMemory(clk clock.Clock, rnd random.Random) *MemoryQueue {
	return &MemoryQueue{clock: clk, random: rnd}
}

// Ensure MemoryQueue implements the interface
var _ Queue = (*MemoryQueue)(nil)

func (q *MemoryQueue) EnqueueCreate(ctx context.Context, payload model.CreateEventPayload) (*model.QueuedMutation, error) {
	mutation := &model.QueuedMutation{
		ID:        model.MutationID(random.ID(q.random, "mut_")),
		Action:    model.ActionCreateEvent,
		Create:    &payload,
		CreatedAt: q.clock.Now(),
	}
	if err := mutation.Validate(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.mutations = append(q.mutations, mutation)
	return mutation, nil
}

func (q *MemoryQueue) EnqueueDelete(ctx context.Context, payload model.DeleteEventPayload) (*model.QueuedMutation, error) {
	mutation := &model.QueuedMutation{
		ID:        model.MutationID(random.ID(q.random, "mut_")),
		Action:    model.ActionDeleteEvent,
		Delete:    &payload,
		CreatedAt: q.clock.Now(),
	}
	if err := mutation.Validate(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.mutations = append(q.mutations, mutation)
	return mutation, nil
}

func (q *MemoryQueue) ListUnsynced(ctx context.Context) ([]*model.QueuedMutation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var pending []*model.QueuedMutation
	for _, m := range q.mutations {
		if !m.Synced {
			copied := *m
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (q *MemoryQueue) MarkSynced(ctx context.Context, id model.MutationID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, m := range q.mutations {
		if m.ID == id {
			m.Synced = true
			return nil
		}
	}
	return model.ErrMutationNotFound
}

func (q *MemoryQueue) Remove(ctx context.Context, id model.MutationID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, m := range q.mutations {
		if m.ID == id {
			q.mutations = append(q.mutations[:i], q.mutations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *MemoryQueue) PurgeSynced(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	remaining := q.mutations[:0]
	purged := 0
	for _, m := range q.mutations {
		if m.Synced {
			purged++
			continue
		}
		remaining = append(remaining, m)
	}
	q.mutations = remaining
	return purged, nil
}

func (q *MemoryQueue) CountUnsynced(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, m := range q.mutations {
		if !m.Synced {
			count++
		}
	}
	return count, nil
}

func (q *MemoryQueue) Close() error {
	return nil
}
