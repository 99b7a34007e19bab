package queue

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS offline_queue (
	id         TEXT PRIMARY KEY,
	action     TEXT NOT NULL,
	game_id    TEXT,
	event_type TEXT,
	period     TEXT,
	event_id   TEXT,
	created_at TEXT NOT NULL,
	synced     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_offline_queue_synced ON offline_queue (synced, created_at);
`

// SqliteQueue is a file-backed queue implementation. It survives process
// restarts, which is what makes offline recording safe: a crash between
// enqueue and sync loses nothing.
type SqliteQueue struct {
	db *sql.DB

	clock  clock.Clock
	random random.Random
}

// NewSqlite opens (or creates) the queue database at the given path
func NewSqlite(path string, clk clock.Clock, rnd random.Random) (*SqliteQueue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Serialize access; the queue is low-volume and sqlite prefers a
	// single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SqliteQueue{db: db, clock: clk, random: rnd}, nil
}

// Ensure SqliteQueue implements the interface
var _ Queue = (*SqliteQueue)(nil)

// Close closes the underlying database
func (q *SqliteQueue) Close() error {
	return q.db.Close()
}

func (q *SqliteQueue) insert(ctx context.Context, mutation *model.QueuedMutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	var gameID, eventType, period, eventID string
	switch mutation.Action {
	case model.ActionCreateEvent:
		gameID = string(mutation.Create.GameID)
		eventType = string(mutation.Create.Type)
		period = mutation.Create.Period
	case model.ActionDeleteEvent:
		eventID = string(mutation.Delete.EventID)
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO offline_queue (id, action, game_id, event_type, period, event_id, created_at, synced)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		string(mutation.ID), string(mutation.Action), gameID, eventType, period, eventID,
		mutation.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (q *SqliteQueue) EnqueueCreate(ctx context.Context, payload model.CreateEventPayload) (*model.QueuedMutation, error) {
	mutation := &model.QueuedMutation{
		ID:        model.MutationID(random.ID(q.random, "mut_")),
		Action:    model.ActionCreateEvent,
		Create:    &payload,
		CreatedAt: q.clock.Now(),
	}
	if err := q.insert(ctx, mutation); err != nil {
		return nil, err
	}
	return mutation, nil
}

func (q *SqliteQueue) EnqueueDelete(ctx context.Context, payload model.DeleteEventPayload) (*model.QueuedMutation, error) {
	mutation := &model.QueuedMutation{
		ID:        model.MutationID(random.ID(q.random, "mut_")),
		Action:    model.ActionDeleteEvent,
		Delete:    &payload,
		CreatedAt: q.clock.Now(),
	}
	if err := q.insert(ctx, mutation); err != nil {
		return nil, err
	}
	return mutation, nil
}

func (q *SqliteQueue) ListUnsynced(ctx context.Context) ([]*model.QueuedMutation, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, action, game_id, event_type, period, event_id, created_at
		 FROM offline_queue WHERE synced = 0 ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mutations []*model.QueuedMutation
	for rows.Next() {
		var id, action, gameID, eventType, period, eventID, createdAt string
		if err := rows.Scan(&id, &action, &gameID, &eventType, &period, &eventID, &createdAt); err != nil {
			return nil, err
		}

		recordedAt, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}

		mutation := &model.QueuedMutation{
			ID:        model.MutationID(id),
			Action:    model.MutationAction(action),
			CreatedAt: recordedAt,
		}
		switch mutation.Action {
		case model.ActionCreateEvent:
			mutation.Create = &model.CreateEventPayload{
				GameID: model.GameID(gameID),
				Type:   model.EventType(eventType),
				Period: period,
			}
		case model.ActionDeleteEvent:
			mutation.Delete = &model.DeleteEventPayload{
				EventID: model.EventID(eventID),
			}
		}
		mutations = append(mutations, mutation)
	}
	return mutations, rows.Err()
}

func (q *SqliteQueue) MarkSynced(ctx context.Context, id model.MutationID) error {
	result, err := q.db.ExecContext(ctx,
		`UPDATE offline_queue SET synced = 1 WHERE id = ?`, string(id))
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish an unknown id from an already-synced row
		var synced int
		err := q.db.QueryRowContext(ctx,
			`SELECT synced FROM offline_queue WHERE id = ?`, string(id)).Scan(&synced)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrMutationNotFound
		}
		return err
	}
	return nil
}

func (q *SqliteQueue) Remove(ctx context.Context, id model.MutationID) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM offline_queue WHERE id = ?`, string(id))
	return err
}

func (q *SqliteQueue) PurgeSynced(ctx context.Context) (int, error) {
	result, err := q.db.ExecContext(ctx, `DELETE FROM offline_queue WHERE synced = 1`)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (q *SqliteQueue) CountUnsynced(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM offline_queue WHERE synced = 0`).Scan(&count)
	return count, err
}
