package redis

import (
	"context"
	"encoding/json"

	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Feed message kinds carried on the per-game pub/sub channel
const (
	feedEventInsert = "event_insert"
	feedEventDelete = "event_delete"
	feedGameUpdate  = "game_update"
)

// feedMessage is the wire format of a change-feed notification
type feedMessage struct {
	Kind    string           `json:"kind"`
	Event   *model.GameEvent `json:"event,omitempty"`
	EventID model.EventID    `json:"event_id,omitempty"`
	Game    *model.Game      `json:"game,omitempty"`
}

// publish sends a change notification on the game's feed channel. Publish
// failures are swallowed: the write already committed and subscribers
// reconcile on their next full fetch.
func (s *Store) publish(ctx context.Context, gameID model.GameID, msg feedMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.client.Publish(ctx, feedChannel(gameID), data)
}

// Subscribe registers a change-feed handler for one game. Notifications are
// delivered on a dedicated goroutine until Unsubscribe is called or ctx ends.
func (s *Store) Subscribe(ctx context.Context, gameID model.GameID, handler store.FeedHandler) (store.Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, feedChannel(gameID))

	// Force the subscription to be established before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, wrapUnavailable(err)
	}

	go func() {
		for raw := range pubsub.Channel() {
			var msg feedMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				continue
			}
			switch msg.Kind {
			case feedEventInsert:
				if msg.Event != nil {
					handler.OnEventInsert(*msg.Event)
				}
			case feedEventDelete:
				if msg.EventID != "" {
					handler.OnEventDelete(msg.EventID)
				}
			case feedGameUpdate:
				if msg.Game != nil {
					handler.OnGameUpdate(*msg.Game)
				}
			}
		}
	}()

	return func() {
		_ = pubsub.Close()
	}, nil
}
