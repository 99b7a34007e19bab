package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ollieshotz/shotz/internal/api/response"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Manager owns one hub per streamed game and bridges each hub to the store's
// change feed. The feed subscription lives as long as the hub does, so every
// connected client sees the same notifications the offline controllers do.
type Manager struct {
	store  store.Store
	logger *slog.Logger

	mu      sync.Mutex
	bridges map[model.GameID]*bridge
}

type bridge struct {
	hub         *Hub
	unsubscribe store.Unsubscribe
}

// NewManager creates a new SSE manager
func NewManager(st store.Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:   st,
		logger:  logger.With(slog.String("component", "sse")),
		bridges: make(map[model.GameID]*bridge),
	}
}

// GetOrCreateHub returns the hub for a game, wiring up the change-feed
// subscription on first use
func (m *Manager) GetOrCreateHub(ctx context.Context, gameID model.GameID) (*Hub, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.bridges[gameID]; ok {
		return b.hub, nil
	}

	hub := NewHub(gameID, m.logger)
	unsubscribe, err := m.store.Subscribe(ctx, gameID, &feedBroadcaster{hub: hub})
	if err != nil {
		return nil, err
	}

	go hub.Run()
	m.bridges[gameID] = &bridge{hub: hub, unsubscribe: unsubscribe}
	return hub, nil
}

// CleanupEmptyHubs tears down hubs with no connected clients
func (m *Manager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for gameID, b := range m.bridges {
		if b.hub.ClientCount() == 0 {
			b.unsubscribe()
			b.hub.Close()
			delete(m.bridges, gameID)
		}
	}
}

// Close tears down all hubs and subscriptions
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for gameID, b := range m.bridges {
		b.unsubscribe()
		b.hub.Close()
		delete(m.bridges, gameID)
	}
}

// feedBroadcaster relays change-feed notifications onto a hub as SSE events
type feedBroadcaster struct {
	hub *Hub
}

// Ensure feedBroadcaster implements the feed handler
var _ store.FeedHandler = (*feedBroadcaster)(nil)

func (f *feedBroadcaster) OnEventInsert(event model.GameEvent) {
	f.send("event_insert", response.EventFromModel(&event))
}

func (f *feedBroadcaster) OnEventDelete(id model.EventID) {
	f.send("event_delete", map[string]string{"event_id": string(id)})
}

func (f *feedBroadcaster) OnGameUpdate(game model.Game) {
	f.send("game_update", response.GameFromModel(&game))
}

func (f *feedBroadcaster) send(eventName string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	f.hub.BroadcastEvent(eventName, string(data))
}
