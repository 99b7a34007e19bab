package memory

import (
	"context"
	"sync"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Store is an in-memory implementation of the store interface. Change-feed
// notifications are delivered synchronously on the mutating goroutine, which
// keeps tests deterministic.
type Store struct {
	mu sync.RWMutex

	profiles      map[model.ProfileID]*model.ChildProfile
	familyMembers map[model.FamilyMemberID]*model.FamilyMember
	pinSessions   map[model.PinSessionID]*model.PinSession
	tokenIndex    map[string]model.PinSessionID
	games         map[model.GameID]*model.Game
	events        map[model.EventID]*model.GameEvent

	subscribers map[model.GameID]map[*subscription]bool

	clock  clock.Clock
	random random.Random
}

type subscription struct {
	gameID  model.GameID
	handler store.FeedHandler
}

// New creates a new in-memory store instance
func New(clk clock.Clock, rnd random.Random) *Store {
	return &Store{
		profiles:      make(map[model.ProfileID]*model.ChildProfile),
		familyMembers: make(map[model.FamilyMemberID]*model.FamilyMember),
		pinSessions:   make(map[model.PinSessionID]*model.PinSession),
		tokenIndex:    make(map[string]model.PinSessionID),
		games:         make(map[model.GameID]*model.Game),
		events:        make(map[model.EventID]*model.GameEvent),
		subscribers:   make(map[model.GameID]map[*subscription]bool),
		clock:         clk,
		random:        rnd,
	}
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// Profile operations

func (s *Store) SaveProfile(ctx context.Context, profile *model.ChildProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id model.ProfileID) (*model.ChildProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Store) ListProfilesByOwner(ctx context.Context, owner model.UserID) ([]*model.ChildProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var profiles []*model.ChildProfile
	for _, p := range s.profiles {
		if p.OwnerID == owner {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *Store) ListPinEnabledProfiles(ctx context.Context) ([]*model.ChildProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var profiles []*model.ChildProfile
	for _, p := range s.profiles {
		if p.PinEnabled && p.PinHash != "" {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *Store) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	return nil
}

// Family member operations

func (s *Store) SaveFamilyMember(ctx context.Context, member *model.FamilyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.familyMembers[member.ID] = member
	return nil
}

func (s *Store) GetFamilyMember(ctx context.Context, id model.FamilyMemberID) (*model.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.familyMembers[id]
	if !ok {
		return nil, model.ErrFamilyMemberNotFound
	}
	return member, nil
}

func (s *Store) ListFamilyMembers(ctx context.Context, childID model.ProfileID) ([]*model.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []*model.FamilyMember
	for _, m := range s.familyMembers {
		if m.ChildID == childID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (s *Store) DeleteFamilyMember(ctx context.Context, id model.FamilyMemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.familyMembers, id)
	return nil
}

// PIN session operations

func (s *Store) SavePinSession(ctx context.Context, session *model.PinSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinSessions[session.ID] = session
	s.tokenIndex[session.Token] = session.ID
	return nil
}

func (s *Store) GetPinSessionByToken(ctx context.Context, token string) (*model.PinSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokenIndex[token]
	if !ok {
		return nil, model.ErrUnauthorized
	}
	session, ok := s.pinSessions[id]
	if !ok {
		return nil, model.ErrUnauthorized
	}
	return session, nil
}

// Game operations

func (s *Store) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	s.games[game.ID] = game
	subs := s.subscriptionsFor(game.ID)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.handler.OnGameUpdate(*game)
	}
	return nil
}

func (s *Store) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Store) ListGames(ctx context.Context, childID model.ProfileID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, g := range s.games {
		if g.ChildID == childID {
			games = append(games, g)
		}
	}
	return games, nil
}

func (s *Store) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	for eventID, event := range s.events {
		if event.GameID == id {
			delete(s.events, eventID)
		}
	}
	return nil
}

// Event operations

func (s *Store) AppendEvent(ctx context.Context, gameID model.GameID, eventType model.EventType, period string, createdBy model.UserID) (*model.GameEvent, error) {
	if !eventType.Valid() {
		return nil, model.ErrInvalidEventType
	}

	s.mu.Lock()
	game, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return nil, model.ErrGameNotFound
	}
	if !game.HasPeriod(period) {
		s.mu.Unlock()
		return nil, model.ErrUnknownPeriod
	}

	event := &model.GameEvent{
		ID:         model.EventID(random.ID(s.random, "evt_")),
		GameID:     gameID,
		Type:       eventType,
		Period:     period,
		RecordedAt: s.clock.Now(),
		Synced:     true,
		CreatedBy:  createdBy,
	}
	s.events[event.ID] = event
	subs := s.subscriptionsFor(gameID)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.handler.OnEventInsert(*event)
	}
	return event, nil
}

func (s *Store) FetchEvents(ctx context.Context, gameID model.GameID) ([]model.GameEvent, error) {
	s.mu.RLock()
	if _, ok := s.games[gameID]; !ok {
		s.mu.RUnlock()
		return nil, model.ErrGameNotFound
	}
	var events []model.GameEvent
	for _, e := range s.events {
		if e.GameID == gameID {
			events = append(events, *e)
		}
	}
	s.mu.RUnlock()

	model.SortEventsByRecordedAt(events)
	return events, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id model.EventID) error {
	s.mu.Lock()
	event, ok := s.events[id]
	if !ok {
		// Already absent - idempotent success
		s.mu.Unlock()
		return nil
	}
	delete(s.events, id)
	subs := s.subscriptionsFor(event.GameID)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.handler.OnEventDelete(id)
	}
	return nil
}

// Change feed

func (s *Store) Subscribe(ctx context.Context, gameID model.GameID, handler store.FeedHandler) (store.Unsubscribe, error) {
	sub := &subscription{gameID: gameID, handler: handler}

	s.mu.Lock()
	if s.subscribers[gameID] == nil {
		s.subscribers[gameID] = make(map[*subscription]bool)
	}
	s.subscribers[gameID][sub] = true
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.subscribers[sub.gameID]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(s.subscribers, sub.gameID)
			}
		}
	}, nil
}

// subscriptionsFor snapshots the current subscribers for a game. Callers must
// hold s.mu; notifications are dispatched after it is released.
func (s *Store) subscriptionsFor(gameID model.GameID) []*subscription {
	subs := make([]*subscription, 0, len(s.subscribers[gameID]))
	for sub := range s.subscribers[gameID] {
		subs = append(subs, sub)
	}
	return subs
}
