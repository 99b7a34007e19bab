package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Store is a Redis-backed implementation of the store interface. Entity rows
// are JSON values, secondary lookups go through index sets, and the per-game
// change feed rides on pub/sub channels.
type Store struct {
	client *redis.Client
	cfg    Config
	clock  clock.Clock
	random random.Random
}

// New creates a new Redis store instance
func New(cfg Config, clk clock.Clock, rnd random.Random) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, wrapUnavailable(err)
	}

	return &Store{client: client, cfg: cfg, clock: clk, random: rnd}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock, rnd random.Random) *Store {
	return &Store{client: client, cfg: cfg, clock: clk, random: rnd}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// wrapUnavailable tags connection-level failures as the transient class
func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}

// Profile operations

func (s *Store) SaveProfile(ctx context.Context, profile *model.ChildProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	// Pipeline the row write with its index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(profile.ID), data, 0)
	pipe.SAdd(ctx, profilesForOwnerIndexKey(profile.OwnerID), string(profile.ID))
	if profile.PinEnabled && profile.PinHash != "" {
		pipe.SAdd(ctx, pinEnabledIndexKey(), string(profile.ID))
	} else {
		pipe.SRem(ctx, pinEnabledIndexKey(), string(profile.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id model.ProfileID) (*model.ChildProfile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, wrapUnavailable(err)
	}

	var profile model.ChildProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Store) ListProfilesByOwner(ctx context.Context, owner model.UserID) ([]*model.ChildProfile, error) {
	ids, err := s.client.SMembers(ctx, profilesForOwnerIndexKey(owner)).Result()
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	profiles := make([]*model.ChildProfile, 0, len(ids))
	for _, id := range ids {
		profile, err := s.GetProfile(ctx, model.ProfileID(id))
		if err != nil {
			if errors.Is(err, model.ErrProfileNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (s *Store) ListPinEnabledProfiles(ctx context.Context) ([]*model.ChildProfile, error) {
	ids, err := s.client.SMembers(ctx, pinEnabledIndexKey()).Result()
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	profiles := make([]*model.ChildProfile, 0, len(ids))
	for _, id := range ids {
		profile, err := s.GetProfile(ctx, model.ProfileID(id))
		if err != nil {
			if errors.Is(err, model.ErrProfileNotFound) {
				continue
			}
			return nil, err
		}
		if profile.PinEnabled && profile.PinHash != "" {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

func (s *Store) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, profileKey(id))
	pipe.SRem(ctx, profilesForOwnerIndexKey(profile.OwnerID), string(id))
	pipe.SRem(ctx, pinEnabledIndexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

// Family member operations

func (s *Store) SaveFamilyMember(ctx context.Context, member *model.FamilyMember) error {
	data, err := json.Marshal(member)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, familyMemberKey(member.ID), data, 0)
	pipe.SAdd(ctx, familyForChildIndexKey(member.ChildID), string(member.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

func (s *Store) GetFamilyMember(ctx context.Context, id model.FamilyMemberID) (*model.FamilyMember, error) {
	data, err := s.client.Get(ctx, familyMemberKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrFamilyMemberNotFound
		}
		return nil, wrapUnavailable(err)
	}

	var member model.FamilyMember
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Store) ListFamilyMembers(ctx context.Context, childID model.ProfileID) ([]*model.FamilyMember, error) {
	ids, err := s.client.SMembers(ctx, familyForChildIndexKey(childID)).Result()
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	members := make([]*model.FamilyMember, 0, len(ids))
	for _, id := range ids {
		member, err := s.GetFamilyMember(ctx, model.FamilyMemberID(id))
		if err != nil {
			if errors.Is(err, model.ErrFamilyMemberNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *Store) DeleteFamilyMember(ctx context.Context, id model.FamilyMemberID) error {
	member, err := s.GetFamilyMember(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrFamilyMemberNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, familyMemberKey(id))
	pipe.SRem(ctx, familyForChildIndexKey(member.ChildID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

// PIN session operations

func (s *Store) SavePinSession(ctx context.Context, session *model.PinSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, pinSessionKey(session.ID), data, s.cfg.PinSessionTTL)
	pipe.Set(ctx, pinTokenIndexKey(session.Token), string(session.ID), s.cfg.PinSessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

func (s *Store) GetPinSessionByToken(ctx context.Context, token string) (*model.PinSession, error) {
	id, err := s.client.Get(ctx, pinTokenIndexKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUnauthorized
		}
		return nil, wrapUnavailable(err)
	}

	data, err := s.client.Get(ctx, pinSessionKey(model.PinSessionID(id))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUnauthorized
		}
		return nil, wrapUnavailable(err)
	}

	var session model.PinSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Game operations

func (s *Store) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.SAdd(ctx, gamesForChildIndexKey(game.ChildID), string(game.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}

	s.publish(ctx, game.ID, feedMessage{Kind: feedGameUpdate, Game: game})
	return nil
}

func (s *Store) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, wrapUnavailable(err)
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) ListGames(ctx context.Context, childID model.ProfileID) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesForChildIndexKey(childID)).Result()
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.GetGame(ctx, model.GameID(id))
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

func (s *Store) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return nil
		}
		return err
	}

	indexKey := eventsForGameIndexKey(id)
	eventIDs, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return wrapUnavailable(err)
	}

	// Delete the game, its events, and both indexes in one pipeline
	pipe := s.client.Pipeline()
	for _, eventID := range eventIDs {
		pipe.Del(ctx, eventKey(model.EventID(eventID)))
	}
	pipe.Del(ctx, indexKey)
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesForChildIndexKey(game.ChildID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

// Event operations

func (s *Store) AppendEvent(ctx context.Context, gameID model.GameID, eventType model.EventType, period string, createdBy model.UserID) (*model.GameEvent, error) {
	if !eventType.Valid() {
		return nil, model.ErrInvalidEventType
	}

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.HasPeriod(period) {
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

	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, eventKey(event.ID), data, 0)
	pipe.SAdd(ctx, eventsForGameIndexKey(gameID), string(event.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, wrapUnavailable(err)
	}

	s.publish(ctx, gameID, feedMessage{Kind: feedEventInsert, Event: event})
	return event, nil
}

func (s *Store) FetchEvents(ctx context.Context, gameID model.GameID) ([]model.GameEvent, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	eventIDs, err := s.client.SMembers(ctx, eventsForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	if len(eventIDs) == 0 {
		return []model.GameEvent{}, nil
	}

	keys := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		keys[i] = eventKey(model.EventID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	events := make([]model.GameEvent, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Row deleted between SMembers and MGet
		}
		var event model.GameEvent
		if err := json.Unmarshal([]byte(val.(string)), &event); err != nil {
			continue // Skip invalid data
		}
		events = append(events, event)
	}

	model.SortEventsByRecordedAt(events)
	return events, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id model.EventID) error {
	data, err := s.client.Get(ctx, eventKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Already absent - idempotent success
			return nil
		}
		return wrapUnavailable(err)
	}

	var event model.GameEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, eventKey(id))
	pipe.SRem(ctx, eventsForGameIndexKey(event.GameID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapUnavailable(err)
	}

	s.publish(ctx, event.GameID, feedMessage{Kind: feedEventDelete, EventID: id})
	return nil
}
