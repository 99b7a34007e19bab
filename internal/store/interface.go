package store

import (
	"context"

	"github.com/ollieshotz/shotz/internal/model"
)

// FeedHandler receives change notifications for one game. Notifications are
// delivered for every writer, including the subscriber's own mutations (the
// self-echo), with no ordering guarantee between writers.
type FeedHandler interface {
	OnEventInsert(event model.GameEvent)
	OnEventDelete(id model.EventID)
	OnGameUpdate(game model.Game)
}

// Unsubscribe tears down a change-feed subscription
type Unsubscribe func()

// Store defines the remote store contract: profiles, family membership, PIN
// sessions, games, and the game event log with its change feed. Network
// failures are reported as errors wrapping model.ErrStoreUnavailable so
// callers can distinguish the transient class from validation and not-found
// conditions.
type Store interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.ChildProfile) error
	GetProfile(ctx context.Context, id model.ProfileID) (*model.ChildProfile, error)
	ListProfilesByOwner(ctx context.Context, owner model.UserID) ([]*model.ChildProfile, error)
	ListPinEnabledProfiles(ctx context.Context) ([]*model.ChildProfile, error)
	DeleteProfile(ctx context.Context, id model.ProfileID) error

	// Family member operations
	SaveFamilyMember(ctx context.Context, member *model.FamilyMember) error
	GetFamilyMember(ctx context.Context, id model.FamilyMemberID) (*model.FamilyMember, error)
	ListFamilyMembers(ctx context.Context, childID model.ProfileID) ([]*model.FamilyMember, error)
	DeleteFamilyMember(ctx context.Context, id model.FamilyMemberID) error

	// PIN session operations
	SavePinSession(ctx context.Context, session *model.PinSession) error
	GetPinSessionByToken(ctx context.Context, token string) (*model.PinSession, error)

	// Game operations. DeleteGame cascades to the game's events.
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context, childID model.ProfileID) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Event operations. AppendEvent assigns the identifier and recorded
	// timestamp server-side and returns the confirmed event. FetchEvents
	// returns the game's history ordered by recorded timestamp ascending.
	// DeleteEvent treats an already-absent event as success.
	AppendEvent(ctx context.Context, gameID model.GameID, eventType model.EventType, period string, createdBy model.UserID) (*model.GameEvent, error)
	FetchEvents(ctx context.Context, gameID model.GameID) ([]model.GameEvent, error)
	DeleteEvent(ctx context.Context, id model.EventID) error

	// Subscribe registers a change-feed handler for one game
	Subscribe(ctx context.Context, gameID model.GameID, handler FeedHandler) (Unsubscribe, error)
}
