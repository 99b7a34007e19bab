package redis

import (
	"fmt"

	"github.com/ollieshotz/shotz/internal/model"
)

// Key prefix for all tracker data
const keyPrefix = "shotz"

// Key generation functions for each entity type

// profileKey returns the Redis key for a ChildProfile
func profileKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// profilesForOwnerIndexKey returns the Redis key for the SET of profiles owned by a user
func profilesForOwnerIndexKey(owner model.UserID) string {
	return fmt.Sprintf("%s:idx:profiles_for_owner:%s", keyPrefix, owner)
}

// pinEnabledIndexKey returns the Redis key for the SET of PIN-enabled profiles
func pinEnabledIndexKey() string {
	return fmt.Sprintf("%s:idx:pin_enabled", keyPrefix)
}

// familyMemberKey returns the Redis key for a FamilyMember
func familyMemberKey(id model.FamilyMemberID) string {
	return fmt.Sprintf("%s:family_member:%s", keyPrefix, id)
}

// familyForChildIndexKey returns the Redis key for the SET of family members of a child
func familyForChildIndexKey(childID model.ProfileID) string {
	return fmt.Sprintf("%s:idx:family_for_child:%s", keyPrefix, childID)
}

// pinSessionKey returns the Redis key for a PinSession
func pinSessionKey(id model.PinSessionID) string {
	return fmt.Sprintf("%s:pin_session:%s", keyPrefix, id)
}

// pinTokenIndexKey returns the Redis key for the token -> session id index
func pinTokenIndexKey(token string) string {
	return fmt.Sprintf("%s:idx:pin_token:%s", keyPrefix, token)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesForChildIndexKey returns the Redis key for the SET of games of a child
func gamesForChildIndexKey(childID model.ProfileID) string {
	return fmt.Sprintf("%s:idx:games_for_child:%s", keyPrefix, childID)
}

// eventKey returns the Redis key for a GameEvent
func eventKey(id model.EventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// eventsForGameIndexKey returns the Redis key for the SET of events of a game
func eventsForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:events_for_game:%s", keyPrefix, gameID)
}

// feedChannel returns the pub/sub channel carrying a game's change feed
func feedChannel(gameID model.GameID) string {
	return fmt.Sprintf("%s:feed:%s", keyPrefix, gameID)
}
