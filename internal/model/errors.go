package model

import "errors"

// Common errors used across the application
var (
	// Store availability: the remote store could not be reached.
	// Callers may retry or fall back to the offline queue.
	ErrStoreUnavailable = errors.New("remote store unavailable")

	// Profile errors
	ErrProfileNotFound      = errors.New("profile not found")
	ErrFamilyMemberNotFound = errors.New("family member not found")
	ErrAlreadyInvited       = errors.New("family member already invited")

	// Game errors
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidGameStatus = errors.New("invalid game status")
	ErrNoPeriods         = errors.New("game must have at least one period")
	ErrDuplicatePeriod   = errors.New("period labels must be unique")
	ErrUnknownPeriod     = errors.New("period is not one of the game's periods")

	// Event errors
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrNothingToUndo    = errors.New("nothing to undo")

	// Queue errors
	ErrMutationNotFound = errors.New("queued mutation not found")
	ErrInvalidMutation  = errors.New("queued mutation payload does not match its action")

	// Access errors
	ErrUnauthorized = errors.New("not authorized for this profile")

	// Session errors
	ErrSessionClosed  = errors.New("game session is closed")
	ErrSessionLoading = errors.New("game session has not been loaded")
)
