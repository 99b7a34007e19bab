package model

import "time"

// MutationID uniquely identifies a queued mutation
type MutationID string

// MutationAction identifies the kind of queued mutation
type MutationAction string

const (
	ActionCreateEvent MutationAction = "create_event"
	ActionDeleteEvent MutationAction = "delete_event"
)

// CreateEventPayload is the payload for a queued create_event mutation
type CreateEventPayload struct {
	GameID GameID
	Type   EventType
	Period string
}

// DeleteEventPayload is the payload for a queued delete_event mutation
type DeleteEventPayload struct {
	EventID EventID
}

// QueuedMutation is a pending offline operation held in the local durable
// queue until it has been applied to the remote store. Exactly one payload
// field is set, matching Action.
type QueuedMutation struct {
	ID     MutationID
	Action MutationAction

	Create *CreateEventPayload
	Delete *DeleteEventPayload

	CreatedAt time.Time
	Synced    bool
}

// Validate checks that the payload matches the action kind
func (m *QueuedMutation) Validate() error {
	switch m.Action {
	case ActionCreateEvent:
		if m.Create == nil || m.Delete != nil {
			return ErrInvalidMutation
		}
		if !m.Create.Type.Valid() {
			return ErrInvalidEventType
		}
	case ActionDeleteEvent:
		if m.Delete == nil || m.Create != nil {
			return ErrInvalidMutation
		}
	default:
		return ErrInvalidMutation
	}
	return nil
}
