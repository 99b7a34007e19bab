package model

import (
	"sort"
	"time"
)

// EventID uniquely identifies a game event. Provisional (locally generated)
// and confirmed (store-assigned) identifiers share this type so copies of the
// same logical event can be compared across optimistic, confirmed, and
// realtime-delivered forms.
type EventID string

// EventType is the outcome of one shot
type EventType string

const (
	EventTypeSave EventType = "save"
	EventTypeGoal EventType = "goal"
)

// Valid reports whether t is a known event type
func (t EventType) Valid() bool {
	return t == EventTypeSave || t == EventTypeGoal
}

// GameEvent represents one recorded shot outcome
type GameEvent struct {
	ID         EventID
	GameID     GameID
	Type       EventType
	Period     string
	RecordedAt time.Time

	// Synced is false while the event is only known locally and true once
	// it is durable in the remote store.
	Synced bool

	CreatedBy UserID
}

// SortEventsByRecordedAt orders events by recorded timestamp ascending.
// The sort is stable so events recorded in the same instant keep their
// insertion order.
func SortEventsByRecordedAt(events []GameEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].RecordedAt.Before(events[j].RecordedAt)
	})
}
