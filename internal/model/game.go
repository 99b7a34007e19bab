package model

import (
	"sort"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusUpcoming  GameStatus = "upcoming"  // Manually seeded schedule entry
	GameStatusLive      GameStatus = "live"      // Being tracked right now
	GameStatusCompleted GameStatus = "completed" // Finished; terminal
)

// Valid reports whether s is a known game status
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusUpcoming, GameStatusLive, GameStatusCompleted:
		return true
	}
	return false
}

// DefaultPeriods returns the standard three-period layout
func DefaultPeriods() []string {
	return []string{"P1", "P2", "P3"}
}

// Game represents one goalie outing
type Game struct {
	ID       GameID
	ChildID  ProfileID
	GameDate time.Time
	Opponent string
	Location string

	// Period labels, in play order. Non-empty, unique, user-extensible
	// (overtime etc. get appended during the game).
	Periods []string

	Status GameStatus
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPeriod reports whether label is one of the game's period labels
func (g *Game) HasPeriod(label string) bool {
	for _, p := range g.Periods {
		if p == label {
			return true
		}
	}
	return false
}

// SortGamesByDateDesc orders games most recent first
func SortGamesByDateDesc(games []*Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[j].GameDate.Before(games[i].GameDate)
	})
}

// ValidatePeriods checks the period-label invariants (non-empty, unique)
func ValidatePeriods(periods []string) error {
	if len(periods) == 0 {
		return ErrNoPeriods
	}
	seen := make(map[string]bool, len(periods))
	for _, p := range periods {
		if seen[p] {
			return ErrDuplicatePeriod
		}
		seen[p] = true
	}
	return nil
}
