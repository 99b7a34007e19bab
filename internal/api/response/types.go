package response

import (
	"time"

	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/stats"
)

// Profile represents a child profile in API responses
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TeamName       string `json:"team_name,omitempty"`
	JerseyNumber   string `json:"jersey_number,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	PinEnabled     bool   `json:"pin_enabled"`
}

// ProfileFromModel converts a model.ChildProfile to a response Profile
func ProfileFromModel(p *model.ChildProfile) Profile {
	return Profile{
		ID:             string(p.ID),
		Name:           p.Name,
		TeamName:       p.TeamName,
		JerseyNumber:   p.JerseyNumber,
		PrimaryColor:   p.PrimaryColor,
		SecondaryColor: p.SecondaryColor,
		PinEnabled:     p.PinEnabled,
	}
}

// ProfilesFromModels converts a slice of profiles
func ProfilesFromModels(profiles []*model.ChildProfile) []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, ProfileFromModel(p))
	}
	return out
}

// FamilyMember represents a family member in API responses
type FamilyMember struct {
	ID         string     `json:"id"`
	ChildID    string     `json:"child_id"`
	UserID     string     `json:"user_id,omitempty"`
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	Role       string     `json:"role"`
	InvitedAt  time.Time  `json:"invited_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// FamilyMemberFromModel converts a model.FamilyMember
func FamilyMemberFromModel(m *model.FamilyMember) FamilyMember {
	out := FamilyMember{
		ID:        string(m.ID),
		ChildID:   string(m.ChildID),
		UserID:    string(m.UserID),
		Email:     m.Email,
		Status:    string(m.Status),
		Role:      string(m.Role),
		InvitedAt: m.InvitedAt,
	}
	if !m.AcceptedAt.IsZero() {
		accepted := m.AcceptedAt
		out.AcceptedAt = &accepted
	}
	return out
}

// FamilyMembersFromModels converts a slice of family members
func FamilyMembersFromModels(members []*model.FamilyMember) []FamilyMember {
	out := make([]FamilyMember, 0, len(members))
	for _, m := range members {
		out = append(out, FamilyMemberFromModel(m))
	}
	return out
}

// Game represents a game in API responses
type Game struct {
	ID        string    `json:"id"`
	ChildID   string    `json:"child_id"`
	GameDate  time.Time `json:"game_date"`
	Opponent  string    `json:"opponent"`
	Location  string    `json:"location,omitempty"`
	Periods   []string  `json:"periods"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:        string(g.ID),
		ChildID:   string(g.ChildID),
		GameDate:  g.GameDate,
		Opponent:  g.Opponent,
		Location:  g.Location,
		Periods:   g.Periods,
		Status:    string(g.Status),
		Notes:     g.Notes,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GamesFromModels converts a slice of games
func GamesFromModels(games []*model.Game) []Game {
	out := make([]Game, 0, len(games))
	for _, g := range games {
		out = append(out, GameFromModel(g))
	}
	return out
}

// Event represents a game event in API responses
type Event struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Type       string    `json:"type"`
	Period     string    `json:"period"`
	RecordedAt time.Time `json:"recorded_at"`
	Synced     bool      `json:"synced"`
	CreatedBy  string    `json:"created_by,omitempty"`
}

// EventFromModel converts a model.GameEvent to a response Event
func EventFromModel(e *model.GameEvent) Event {
	return Event{
		ID:         string(e.ID),
		GameID:     string(e.GameID),
		Type:       string(e.Type),
		Period:     e.Period,
		RecordedAt: e.RecordedAt,
		Synced:     e.Synced,
		CreatedBy:  string(e.CreatedBy),
	}
}

// EventsFromModels converts a slice of events
func EventsFromModels(events []model.GameEvent) []Event {
	out := make([]Event, 0, len(events))
	for i := range events {
		out = append(out, EventFromModel(&events[i]))
	}
	return out
}

// GameDetail is a game with its event history and stats
type GameDetail struct {
	Game   Game            `json:"game"`
	Events []Event         `json:"events"`
	Stats  stats.GameStats `json:"stats"`
}

// PinVerifyResponse is the response for a successful PIN verification
type PinVerifyResponse struct {
	SessionToken string  `json:"session_token"`
	Profile      Profile `json:"profile"`
}

// PinSessionResponse describes a validated PIN session
type PinSessionResponse struct {
	ChildID    string    `json:"child_id"`
	DeviceInfo string    `json:"device_info,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// SyncStatus reports the offline queue state
type SyncStatus struct {
	Online  bool `json:"online"`
	Pending int  `json:"pending"`
}

// SyncResult reports the outcome of a sync pass
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}
