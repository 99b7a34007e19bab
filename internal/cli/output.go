package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Profile:
		o.printProfile(v)
	case []Profile:
		for i := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printProfile(v[i])
		}
	case FamilyMember:
		o.printFamilyMember(v)
	case []FamilyMember:
		for i := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printFamilyMember(v[i])
		}
	case Game:
		o.printGame(v)
	case []Game:
		o.printGameList(v)
	case GameDetail:
		o.printGameDetail(v)
	case Event:
		o.printEvent(v)
	case PinVerifyResult:
		o.printPinVerifyResult(v)
	case SyncStatus:
		o.printSyncStatus(v)
	case SyncResult:
		o.printSyncResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Profile response type (matches API)
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"team_name,omitempty"`
	JerseyNumber string `json:"jersey_number,omitempty"`
	PinEnabled   bool   `json:"pin_enabled"`
}

// FamilyMember response type
type FamilyMember struct {
	ID      string `json:"id"`
	ChildID string `json:"child_id"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Role    string `json:"role"`
}

// Game response type
type Game struct {
	ID       string    `json:"id"`
	ChildID  string    `json:"child_id"`
	GameDate time.Time `json:"game_date"`
	Opponent string    `json:"opponent"`
	Location string    `json:"location,omitempty"`
	Periods  []string  `json:"periods"`
	Status   string    `json:"status"`
	Notes    string    `json:"notes,omitempty"`
}

// Event response type
type Event struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Type       string    `json:"type"`
	Period     string    `json:"period"`
	RecordedAt time.Time `json:"recorded_at"`
}

// GameStats response type
type GameStats struct {
	Saves          int     `json:"saves"`
	Goals          int     `json:"goals"`
	Total          int     `json:"total"`
	SavePercentage float64 `json:"save_percentage"`
}

// GameDetail combines a game with its events and stats
type GameDetail struct {
	Game   Game      `json:"game"`
	Events []Event   `json:"events"`
	Stats  GameStats `json:"stats"`
}

// PinVerifyResult combines the session token and matched profile
type PinVerifyResult struct {
	SessionToken string  `json:"session_token"`
	Profile      Profile `json:"profile"`
}

// SyncStatus response type
type SyncStatus struct {
	Online  bool `json:"online"`
	Pending int  `json:"pending"`
}

// SyncResult response type
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("Profile: %s (%s)\n", p.Name, p.ID)
	if p.TeamName != "" {
		fmt.Printf("Team: %s", p.TeamName)
		if p.JerseyNumber != "" {
			fmt.Printf(" #%s", p.JerseyNumber)
		}
		fmt.Println()
	}
	pinStr := "no"
	if p.PinEnabled {
		pinStr = "yes"
	}
	fmt.Printf("PIN enabled: %s\n", pinStr)
}

func (o *Output) printFamilyMember(m FamilyMember) {
	fmt.Printf("Member: %s (%s)\n", m.Email, m.ID)
	fmt.Printf("Role: %s\n", m.Role)
	fmt.Printf("Status: %s\n", m.Status)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Date: %s\n", g.GameDate.Format("2006-01-02"))
	fmt.Printf("Opponent: %s\n", g.Opponent)
	if g.Location != "" {
		fmt.Printf("Location: %s\n", g.Location)
	}
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Periods: %s\n", strings.Join(g.Periods, ", "))
	if g.Notes != "" {
		fmt.Printf("Notes: %s\n", g.Notes)
	}
}

func (o *Output) printGameList(games []Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		fmt.Printf("%s  %s  vs %s  [%s]\n",
			g.ID, g.GameDate.Format("2006-01-02"), g.Opponent, g.Status)
	}
}

func (o *Output) printGameDetail(d GameDetail) {
	o.printGame(d.Game)
	fmt.Println()
	o.printStats(d.Stats)

	if len(d.Events) > 0 {
		fmt.Printf("\nEvents (%d):\n", len(d.Events))
		for _, e := range d.Events {
			fmt.Printf("  %s  %-4s %s\n", e.RecordedAt.Format("15:04:05"), e.Type, e.Period)
		}
	}
}

func (o *Output) printStats(s GameStats) {
	fmt.Printf("Saves: %d  Goals: %d  Shots: %d", s.Saves, s.Goals, s.Total)
	if s.Total > 0 {
		fmt.Printf("  Save %%: %.1f", s.SavePercentage)
	}
	fmt.Println()
}

func (o *Output) printEvent(e Event) {
	fmt.Printf("Event: %s\n", e.ID)
	fmt.Printf("Type: %s\n", e.Type)
	fmt.Printf("Period: %s\n", e.Period)
	fmt.Printf("Recorded: %s\n", e.RecordedAt.Format(time.RFC3339))
}

func (o *Output) printPinVerifyResult(r PinVerifyResult) {
	o.printProfile(r.Profile)
	fmt.Printf("Token: %s\n", r.SessionToken)
}

func (o *Output) printSyncStatus(s SyncStatus) {
	onlineStr := "offline"
	if s.Online {
		onlineStr = "online"
	}
	fmt.Printf("Status: %s\n", onlineStr)
	fmt.Printf("Pending: %d\n", s.Pending)
}

func (o *Output) printSyncResult(r SyncResult) {
	fmt.Printf("Synced: %d\n", r.Synced)
	fmt.Printf("Failed: %d\n", r.Failed)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
