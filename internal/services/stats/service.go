// Package stats derives save and goal figures from a game's event log.
package stats

import (
	"fmt"

	"github.com/ollieshotz/shotz/internal/model"
)

// GameStats summarizes a set of events
type GameStats struct {
	Saves          int     `json:"saves"`
	Goals          int     `json:"goals"`
	Total          int     `json:"total"`
	SavePercentage float64 `json:"save_percentage"`
}

// Service computes statistics from event logs
type Service struct{}

// New creates a new stats service
func New() *Service {
	return &Service{}
}

// Calculate tallies the given events. Save percentage is 0 when there are no
// events.
func (s *Service) Calculate(events []model.GameEvent) GameStats {
	stats := GameStats{}
	for _, e := range events {
		switch e.Type {
		case model.EventTypeSave:
			stats.Saves++
		case model.EventTypeGoal:
			stats.Goals++
		}
	}
	stats.Total = stats.Saves + stats.Goals
	if stats.Total > 0 {
		stats.SavePercentage = float64(stats.Saves) / float64(stats.Total) * 100
	}
	return stats
}

// ByPeriod tallies events per period label
func (s *Service) ByPeriod(events []model.GameEvent) map[string]GameStats {
	grouped := make(map[string][]model.GameEvent)
	for _, e := range events {
		grouped[e.Period] = append(grouped[e.Period], e)
	}

	result := make(map[string]GameStats, len(grouped))
	for period, periodEvents := range grouped {
		result[period] = s.Calculate(periodEvents)
	}
	return result
}

// FormatSavePercentage renders a save percentage for display. A perfect
// record shows as "100%", everything else with one decimal place.
func FormatSavePercentage(pct float64) string {
	if pct == 100 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
