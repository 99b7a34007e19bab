// Package export renders games and seasons as CSV for sharing outside the
// app.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/stats"
)

const dateLayout = "2006-01-02"

// GameWithEvents pairs a game with its event history for season exports
type GameWithEvents struct {
	Game   *model.Game
	Events []model.GameEvent
}

// Service renders CSV exports
type Service struct {
	stats *stats.Service
	clock clock.Clock
}

// New creates a new export service
func New(clk clock.Clock) *Service {
	return &Service{stats: stats.New(), clock: clk}
}

// GameCSV renders one game: header info, overall stats, a per-period
// breakdown in play order, and the full event log.
func (s *Service) GameCSV(game *model.Game, events []model.GameEvent) string {
	overall := s.stats.Calculate(events)
	byPeriod := s.stats.ByPeriod(events)

	var b strings.Builder

	b.WriteString("OllieShotz Game Export\n")
	fmt.Fprintf(&b, "Date,%s\n", game.GameDate.Format(dateLayout))
	fmt.Fprintf(&b, "Opponent,%s\n", game.Opponent)
	fmt.Fprintf(&b, "Status,%s\n", game.Status)
	b.WriteString("\n")

	b.WriteString("Overall Stats\n")
	b.WriteString("Saves,Goals,Total Shots,Save %\n")
	fmt.Fprintf(&b, "%d,%d,%d,%s\n", overall.Saves, overall.Goals, overall.Total,
		stats.FormatSavePercentage(overall.SavePercentage))
	b.WriteString("\n")

	b.WriteString("Stats by Period\n")
	b.WriteString("Period,Saves,Goals,Save %\n")
	for _, period := range game.Periods {
		periodStats := byPeriod[period]
		fmt.Fprintf(&b, "%s,%d,%d,%s\n", period, periodStats.Saves, periodStats.Goals,
			stats.FormatSavePercentage(periodStats.SavePercentage))
	}
	b.WriteString("\n")

	b.WriteString("Event Log\n")
	b.WriteString("Time,Type,Period\n")
	for _, event := range events {
		fmt.Fprintf(&b, "%s,%s,%s\n", event.RecordedAt.UTC().Format(time.RFC3339), event.Type, event.Period)
	}

	return b.String()
}

// SeasonCSV renders a per-game summary table followed by season totals
func (s *Service) SeasonCSV(games []GameWithEvents) string {
	var b strings.Builder

	b.WriteString("OllieShotz Season Export\n")
	fmt.Fprintf(&b, "Generated,%s\n", s.clock.Now().UTC().Format(time.RFC3339))
	b.WriteString("\n")

	b.WriteString("Game Summary\n")
	b.WriteString("Date,Opponent,Status,Saves,Goals,Total Shots,Save %\n")

	totalSaves, totalGoals := 0, 0
	for _, g := range games {
		gameStats := s.stats.Calculate(g.Events)
		totalSaves += gameStats.Saves
		totalGoals += gameStats.Goals
		fmt.Fprintf(&b, "%s,%s,%s,%d,%d,%d,%s\n",
			g.Game.GameDate.Format(dateLayout), g.Game.Opponent, g.Game.Status,
			gameStats.Saves, gameStats.Goals, gameStats.Total,
			stats.FormatSavePercentage(gameStats.SavePercentage))
	}
	b.WriteString("\n")

	totalShots := totalSaves + totalGoals
	seasonPct := 0.0
	if totalShots > 0 {
		seasonPct = float64(totalSaves) / float64(totalShots) * 100
	}

	b.WriteString("Season Totals\n")
	b.WriteString("Games,Total Saves,Total Goals,Total Shots,Season Save %\n")
	fmt.Fprintf(&b, "%d,%d,%d,%d,%s\n", len(games), totalSaves, totalGoals, totalShots,
		stats.FormatSavePercentage(seasonPct))

	return b.String()
}
