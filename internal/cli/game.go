package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game tracking commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameStatusCmd())
	cmd.AddCommand(newGameNotesCmd())
	cmd.AddCommand(newGamePeriodCmd())
	cmd.AddCommand(newGameSaveCmd())
	cmd.AddCommand(newGameGoalCmd())
	cmd.AddCommand(newGameUndoCmd())
	cmd.AddCommand(newGameExportCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var opponent, location, status string

	cmd := &cobra.Command{
		Use:   "create <profile-id>",
		Short: "Create a game for a child profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"child_id": args[0],
				"opponent": opponent,
				"location": location,
				"status":   status,
			}
			var result Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opponent, "opponent", "", "Opposing team")
	cmd.Flags().StringVar(&location, "location", "", "Rink or venue")
	cmd.Flags().StringVar(&status, "status", "", "Initial status: upcoming, live, completed")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <profile-id>",
		Short: "List games for a child profile, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Game
			if err := client.Get(fmt.Sprintf("/api/v1/profiles/%s/games", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game with its events and stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameDetail
			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game and its events (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/games/"+args[0], nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}

func newGameStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <game-id> <status>",
		Short: "Update a game's status (upcoming, live, completed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"status": args[1]}
			var result Game
			if err := client.Patch(fmt.Sprintf("/api/v1/games/%s/status", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <game-id> <notes>",
		Short: "Replace a game's notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"notes": args[1]}
			var result Game
			if err := client.Patch(fmt.Sprintf("/api/v1/games/%s/notes", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePeriodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "period <game-id> <label>",
		Short: "Add a period (overtime, shootout) to a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"label": args[1]}
			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/periods", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameSaveCmd() *cobra.Command {
	return newRecordCmd("save", "Record a save")
}

func newGameGoalCmd() *cobra.Command {
	return newRecordCmd("goal", "Record a goal against")
}

func newRecordCmd(eventType, short string) *cobra.Command {
	return &cobra.Command{
		Use:   eventType + " <game-id> <period>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"type": eventType, "period": args[1]}
			var result Event
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/events", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <game-id>",
		Short: "Undo the most recent event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Event
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/events/last", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameExportCmd() *cobra.Command {
	var season bool

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a game (or a profile's season with --season) as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/games/%s/export", args[0])
			if season {
				path = fmt.Sprintf("/api/v1/profiles/%s/export", args[0])
			}

			body, err := client.RawBody(path)
			if err != nil {
				return err
			}

			_, _ = os.Stdout.Write(body)
			return nil
		},
	}

	cmd.Flags().BoolVar(&season, "season", false, "Export the profile's whole season")

	return cmd
}
