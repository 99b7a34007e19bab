package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "shotz",
		Short: "CLI tool for the OllieShotz save tracker API",
		Long: `shotz is a CLI tool for the OllieShotz goalie save tracker.

It covers profile and family management, game tracking, live save/goal
recording with undo, offline queue sync, CSV exports, and real-time game
streaming over SSE.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load PIN session token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.User, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SHOTZ_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.User, "user", cfg.User, "Parent user ID (env: SHOTZ_USER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "PIN session token (env: SHOTZ_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: SHOTZ_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newPinCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
