package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Quick-access PIN commands",
	}

	cmd.AddCommand(newPinSetCmd())
	cmd.AddCommand(newPinDisableCmd())
	cmd.AddCommand(newPinLoginCmd())
	cmd.AddCommand(newPinLogoutCmd())

	return cmd
}

func newPinSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <profile-id> <pin>",
		Short: "Set a profile's 6-digit PIN (owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"pin": args[1]}
			if err := client.Put(fmt.Sprintf("/api/v1/profiles/%s/pin", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("PIN set")
			return nil
		},
	}
}

func newPinDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <profile-id>",
		Short: "Disable a profile's PIN (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/profiles/%s/pin", args[0]), nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("PIN disabled")
			return nil
		},
	}
}

func newPinLoginCmd() *cobra.Command {
	var deviceInfo string

	cmd := &cobra.Command{
		Use:   "login <pin>",
		Short: "Verify a PIN and save the device session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"pin": args[0], "device_info": deviceInfo}
			var result PinVerifyResult
			if err := client.Post("/api/v1/auth/pin/verify", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&deviceInfo, "device", "shotz-cli", "Device description")

	return cmd
}

func newPinLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current PIN session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/auth/pin/revoke", nil, nil); err != nil {
				return err
			}
			if err := cfg.SaveToken(""); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Session revoked")
			return nil
		},
	}
}
