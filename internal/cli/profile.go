package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Child profile and family commands",
	}

	cmd.AddCommand(newProfileCreateCmd())
	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileDeleteCmd())
	cmd.AddCommand(newFamilyCmd())

	return cmd
}

func newProfileCreateCmd() *cobra.Command {
	var teamName, jersey string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a child profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":          args[0],
				"team_name":     teamName,
				"jersey_number": jersey,
			}
			var result Profile
			if err := client.Post("/api/v1/profiles", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamName, "team", "", "Team name")
	cmd.Flags().StringVar(&jersey, "jersey", "", "Jersey number")

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your child profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Profile
			if err := client.Get("/api/v1/profiles", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <profile-id>",
		Short: "Show a child profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile
			if err := client.Get("/api/v1/profiles/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete a child profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/profiles/"+args[0], nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Profile deleted")
			return nil
		},
	}
}

func newFamilyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Family sharing commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "invite <profile-id> <email> <role>",
		Short: "Invite a family member (role: editor or viewer)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"email": args[1], "role": args[2]}
			var result FamilyMember
			if err := client.Post(fmt.Sprintf("/api/v1/profiles/%s/family", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <profile-id>",
		Short: "List family members for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []FamilyMember
			if err := client.Get(fmt.Sprintf("/api/v1/profiles/%s/family", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "accept <member-id>",
		Short: "Accept a family invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result FamilyMember
			if err := client.Post(fmt.Sprintf("/api/v1/family/%s/accept", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <member-id>",
		Short: "Remove a family member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/family/"+args[0], nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Family member removed")
			return nil
		},
	})

	return cmd
}
