package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"household-ledger-go/internal/domain/household"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage household members",
}

var membersSetRoleCmd = &cobra.Command{
	Use:   "set-role <household-id> <user-id> <admin|member>",
	Short: "Change a member's role (owner only)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		// Load the detail first so the role policy can run locally.
		if _, err := s.registry.Detail(s.ctx, args[0]); err != nil {
			return err
		}
		if err := s.registry.UpdateMemberRole(s.ctx, args[0], args[1], household.Role(args[2])); err != nil {
			return err
		}
		fmt.Println("role updated")
		return nil
	},
}

var membersRemoveCmd = &cobra.Command{
	Use:   "remove <household-id> <user-id>",
	Short: "Remove a member (owner only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		if _, err := s.registry.Detail(s.ctx, args[0]); err != nil {
			return err
		}
		if err := s.registry.RemoveMember(s.ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("member removed")
		return nil
	},
}

func init() {
	membersCmd.AddCommand(membersSetRoleCmd, membersRemoveCmd)
	rootCmd.AddCommand(membersCmd)
}
