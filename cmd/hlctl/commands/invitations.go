package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"household-ledger-go/internal/client"
	"household-ledger-go/internal/domain/household"
)

var invitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "Create, inspect, and answer invitations",
}

var invitationsListCmd = &cobra.Command{
	Use:   "list <household-id>",
	Short: "List a household's invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		invitations, err := s.registry.HouseholdInvitations(s.ctx, args[0])
		if err != nil {
			return err
		}
		printInvitations(invitations)
		return nil
	},
}

var invitationsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List invitations addressed to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		invitations, err := s.registry.RefreshMyInvitations(s.ctx)
		if err != nil {
			return err
		}
		printInvitations(invitations)
		return nil
	},
}

var inviteRole string

var invitationsCreateCmd = &cobra.Command{
	Use:   "create <household-id> <email>",
	Short: "Invite someone to a household (owner or admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		created, err := s.registry.CreateInvitation(s.ctx, args[0], args[1], household.Role(inviteRole))
		if err != nil {
			return err
		}
		fmt.Printf("invited %s as %s\ntoken: %s\nexpires: %s\n",
			created.Email, created.Role, created.Token, created.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

var invitationsCancelCmd = &cobra.Command{
	Use:   "cancel <household-id> <invitation-id>",
	Short: "Cancel a pending invitation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		if err := s.registry.CancelInvitation(s.ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("invitation cancelled")
		return nil
	},
}

var invitationsAcceptCmd = &cobra.Command{
	Use:   "accept <token>",
	Short: "Accept an invitation by token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		result, err := s.registry.AcceptInvitation(s.ctx, args[0])
		if result != nil {
			fmt.Printf("joined %s (%s)\n", result.HouseholdName, result.HouseholdID)
		}
		return err
	},
}

var invitationsRejectCmd = &cobra.Command{
	Use:   "reject <token>",
	Short: "Reject an invitation by token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		if err := s.registry.RejectInvitation(s.ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("invitation rejected")
		return nil
	},
}

func printInvitations(invitations []client.Invitation) {
	now := time.Now().UTC()
	for _, inv := range invitations {
		status := inv.Status
		if inv.Expired(now) && status == "pending" {
			status = "expired"
		}
		fmt.Printf("%s  %-24s %-8s %-8s %s\n", inv.ID, inv.Email, inv.Role, status, inv.HouseholdName)
	}
}

func init() {
	invitationsCreateCmd.Flags().StringVar(&inviteRole, "role", "member", "role to grant (admin or member)")

	invitationsCmd.AddCommand(invitationsListCmd, invitationsMineCmd, invitationsCreateCmd,
		invitationsCancelCmd, invitationsAcceptCmd, invitationsRejectCmd)
	rootCmd.AddCommand(invitationsCmd)
}
