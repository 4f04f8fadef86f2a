package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"household-ledger-go/internal/client"
)

var householdsCmd = &cobra.Command{
	Use:   "households",
	Short: "List and manage households",
}

var householdsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the households you belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		active := s.registry.ActiveID()
		for _, h := range s.registry.Households() {
			marker := " "
			if h.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %s  %-20s %-8s %s (%d members)\n", marker, h.ID, h.Name, h.MyRole, h.Currency, h.MemberCount)
		}
		return nil
	},
}

var (
	createDescription string
	createCurrency    string
)

var householdsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a household; you become its owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		created, err := s.registry.Create(s.ctx, args[0], createDescription, createCurrency)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var householdsShowCmd = &cobra.Command{
	Use:   "show [household-id]",
	Short: "Show a household's members (defaults to the active household)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		id := s.registry.ActiveID()
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" {
			return fmt.Errorf("no household selected")
		}

		detail, err := s.registry.Detail(s.ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s) currency=%s\n", detail.Name, detail.ID, detail.Currency)
		if detail.Description != "" {
			fmt.Println(detail.Description)
		}
		for _, m := range detail.Members {
			email := ""
			if m.Email != nil {
				email = *m.Email
			}
			fmt.Printf("  %-8s %-20s %s %s\n", m.Role, m.Username, m.UserID, email)
		}
		return nil
	},
}

var (
	updateName        string
	updateDescription string
	updateCurrency    string
)

var householdsUpdateCmd = &cobra.Command{
	Use:   "update <household-id>",
	Short: "Update household settings (owner or admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		var patch client.HouseholdPatch
		if cmd.Flags().Changed("name") {
			patch.Name = &updateName
		}
		if cmd.Flags().Changed("description") {
			patch.Description = &updateDescription
		}
		if cmd.Flags().Changed("currency") {
			patch.Currency = &updateCurrency
		}

		updated, err := s.registry.Update(s.ctx, args[0], patch)
		if err != nil {
			return err
		}
		fmt.Printf("updated %s (%s)\n", updated.Name, updated.ID)
		return nil
	},
}

var householdsDeleteCmd = &cobra.Command{
	Use:   "delete <household-id>",
	Short: "Delete a household (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		if err := s.registry.Delete(s.ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

var householdsLeaveCmd = &cobra.Command{
	Use:   "leave <household-id>",
	Short: "Leave a household (owners must delete instead)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		if err := s.registry.Leave(s.ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("left household")
		return nil
	},
}

func init() {
	householdsCreateCmd.Flags().StringVar(&createDescription, "description", "", "household description")
	householdsCreateCmd.Flags().StringVar(&createCurrency, "currency", "", "ISO currency code (server default when empty)")

	householdsUpdateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	householdsUpdateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	householdsUpdateCmd.Flags().StringVar(&updateCurrency, "currency", "", "new currency code")

	householdsCmd.AddCommand(householdsListCmd, householdsCreateCmd, householdsShowCmd,
		householdsUpdateCmd, householdsDeleteCmd, householdsLeaveCmd)
	rootCmd.AddCommand(householdsCmd)
}
