package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show or change the active household",
}

var activeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active household id",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		active := s.registry.ActiveID()
		if active == "" {
			fmt.Println("no active household")
			return nil
		}
		for _, h := range s.registry.Households() {
			if h.ID == active {
				fmt.Printf("%s  %s\n", h.ID, h.Name)
				return nil
			}
		}
		fmt.Println(active)
		return nil
	},
}

var activeSetCmd = &cobra.Command{
	Use:   "set <household-id>",
	Short: "Select the active household",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.saveActive()

		if err := s.registry.SetActive(args[0]); err != nil {
			return err
		}
		fmt.Println("active household set")
		return nil
	},
}

func init() {
	activeCmd.AddCommand(activeShowCmd, activeSetCmd)
	rootCmd.AddCommand(activeCmd)
}
