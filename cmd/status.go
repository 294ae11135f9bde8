package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and local data summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.gw.Health(cmd.Context()); err != nil {
			fmt.Println("Remote store: unreachable")
		} else {
			fmt.Println("Remote store: reachable")
		}

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}
		printStatus(a.session.Status())

		data := a.session.Collections()
		fmt.Printf("Clients: %d  Projects: %d  Stations: %d  Users: %d  Entries: %d\n",
			len(data.Clients), len(data.Projects), len(data.Stations), len(data.Users), len(data.Entries))
		fmt.Printf("Total hours: %g\n", data.TotalHours())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
