package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients (admin)",
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		client, err := a.mutator.CreateClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Added client %s (%s)\n", client.Name, client.ID)
		printStatus(a.session.Status())

		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		data := a.session.Collections()
		for _, c := range data.Clients {
			fmt.Printf("%s  %-24s %d projects\n", c.ID, c.Name, len(data.ProjectsForClient(c.ID)))
		}

		return nil
	},
}

var clientRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a client and its projects and entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		if err := a.mutator.DeleteClient(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted client %s\n", args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientRmCmd)
}
