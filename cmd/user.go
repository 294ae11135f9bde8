package cmd

import (
	"fmt"

	"github.com/inovacc/worklog/internal/model"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts (admin)",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name> <password>",
	Short: "Add a user account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		user, err := a.mutator.CreateUser(cmd.Context(), model.User{
			Name:     args[0],
			Password: args[1],
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added user %s (%s)\n", user.Name, user.ID)
		printStatus(a.session.Status())

		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		for _, u := range a.session.Collections().Users {
			fmt.Printf("%s  %s\n", u.ID, u.Name)
		}

		return nil
	},
}

var userRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a user account",
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

		if err := a.mutator.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted user %s\n", args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRmCmd)
}
