package cmd

import (
	"fmt"

	"github.com/inovacc/worklog/internal/engine"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <name> <password>",
	Short: "Log in against the users collection",
	Long: `Verify credentials against the remote users collection, falling back
to the cached copy when offline, and persist the session locally.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		gw, err := openGateway()
		if err != nil {
			return err
		}

		user, err := engine.Authenticate(cmd.Context(), gw, cache, args[0], args[1])
		if err != nil {
			return err
		}

		if err := cache.PutSession(user); err != nil {
			return err
		}

		role := "user"
		if user.Admin {
			role = "administrator"
		}
		fmt.Printf("Logged in as %s (%s)\n", user.Name, role)

		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		if err := cache.ClearSession(); err != nil {
			return err
		}

		fmt.Println("Logged out")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
