package cmd

import (
	"fmt"

	"github.com/inovacc/worklog/internal/model"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a plain-text hours report",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		fmt.Print(model.BuildReport(a.session.Collections()))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
