package cmd

import (
	"fmt"
	"time"

	"github.com/inovacc/worklog/internal/model"
	"github.com/spf13/cobra"
)

var (
	entryProject string
	entryStation string
	entryHours   float64
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage time entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Book hours on a project and work station",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		entry, err := a.mutator.CreateEntry(cmd.Context(), model.TimeEntry{
			ProjectID:     entryProject,
			WorkStationID: entryStation,
			Hours:         entryHours,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added entry %s (%gh)\n", entry.ID, entry.Hours)
		printStatus(a.session.Status())

		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all time entries",
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
		for _, e := range data.Entries {
			clientName := "unknown"
			if cl, ok := data.ClientForEntry(e); ok {
				clientName = cl.Name
			}

			projectName := "unknown"
			if p, ok := data.ProjectByID(e.ProjectID); ok {
				projectName = p.Name
			}

			date := ""
			if !e.CreatedAt.IsZero() {
				date = e.CreatedAt.Format(time.DateOnly)
			}

			fmt.Printf("%s  %-20s %-20s %6gh  %-12s %s\n",
				e.ID, clientName, projectName, e.Hours, e.EnteredBy, date)
		}
		fmt.Printf("Total: %g hours\n", data.TotalHours())

		return nil
	},
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a time entry",
	Long: `Delete a time entry by id. The deletion must be acknowledged by the
remote store; when it is unreachable the entry is kept and the command fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		if err := a.mutator.DeleteEntry(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted entry %s\n", args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryRmCmd)

	entryAddCmd.Flags().StringVar(&entryProject, "project", "", "Project id to book on")
	entryAddCmd.Flags().StringVar(&entryStation, "station", "", "Work station id")
	entryAddCmd.Flags().Float64Var(&entryHours, "hours", 0, "Hours worked")
	_ = entryAddCmd.MarkFlagRequired("project")
	_ = entryAddCmd.MarkFlagRequired("station")
	_ = entryAddCmd.MarkFlagRequired("hours")
}
