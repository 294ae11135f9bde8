package cmd

import (
	"fmt"

	"github.com/inovacc/worklog/internal/model"
	"github.com/spf13/cobra"
)

var (
	projectClient string
	projectDesc   string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (admin)",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project under a client",
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

		project, err := a.mutator.CreateProject(cmd.Context(), model.Project{
			Name:        args[0],
			ClientID:    projectClient,
			Description: projectDesc,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added project %s (%s)\n", project.Name, project.ID)
		printStatus(a.session.Status())

		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
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
		for _, p := range data.Projects {
			clientName := "unknown"
			if c, ok := data.ClientByID(p.ClientID); ok {
				clientName = c.Name
			}

			fmt.Printf("%s  %-24s %-20s %-10s %d entries\n",
				p.ID, p.Name, clientName, p.EffectiveStatus(), len(data.EntriesForProject(p.ID)))
		}

		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:   "status <id> <active|completed|archived>",
	Short: "Change a project's lifecycle status",
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

		project, err := a.mutator.UpdateProjectStatus(cmd.Context(), args[0], model.ProjectStatus(args[1]))
		if err != nil {
			return err
		}

		fmt.Printf("Project %s is now %s\n", project.Name, project.EffectiveStatus())
		printStatus(a.session.Status())

		return nil
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a project and its entries",
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

		if err := a.mutator.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted project %s\n", args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectStatusCmd)
	projectCmd.AddCommand(projectRmCmd)

	projectAddCmd.Flags().StringVar(&projectClient, "client", "", "Client id the project belongs to")
	projectAddCmd.Flags().StringVar(&projectDesc, "desc", "", "Optional description")
	_ = projectAddCmd.MarkFlagRequired("client")
}
