package cmd

import (
	"fmt"
	"strconv"

	"github.com/inovacc/worklog/internal/model"
	"github.com/spf13/cobra"
)

var (
	stationRate      float64
	stationEquipment bool
)

var stationCmd = &cobra.Command{
	Use:   "station",
	Short: "Manage work stations (admin)",
}

var stationAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a work station",
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

		station, err := a.mutator.CreateStation(cmd.Context(), model.WorkStation{
			Name:        args[0],
			HourlyRate:  stationRate,
			IsEquipment: stationEquipment,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added station %s (%s)\n", station.Name, station.ID)
		printStatus(a.session.Status())

		return nil
	},
}

var stationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work stations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		for _, s := range a.session.Collections().Stations {
			kind := "station"
			if s.IsEquipment {
				kind = "equipment"
			}

			fmt.Printf("%s  %-24s %-10s %g/h\n", s.ID, s.Name, kind, s.HourlyRate)
		}

		return nil
	},
}

var stationRateCmd = &cobra.Command{
	Use:   "rate <id> <hourly-rate>",
	Short: "Change a station's hourly rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid hourly rate %q", args[1])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}

		station, err := a.mutator.UpdateStationRate(cmd.Context(), args[0], rate)
		if err != nil {
			return err
		}

		fmt.Printf("Station %s rate is now %g/h\n", station.Name, station.HourlyRate)
		printStatus(a.session.Status())

		return nil
	},
}

var stationRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a work station",
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

		if err := a.mutator.DeleteStation(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted station %s\n", args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(stationCmd)
	stationCmd.AddCommand(stationAddCmd)
	stationCmd.AddCommand(stationListCmd)
	stationCmd.AddCommand(stationRateCmd)
	stationCmd.AddCommand(stationRmCmd)

	stationAddCmd.Flags().Float64Var(&stationRate, "rate", 0, "Hourly rate")
	stationAddCmd.Flags().BoolVar(&stationEquipment, "equipment", false, "Mark as equipment rather than a station")
}
