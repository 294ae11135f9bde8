package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inovacc/worklog/internal/engine"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sync daemon in the foreground",
	Long: `Seed the session from the local cache, then reconcile with the remote
store on a fixed interval until interrupted. Reconciliation is suppressed
inside the grace window after local mutations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.refresh(cmd.Context()); err != nil {
			return err
		}
		printStatus(a.session.Status())

		scheduler := engine.NewScheduler(a.reconciler, a.session, engine.SchedulerOptions{
			Interval: cfg.SyncInterval,
			Grace:    cfg.GraceWindow,
			OnRefresh: func() {
				printStatus(a.session.Status())
			},
			Logger: slog.Default(),
		})

		scheduler.Start()
		defer scheduler.Stop()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		fmt.Println("shutting down")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
