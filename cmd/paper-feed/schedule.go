package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-feed/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Repeat the run on a cron schedule",
	Long: `Schedule keeps the process alive and performs a full run on every tick of
the cron expression (five-field syntax, or descriptors such as @daily and
"@every 6h"). Each run reloads the snapshot, so runs are independent. A
failed run is logged and the scheduler keeps going. A tick that arrives
while a run is still in progress is skipped. Stop with SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		spec, _ := cmd.Flags().GetString("cron")
		now, _ := cmd.Flags().GetBool("now")

		s, err := schedule.New(spec, func(ctx context.Context) error {
			_, err := runPipeline(ctx, cfg, logger)
			return err
		}, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return s.Start(ctx, now)
	},
}

func init() {
	scheduleCmd.Flags().String("cron", "@daily", "cron expression for runs (UTC)")
	scheduleCmd.Flags().Bool("now", false, "run once immediately before the first tick")

	rootCmd.AddCommand(scheduleCmd)
}
