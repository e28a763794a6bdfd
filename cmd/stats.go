package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoerner/revise/internal/logging"
	"github.com/pkoerner/revise/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scheduling statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := newClient(cfg)
		ctx := cmd.Context()
		now := time.Now()

		states, err := client.AllSchedulerStates(ctx)
		if err != nil {
			return fmt.Errorf("load scheduler states: %w", err)
		}
		d := stats.Reduce(states, now)

		fmt.Println("Scheduling")
		fmt.Printf("  Tracked cards   %d\n", d.TrackedCards)
		fmt.Printf("  Due now         %d\n", d.DueNow)
		fmt.Printf("  Due in 24h      %d\n", d.DueToday)
		fmt.Printf("  Learning        %d\n", d.Learning)
		fmt.Printf("  Review          %d\n", d.Review)
		fmt.Printf("  Relearning      %d\n", d.Relearning)
		fmt.Printf("  Total reps      %d\n", d.TotalReps)
		fmt.Printf("  Total lapses    %d\n", d.TotalLapses)
		if d.TrackedCards > 0 {
			fmt.Printf("  Avg stability   %.2f\n", d.AvgStability)
			fmt.Printf("  Avg difficulty  %.2f\n", d.AvgDifficulty)
		}

		// Local activity comes from the review journal when available.
		jnl := openJournal(logging.Nop())
		if jnl == nil {
			return nil
		}
		defer jnl.Close()

		dayTotal, dayCorrect, err := jnl.CountSince(ctx, now.Add(-24*time.Hour))
		if err != nil {
			return nil
		}
		weekTotal, weekCorrect, err := jnl.CountSince(ctx, now.AddDate(0, 0, -7))
		if err != nil {
			return nil
		}
		unsynced, err := jnl.UnsyncedCount(ctx)
		if err != nil {
			return nil
		}

		fmt.Println("\nActivity (local journal)")
		fmt.Printf("  Last 24h        %d reviews, %d correct\n", dayTotal, dayCorrect)
		fmt.Printf("  Last 7 days     %d reviews, %d correct\n", weekTotal, weekCorrect)
		if unsynced > 0 {
			fmt.Printf("  Unsynced        %d\n", unsynced)
		}
		return nil
	},
}
