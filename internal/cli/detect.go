package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectLookbackHours int

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run place detection over stored location history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		lookback := detectLookbackHours
		if lookback == 0 {
			lookback = a.Config.Detection.LookbackHours
		}

		run, err := a.Detection.RunOnce(cmd.Context(), lookback)
		if err != nil {
			return err
		}

		fmt.Printf("Run %d: %s\n", run.ID, run.Status)
		fmt.Printf("  fixes: %d total, %d after filtering\n", run.TotalFixes, run.FilteredFixes)
		fmt.Printf("  clusters: %d\n", run.ClusterCount)
		fmt.Printf("  accepted: %d, for review: %d, rejected: %d\n",
			run.AcceptedCount, run.ReviewCount, run.RejectedCount)
		if run.ErrorMessage != "" {
			return fmt.Errorf("detection failed: %s", run.ErrorMessage)
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().IntVar(&detectLookbackHours, "lookback-hours", 0, "hours of history to scan (default from config)")
	rootCmd.AddCommand(detectCmd)
}
