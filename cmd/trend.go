package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// trendCmd stitches every snapshot into one long daily history.
var trendCmd = &cobra.Command{
	Use:   "trend [metrics-dir]",
	Short: "Show the stitched daily history across all snapshots",
	Long: `Fold every snapshot in the metrics directory into one continuous
daily history.

Each snapshot carries a rolling window, so consecutive files overlap.
The trend view keys days by date and lets the newest snapshot win on
overlaps, since recent days are still settling when first exported.

Shows the complete trajectory, helping you:
- See traffic beyond the rolling window any single snapshot covers
- Identify when a spike pattern started and whether it persists
- Validate that collection runs are not leaving date gaps
- Build long-horizon datasets from short-lived API windows

Examples:
  # Full history from the default directory
  trafficlens trend

  # Only the most recent 30 days
  trafficlens trend --days 30

  # Long-horizon dataset for a spreadsheet
  trafficlens trend --output csv --output-file history.csv

  # History of another snapshot directory
  trafficlens trend /data/metrics/traffic`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrafficTrend(cfg); err != nil {
			contract.LogFatal("Cannot build traffic trend", err)
		}
	},
}
