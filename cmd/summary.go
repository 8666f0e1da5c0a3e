package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// summaryCmd renders the terminal traffic summary.
var summaryCmd = &cobra.Command{
	Use:   "summary [metrics-dir]",
	Short: "Show totals, averages and top referrers for the latest snapshot.",
	Long: `Summarize the most recent traffic snapshot on the terminal.

Loads the newest snapshot from the metrics directory and prints window
totals, daily averages, key ratios, spike flags and the top referrers
and popular paths.

Use this to:
- Get a quick read on repository traffic after each collection run
- Spot days that crossed the spike thresholds without opening a report
- See which referrers and paths are driving traffic right now
- Feed dashboards with the JSON or CSV renditions of the same numbers

Examples:
  # Summarize the newest snapshot in the default directory
  trafficlens summary

  # Point at another snapshot directory
  trafficlens summary /data/metrics/traffic

  # Inspect one specific snapshot instead of the newest
  trafficlens summary --file 2025-10-25.json

  # Machine-readable output for scripting
  trafficlens summary --output json --output-file summary.json

  # Show more referrers and paths
  trafficlens summary --limit 25 --sort-top`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrafficSummary(cfg); err != nil {
			contract.LogFatal("Cannot summarize traffic", err)
		}
	},
}
