package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// reportCmd generates the Markdown traffic report.
var reportCmd = &cobra.Command{
	Use:   "report [metrics-dir]",
	Short: "Generate the Markdown traffic report next to the snapshots.",
	Long: `Render the latest snapshot into a Markdown report.

The report contains the window summary, key ratios and averages, the
spike-flag list, a daily breakdown table and a fixed notes section. By
default it is written as REPORT.md inside the metrics directory,
overwriting the previous report unconditionally.

Ideal for:
- Committing a human-readable report next to the raw snapshots
- Linking traffic numbers from release notes or team updates
- Reviewing spike days with their full daily context
- Automated report refreshes from cron or CI

Examples:
  # Refresh metrics/traffic/REPORT.md from the newest snapshot
  trafficlens report

  # Write the report under a different name
  trafficlens report --report-file TRAFFIC.md

  # Send the report somewhere else entirely
  trafficlens report --output-file /tmp/traffic-report.md

  # Preview on the terminal without touching any file
  trafficlens report --stdout`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrafficReport(cfg); err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
	},
}
