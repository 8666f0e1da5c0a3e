package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// checkCmd focused on CI/CD spike gating.
var checkCmd = &cobra.Command{
	Use:   "check [metrics-dir]",
	Short: "Enforce spike tolerances for CI/CD pipelines (fails on violations)",
	Long: `Run spike detection on the latest snapshot and enforce a tolerance.

Designed for CI/CD and cron integration - exits with a non-zero code when
more days are flagged than --max-spike-days allows. The default tolerance
is 0, so any flagged day fails the check.

Default thresholds: views/visitor>5, clones/unique_cloner>3, clones/views>20%

Use cases:
- Nightly alerting - page when traffic behaves unusually
- Launch monitoring - confirm a release announcement did (or did not) spike
- Data-quality guard - catch automation-heavy traffic before it skews reports
- Dashboards - gate a publish step on clean traffic

Examples:
  # Fail on any flagged day (default tolerance)
  trafficlens check

  # Tolerate up to two flagged days
  trafficlens check --max-spike-days 2

  # Check with stricter thresholds for this run only
  trafficlens check --thresholds-override "views-per-visitor:4,clone-view-ratio:0.15"

  # Gate a specific snapshot
  trafficlens check --file 2025-10-25.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		// Exit code handling is done in ExecuteTrafficCheck
		if err := core.ExecuteTrafficCheck(cfg); err != nil {
			contract.LogFatal("Spike check failed", err)
		}
	},
}
