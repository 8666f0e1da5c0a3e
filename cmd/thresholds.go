package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// thresholdsCmd displays the spike rules currently in force.
var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Display the spike detection rules and their active thresholds",
	Long: `Show every spike rule with its active and default threshold.

Provides complete transparency into how days get flagged, including:
- Rule names and what each ratio measures
- The active threshold after config-file and flag overrides
- The built-in default for comparison
- The exact tag a firing rule renders into summaries and reports

No snapshot is loaded - this is purely informational.

Use this to:
- Audit what a CI check run will enforce
- Explain flagged days to your team
- Validate threshold overrides in .trafficlens.yaml
- Document the detection policy alongside the metrics

Examples:
  # Show the rules in force
  trafficlens thresholds

  # Confirm what a one-off override would change
  trafficlens thresholds --thresholds-override "clone-view-ratio:0.3"

  # Machine-readable for documentation tooling
  trafficlens thresholds --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrafficThresholds(cfg); err != nil {
			contract.LogFatal("Cannot display thresholds", err)
		}
	},
}
