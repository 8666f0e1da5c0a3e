package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// compareCmd focused on snapshot-to-snapshot deltas.
var compareCmd = &cobra.Command{
	Use:   "compare [metrics-dir]",
	Short: "Compare two snapshots to see how traffic has shifted.",
	Long: `Compare two traffic snapshots and show the delta for every window
total, referrer and popular path.

Without flags the two newest snapshots in the metrics directory are
compared. Pass --base-file and --target-file together to pick the
endpoints yourself; bare filenames resolve inside the metrics directory.

Ideal for:
- Release comparisons - see how an announcement moved traffic
- Referrer tracking - spot sources that appeared, grew or went quiet
- Content audits - find pages gaining or losing readership
- Week-over-week reviews - quantify growth between collection runs

Each comparison shows before/after counts, deltas and presence status
(new, active, inactive) for every entry that moved.

Examples:
  # Compare the two newest snapshots
  trafficlens compare

  # Compare two specific snapshots
  trafficlens compare --base-file 2025-10-18.json --target-file 2025-10-25.json

  # Export the movement rows for tracking
  trafficlens compare --output csv --output-file movement.csv

  # Show more movers per list
  trafficlens compare --limit 25`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrafficCompare(cfg); err != nil {
			contract.LogFatal("Cannot compare snapshots", err)
		}
	},
}
