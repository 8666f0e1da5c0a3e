package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trafficlens/trafficlens/core"
	"github.com/trafficlens/trafficlens/internal/contract"
)

// exportCmd writes the derived data as Parquet artifacts.
var exportCmd = &cobra.Command{
	Use:   "export [metrics-dir]",
	Short: "Export the derived traffic data to Parquet files.",
	Long: `Export the latest snapshot's derived data as Parquet artifacts.

Writes three snappy-compressed Parquet files next to the given prefix:
  <prefix>.daily.parquet     - one row per tracked day with counts, ratios and flags
  <prefix>.referrers.parquet - the full ranked referrer list
  <prefix>.paths.parquet     - the full ranked popular-path list

Exports always carry the complete referrer and path lists, not the
display-limited ones. Each run re-derives from the snapshot and
overwrites the artifacts.

The files drop straight into Spark, Pandas (pyarrow), DuckDB or any
other Parquet-compatible tool for longer-horizon analysis.

Examples:
  # Export the newest snapshot
  trafficlens export --output-file /tmp/traffic

  # Export one specific snapshot
  trafficlens export --file 2025-10-25.json --output-file /tmp/launch-day

  # Query the result with DuckDB
  duckdb -c "SELECT * FROM '/tmp/traffic.daily.parquet' ORDER BY date"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		// Output file validation is done in ExecuteTrafficExport
		if err := core.ExecuteTrafficExport(cfg); err != nil {
			contract.LogFatal("Cannot export traffic data", err)
		}
	},
}
