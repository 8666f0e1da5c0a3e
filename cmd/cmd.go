// Package cmd defines the command-line interface for trafficlens.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("metrics-dir", contract.DefaultMetricsDir, "Directory containing traffic snapshot JSON files")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Snapshot to analyze (bare names resolve inside the metrics directory)")
	rootCmd.PersistentFlags().String("report-file", contract.DefaultReportFile, "Report filename written inside the metrics directory")
	rootCmd.PersistentFlags().String("latest-by", string(schema.ByCollected), "Latest snapshot selection: collected or filename")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of referrers and paths to display")
	rootCmd.PersistentFlags().Bool("sort-top", false, "Re-sort referrers and paths by count before ranking")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("thresholds-override", "", "Spike thresholds for this run (format: 'views-per-visitor:6,clones-per-cloner:4,clone-view-ratio:0.3')")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().Bool("stdout", false, "Print the report to stdout instead of writing the file")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Int("max-spike-days", 0, "Maximum flagged days tolerated before the check fails")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("base-file", "", "Older snapshot for the comparison (bare names resolve inside the metrics directory)")
	compareCmd.Flags().String("target-file", "", "Newer snapshot for the comparison (bare names resolve inside the metrics directory)")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of trendCmd to Viper
	trendCmd.Flags().Int("days", 0, "Keep only the most recent N days of history (0 = all)")
	if err := viper.BindPFlags(trendCmd.Flags()); err != nil {
		contract.LogFatal("Error binding trend flags", err)
	}
}
