package core

import (
	"errors"
	"fmt"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/internal/parquet"
	"github.com/trafficlens/trafficlens/internal/snapstore"
)

// ExecuteTrafficExport performs the export of derived traffic data to
// Parquet files. Three tables are written next to the output prefix: the
// merged daily breakdown, the full referrer list and the full path list.
func ExecuteTrafficExport(cfg *contract.Config) error {
	// Validate that output file is specified
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	snap, err := snapstore.LoadLatest(cfg)
	if err != nil {
		return err
	}
	stats := BuildDerivedStats(snap, cfg)

	fmt.Printf("Exporting snapshot %s...\n", snap.SourcePath)
	fmt.Printf("Tracked days: %d\n", stats.TrackedDays())
	fmt.Printf("Referrers: %d, paths: %d\n", len(snap.Referrers), len(snap.Paths))

	// Convert to Parquet format. Exports always carry the full referrer and
	// path lists, not the display-limited ones.
	dailyRows := parquet.ConvertDailyPoints(stats.Daily, stats.Spikes)
	referrerRows := parquet.ConvertReferrers(snap.Referrers)
	pathRows := parquet.ConvertPopularPaths(snap.Paths)

	dailyFile := cfg.OutputFile + ".daily.parquet"
	if err := parquet.WriteDailyTrafficParquet(dailyRows, dailyFile); err != nil {
		return fmt.Errorf("failed to write daily traffic: %w", err)
	}
	fmt.Printf("Exported %d daily rows to: %s\n", len(dailyRows), dailyFile)

	referrersFile := cfg.OutputFile + ".referrers.parquet"
	if err := parquet.WriteReferrersParquet(referrerRows, referrersFile); err != nil {
		return fmt.Errorf("failed to write referrers: %w", err)
	}
	fmt.Printf("Exported %d referrer rows to: %s\n", len(referrerRows), referrersFile)

	pathsFile := cfg.OutputFile + ".paths.parquet"
	if err := parquet.WritePopularPathsParquet(pathRows, pathsFile); err != nil {
		return fmt.Errorf("failed to write paths: %w", err)
	}
	fmt.Printf("Exported %d path rows to: %s\n", len(pathRows), pathsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
