// Package core has core logic for deriving, gating and exporting traffic
// statistics from snapshots.
package core

import (
	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/internal/outwriter"
	"github.com/trafficlens/trafficlens/internal/snapstore"
	"github.com/trafficlens/trafficlens/schema"
)

// deriveLatest loads the configured snapshot and derives its statistics.
func deriveLatest(cfg *contract.Config) (*schema.DerivedStats, error) {
	snap, err := snapstore.LoadLatest(cfg)
	if err != nil {
		return nil, err
	}
	return BuildDerivedStats(snap, cfg), nil
}

// ExecuteTrafficSummary renders the terminal summary for the latest snapshot.
// It serves as the main entry point for the 'summary' mode.
func ExecuteTrafficSummary(cfg *contract.Config) error {
	stats, err := deriveLatest(cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteSummaryResults(stats, cfg)
}

// ExecuteTrafficReport renders the Markdown report. By default it lands next
// to the snapshots as cfg.ReportFile; --stdout prints it instead.
func ExecuteTrafficReport(cfg *contract.Config) error {
	stats, err := deriveLatest(cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteReportResults(stats, cfg)
}

// ExecuteTrafficThresholds prints every spike rule with its active
// threshold, so CI configs can be audited without reading YAML.
func ExecuteTrafficThresholds(cfg *contract.Config) error {
	return outwriter.WriteThresholdResults(cfg)
}

// ExecuteTrafficCompare loads two snapshots (explicit pair or the two
// newest) and renders the deltas between them.
func ExecuteTrafficCompare(cfg *contract.Config) error {
	base, target, err := snapstore.LoadComparePair(cfg)
	if err != nil {
		return err
	}
	result := CompareSnapshots(base, target, cfg)
	return outwriter.WriteComparisonResults(result, cfg)
}

// ExecuteTrafficTrend folds every snapshot in the metrics directory into
// one stitched daily history and renders it.
func ExecuteTrafficTrend(cfg *contract.Config) error {
	snaps, err := snapstore.LoadAll(cfg)
	if err != nil {
		return err
	}
	result := BuildTrend(snaps, cfg)
	return outwriter.WriteTrendResults(result, cfg)
}
