package core

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/internal/snapstore"
	"github.com/trafficlens/trafficlens/schema"
)

//go:embed testdata/2025-10-25.json
var snapshotJSONFixture []byte

//go:embed testdata/2025-10-18.json
var priorSnapshotJSONFixture []byte

// seedMetricsDir writes the embedded snapshot into a fresh metrics
// directory and returns a config pointing at it.
func seedMetricsDir(t *testing.T) *contract.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-10-25.json"), snapshotJSONFixture, 0o644))

	cfg := statsConfig()
	cfg.MetricsDir = dir
	cfg.ReportFile = contract.DefaultReportFile
	cfg.LatestBy = schema.ByCollected
	cfg.Output = schema.TextOut
	cfg.Width = 100
	return cfg
}

// seedMetricsDirPair adds the prior week's snapshot next to the latest one.
func seedMetricsDirPair(t *testing.T) *contract.Config {
	t.Helper()

	cfg := seedMetricsDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.MetricsDir, "2025-10-18.json"), priorSnapshotJSONFixture, 0o644))
	return cfg
}

func TestExecuteTrafficSummaryJSON(t *testing.T) {
	cfg := seedMetricsDir(t)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")

	err := ExecuteTrafficSummary(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var stats schema.DerivedStats
	require.NoError(t, sonic.Unmarshal(content, &stats))
	assert.Equal(t, "acme/widgets", stats.Repository.String())
	assert.Equal(t, 120, stats.TotalViews)
	assert.Equal(t, 3, stats.TrackedDays())
	require.Len(t, stats.Spikes, 1)
	assert.Equal(t, "2025-10-25", stats.Spikes[0].Date)
}

func TestExecuteTrafficSummaryText(t *testing.T) {
	cfg := seedMetricsDir(t)
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.txt")

	err := ExecuteTrafficSummary(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "GitHub Traffic Metrics Summary")
	assert.Contains(t, string(content), "Repository: acme/widgets")
	assert.Contains(t, string(content), "github.com")
}

func TestExecuteTrafficSummaryMissingDir(t *testing.T) {
	cfg := statsConfig()
	cfg.MetricsDir = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.LatestBy = schema.ByCollected

	err := ExecuteTrafficSummary(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics directory not found")
}

func TestExecuteTrafficSummaryEmptyDir(t *testing.T) {
	cfg := statsConfig()
	cfg.MetricsDir = t.TempDir()
	cfg.LatestBy = schema.ByCollected

	err := ExecuteTrafficSummary(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, snapstore.ErrNoSnapshots)
}

func TestExecuteTrafficReportDefaultPath(t *testing.T) {
	cfg := seedMetricsDir(t)

	err := ExecuteTrafficReport(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(cfg.MetricsDir, contract.DefaultReportFile))
	require.NoError(t, err)

	md := string(content)
	assert.Contains(t, md, "# Traffic Report for acme/widgets")
	assert.Contains(t, md, "Collected at: 2025-10-25T06:00:00Z")
	assert.Contains(t, md, "| 2025-10-24 | 0 | 0 | 4 | 2 | 0.00 | 2.00 | 0.00 |")
	assert.Contains(t, md, "- 2025-10-25: views/visitor>5, clones/unique_cloner>3, clones/views>20%")
}

func TestExecuteTrafficThresholdsJSON(t *testing.T) {
	cfg := statsConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "thresholds.json")

	err := ExecuteTrafficThresholds(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, sonic.Unmarshal(content, &entries))
	assert.Len(t, entries, 3)
}

func TestExecuteTrafficCheckPasses(t *testing.T) {
	cfg := seedMetricsDir(t)
	cfg.MaxSpikeDays = 5 // fixture has one flagged day

	err := ExecuteTrafficCheck(cfg)
	require.NoError(t, err)
}

func TestExecuteTrafficExport(t *testing.T) {
	cfg := seedMetricsDir(t)
	cfg.OutputFile = filepath.Join(t.TempDir(), "traffic")

	err := ExecuteTrafficExport(cfg)
	require.NoError(t, err)

	for _, suffix := range []string{".daily.parquet", ".referrers.parquet", ".paths.parquet"} {
		info, err := os.Stat(cfg.OutputFile + suffix)
		require.NoError(t, err, "expected artifact %s", suffix)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecuteTrafficExportRequiresOutputFile(t *testing.T) {
	cfg := seedMetricsDir(t)
	cfg.OutputFile = ""

	err := ExecuteTrafficExport(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")
}

func TestExecuteTrafficCompareAutoPair(t *testing.T) {
	cfg := seedMetricsDirPair(t)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "compare.json")

	err := ExecuteTrafficCompare(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var result schema.ComparisonResult
	require.NoError(t, sonic.Unmarshal(content, &result))
	assert.Equal(t, "acme/widgets", result.Repository.String())
	assert.Equal(t, "2025-10-18T06:00:00Z", result.BaseCollectedAt)
	assert.Equal(t, "2025-10-25T06:00:00Z", result.TargetCollectedAt)
	assert.Equal(t, 30, result.Summary.NetViewDelta)
	assert.Equal(t, 10, result.Summary.NetCloneDelta)
	assert.Equal(t, 1, result.Summary.NewReferrers) // news.ycombinator.com
	assert.Equal(t, 1, result.Summary.InactiveReferrers)
	assert.Equal(t, 1, result.Summary.SpikeDaysAfter)
}

func TestExecuteTrafficCompareNeedsTwoSnapshots(t *testing.T) {
	cfg := seedMetricsDir(t)

	err := ExecuteTrafficCompare(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 snapshots")
}

func TestExecuteTrafficTrend(t *testing.T) {
	cfg := seedMetricsDirPair(t)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "trend.json")

	err := ExecuteTrafficTrend(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var result schema.TrendResult
	require.NoError(t, sonic.Unmarshal(content, &result))
	assert.Equal(t, 2, result.Snapshots)
	// Five distinct dates across the two windows
	assert.Equal(t, 5, result.TrackedDays())
	assert.Equal(t, "2025-10-16", result.FirstDate)
	assert.Equal(t, "2025-10-25", result.LastDate)
	assert.Equal(t, 40+50+70+0+50, result.TotalViews)
	assert.Equal(t, 1, result.SpikeDays)
}

func TestExecuteTrafficSummaryExplicitFile(t *testing.T) {
	cfg := seedMetricsDir(t)
	cfg.SnapshotFile = filepath.Join(cfg.MetricsDir, "2025-10-25.json")
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")

	err := ExecuteTrafficSummary(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var stats schema.DerivedStats
	require.NoError(t, sonic.Unmarshal(content, &stats))
	assert.Equal(t, cfg.SnapshotFile, stats.SourcePath)
}
