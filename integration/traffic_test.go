//go:build basic

package integration

import (
	"bytes"
	_ "embed"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/2025-10-18.json
var priorSnapshotJSON []byte

//go:embed testdata/2025-10-25.json
var latestSnapshotJSON []byte

// seedMetricsDir writes the two sample snapshots into a fresh metrics
// directory and returns its path.
func seedMetricsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-10-18.json"), priorSnapshotJSON, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-10-25.json"), latestSnapshotJSON, 0o644))
	return dir
}

// runTrafficlens executes the shared binary from a neutral working directory
// so a developer's .trafficlens.yaml or .env cannot leak into the run.
func runTrafficlens(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(getTrafficlensBinary(), args...)
	cmd.Dir = t.TempDir()

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr, "trafficlens did not run: %v (stderr: %s)", err, errBuf.String())
		exitCode = exitErr.ExitCode()
	}
	return outBuf.String(), errBuf.String(), exitCode
}

// TestSummaryJSON runs summary on a seeded directory and decodes the JSON
// payload back into the documented field names.
func TestSummaryJSON(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	stdout, stderr, exitCode := runTrafficlens(t, "summary", metricsDir, "--output", "json")
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)

	var payload struct {
		Repository struct {
			Owner string `json:"owner"`
			Name  string `json:"repo"`
		} `json:"repository"`
		CollectedAt    string `json:"collected_at"`
		TotalViews     int    `json:"total_views"`
		UniqueVisitors int    `json:"unique_visitors"`
		TotalClones    int    `json:"total_clones"`
		UniqueCloners  int    `json:"unique_cloners"`
		Daily          []struct {
			Date  string `json:"date"`
			Views int    `json:"views"`
		} `json:"daily"`
		Spikes []struct {
			Date string   `json:"date"`
			Tags []string `json:"flags"`
		} `json:"spikes"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(stdout), &payload))

	// The 2025-10-25 snapshot wins selection by collection timestamp.
	assert.Equal(t, "acme", payload.Repository.Owner)
	assert.Equal(t, "widgets", payload.Repository.Name)
	assert.Equal(t, "2025-10-25T06:00:00Z", payload.CollectedAt)
	assert.Equal(t, 120, payload.TotalViews)
	assert.Equal(t, 30, payload.UniqueVisitors)
	assert.Equal(t, 16, payload.TotalClones)
	assert.Equal(t, 5, payload.UniqueCloners)

	require.Len(t, payload.Daily, 3)
	assert.Equal(t, "2025-10-23", payload.Daily[0].Date)
	assert.Equal(t, "2025-10-25", payload.Daily[2].Date)

	require.Len(t, payload.Spikes, 1)
	assert.Equal(t, "2025-10-25", payload.Spikes[0].Date)
	assert.Len(t, payload.Spikes[0].Tags, 3)
}

// TestSummaryMissingDirectory verifies the error path exits non-zero and
// names the directory.
func TestSummaryMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, stderr, exitCode := runTrafficlens(t, "summary", missing)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, missing)
}

// TestReportWritesMarkdown verifies report lands next to the snapshots with
// the documented headings.
func TestReportWritesMarkdown(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	_, stderr, exitCode := runTrafficlens(t, "report", metricsDir)
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.Contains(t, stderr, "Wrote report")

	content, err := os.ReadFile(filepath.Join(metricsDir, "REPORT.md"))
	require.NoError(t, err)
	md := string(content)
	assert.Contains(t, md, "# Traffic Report for acme/widgets")
	assert.Contains(t, md, "## Daily breakdown")
	assert.Contains(t, md, "| 2025-10-25 | 50 | 5 | 12 | 3 |")

	// A second run overwrites rather than appends.
	_, _, exitCode = runTrafficlens(t, "report", metricsDir)
	require.Equal(t, 0, exitCode)
	again, err := os.ReadFile(filepath.Join(metricsDir, "REPORT.md"))
	require.NoError(t, err)
	assert.Equal(t, md, string(again))
}

// TestCheckGate verifies the exit code contract on both sides of the
// tolerance.
func TestCheckGate(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	// The latest snapshot has one flagged day, so the default tolerance of
	// zero fails the gate.
	stdout, _, exitCode := runTrafficlens(t, "check", metricsDir)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout, "Spike check failed")
	assert.Contains(t, stdout, "1 flagged day(s) found")

	stdout, _, exitCode = runTrafficlens(t, "check", metricsDir, "--max-spike-days", "1")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "within tolerance")

	// Raising the views threshold clears the flag entirely.
	stdout, _, exitCode = runTrafficlens(t, "check", metricsDir,
		"--thresholds-override", "views-per-visitor:50,clones-per-cloner:50,clone-view-ratio:0.99")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "0 day(s) flagged")
}

// TestCompareCSV compares the two seeded snapshots and checks the movement
// rows end to end.
func TestCompareCSV(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	stdout, stderr, exitCode := runTrafficlens(t, "compare", metricsDir, "--output", "csv")
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "rank,kind,name,before_count,after_count,delta,before_uniques,after_uniques,delta_uniques,status", lines[0])
	assert.Equal(t, "1,referrer,news.ycombinator.com,0,35,35,0,18,18,new", lines[1])
	assert.Equal(t, "2,referrer,github.com,55,80,25,14,20,6,active", lines[2])
	assert.Equal(t, "3,referrer,old.reddit.com,18,0,-18,9,0,-9,inactive", lines[3])
	assert.Equal(t, "1,path,/acme/widgets/releases,0,22,22,0,9,9,new", lines[4])
	assert.Equal(t, "2,path,/acme/widgets,48,60,12,11,15,4,active", lines[5])
}

// TestCompareNeedsTwoSnapshots verifies the auto-pair error path.
func TestCompareNeedsTwoSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-10-25.json"), latestSnapshotJSON, 0o644))

	_, stderr, exitCode := runTrafficlens(t, "compare", dir)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "at least 2 snapshots")
}

// TestTrendCSV stitches both snapshots and checks the newest-wins overlap
// handling along with the flag column.
func TestTrendCSV(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	stdout, stderr, exitCode := runTrafficlens(t, "trend", metricsDir, "--output", "csv")
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "date,views,view_uniques,clones,clone_uniques,source,flags", lines[0])
	assert.Equal(t, "2025-10-16,40,12,0,0,2025-10-18.json,", lines[1])
	assert.Equal(t, "2025-10-17,50,12,6,3,2025-10-18.json,", lines[2])
	assert.Equal(t, "2025-10-23,70,18,0,0,2025-10-25.json,", lines[3])
	assert.Equal(t, "2025-10-24,0,0,4,2,2025-10-25.json,", lines[4])
	assert.Equal(t, "2025-10-25,50,5,12,3,2025-10-25.json,views/visitor>5|clones/unique_cloner>3|clones/views>20%", lines[5])
}

// TestExportParquet verifies all three Parquet artifacts land on disk.
func TestExportParquet(t *testing.T) {
	metricsDir := seedMetricsDir(t)
	prefix := filepath.Join(t.TempDir(), "traffic")

	stdout, stderr, exitCode := runTrafficlens(t, "export", metricsDir, "--output-file", prefix)
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Export complete")

	for _, suffix := range []string{".daily.parquet", ".referrers.parquet", ".paths.parquet"} {
		info, err := os.Stat(prefix + suffix)
		require.NoError(t, err, "missing artifact %s", suffix)
		assert.Positive(t, info.Size())
	}
}

// TestExportRequiresOutputFile verifies export refuses to run without a
// destination prefix.
func TestExportRequiresOutputFile(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	_, stderr, exitCode := runTrafficlens(t, "export", metricsDir)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "--output-file is required")
}

// TestThresholdsStaticDisplay verifies thresholds works without any
// snapshots on disk.
func TestThresholdsStaticDisplay(t *testing.T) {
	stdout, stderr, exitCode := runTrafficlens(t, "thresholds")
	require.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Spike Detection Thresholds")
	assert.Contains(t, stdout, "views/visitor>5")
	assert.Contains(t, stdout, "clones/views>20%")
}

// TestVersionOutput sanity-checks the version command.
func TestVersionOutput(t *testing.T) {
	stdout, _, exitCode := runTrafficlens(t, "version")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "trafficlens CLI")
	assert.Contains(t, stdout, "Runtime: go")
}

// TestEnvOverridesMetricsDir verifies the TRAFFICLENS_ environment prefix
// reaches the binary.
func TestEnvOverridesMetricsDir(t *testing.T) {
	metricsDir := seedMetricsDir(t)

	cmd := exec.Command(getTrafficlensBinary(), "summary", "--output", "json")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "TRAFFICLENS_METRICS_DIR="+metricsDir)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Fatalf("summary failed with code %d: %s", exitErr.ExitCode(), errBuf.String())
		}
		t.Fatalf("summary did not run: %v", err)
	}

	var payload struct {
		SourcePath string `json:"source_path"`
	}
	require.NoError(t, sonic.Unmarshal(outBuf.Bytes(), &payload))
	assert.Equal(t, filepath.Join(metricsDir, "2025-10-25.json"), payload.SourcePath)
}
