// Package main provides a performance benchmarking tool for the trafficlens CLI.
// It generates synthetic snapshot directories of increasing size, measures
// execution times across command types, treating the first successful run as
// cold and averaging the rest as warm, and writes CSV output for performance
// analysis and documentation.
//
// Prerequisites:
// - trafficlens binary installed and available in PATH
// - Writable work directory for the generated snapshot sets
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic snapshot sets are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Datasets []DatasetSpec
}

// DatasetSpec describes one synthetic snapshot set. Snapshots are weekly
// exports of a 14-day rolling window, so consecutive windows overlap the way
// real exports do.
type DatasetSpec struct {
	Name      string
	Snapshots int
	Referrers int
	Paths     int
}

// snapshotDoc mirrors the on-disk snapshot layout for generation.
type snapshotDoc struct {
	Repository  map[string]string `json:"repository"`
	CollectedAt string            `json:"collected_at"`
	Views       seriesDoc         `json:"views"`
	Clones      seriesDoc         `json:"clones"`
	Referrers   []countedDoc      `json:"referrers"`
	Paths       []countedDoc      `json:"paths"`
}

type seriesDoc struct {
	Count   int        `json:"count"`
	Uniques int        `json:"uniques"`
	Days    []pointDoc `json:"days"`
}

type pointDoc struct {
	Timestamp string `json:"timestamp"`
	Count     int    `json:"count"`
	Uniques   int    `json:"uniques"`
}

type countedDoc struct {
	Referrer string `json:"referrer,omitempty"`
	Path     string `json:"path,omitempty"`
	Count    int    `json:"count"`
	Uniques  int    `json:"uniques"`
}

const windowDays = 14

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    4,
		Datasets: []DatasetSpec{
			{Name: "month", Snapshots: 4, Referrers: 10, Paths: 10},
			{Name: "half-year", Snapshots: 26, Referrers: 25, Paths: 40},
			{Name: "two-years", Snapshots: 104, Referrers: 50, Paths: 80},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating %d snapshot sets under %s\n", len(config.Datasets), config.WorkDir)
	if err := generateDatasets(config); err != nil {
		fmt.Printf("Dataset generation failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the trafficlens binary and work directory are usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("trafficlens"); err != nil {
		return fmt.Errorf("trafficlens binary not found in PATH")
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work directory %s: %w", config.WorkDir, err)
	}

	return nil
}

// generateDatasets writes every configured snapshot set to disk. Existing
// sets are regenerated so repeated runs start from the same bytes.
func generateDatasets(config BenchmarkConfig) error {
	for _, spec := range config.Datasets {
		dir := filepath.Join(config.WorkDir, spec.Name)
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := generateSnapshots(dir, spec); err != nil {
			return err
		}
		fmt.Printf("  %s: %d snapshots, %d referrers, %d paths\n",
			spec.Name, spec.Snapshots, spec.Referrers, spec.Paths)
	}
	return nil
}

// generateSnapshots emits weekly snapshots of a 14-day rolling window. The
// generator is seeded so every benchmark run sees identical input.
func generateSnapshots(dir string, spec DatasetSpec) error {
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2024, 1, 7, 6, 0, 0, 0, time.UTC)

	for i := 0; i < spec.Snapshots; i++ {
		collected := start.AddDate(0, 0, 7*i)
		doc := buildSnapshot(rng, collected, spec)

		data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}

		name := collected.Format("2006-01-02") + ".json"
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// buildSnapshot fills one snapshot document with plausible numbers.
func buildSnapshot(rng *rand.Rand, collected time.Time, spec DatasetSpec) snapshotDoc {
	doc := snapshotDoc{
		Repository:  map[string]string{"owner": "acme", "repo": "widgets"},
		CollectedAt: collected.Format(time.RFC3339),
	}

	for d := windowDays - 1; d >= 0; d-- {
		day := collected.AddDate(0, 0, -d)
		ts := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

		viewUniques := 5 + rng.Intn(40)
		views := viewUniques * (1 + rng.Intn(4))
		cloneUniques := rng.Intn(6)
		clones := cloneUniques * (1 + rng.Intn(3))

		doc.Views.Days = append(doc.Views.Days, pointDoc{Timestamp: ts, Count: views, Uniques: viewUniques})
		doc.Views.Count += views
		if viewUniques > doc.Views.Uniques {
			doc.Views.Uniques = viewUniques
		}
		if clones > 0 {
			doc.Clones.Days = append(doc.Clones.Days, pointDoc{Timestamp: ts, Count: clones, Uniques: cloneUniques})
			doc.Clones.Count += clones
			if cloneUniques > doc.Clones.Uniques {
				doc.Clones.Uniques = cloneUniques
			}
		}
	}

	for r := 0; r < spec.Referrers; r++ {
		doc.Referrers = append(doc.Referrers, countedDoc{
			Referrer: fmt.Sprintf("referrer-%02d.example.com", r),
			Count:    10 + rng.Intn(500),
			Uniques:  5 + rng.Intn(100),
		})
	}
	for p := 0; p < spec.Paths; p++ {
		doc.Paths = append(doc.Paths, countedDoc{
			Path:    fmt.Sprintf("/acme/widgets/docs/page-%03d", p),
			Count:   5 + rng.Intn(300),
			Uniques: 2 + rng.Intn(80),
		})
	}
	return doc
}

// runBenchmarks executes all benchmark tests across configured datasets.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs per command\n",
		len(config.Datasets), config.Timeout, config.Runs)

	for _, spec := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", spec.Name)
		dir := filepath.Join(config.WorkDir, spec.Name)

		results = append(results, runBenchmarkSuite(config, spec.Name, "summary", []string{"summary", dir}))
		results = append(results, runBenchmarkSuite(config, spec.Name, "compare", []string{"compare", dir}))
		results = append(results, runBenchmarkSuite(config, spec.Name, "trend", []string{"trend", dir}))

		exportPrefix := filepath.Join(dir, "bench-export")
		results = append(results, runBenchmarkSuite(config, spec.Name, "export",
			[]string{"export", dir, "--output-file", exportPrefix}))
	}

	return results
}

// runBenchmarkSuite runs one command repeatedly and splits cold/warm timings.
func runBenchmarkSuite(config BenchmarkConfig, dataset, command string, args []string) BenchmarkResult {
	fmt.Printf("  %s (%d runs)\n", command, config.Runs)

	coldTime, warmTimes := runBenchmark(config, command, args)

	coldStr := "TIMEOUT"
	if coldTime > 0 {
		coldStr = fmt.Sprintf("%.3fs", coldTime)
	}

	warmStr := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmStr = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("    Cold: %s, Warm average: %s\n", coldStr, warmStr)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		ColdTime: coldStr,
		WarmTime: warmStr,
	}
}

// runBenchmark executes a trafficlens command multiple times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, command string, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("trafficlens", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	switch command {
	case "summary":
		return strings.Contains(outputStr, "Tracked days:")
	case "compare":
		return strings.Contains(outputStr, "Net view delta:")
	case "trend":
		return strings.Contains(outputStr, "Stitched")
	case "export":
		return strings.Contains(outputStr, "Export complete")
	default:
		return false
	}
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/trafficlens_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "summary", "Summary:")
	printCommandSummary(results, "compare", "Compare:")
	printCommandSummary(results, "trend", "Trend:")
	printCommandSummary(results, "export", "Export:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
		}
	}
}
