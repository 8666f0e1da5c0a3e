// Package contract provides the configuration contract and shared utilities
// for internal architecture.
package contract

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trafficlens/trafficlens/schema"
)

// Default values for configuration.
const (
	DefaultMetricsDir  = "metrics/traffic"
	DefaultReportFile  = "REPORT.md"
	DefaultResultLimit = 10
	MaxResultLimit     = 100
	DefaultPrecision   = 2
	MaxPrecision       = 4
)

// ThresholdsRawInput holds spike threshold overrides from the YAML config
// file. Float pointers distinguish "absent" from an explicit zero.
type ThresholdsRawInput struct {
	ViewsPerVisitor *float64 `mapstructure:"views-per-visitor"`
	ClonesPerCloner *float64 `mapstructure:"clones-per-cloner"`
	CloneViewRatio  *float64 `mapstructure:"clone-view-ratio"`
}

// Config holds the runtime configuration for snapshot analysis.
// This struct remains the "final, validated" config.
type Config struct {
	MetricsDir   string                // Directory scanned for snapshot files
	SnapshotFile string                // Explicit snapshot path; empty means pick the latest
	BaseFile     string                // Older snapshot for comparisons; empty means auto-pick
	TargetFile   string                // Newer snapshot for comparisons; empty means auto-pick
	ReportFile   string                // Report filename written inside MetricsDir
	LatestBy     schema.SelectStrategy // Strategy for choosing the latest snapshot
	ResultLimit  int                   // Max referrers and paths to render
	SortTop      bool                  // Re-sort referrers and paths by count before ranking
	Precision    int                   // Decimal places for ratios in tables
	Output       schema.OutputMode
	OutputFile   string
	ReportStdout bool // Print the report to stdout instead of writing the file
	Width        int  // Terminal width override (0 = auto-detect)
	MaxSpikeDays int  // Flagged days tolerated by the check gate
	TrendDays    int  // Most recent days kept in the stitched history (0 = all)

	// SpikeThresholds is a mapping of [SpikeRule] = threshold value
	SpikeThresholds map[schema.SpikeRule]float64

	UseColors bool // Enable colored labels in terminal output
	Verbose   bool // Enable debug logging
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	MetricsDirArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	MetricsDir    string `mapstructure:"metrics-dir"`
	File          string `mapstructure:"file"`
	ReportFile    string `mapstructure:"report-file"`
	LatestBy      string `mapstructure:"latest-by"`
	Limit         int    `mapstructure:"limit"`
	SortTop       bool   `mapstructure:"sort-top"`
	Precision     int    `mapstructure:"precision"`
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Width         int    `mapstructure:"width"`
	Color         string `mapstructure:"color"`
	Verbose       bool   `mapstructure:"verbose"`
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Fields from reportCmd.Flags() ---
	Stdout bool `mapstructure:"stdout"`

	// --- Fields from checkCmd.Flags() ---
	MaxSpikeDays int `mapstructure:"max-spike-days"`

	// --- Fields from compareCmd.Flags() ---
	BaseFile   string `mapstructure:"base-file"`
	TargetFile string `mapstructure:"target-file"`

	// --- Fields from trendCmd.Flags() ---
	TrendDays int `mapstructure:"days"`

	// --- Spike thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveSnapshotPaths(cfg, input); err != nil {
		return err
	}
	if err := processSpikeThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.SortTop = input.SortTop
	cfg.Verbose = input.Verbose
	cfg.ReportStdout = input.Stdout
	cfg.OutputFile = input.OutputFile

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 4. Selection Strategy Validation ---
	cfg.LatestBy = schema.SelectStrategy(strings.ToLower(input.LatestBy))
	if _, ok := schema.ValidSelectStrategies[cfg.LatestBy]; !ok {
		return fmt.Errorf("invalid latest-by strategy '%s'. must be collected, filename", input.LatestBy)
	}

	// --- 5. Width and Tolerance Validation ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	if input.MaxSpikeDays < 0 {
		return fmt.Errorf("max-spike-days cannot be negative (received %d)", input.MaxSpikeDays)
	}
	cfg.MaxSpikeDays = input.MaxSpikeDays

	if input.TrendDays < 0 {
		return fmt.Errorf("days cannot be negative (received %d)", input.TrendDays)
	}
	cfg.TrendDays = input.TrendDays

	return nil
}

// resolveSnapshotPaths resolves the metrics directory, the optional snapshot
// override and the report filename.
func resolveSnapshotPaths(cfg *Config, input *ConfigRawInput) error {
	// Positional argument wins over the config value.
	dir := input.MetricsDirArg
	if dir == "" {
		dir = input.MetricsDir
	}
	if dir == "" {
		return fmt.Errorf("metrics directory cannot be empty")
	}
	cfg.MetricsDir = filepath.Clean(dir)

	if input.ReportFile == "" {
		return fmt.Errorf("report-file cannot be empty")
	}
	if filepath.Base(input.ReportFile) != input.ReportFile {
		return fmt.Errorf("report-file must be a bare filename (received %s)", input.ReportFile)
	}
	cfg.ReportFile = input.ReportFile

	// A bare --file value refers to a snapshot inside the metrics directory;
	// anything with a path separator is used as given.
	cfg.SnapshotFile = resolveInMetricsDir(cfg.MetricsDir, input.File)

	// Comparison endpoints follow the same resolution rule and must be
	// given as a pair. Both empty means the pair is picked automatically.
	if (input.BaseFile == "") != (input.TargetFile == "") {
		return fmt.Errorf("base-file and target-file must be provided together")
	}
	cfg.BaseFile = resolveInMetricsDir(cfg.MetricsDir, input.BaseFile)
	cfg.TargetFile = resolveInMetricsDir(cfg.MetricsDir, input.TargetFile)

	return nil
}

// resolveInMetricsDir joins a bare filename with the metrics directory and
// leaves explicit paths and empty values untouched.
func resolveInMetricsDir(dir, file string) string {
	if file != "" && filepath.Base(file) == file {
		return filepath.Join(dir, file)
	}
	return file
}

// processSpikeThresholds merges threshold defaults with config file values
// and the --thresholds-override flag, then validates the result.
func processSpikeThresholds(cfg *Config, input *ConfigRawInput) error {
	// 1. Start with defaults
	thresholds := schema.GetDefaultThresholds()

	// 2. Apply config file overrides
	if input.Thresholds.ViewsPerVisitor != nil {
		thresholds[schema.SpikeViewsPerVisitor] = *input.Thresholds.ViewsPerVisitor
	}
	if input.Thresholds.ClonesPerCloner != nil {
		thresholds[schema.SpikeClonesPerCloner] = *input.Thresholds.ClonesPerCloner
	}
	if input.Thresholds.CloneViewRatio != nil {
		thresholds[schema.SpikeCloneViewRatio] = *input.Thresholds.CloneViewRatio
	}

	// 3. Apply CLI flag overrides (highest priority)
	if input.ThresholdsStr != "" {
		if err := parseSpikeThresholdsString(input.ThresholdsStr, thresholds); err != nil {
			return err
		}
	}

	// 4. Validate all resulting values
	for rule, value := range thresholds {
		if value <= 0 {
			return fmt.Errorf("threshold for %s must be greater than 0 (received %g)", rule, value)
		}
	}

	cfg.SpikeThresholds = thresholds
	return nil
}

// parseSpikeThresholdsString parses "rule:value" pairs from a comma separated
// string, e.g. "views-per-visitor:6,clone-view-ratio:0.25".
func parseSpikeThresholdsString(s string, thresholds map[schema.SpikeRule]float64) error {
	for pair := range strings.SplitSeq(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("invalid threshold format '%s'. expected rule:value", pair)
		}
		rule := schema.SpikeRule(strings.TrimSpace(key))
		if _, known := thresholds[rule]; !known {
			return fmt.Errorf("invalid spike rule '%s'. must be views-per-visitor, clones-per-cloner, clone-view-ratio", rule)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("invalid threshold value '%s' for rule %s: %w", value, rule, err)
		}
		thresholds[rule] = parsed
	}
	return nil
}
