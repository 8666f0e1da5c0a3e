package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// ExecuteTrafficCheck runs the spike gate for CI/CD.
// It derives statistics for the latest snapshot, compares the number of
// flagged days against the tolerance, and returns a non-zero exit code when
// the gate fails.
func ExecuteTrafficCheck(cfg *contract.Config) error {
	stats, err := deriveLatest(cfg)
	if err != nil {
		return err
	}

	passed := SpikeGatePassed(stats, cfg)
	printCheckResult(stats, cfg, passed)

	if !passed {
		fmt.Printf("%d flagged day(s) found\n", len(stats.Spikes))
		os.Exit(1)
	}
	return nil
}

// SpikeGatePassed reports whether the number of flagged days stays within
// the configured tolerance.
func SpikeGatePassed(stats *schema.DerivedStats, cfg *contract.Config) bool {
	return len(stats.Spikes) <= cfg.MaxSpikeDays
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(stats *schema.DerivedStats, cfg *contract.Config, passed bool) {
	printCheckHeader(stats, cfg)

	if passed {
		printCheckSuccess(stats)
	} else {
		printCheckFailure(stats, cfg)
	}
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(stats *schema.DerivedStats, cfg *contract.Config) {
	fmt.Println("Traffic Spike Check:")

	// Define labels and values for dynamic padding
	labels := []string{"Repository:", "Snapshot:", "Thresholds:", "Tolerance:"}
	values := []any{
		stats.Repository,
		stats.SourcePath,
		formatActiveThresholds(cfg),
		fmt.Sprintf("%d flagged day(s)", cfg.MaxSpikeDays),
	}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked %d tracked day(s)\n\n", stats.TrackedDays())
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(stats *schema.DerivedStats) {
	fmt.Printf("✅ Spike flags within tolerance: %d day(s) flagged\n", len(stats.Spikes))

	if stats.TrackedDays() == 0 {
		return
	}

	// Show the highest observed value per rule so near-misses stay visible.
	maxVPV, maxVPVDate := 0.0, ""
	maxCPC, maxCPCDate := 0.0, ""
	maxCPV, maxCPVDate := 0.0, ""
	for _, p := range stats.Daily {
		if v := p.ViewsPerVisitor(); v > maxVPV {
			maxVPV, maxVPVDate = v, p.Date
		}
		if v := p.ClonesPerCloner(); v > maxCPC {
			maxCPC, maxCPCDate = v, p.Date
		}
		if v := p.ClonesPerView(); v > maxCPV {
			maxCPV, maxCPVDate = v, p.Date
		}
	}

	fmt.Println("\nRatios observed:")
	fmt.Printf("  views/visitor: max=%.2f (%s)\n", maxVPV, maxVPVDate)
	fmt.Printf("  clones/unique_cloner: max=%.2f (%s)\n", maxCPC, maxCPCDate)
	fmt.Printf("  clones/views: max=%.1f%% (%s)\n", maxCPV*100, maxCPVDate)
}

// printCheckFailure prints the failure case output.
func printCheckFailure(stats *schema.DerivedStats, cfg *contract.Config) {
	fmt.Printf("❌ Spike check failed: %d day(s) flagged, tolerance is %d\n\n",
		len(stats.Spikes), cfg.MaxSpikeDays)

	// Show up to 5 flagged days, with "+X more" if needed
	maxToShow := 5
	for i, flag := range stats.Spikes {
		if i >= maxToShow {
			fmt.Printf("  ... and %d more\n", len(stats.Spikes)-maxToShow)
			break
		}
		fmt.Printf("  %s: %s (views=%d, uniques=%d, clones=%d, unique_cloners=%d)\n",
			flag.Date, strings.Join(flag.Tags, ", "), flag.Views, flag.ViewUniques, flag.Clones, flag.CloneUniques)
	}
}

// formatActiveThresholds renders the active thresholds as their spike tags,
// in rule evaluation order.
func formatActiveThresholds(cfg *contract.Config) string {
	tags := make([]string, 0, len(schema.AllSpikeRules))
	for _, rule := range schema.AllSpikeRules {
		tags = append(tags, schema.FormatSpikeTag(rule, cfg.SpikeThresholds[rule]))
	}
	return strings.Join(tags, ", ")
}
