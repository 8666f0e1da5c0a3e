package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComparisonResults outputs the snapshot comparison, dispatching based
// on the output format configured.
func WriteComparisonResults(result *schema.ComparisonResult, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeComparisonJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeComparisonCSVResults(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to the human-readable comparison
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonText(w, result, cfg, fmtFloat, fmtPercent)
		}, "Wrote comparison")
	}
	return nil
}

// deltaColors holds the sprint funcs used for delta rendering. Growing
// traffic renders green and shrinking traffic red, with yellow for flat.
type deltaColors struct {
	up, down, flat func(...any) string
}

func newDeltaColors(useColors bool) deltaColors {
	if useColors {
		return deltaColors{
			up:   color.New(color.FgGreen).SprintFunc(),
			down: color.New(color.FgRed).SprintFunc(),
			flat: color.New(color.FgYellow).SprintFunc(),
		}
	}
	return deltaColors{up: fmt.Sprint, down: fmt.Sprint, flat: fmt.Sprint}
}

// formatInt renders a count delta with an explicit sign and direction arrow.
func (c deltaColors) formatInt(delta int) string {
	switch {
	case delta > 0:
		return c.up(fmt.Sprintf("+%d ▲", delta))
	case delta < 0:
		return c.down(fmt.Sprintf("%d ▼", delta))
	default:
		return c.flat("0")
	}
}

// formatMetric renders a window metric delta in the metric's own unit.
func (c deltaColors) formatMetric(d schema.MetricDelta, precision int) string {
	var body string
	switch {
	case d.Integer:
		body = fmt.Sprintf("%+.0f", d.Delta)
	case d.Percent:
		body = fmt.Sprintf("%+.1f%%", d.Delta*100)
	default:
		body = fmt.Sprintf("%+.*f", precision, d.Delta)
	}
	switch {
	case d.Delta > 0:
		return c.up(body + " ▲")
	case d.Delta < 0:
		return c.down(body + " ▼")
	default:
		return c.flat(strings.TrimPrefix(body, "+"))
	}
}

// formatMetricValue renders a before or after value in the metric's unit.
func formatMetricValue(d schema.MetricDelta, v float64, fmtFloat, fmtPercent func(float64) string) string {
	switch {
	case d.Integer:
		return strconv.Itoa(int(v))
	case d.Percent:
		return fmtPercent(v)
	default:
		return fmtFloat(v)
	}
}

// writeComparisonText generates and writes the human-readable comparison.
func writeComparisonText(w io.Writer, result *schema.ComparisonResult, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string) error {
	colors := newDeltaColors(cfg.UseColors)

	if err := writeComparisonHeader(w, result); err != nil {
		return err
	}
	if err := writeTotalsTable(w, result, cfg, colors, fmtFloat, fmtPercent); err != nil {
		return err
	}
	if err := writeMovementTable(w, "REFERRER CHANGES", "Referrer", result.Referrers, cfg, colors,
		"No referrer movement between snapshots"); err != nil {
		return err
	}
	if err := writeMovementTable(w, "PATH CHANGES", "Path", result.Paths, cfg, colors,
		"No path movement between snapshots"); err != nil {
		return err
	}
	return writeComparisonSummary(w, result.Summary)
}

// writeComparisonHeader writes the banner and both snapshot identity lines.
func writeComparisonHeader(w io.Writer, result *schema.ComparisonResult) error {
	if _, err := fmt.Fprintf(w, "%s\nGitHub Traffic Comparison\n%s\n\n", majorRule, majorRule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Repository: %s\n", result.Repository.String()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Base:   %s (collected %s)\n", result.BasePath, result.BaseCollectedAt); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Target: %s (collected %s)\n\n", result.TargetPath, result.TargetCollectedAt)
	return err
}

// writeTotalsTable renders the fixed-order window metric deltas.
func writeTotalsTable(w io.Writer, result *schema.ComparisonResult, cfg *contract.Config, colors deltaColors, fmtFloat, fmtPercent func(float64) string) error {
	if _, err := fmt.Fprintf(w, "WINDOW TOTALS\n%s\n", minorRule); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Before", "After", "Delta"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range result.Totals {
		data = append(data, []string{
			d.Metric,
			formatMetricValue(d, d.Before, fmtFloat, fmtPercent),
			formatMetricValue(d, d.After, fmtFloat, fmtPercent),
			colors.formatMetric(d, cfg.Precision),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

// writeMovementTable renders one ranked movement table for referrers or paths.
func writeMovementTable(w io.Writer, title, nameHeader string, entries []schema.CompareEntry, cfg *contract.Config, colors deltaColors, emptyMsg string) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, minorRule); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "  %s\n\n", emptyMsg)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", nameHeader, "Before", "After", "Delta", "Uniques Δ", "Status"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(e.Name, maxWidth),
			strconv.Itoa(e.BeforeCount),
			strconv.Itoa(e.AfterCount),
			colors.formatInt(e.Delta),
			colors.formatInt(e.DeltaUniques),
			string(e.Status),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d changes\n\n", len(entries)); err != nil {
		return err
	}
	return nil
}

// writeComparisonSummary writes the closing net-delta and status count lines.
func writeComparisonSummary(w io.Writer, summary schema.ComparisonSummary) error {
	if _, err := fmt.Fprintf(w, "Net view delta: %+d, Net clone delta: %+d\n",
		summary.NetViewDelta, summary.NetCloneDelta); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Referrers: %d new, %d inactive, %d active\n",
		summary.NewReferrers, summary.InactiveReferrers, summary.ActiveReferrers); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Paths: %d new, %d inactive, %d active\n",
		summary.NewPaths, summary.InactivePaths, summary.ActivePaths); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Flagged days: %d before, %d after\n",
		summary.SpikeDaysBefore, summary.SpikeDaysAfter); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", majorRule)
	return err
}
