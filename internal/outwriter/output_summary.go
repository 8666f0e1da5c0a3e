package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Banner rules for the text summary. Seventy columns matches the
// historical report width that dashboards screenshot.
var (
	majorRule = strings.Repeat("=", 70)
	minorRule = strings.Repeat("-", 70)
)

// WriteSummaryResults outputs the derived statistics, dispatching based on the
// output format configured.
func WriteSummaryResults(stats *schema.DerivedStats, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSummaryJSONResults(stats, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSummaryCSVResults(stats, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to the human-readable terminal summary
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryText(w, stats, cfg, fmtFloat, fmtPercent)
		}, "Wrote summary")
	}
	return nil
}

// writeSummaryJSONResults handles opening the file and calling the JSON writer.
// JSON mode emits the whole derived model, not just what the terminal shows.
func writeSummaryJSONResults(stats *schema.DerivedStats, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, stats)
	}, "Wrote JSON")
}

// writeSummaryCSVResults handles opening the file and calling the CSV writer.
func writeSummaryCSVResults(stats *schema.DerivedStats, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVDailyRows(csvWriter, stats, fmtFloat)
	}, "Wrote CSV")
}

// writeCSVDailyRows writes the merged daily series in CSV format, one row
// per tracked date with the per-day ratios and pipe-joined spike tags.
func writeCSVDailyRows(w *csv.Writer, stats *schema.DerivedStats, fmtFloat func(float64) string) error {
	header := []string{
		"date",
		"views",
		"view_uniques",
		"clones",
		"clone_uniques",
		"views_per_visitor",
		"clones_per_cloner",
		"clones_per_view",
		"flags",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	tagsByDate := make(map[string]string, len(stats.Spikes))
	for _, flag := range stats.Spikes {
		tagsByDate[flag.Date] = strings.Join(flag.Tags, "|")
	}

	for _, day := range stats.Daily {
		rec := []string{
			day.Date,
			strconv.Itoa(day.Views),
			strconv.Itoa(day.ViewUniques),
			strconv.Itoa(day.Clones),
			strconv.Itoa(day.CloneUniques),
			fmtFloat(day.ViewsPerVisitor()),
			fmtFloat(day.ClonesPerCloner()),
			fmtFloat(day.ClonesPerView()),
			tagsByDate[day.Date],
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeSummaryText generates and writes the human-readable summary.
func writeSummaryText(w io.Writer, stats *schema.DerivedStats, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string) error {
	if err := writeSummaryHeader(w, stats); err != nil {
		return err
	}
	if err := writeSeriesBlock(w, "VIEWS", stats.TotalViews, stats.UniqueVisitors,
		stats.DailyAvgViews, stats.DailyAvgViewUniques, stats.ViewDays, fmtFloat); err != nil {
		return err
	}
	if err := writeSeriesBlock(w, "CLONES", stats.TotalClones, stats.UniqueCloners,
		stats.DailyAvgClones, stats.DailyAvgCloneUniques, stats.CloneDays, fmtFloat); err != nil {
		return err
	}
	if err := writeRatioBlock(w, stats, fmtFloat, fmtPercent); err != nil {
		return err
	}
	if err := writeSpikeBlock(w, stats, cfg); err != nil {
		return err
	}
	if err := writeTopTable(w, "TOP REFERRERS", "Referrer", stats.TotalReferrers,
		referrerRows(stats, cfg), "No referrer data available"); err != nil {
		return err
	}
	if err := writeTopTable(w, "TOP PATHS", "Path", stats.TotalPaths,
		pathRows(stats, cfg), "No path data available"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Tracked days: %d (from %d view days, %d clone days)\n",
		stats.TrackedDays(), stats.ViewDays, stats.CloneDays); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", majorRule)
	return err
}

// writeSummaryHeader writes the banner and the snapshot identity lines.
func writeSummaryHeader(w io.Writer, stats *schema.DerivedStats) error {
	if _, err := fmt.Fprintf(w, "%s\nGitHub Traffic Metrics Summary\n%s\n\n", majorRule, majorRule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Repository: %s\n", stats.Repository.String()); err != nil {
		return err
	}
	if stats.SourcePath != "" {
		if _, err := fmt.Fprintf(w, "Snapshot: %s\n", stats.SourcePath); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Collected at: %s\n\n", stats.CollectedAt)
	return err
}

// writeSeriesBlock writes one VIEWS or CLONES section with its totals and
// canonical daily averages.
func writeSeriesBlock(w io.Writer, title string, total, uniques int, avgCount, avgUniques float64, seriesDays int, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, minorRule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Total count: %d\n  Total uniques: %d\n", total, uniques); err != nil {
		return err
	}
	if seriesDays > 0 {
		if _, err := fmt.Fprintf(w, "  Daily average count: %s\n  Daily average uniques: %s\n  Days tracked: %d\n",
			fmtFloat(avgCount), fmtFloat(avgUniques), seriesDays); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

// writeRatioBlock writes the window-level KPI section.
func writeRatioBlock(w io.Writer, stats *schema.DerivedStats, fmtFloat, fmtPercent func(float64) string) error {
	_, err := fmt.Fprintf(w, "KEY RATIOS\n%s\n  Views per unique visitor: %s\n  Clone-to-view conversion: %s\n  Unique cloner-to-unique visitor: %s\n\n",
		minorRule,
		fmtFloat(stats.ViewsPerVisitor),
		fmtPercent(stats.CloneToView),
		fmtPercent(stats.UniqueClonerToVisitor))
	return err
}

// writeSpikeBlock writes one line per flagged day with an attention label,
// or an explicit none line so quiet days are visibly quiet.
func writeSpikeBlock(w io.Writer, stats *schema.DerivedStats, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "SPIKE FLAGS\n%s\n", minorRule); err != nil {
		return err
	}
	if len(stats.Spikes) == 0 {
		_, err := fmt.Fprintf(w, "  None detected by current thresholds\n\n")
		return err
	}
	for _, flag := range stats.Spikes {
		label := contract.GetPlainLabel(len(flag.Tags))
		if cfg.UseColors {
			label = contract.GetColorLabel(len(flag.Tags))
		}
		if _, err := fmt.Fprintf(w, "  %s  [%s]  %s (views=%d, uniques=%d, clones=%d, unique_cloners=%d)\n",
			flag.Date, label, strings.Join(flag.Tags, ", "),
			flag.Views, flag.ViewUniques, flag.Clones, flag.CloneUniques); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

// writeTopTable renders one ranked table for referrers or paths.
func writeTopTable(w io.Writer, title, nameHeader string, total int, rows [][]string, emptyMsg string) error {
	if _, err := fmt.Fprintf(w, "%s (%d total)\n%s\n", title, total, minorRule); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "  %s\n\n", emptyMsg)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", nameHeader, "Count", "Uniques"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if remaining := total - len(rows); remaining > 0 {
		if _, err := fmt.Fprintf(w, "  ... and %d more\n", remaining); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

// referrerRows prepares the referrer table rows, truncated to the terminal width.
func referrerRows(stats *schema.DerivedStats, cfg *contract.Config) [][]string {
	maxWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, ref := range stats.Referrers {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(ref.Name, maxWidth),
			strconv.Itoa(ref.Count),
			strconv.Itoa(ref.Uniques),
		})
	}
	return data
}

// pathRows prepares the popular path table rows, truncated to the terminal width.
func pathRows(stats *schema.DerivedStats, cfg *contract.Config) [][]string {
	maxWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, p := range stats.Paths {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(p.Path, maxWidth),
			strconv.Itoa(p.Count),
			strconv.Itoa(p.Uniques),
		})
	}
	return data
}
