package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// Daily breakdown table header. The column set is part of the report
// contract; downstream parsers key on these exact labels.
const (
	dailyTableHeader    = "| Date | Views | Unique visitors | Clones | Unique cloners | Views/Visitor | Clones/Unique Cloner | Clones/Views |"
	dailyTableSeparator = "|------|------:|-----------------:|-------:|---------------:|--------------:|----------------------:|-------------:|"
)

// RenderMarkdownReport renders the derived statistics into a Markdown
// document. Section order is fixed; omitting a section would break
// downstream consumers that anchor on the headings.
func RenderMarkdownReport(stats *schema.DerivedStats, cfg *contract.Config) string {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	var lines []string
	lines = append(lines, fmt.Sprintf("# Traffic Report for %s", stats.Repository.String()))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Collected at: %s", stats.CollectedAt))
	lines = append(lines, "")
	lines = append(lines, "## Summary (last 14 days)")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("- Views: %d", stats.TotalViews))
	lines = append(lines, fmt.Sprintf("- Unique visitors: %d", stats.UniqueVisitors))
	lines = append(lines, fmt.Sprintf("- Clones: %d", stats.TotalClones))
	lines = append(lines, fmt.Sprintf("- Unique cloners: %d", stats.UniqueCloners))
	lines = append(lines, "")
	lines = append(lines, "## Key ratios and averages")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("- Views per unique visitor: %s", fmtFloat(stats.ViewsPerVisitor)))
	lines = append(lines, fmt.Sprintf("- Clone-to-view conversion: %s", fmtPercent(stats.CloneToView)))
	lines = append(lines, fmt.Sprintf("- Unique cloner-to-unique visitor: %s", fmtPercent(stats.UniqueClonerToVisitor)))
	lines = append(lines, fmt.Sprintf("- Daily average views: %s", fmtFloat(stats.DailyAvgViews)))
	lines = append(lines, fmt.Sprintf("- Daily average clones: %s", fmtFloat(stats.DailyAvgClones)))
	lines = append(lines, "")
	lines = append(lines, "## Spike flags")
	lines = append(lines, "")
	if len(stats.Spikes) > 0 {
		for _, flag := range stats.Spikes {
			lines = append(lines, fmt.Sprintf("- %s: %s (views=%d, uniques=%d, clones=%d, unique_cloners=%d)",
				flag.Date, strings.Join(flag.Tags, ", "),
				flag.Views, flag.ViewUniques, flag.Clones, flag.CloneUniques))
		}
	} else {
		lines = append(lines, "- None detected by current thresholds")
	}
	lines = append(lines, "")
	lines = append(lines, "## Daily breakdown")
	lines = append(lines, "")
	lines = append(lines, dailyTableHeader)
	lines = append(lines, dailyTableSeparator)
	for _, day := range stats.Daily {
		lines = append(lines, fmt.Sprintf("| %s | %d | %d | %d | %d | %s | %s | %s |",
			day.Date, day.Views, day.ViewUniques, day.Clones, day.CloneUniques,
			fmtFloat(day.ViewsPerVisitor()), fmtFloat(day.ClonesPerCloner()), fmtFloat(day.ClonesPerView())))
	}
	lines = append(lines, "")
	lines = append(lines, "## Notes")
	lines = append(lines, "")
	lines = append(lines, "- Referrers and popular paths may lag up to ~24 hours in GitHub aggregation and can be empty. If they remain empty while page views are high, traffic may be automation-heavy (link unfurlers, crawlers, CI clones).")
	lines = append(lines, "- Thresholds for spike flags are heuristics; tune them in .trafficlens.yaml as needed.")
	lines = append(lines, fmt.Sprintf("- Data source: GitHub Traffic API snapshots in %s/.", cfg.MetricsDir))
	return strings.Join(lines, "\n")
}

// WriteReportResults renders the Markdown report and delivers it to the
// configured destination. The default destination is cfg.ReportFile inside
// the metrics directory, overwritten on every run.
func WriteReportResults(stats *schema.DerivedStats, cfg *contract.Config) error {
	md := RenderMarkdownReport(stats, cfg)

	if cfg.ReportStdout {
		_, err := fmt.Fprintln(os.Stdout, md)
		return err
	}

	path := cfg.OutputFile
	if path == "" {
		if err := os.MkdirAll(cfg.MetricsDir, 0o755); err != nil {
			return fmt.Errorf("cannot create metrics directory %s: %w", cfg.MetricsDir, err)
		}
		path = filepath.Join(cfg.MetricsDir, cfg.ReportFile)
	}

	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("cannot write report %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote report to %s\n", path)
	return nil
}
