package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTrendResults outputs the stitched history, dispatching based on the
// output format configured.
func WriteTrendResults(result *schema.TrendResult, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeTrendJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeTrendCSVResults(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to the human-readable trend table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendText(w, result, cfg)
		}, "Wrote trend")
	}
	return nil
}

// writeTrendText generates and writes the human-readable trend table.
func writeTrendText(w io.Writer, result *schema.TrendResult, cfg *contract.Config) error {
	if err := writeTrendHeader(w, result); err != nil {
		return err
	}
	if len(result.Points) == 0 {
		if _, err := fmt.Fprintf(w, "  No daily data in any snapshot\n\n"); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n", majorRule)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Views", "Uniques", "Clones", "Cloners", "Flags", "Source"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, p := range result.Points {
		data = append(data, []string{
			p.Date,
			strconv.Itoa(p.Views),
			strconv.Itoa(p.ViewUniques),
			strconv.Itoa(p.Clones),
			strconv.Itoa(p.CloneUniques),
			strings.Join(p.Flags, ", "),
			contract.TruncatePath(p.Source, maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Stitched %d days from %d snapshots (%d flagged)\n",
		result.TrackedDays(), result.Snapshots, result.SpikeDays); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total views: %d, Total clones: %d\n",
		result.TotalViews, result.TotalClones); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", majorRule)
	return err
}

// writeTrendHeader writes the banner and the history span lines.
func writeTrendHeader(w io.Writer, result *schema.TrendResult) error {
	if _, err := fmt.Fprintf(w, "%s\nGitHub Traffic Trend\n%s\n\n", majorRule, majorRule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Repository: %s\n", result.Repository.String()); err != nil {
		return err
	}
	if result.FirstDate != "" {
		if _, err := fmt.Fprintf(w, "Date span: %s to %s\n\n", result.FirstDate, result.LastDate); err != nil {
			return err
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}
