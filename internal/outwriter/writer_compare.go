package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// writeComparisonJSONResults handles opening the file and calling the JSON
// writer. JSON mode emits the whole comparison, not just the movement rows.
func writeComparisonJSONResults(result *schema.ComparisonResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON comparison")
}

// writeComparisonCSVResults handles opening the file and calling the CSV writer.
func writeComparisonCSVResults(result *schema.ComparisonResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVMovementRows(csvWriter, result)
	}, "Wrote CSV comparison")
}

// writeCSVMovementRows writes the referrer and path movement in CSV format.
// The kind column distinguishes the two lists, each ranked on its own.
func writeCSVMovementRows(w *csv.Writer, result *schema.ComparisonResult) error {
	header := []string{
		"rank",
		"kind",
		"name",
		"before_count",
		"after_count",
		"delta",
		"before_uniques",
		"after_uniques",
		"delta_uniques",
		"status",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	writeKind := func(kind string, entries []schema.CompareEntry) error {
		for i, e := range entries {
			rec := []string{
				strconv.Itoa(i + 1),
				kind,
				e.Name,
				strconv.Itoa(e.BeforeCount),
				strconv.Itoa(e.AfterCount),
				strconv.Itoa(e.Delta),
				strconv.Itoa(e.BeforeUniques),
				strconv.Itoa(e.AfterUniques),
				strconv.Itoa(e.DeltaUniques),
				string(e.Status),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeKind("referrer", result.Referrers); err != nil {
		return err
	}
	return writeKind("path", result.Paths)
}
