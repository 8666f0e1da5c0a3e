package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// writeTrendJSONResults handles opening the file and calling the JSON writer.
func writeTrendJSONResults(result *schema.TrendResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON trend")
}

// writeTrendCSVResults handles opening the file and calling the CSV writer.
func writeTrendCSVResults(result *schema.TrendResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVTrendRows(csvWriter, result)
	}, "Wrote CSV trend")
}

// writeCSVTrendRows writes the stitched history in CSV format, one row per
// day with pipe-joined spike tags.
func writeCSVTrendRows(w *csv.Writer, result *schema.TrendResult) error {
	header := []string{
		"date",
		"views",
		"view_uniques",
		"clones",
		"clone_uniques",
		"source",
		"flags",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range result.Points {
		rec := []string{
			p.Date,
			strconv.Itoa(p.Views),
			strconv.Itoa(p.ViewUniques),
			strconv.Itoa(p.Clones),
			strconv.Itoa(p.CloneUniques),
			p.Source,
			strings.Join(p.Flags, "|"),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
