package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"

	"github.com/olekukonko/tablewriter"
)

// thresholdEntry is one spike rule with its active and default values,
// prepared for rendering.
type thresholdEntry struct {
	Rule        string  `json:"rule"`
	Description string  `json:"description"`
	Active      float64 `json:"active"`
	Default     float64 `json:"default"`
	Tag         string  `json:"tag"`
}

// buildThresholdEntries collects every spike rule in evaluation order.
func buildThresholdEntries(cfg *contract.Config) []thresholdEntry {
	defaults := schema.GetDefaultThresholds()
	entries := make([]thresholdEntry, 0, len(schema.AllSpikeRules))
	for _, rule := range schema.AllSpikeRules {
		active := cfg.SpikeThresholds[rule]
		entries = append(entries, thresholdEntry{
			Rule:        string(rule),
			Description: schema.GetSpikeRuleDescription(rule),
			Active:      active,
			Default:     defaults[rule],
			Tag:         schema.FormatSpikeTag(rule, active),
		})
	}
	return entries
}

// WriteThresholdResults outputs the spike rules in force, dispatching based
// on the output format configured. This is a static display that does not
// require loading a snapshot.
func WriteThresholdResults(cfg *contract.Config) error {
	entries := buildThresholdEntries(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"rule", "description", "active", "default", "tag"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return writeThresholdCSVRows(csvWriter, entries)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeThresholdTable(w, entries)
		}, "Wrote thresholds")
	}
}

// writeThresholdCSVRows writes one CSV record per spike rule.
func writeThresholdCSVRows(w *csv.Writer, entries []thresholdEntry) error {
	for _, entry := range entries {
		rec := []string{
			entry.Rule,
			entry.Description,
			strconv.FormatFloat(entry.Active, 'g', -1, 64),
			strconv.FormatFloat(entry.Default, 'g', -1, 64),
			entry.Tag,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeThresholdTable writes the human-readable threshold table.
func writeThresholdTable(w io.Writer, entries []thresholdEntry) error {
	if _, err := fmt.Fprintf(w, "Spike Detection Thresholds\n%s\n", minorRule); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rule", "Description", "Active", "Default", "Tag"})

	var data [][]string
	for _, entry := range entries {
		data = append(data, []string{
			entry.Rule,
			entry.Description,
			strconv.FormatFloat(entry.Active, 'g', -1, 64),
			strconv.FormatFloat(entry.Default, 'g', -1, 64),
			entry.Tag,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Override with --thresholds-override or the thresholds section of .trafficlens.yaml\n")
	return err
}
