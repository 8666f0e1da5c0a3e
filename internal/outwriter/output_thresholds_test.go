package outwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

func thresholdConfig() *contract.Config {
	return &contract.Config{
		Output:          schema.TextOut,
		Precision:       2,
		SpikeThresholds: schema.GetDefaultThresholds(),
	}
}

func TestBuildThresholdEntries(t *testing.T) {
	cfg := thresholdConfig()
	cfg.SpikeThresholds[schema.SpikeViewsPerVisitor] = 7.5

	entries := buildThresholdEntries(cfg)
	require.Len(t, entries, len(schema.AllSpikeRules))

	// Entries follow evaluation order
	assert.Equal(t, "views-per-visitor", entries[0].Rule)
	assert.Equal(t, "clones-per-cloner", entries[1].Rule)
	assert.Equal(t, "clone-view-ratio", entries[2].Rule)

	assert.Equal(t, 7.5, entries[0].Active)
	assert.Equal(t, 5.0, entries[0].Default)
	assert.Equal(t, "views/visitor>7.5", entries[0].Tag)

	// Untouched rules keep their defaults
	assert.Equal(t, 3.0, entries[1].Active)
	assert.Equal(t, "clones/views>20%", entries[2].Tag)
}

func TestWriteThresholdTable(t *testing.T) {
	entries := buildThresholdEntries(thresholdConfig())

	var buf bytes.Buffer
	err := writeThresholdTable(&buf, entries)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Spike Detection Thresholds")
	assert.Contains(t, output, "views-per-visitor")
	assert.Contains(t, output, "clones-per-cloner")
	assert.Contains(t, output, "clone-view-ratio")
	assert.Contains(t, output, "views/visitor>5")
	assert.Contains(t, output, "clones/views>20%")
	assert.Contains(t, output, "--thresholds-override")
}

func TestWriteThresholdResultsJSON(t *testing.T) {
	cfg := thresholdConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "thresholds.json")

	err := WriteThresholdResults(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, sonic.Unmarshal(content, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "views-per-visitor", decoded[0]["rule"])
	assert.Equal(t, 5.0, decoded[0]["active"])
	assert.Equal(t, "clones/unique_cloner>3", decoded[1]["tag"])
}

func TestWriteThresholdResultsCSV(t *testing.T) {
	cfg := thresholdConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "thresholds.csv")

	err := WriteThresholdResults(cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4) // header + 3 rules

	assert.Equal(t, "rule,description,active,default,tag", lines[0])
	assert.Contains(t, lines[1], "views-per-visitor")
	assert.Contains(t, lines[1], "5,5")
	assert.Contains(t, lines[3], "0.2,0.2")
}
