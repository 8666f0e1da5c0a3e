package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trafficlens/trafficlens/schema"
)

func sampleDailyRows() []DailyTrafficRow {
	flags := "views/visitor>5|clones/views>20%"
	return []DailyTrafficRow{
		{
			Date:            "2025-10-24",
			Views:           70,
			ViewUniques:     18,
			Clones:          4,
			CloneUniques:    2,
			ViewsPerVisitor: 70.0 / 18.0,
			ClonesPerCloner: 2.0,
			ClonesPerView:   4.0 / 70.0,
		},
		{
			Date:            "2025-10-25",
			Views:           50,
			ViewUniques:     5,
			Clones:          12,
			CloneUniques:    3,
			ViewsPerVisitor: 10.0,
			ClonesPerCloner: 4.0,
			ClonesPerView:   0.24,
			Flags:           &flags,
		},
	}
}

func TestDailyTrafficRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	fileSchema := parquet.SchemaOf(new(DailyTrafficRow))
	require.NotNil(t, fileSchema)

	expectedColumns := []string{
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

	for _, colName := range expectedColumns {
		col, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteDailyTrafficParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "daily.parquet")

	data := sampleDailyRows()
	err := WriteDailyTrafficParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[DailyTrafficRow](file)
	defer reader.Close()

	readData := make([]DailyTrafficRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	require.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].Date, readData[i].Date)
		assert.Equal(t, data[i].Views, readData[i].Views)
		assert.Equal(t, data[i].CloneUniques, readData[i].CloneUniques)
		assert.InDelta(t, data[i].ViewsPerVisitor, readData[i].ViewsPerVisitor, 1e-9)

		if data[i].Flags == nil {
			assert.Nil(t, readData[i].Flags, "Flags should be nil")
		} else {
			require.NotNil(t, readData[i].Flags, "Flags should not be nil")
			assert.Equal(t, *data[i].Flags, *readData[i].Flags)
		}
	}
}

func TestWriteDailyTrafficParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_daily.parquet")

	err := WriteDailyTrafficParquet([]DailyTrafficRow{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteDailyTrafficParquet_InvalidPath(t *testing.T) {
	err := WriteDailyTrafficParquet(sampleDailyRows(), "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestWriteReferrersParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "referrers.parquet")

	data := ConvertReferrers([]schema.Referrer{
		{Name: "github.com", Count: 80, Uniques: 20},
		{Name: "news.ycombinator.com", Count: 35, Uniques: 18},
	})
	require.NoError(t, WriteReferrersParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ReferrerRow](file)
	defer reader.Close()

	readData := make([]ReferrerRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, int32(1), readData[0].Rank)
	assert.Equal(t, "github.com", readData[0].Referrer)
	assert.Equal(t, int32(35), readData[1].Count)
}

func TestWritePopularPathsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "paths.parquet")

	data := ConvertPopularPaths([]schema.PopularPath{
		{Path: "/acme/widgets", Title: "acme/widgets", Count: 60, Uniques: 15},
		{Path: "/acme/widgets/releases", Count: 22, Uniques: 9},
	})
	require.NoError(t, WritePopularPathsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[PopularPathRow](file)
	defer reader.Close()

	readData := make([]PopularPathRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	// Check nullable Title field
	require.NotNil(t, readData[0].Title)
	assert.Equal(t, "acme/widgets", *readData[0].Title)
	assert.Nil(t, readData[1].Title, "Title should be nil when the snapshot had none")
}

func TestConvertDailyPoints(t *testing.T) {
	points := []schema.DailyPoint{
		{Date: "2025-10-24", Views: 70, ViewUniques: 18, Clones: 4, CloneUniques: 2},
		{Date: "2025-10-25", Views: 50, ViewUniques: 5, Clones: 12, CloneUniques: 3},
	}
	spikes := []schema.SpikeFlag{
		{Date: "2025-10-25", Tags: []string{"views/visitor>5", "clones/views>20%"}},
	}

	rows := ConvertDailyPoints(points, spikes)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].Flags)
	require.NotNil(t, rows[1].Flags)
	assert.Equal(t, "views/visitor>5|clones/views>20%", *rows[1].Flags)
	assert.Equal(t, int32(50), rows[1].Views)
	assert.InDelta(t, 10.0, rows[1].ViewsPerVisitor, 1e-9)
}
