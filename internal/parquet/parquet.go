// Package parquet provides data structures and functions for exporting
// derived traffic data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/trafficlens/trafficlens/schema"
)

// DailyTrafficRow represents one tracked day of merged view and clone activity.
type DailyTrafficRow struct {
	// Date is the calendar date in YYYY-MM-DD form
	Date string `parquet:"date,snappy"`

	// Views is the total number of views recorded that day
	Views int32 `parquet:"views,snappy"`

	// ViewUniques is the number of distinct visitors that day
	ViewUniques int32 `parquet:"view_uniques,snappy"`

	// Clones is the total number of clones recorded that day
	Clones int32 `parquet:"clones,snappy"`

	// CloneUniques is the number of distinct cloners that day
	CloneUniques int32 `parquet:"clone_uniques,snappy"`

	// ViewsPerVisitor is views divided by unique visitors (0 when undefined)
	ViewsPerVisitor float64 `parquet:"views_per_visitor,snappy"`

	// ClonesPerCloner is clones divided by unique cloners (0 when undefined)
	ClonesPerCloner float64 `parquet:"clones_per_cloner,snappy"`

	// ClonesPerView is clones divided by views (0 when undefined)
	ClonesPerView float64 `parquet:"clones_per_view,snappy"`

	// Flags holds the pipe-joined spike tags for the day (nullable)
	Flags *string `parquet:"flags,optional,snappy"`
}

// ReferrerRow represents one referrer with its display rank.
type ReferrerRow struct {
	// Rank is the 1-based position in the exported list
	Rank int32 `parquet:"rank,snappy"`

	// Referrer is the referring site
	Referrer string `parquet:"referrer,snappy"`

	// Count is the number of views attributed to the referrer
	Count int32 `parquet:"count,snappy"`

	// Uniques is the number of distinct visitors from the referrer
	Uniques int32 `parquet:"uniques,snappy"`
}

// PopularPathRow represents one popular path with its display rank.
type PopularPathRow struct {
	// Rank is the 1-based position in the exported list
	Rank int32 `parquet:"rank,snappy"`

	// Path is the path within the repository site
	Path string `parquet:"path,snappy"`

	// Title is the page title (nullable)
	Title *string `parquet:"title,optional,snappy"`

	// Count is the number of views recorded for the path
	Count int32 `parquet:"count,snappy"`

	// Uniques is the number of distinct visitors for the path
	Uniques int32 `parquet:"uniques,snappy"`
}

// WriteDailyTrafficParquet writes a slice of DailyTrafficRow structs to a Parquet file.
func WriteDailyTrafficParquet(data []DailyTrafficRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the DailyTrafficRow struct tags
	writer := parquet.NewGenericWriter[DailyTrafficRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteReferrersParquet writes a slice of ReferrerRow structs to a Parquet file.
func WriteReferrersParquet(data []ReferrerRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ReferrerRow struct tags
	writer := parquet.NewGenericWriter[ReferrerRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WritePopularPathsParquet writes a slice of PopularPathRow structs to a Parquet file.
func WritePopularPathsParquet(data []PopularPathRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the PopularPathRow struct tags
	writer := parquet.NewGenericWriter[PopularPathRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertDailyPoints converts merged daily points to DailyTrafficRow for
// Parquet export, attaching the spike tags of flagged dates.
func ConvertDailyPoints(points []schema.DailyPoint, spikes []schema.SpikeFlag) []DailyTrafficRow {
	tagsByDate := make(map[string]string, len(spikes))
	for _, flag := range spikes {
		tagsByDate[flag.Date] = strings.Join(flag.Tags, "|")
	}

	result := make([]DailyTrafficRow, len(points))
	for i, point := range points {
		row := DailyTrafficRow{
			Date:            point.Date,
			Views:           int32(point.Views),
			ViewUniques:     int32(point.ViewUniques),
			Clones:          int32(point.Clones),
			CloneUniques:    int32(point.CloneUniques),
			ViewsPerVisitor: point.ViewsPerVisitor(),
			ClonesPerCloner: point.ClonesPerCloner(),
			ClonesPerView:   point.ClonesPerView(),
		}
		if tags, ok := tagsByDate[point.Date]; ok {
			row.Flags = &tags
		}
		result[i] = row
	}
	return result
}

// ConvertReferrers converts referrers to ReferrerRow for Parquet export.
func ConvertReferrers(refs []schema.Referrer) []ReferrerRow {
	result := make([]ReferrerRow, len(refs))
	for i, ref := range refs {
		result[i] = ReferrerRow{
			Rank:     int32(i + 1),
			Referrer: ref.Name,
			Count:    int32(ref.Count),
			Uniques:  int32(ref.Uniques),
		}
	}
	return result
}

// ConvertPopularPaths converts popular paths to PopularPathRow for Parquet export.
func ConvertPopularPaths(paths []schema.PopularPath) []PopularPathRow {
	result := make([]PopularPathRow, len(paths))
	for i, path := range paths {
		row := PopularPathRow{
			Rank:    int32(i + 1),
			Path:    path.Path,
			Count:   int32(path.Count),
			Uniques: int32(path.Uniques),
		}
		if path.Title != "" {
			title := path.Title
			row.Title = &title
		}
		result[i] = row
	}
	return result
}

// MockFetchDailyTraffic generates sample DailyTrafficRow data for demonstration.
func MockFetchDailyTraffic() []DailyTrafficRow {
	flags2 := "views/visitor>5|clones/views>20%"

	return []DailyTrafficRow{
		{
			Date:            "2025-10-23",
			Views:           70,
			ViewUniques:     18,
			Clones:          2,
			CloneUniques:    1,
			ViewsPerVisitor: 3.89,
			ClonesPerCloner: 2.0,
			ClonesPerView:   0.03,
			Flags:           nil, // Quiet day - nullable field
		},
		{
			Date:            "2025-10-24",
			Views:           180,
			ViewUniques:     20,
			Clones:          40,
			CloneUniques:    11,
			ViewsPerVisitor: 9.0,
			ClonesPerCloner: 3.64,
			ClonesPerView:   0.22,
			Flags:           &flags2,
		},
		{
			Date:            "2025-10-25",
			Views:           95,
			ViewUniques:     24,
			Clones:          6,
			CloneUniques:    4,
			ViewsPerVisitor: 3.96,
			ClonesPerCloner: 1.5,
			ClonesPerView:   0.06,
			Flags:           nil,
		},
	}
}

// MockFetchReferrers generates sample ReferrerRow data for demonstration.
func MockFetchReferrers() []ReferrerRow {
	return []ReferrerRow{
		{Rank: 1, Referrer: "github.com", Count: 210, Uniques: 48},
		{Rank: 2, Referrer: "news.ycombinator.com", Count: 96, Uniques: 70},
		{Rank: 3, Referrer: "old.reddit.com", Count: 34, Uniques: 21},
	}
}

// MockFetchPopularPaths generates sample PopularPathRow data for demonstration.
func MockFetchPopularPaths() []PopularPathRow {
	title1 := "acme/widgets: Widgets for the rest of us"

	return []PopularPathRow{
		{Rank: 1, Path: "/acme/widgets", Title: &title1, Count: 160, Uniques: 40},
		{Rank: 2, Path: "/acme/widgets/releases", Title: nil, Count: 55, Uniques: 23}, // No title stored - nullable field
		{Rank: 3, Path: "/acme/widgets/issues/42", Title: nil, Count: 30, Uniques: 18},
	}
}
