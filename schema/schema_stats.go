package schema

// DailyPoint merges the view and clone series for one calendar date. Dates
// present in only one series carry zeros for the other.
type DailyPoint struct {
	Date         string `json:"date"`
	Views        int    `json:"views"`
	ViewUniques  int    `json:"view_uniques"`
	Clones       int    `json:"clones"`
	CloneUniques int    `json:"clone_uniques"`
}

// ViewsPerVisitor returns the day's views divided by unique visitors.
func (p DailyPoint) ViewsPerVisitor() float64 {
	return Ratio(p.Views, p.ViewUniques)
}

// ClonesPerCloner returns the day's clones divided by unique cloners.
func (p DailyPoint) ClonesPerCloner() float64 {
	return Ratio(p.Clones, p.CloneUniques)
}

// ClonesPerView returns the day's clones divided by views.
func (p DailyPoint) ClonesPerView() float64 {
	return Ratio(p.Clones, p.Views)
}

// SpikeFlag marks one day that crossed at least one spike threshold.
type SpikeFlag struct {
	Date         string   `json:"date"`
	Tags         []string `json:"flags"` // Rendered tags, e.g. "views/visitor>5"
	Views        int      `json:"views"`
	ViewUniques  int      `json:"uniques"`
	Clones       int      `json:"clones"`
	CloneUniques int      `json:"unique_cloners"`
}

// DerivedStats is everything computed from one snapshot. It is rebuilt on
// every run and never persisted.
type DerivedStats struct {
	Repository  RepoRef `json:"repository"`
	CollectedAt string  `json:"collected_at"`
	SourcePath  string  `json:"source_path,omitempty"`

	// Window totals straight from the snapshot.
	TotalViews     int `json:"total_views"`
	UniqueVisitors int `json:"unique_visitors"`
	TotalClones    int `json:"total_clones"`
	UniqueCloners  int `json:"unique_cloners"`

	// Key ratios over the window totals.
	ViewsPerVisitor       float64 `json:"views_per_visitor"`
	CloneToView           float64 `json:"clone_to_view"`
	UniqueClonerToVisitor float64 `json:"unique_cloner_to_visitor"`

	// Daily averages over the tracked days.
	DailyAvgViews        float64 `json:"daily_avg_views"`
	DailyAvgViewUniques  float64 `json:"daily_avg_view_uniques"`
	DailyAvgClones       float64 `json:"daily_avg_clones"`
	DailyAvgCloneUniques float64 `json:"daily_avg_clone_uniques"`

	// Raw series lengths, reported alongside the merged day count because
	// the two series rarely cover identical dates.
	ViewDays  int `json:"view_days"`
	CloneDays int `json:"clone_days"`

	Daily  []DailyPoint `json:"daily"`  // Merged days, ascending by date
	Spikes []SpikeFlag  `json:"spikes"` // Days that crossed a threshold, ascending by date

	// Top referrers and paths after applying the configured limit, plus the
	// untruncated list sizes.
	Referrers      []Referrer    `json:"referrers"`
	Paths          []PopularPath `json:"paths"`
	TotalReferrers int           `json:"total_referrers"`
	TotalPaths     int           `json:"total_paths"`
}

// TrackedDays returns the number of merged daily points.
func (d *DerivedStats) TrackedDays() int {
	return len(d.Daily)
}
