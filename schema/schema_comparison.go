package schema

// CountedEntry is implemented by referrers and popular paths so both kinds
// flow through the same comparison machinery.
type CountedEntry interface {
	Key() string
	CountValue() int
	UniquesValue() int
}

// Key returns the referring site name.
func (r Referrer) Key() string { return r.Name }

// CountValue returns the views attributed to the referrer.
func (r Referrer) CountValue() int { return r.Count }

// UniquesValue returns the distinct visitors from the referrer.
func (r Referrer) UniquesValue() int { return r.Uniques }

// Key returns the repository path.
func (p PopularPath) Key() string { return p.Path }

// CountValue returns the views recorded for the path.
func (p PopularPath) CountValue() int { return p.Count }

// UniquesValue returns the distinct visitors for the path.
func (p PopularPath) UniquesValue() int { return p.Uniques }

// MetricDelta holds one window metric measured in both snapshots.
type MetricDelta struct {
	Metric  string  `json:"metric"`            // Display name, e.g. "Views"
	Before  float64 `json:"before"`            // Value in the base snapshot
	After   float64 `json:"after"`             // Value in the target snapshot
	Delta   float64 `json:"delta"`             // After - Before (positive means growth)
	Percent bool    `json:"percent,omitempty"` // Render values as percentages
	Integer bool    `json:"integer,omitempty"` // Render values without decimals
}

// CompareEntry is one referrer or path matched across both snapshots.
type CompareEntry struct {
	Name          string `json:"name"`           // Referrer name or repository path
	BeforeCount   int    `json:"before_count"`   // Views in the base snapshot
	AfterCount    int    `json:"after_count"`    // Views in the target snapshot
	Delta         int    `json:"delta"`          // AfterCount - BeforeCount
	BeforeUniques int    `json:"before_uniques"` // Uniques in the base snapshot
	AfterUniques  int    `json:"after_uniques"`  // Uniques in the target snapshot
	DeltaUniques  int    `json:"delta_uniques"`  // Change in unique visitors
	Status        Status `json:"status"`         // Presence across the two snapshots
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	// 1. Net traffic deltas over the window totals
	NetViewDelta  int `json:"net_view_delta"`
	NetCloneDelta int `json:"net_clone_delta"`

	// 2. Referrer status counts
	NewReferrers      int `json:"new_referrers"`
	InactiveReferrers int `json:"inactive_referrers"`
	ActiveReferrers   int `json:"active_referrers"`

	// 3. Path status counts
	NewPaths      int `json:"new_paths"`
	InactivePaths int `json:"inactive_paths"`
	ActivePaths   int `json:"active_paths"`

	// 4. Flagged day counts under the active thresholds
	SpikeDaysBefore int `json:"spike_days_before"`
	SpikeDaysAfter  int `json:"spike_days_after"`
}

// ComparisonResult holds the comparison details and summary.
type ComparisonResult struct {
	Repository        RepoRef `json:"repository"`
	BasePath          string  `json:"base_path"`           // File the base snapshot came from
	TargetPath        string  `json:"target_path"`         // File the target snapshot came from
	BaseCollectedAt   string  `json:"base_collected_at"`   // Collection time of the base snapshot
	TargetCollectedAt string  `json:"target_collected_at"` // Collection time of the target snapshot

	Totals    []MetricDelta     `json:"totals"`    // Window totals and ratios, fixed order
	Referrers []CompareEntry    `json:"referrers"` // Referrer movement, largest changes first
	Paths     []CompareEntry    `json:"paths"`     // Path movement, largest changes first
	Summary   ComparisonSummary `json:"summary"`
}
