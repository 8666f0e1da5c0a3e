package schema

// TrendPoint represents a single day in the stitched history.
type TrendPoint struct {
	Date         string   `json:"date"`
	Views        int      `json:"views"`
	ViewUniques  int      `json:"view_uniques"`
	Clones       int      `json:"clones"`
	CloneUniques int      `json:"clone_uniques"`
	Source       string   `json:"source"`          // Snapshot file that contributed the day
	Flags        []string `json:"flags,omitempty"` // Spike tags, when any rule fired
}

// TrendResult holds the daily history stitched from every snapshot.
// Snapshots carry overlapping rolling windows, so totals here sum the
// stitched days rather than the raw window totals.
type TrendResult struct {
	Repository RepoRef      `json:"repository"`
	Snapshots  int          `json:"snapshots"`            // Snapshot files folded into the history
	FirstDate  string       `json:"first_date,omitempty"` // Earliest stitched day
	LastDate   string       `json:"last_date,omitempty"`  // Latest stitched day
	Points     []TrendPoint `json:"points"`               // One point per day, ascending by date

	TotalViews  int `json:"total_views"`
	TotalClones int `json:"total_clones"`
	SpikeDays   int `json:"spike_days"` // Days where at least one rule fired
}

// TrackedDays returns the number of stitched daily points.
func (t *TrendResult) TrackedDays() int {
	return len(t.Points)
}
