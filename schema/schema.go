// Package schema has models, constants and helpers for all parts of trafficlens.
package schema

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// RepoRef identifies the repository a snapshot was collected for.
type RepoRef struct {
	Owner string `json:"owner"` // Account that owns the repository
	Name  string `json:"repo"`  // Repository name without the owner part
}

// UnmarshalJSON accepts both historical layouts for the repository field:
// a plain "owner/repo" string and an {"owner": ..., "repo": ...} object.
func (r *RepoRef) UnmarshalJSON(data []byte) error {
	var obj struct {
		Owner string `json:"owner"`
		Name  string `json:"repo"`
	}
	if err := sonic.Unmarshal(data, &obj); err == nil {
		r.Owner, r.Name = obj.Owner, obj.Name
		return nil
	}
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("repository must be a string or an owner/repo object")
	}
	if owner, name, ok := strings.Cut(s, "/"); ok {
		r.Owner, r.Name = owner, name
	} else {
		r.Name = s
	}
	return nil
}

// String renders the reference as "owner/repo", substituting "?" for
// missing halves so report headers stay well formed.
func (r RepoRef) String() string {
	if r.Owner == "" && r.Name != "" {
		return r.Name
	}
	owner, name := r.Owner, r.Name
	if owner == "" {
		owner = "?"
	}
	if name == "" {
		name = "?"
	}
	return owner + "/" + name
}

// MetricDay is one calendar day of activity inside a traffic series.
type MetricDay struct {
	Timestamp string `json:"timestamp"` // Raw timestamp as exported, usually RFC3339
	Count     int    `json:"count"`     // Total events recorded that day
	Uniques   int    `json:"uniques"`   // Distinct actors recorded that day
}

// Date returns the calendar date portion of the timestamp, cutting at the
// "T" separator when present.
func (m MetricDay) Date() string {
	if i := strings.IndexByte(m.Timestamp, 'T'); i >= 0 {
		return m.Timestamp[:i]
	}
	return m.Timestamp
}

// TrafficSeries holds the 14-day totals and per-day points of one traffic
// kind (views or clones).
type TrafficSeries struct {
	Count   int         `json:"count"`   // Total events across the window
	Uniques int         `json:"uniques"` // Distinct actors across the window
	Days    []MetricDay `json:"days"`    // Per-day points, normalized under "days"
}

// UnmarshalJSON folds in the per-day list regardless of which key the
// exporting script used. Older snapshots repeat the series name ("views"
// or "clones") while newer ones write "days".
func (t *TrafficSeries) UnmarshalJSON(data []byte) error {
	var raw struct {
		Count   int         `json:"count"`
		Uniques int         `json:"uniques"`
		Days    []MetricDay `json:"days"`
		Views   []MetricDay `json:"views"`
		Clones  []MetricDay `json:"clones"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Count, t.Uniques = raw.Count, raw.Uniques
	switch {
	case raw.Days != nil:
		t.Days = raw.Days
	case raw.Views != nil:
		t.Days = raw.Views
	default:
		t.Days = raw.Clones
	}
	return nil
}

// Referrer is one traffic source with its view counts.
type Referrer struct {
	Name    string `json:"referrer"` // Referring site, e.g. "github.com"
	Count   int    `json:"count"`    // Views attributed to the referrer
	Uniques int    `json:"uniques"`  // Distinct visitors from the referrer
}

// PopularPath is one repository path with its view counts.
type PopularPath struct {
	Path    string `json:"path"`            // Path within the repository site
	Title   string `json:"title,omitempty"` // Page title, may be empty
	Count   int    `json:"count"`           // Views recorded for the path
	Uniques int    `json:"uniques"`         // Distinct visitors for the path
}

// Snapshot is one normalized traffic snapshot file. All historical field
// spellings decode into this single shape.
type Snapshot struct {
	Repository  RepoRef       `json:"repository"`
	CollectedAt string        `json:"collected_at"`
	Views       TrafficSeries `json:"views"`
	Clones      TrafficSeries `json:"clones"`
	Referrers   []Referrer    `json:"referrers"`
	Paths       []PopularPath `json:"paths"`

	// SourcePath is the file the snapshot was loaded from. It is set by the
	// loader and never part of the payload.
	SourcePath string `json:"-"`
}

// UnmarshalJSON normalizes the snapshot layouts produced over time:
// "repository" vs "repo" for the repository reference, and "collected_at"
// vs "timestamp" vs "date" for the collection time.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Repository  *RepoRef      `json:"repository"`
		Repo        *RepoRef      `json:"repo"`
		CollectedAt string        `json:"collected_at"`
		Timestamp   string        `json:"timestamp"`
		Date        string        `json:"date"`
		Views       TrafficSeries `json:"views"`
		Clones      TrafficSeries `json:"clones"`
		Referrers   []Referrer    `json:"referrers"`
		Paths       []PopularPath `json:"paths"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Repository != nil:
		s.Repository = *raw.Repository
	case raw.Repo != nil:
		s.Repository = *raw.Repo
	}
	s.CollectedAt = firstNonEmpty(raw.CollectedAt, raw.Timestamp, raw.Date)
	s.Views = raw.Views
	s.Clones = raw.Clones
	s.Referrers = raw.Referrers
	s.Paths = raw.Paths
	return nil
}
