package core

import (
	"path/filepath"
	"sort"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// BuildTrend stitches the daily series of every snapshot into one long
// history. Snapshots overlap because each carries a rolling window, so days
// are keyed by date and the newest snapshot's figures win: recent days are
// still settling when first exported, and later snapshots carry the final
// counts for them.
func BuildTrend(snaps []*schema.Snapshot, cfg *contract.Config) *schema.TrendResult {
	result := &schema.TrendResult{Snapshots: len(snaps)}

	type dayOrigin struct {
		point  schema.DailyPoint
		source string
	}
	byDate := make(map[string]dayOrigin)

	// Snapshots arrive oldest to newest, so plain overwrites implement
	// the newest-wins rule.
	for _, snap := range snaps {
		source := filepath.Base(snap.SourcePath)
		for _, p := range mergeDailyPoints(snap) {
			byDate[p.Date] = dayOrigin{point: p, source: source}
		}
		if snap.Repository.Name != "" || snap.Repository.Owner != "" {
			result.Repository = snap.Repository
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	// An explicit day budget keeps only the most recent part of the
	// history. Totals and flags below reflect the trimmed span.
	if cfg.TrendDays > 0 && len(dates) > cfg.TrendDays {
		dates = dates[len(dates)-cfg.TrendDays:]
	}

	result.Points = make([]schema.TrendPoint, 0, len(dates))
	for _, date := range dates {
		origin := byDate[date]
		point := schema.TrendPoint{
			Date:         date,
			Views:        origin.point.Views,
			ViewUniques:  origin.point.ViewUniques,
			Clones:       origin.point.Clones,
			CloneUniques: origin.point.CloneUniques,
			Source:       origin.source,
		}
		for _, rule := range schema.AllSpikeRules {
			threshold := cfg.SpikeThresholds[rule]
			if spikeFires(origin.point, rule, threshold) {
				point.Flags = append(point.Flags, schema.FormatSpikeTag(rule, threshold))
			}
		}
		if len(point.Flags) > 0 {
			result.SpikeDays++
		}
		result.TotalViews += point.Views
		result.TotalClones += point.Clones
		result.Points = append(result.Points, point)
	}

	if len(result.Points) > 0 {
		result.FirstDate = result.Points[0].Date
		result.LastDate = result.Points[len(result.Points)-1].Date
	}
	return result
}
