package core

import (
	"sort"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// BuildDerivedStats computes every derived quantity for a snapshot: window
// totals, key ratios, merged daily points, spike flags and the top referrer
// and path lists. Everything is recomputed from the snapshot on each run.
func BuildDerivedStats(snap *schema.Snapshot, cfg *contract.Config) *schema.DerivedStats {
	stats := &schema.DerivedStats{
		Repository:  snap.Repository,
		CollectedAt: snap.CollectedAt,
		SourcePath:  snap.SourcePath,

		TotalViews:     snap.Views.Count,
		UniqueVisitors: snap.Views.Uniques,
		TotalClones:    snap.Clones.Count,
		UniqueCloners:  snap.Clones.Uniques,

		ViewDays:  len(snap.Views.Days),
		CloneDays: len(snap.Clones.Days),
	}

	stats.ViewsPerVisitor = schema.Ratio(stats.TotalViews, stats.UniqueVisitors)
	stats.CloneToView = schema.Ratio(stats.TotalClones, stats.TotalViews)
	stats.UniqueClonerToVisitor = schema.Ratio(stats.UniqueCloners, stats.UniqueVisitors)

	stats.Daily = mergeDailyPoints(snap)
	fillDailyAverages(stats)
	stats.Spikes = detectSpikes(stats.Daily, cfg.SpikeThresholds)

	stats.TotalReferrers = len(snap.Referrers)
	stats.TotalPaths = len(snap.Paths)
	stats.Referrers = topReferrers(snap.Referrers, cfg)
	stats.Paths = topPaths(snap.Paths, cfg)

	return stats
}

// mergeDailyPoints combines the view and clone series into one row per
// calendar date, zero-filling dates present in only one series. A repeated
// date within a series overwrites the earlier point.
func mergeDailyPoints(snap *schema.Snapshot) []schema.DailyPoint {
	byDate := make(map[string]*schema.DailyPoint)
	point := func(date string) *schema.DailyPoint {
		p, ok := byDate[date]
		if !ok {
			p = &schema.DailyPoint{Date: date}
			byDate[date] = p
		}
		return p
	}

	for _, day := range snap.Views.Days {
		p := point(day.Date())
		p.Views = day.Count
		p.ViewUniques = day.Uniques
	}
	for _, day := range snap.Clones.Days {
		p := point(day.Date())
		p.Clones = day.Count
		p.CloneUniques = day.Uniques
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]schema.DailyPoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, *byDate[date])
	}
	return points
}

// fillDailyAverages computes per-day averages over the merged days. With no
// tracked days every average stays 0.
func fillDailyAverages(stats *schema.DerivedStats) {
	n := len(stats.Daily)
	if n == 0 {
		return
	}
	var views, viewUniques, clones, cloneUniques int
	for _, p := range stats.Daily {
		views += p.Views
		viewUniques += p.ViewUniques
		clones += p.Clones
		cloneUniques += p.CloneUniques
	}
	stats.DailyAvgViews = float64(views) / float64(n)
	stats.DailyAvgViewUniques = float64(viewUniques) / float64(n)
	stats.DailyAvgClones = float64(clones) / float64(n)
	stats.DailyAvgCloneUniques = float64(cloneUniques) / float64(n)
}

// detectSpikes evaluates every spike rule against every day, in date order.
// Days with a zero denominator never fire the corresponding rule.
func detectSpikes(points []schema.DailyPoint, thresholds map[schema.SpikeRule]float64) []schema.SpikeFlag {
	var flags []schema.SpikeFlag
	for _, p := range points {
		var tags []string
		for _, rule := range schema.AllSpikeRules {
			if spikeFires(p, rule, thresholds[rule]) {
				tags = append(tags, schema.FormatSpikeTag(rule, thresholds[rule]))
			}
		}
		if len(tags) > 0 {
			flags = append(flags, schema.SpikeFlag{
				Date:         p.Date,
				Tags:         tags,
				Views:        p.Views,
				ViewUniques:  p.ViewUniques,
				Clones:       p.Clones,
				CloneUniques: p.CloneUniques,
			})
		}
	}
	return flags
}

// spikeFires reports whether a single rule crosses its threshold for a day.
func spikeFires(p schema.DailyPoint, rule schema.SpikeRule, threshold float64) bool {
	switch rule {
	case schema.SpikeViewsPerVisitor:
		return p.ViewUniques > 0 && p.ViewsPerVisitor() > threshold
	case schema.SpikeClonesPerCloner:
		return p.CloneUniques > 0 && p.ClonesPerCloner() > threshold
	case schema.SpikeCloneViewRatio:
		return p.Views > 0 && p.ClonesPerView() > threshold
	default:
		return false
	}
}

// topReferrers applies the optional re-sort and the result limit. Snapshots
// store referrers count-descending as exported, so the order is trusted
// as-is unless sort-top is enabled.
func topReferrers(refs []schema.Referrer, cfg *contract.Config) []schema.Referrer {
	out := make([]schema.Referrer, len(refs))
	copy(out, refs)
	if cfg.SortTop {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
			return out[i].Name < out[j].Name
		})
	}
	if len(out) > cfg.ResultLimit {
		out = out[:cfg.ResultLimit]
	}
	return out
}

// topPaths mirrors topReferrers for popular paths.
func topPaths(paths []schema.PopularPath, cfg *contract.Config) []schema.PopularPath {
	out := make([]schema.PopularPath, len(paths))
	copy(out, paths)
	if cfg.SortTop {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
			return out[i].Path < out[j].Path
		})
	}
	if len(out) > cfg.ResultLimit {
		out = out[:cfg.ResultLimit]
	}
	return out
}
