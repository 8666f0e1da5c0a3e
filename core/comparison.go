package core

import (
	"sort"
	"strings"

	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// entryCounts tallies how many compared entries fall into each status.
type entryCounts struct {
	added    int
	active   int
	inactive int
}

// CompareSnapshots matches two snapshots of the same repository and computes
// the delta for every window total, referrer and popular path. The base
// snapshot is the older point, the target is the newer one.
func CompareSnapshots(base, target *schema.Snapshot, cfg *contract.Config) *schema.ComparisonResult {
	result := &schema.ComparisonResult{
		Repository:        pickRepository(base, target),
		BasePath:          base.SourcePath,
		TargetPath:        target.SourcePath,
		BaseCollectedAt:   base.CollectedAt,
		TargetCollectedAt: target.CollectedAt,
		Totals:            compareTotals(base, target),
	}

	referrers, refCounts := compareEntries(base.Referrers, target.Referrers, cfg.ResultLimit)
	paths, pathCounts := compareEntries(base.Paths, target.Paths, cfg.ResultLimit)
	result.Referrers = referrers
	result.Paths = paths

	result.Summary = schema.ComparisonSummary{
		NetViewDelta:      target.Views.Count - base.Views.Count,
		NetCloneDelta:     target.Clones.Count - base.Clones.Count,
		NewReferrers:      refCounts.added,
		InactiveReferrers: refCounts.inactive,
		ActiveReferrers:   refCounts.active,
		NewPaths:          pathCounts.added,
		InactivePaths:     pathCounts.inactive,
		ActivePaths:       pathCounts.active,
		SpikeDaysBefore:   len(detectSpikes(mergeDailyPoints(base), cfg.SpikeThresholds)),
		SpikeDaysAfter:    len(detectSpikes(mergeDailyPoints(target), cfg.SpikeThresholds)),
	}
	return result
}

// pickRepository prefers the target's repository reference, falling back to
// the base when the newer snapshot carries none.
func pickRepository(base, target *schema.Snapshot) schema.RepoRef {
	if target.Repository.Name != "" || target.Repository.Owner != "" {
		return target.Repository
	}
	return base.Repository
}

// compareTotals builds the fixed-order window metric deltas: the four raw
// totals followed by the three key ratios.
func compareTotals(base, target *schema.Snapshot) []schema.MetricDelta {
	intDelta := func(metric string, before, after int) schema.MetricDelta {
		return schema.MetricDelta{
			Metric:  metric,
			Before:  float64(before),
			After:   float64(after),
			Delta:   float64(after - before),
			Integer: true,
		}
	}
	ratioDelta := func(metric string, before, after float64, percent bool) schema.MetricDelta {
		return schema.MetricDelta{
			Metric:  metric,
			Before:  before,
			After:   after,
			Delta:   after - before,
			Percent: percent,
		}
	}
	return []schema.MetricDelta{
		intDelta("Views", base.Views.Count, target.Views.Count),
		intDelta("Unique visitors", base.Views.Uniques, target.Views.Uniques),
		intDelta("Clones", base.Clones.Count, target.Clones.Count),
		intDelta("Unique cloners", base.Clones.Uniques, target.Clones.Uniques),
		ratioDelta("Views per visitor",
			schema.Ratio(base.Views.Count, base.Views.Uniques),
			schema.Ratio(target.Views.Count, target.Views.Uniques), false),
		ratioDelta("Clone-to-view ratio",
			schema.Ratio(base.Clones.Count, base.Views.Count),
			schema.Ratio(target.Clones.Count, target.Views.Count), true),
		ratioDelta("Cloner-to-visitor ratio",
			schema.Ratio(base.Clones.Uniques, base.Views.Uniques),
			schema.Ratio(target.Clones.Uniques, target.Views.Uniques), true),
	}
}

// compareEntries is a generic function that matches two entry lists by key.
func compareEntries[T schema.CountedEntry](baseEntries, targetEntries []T, limit int) ([]schema.CompareEntry, entryCounts) {
	baseMap := make(map[string]T, len(baseEntries))
	targetMap := make(map[string]T, len(targetEntries))
	allKeys := make(map[string]struct{})

	// 1. Populate maps and collect all keys
	for _, e := range baseEntries {
		baseMap[e.Key()] = e
		allKeys[e.Key()] = struct{}{}
	}
	for _, e := range targetEntries {
		targetMap[e.Key()] = e
		allKeys[e.Key()] = struct{}{}
	}

	entries := make([]schema.CompareEntry, 0, len(allKeys))
	var counts entryCounts

	// 2. Compare all keys
	for key := range allKeys {
		baseE, baseExists := baseMap[key]
		targetE, targetExists := targetMap[key]

		entry := schema.CompareEntry{Name: key, Status: determineStatus(baseExists, targetExists)}
		if baseExists {
			entry.BeforeCount = baseE.CountValue()
			entry.BeforeUniques = baseE.UniquesValue()
		}
		if targetExists {
			entry.AfterCount = targetE.CountValue()
			entry.AfterUniques = targetE.UniquesValue()
		}
		entry.Delta = entry.AfterCount - entry.BeforeCount
		entry.DeltaUniques = entry.AfterUniques - entry.BeforeUniques

		switch entry.Status {
		case schema.NewStatus:
			counts.added++
		case schema.ActiveStatus:
			counts.active++
		case schema.InactiveStatus:
			counts.inactive++
		}

		// Only include entries that actually moved. New and inactive
		// entries always carry a nonzero count delta, so nothing that
		// appeared or vanished is dropped here.
		if entry.Delta != 0 || entry.DeltaUniques != 0 {
			entries = append(entries, entry)
		}
	}

	// 3. Sort and apply the limit
	sortCompareEntries(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, counts
}

// determineStatus returns the status based on existence in base and target.
func determineStatus(baseExists, targetExists bool) schema.Status {
	switch {
	case !baseExists && targetExists:
		return schema.NewStatus
	case baseExists && targetExists:
		return schema.ActiveStatus
	case baseExists: // Target does not have the entry in this case
		return schema.InactiveStatus
	default:
		return schema.UnknownStatus
	}
}

// sortCompareEntries sorts entries by absolute delta, then delta sign, then name.
func sortCompareEntries(entries []schema.CompareEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a := entries[i]
		b := entries[j]

		// Primary: Absolute delta (descending)
		absA := abs(a.Delta)
		absB := abs(b.Delta)
		if absA != absB {
			return absA > absB
		}

		// Secondary: Delta sign (positive before negative)
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}

		// Tertiary: Name (ascending)
		return strings.Compare(a.Name, b.Name) < 0
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
