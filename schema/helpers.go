package schema

import "strconv"

// Ratio divides num by den, returning 0 when the denominator is 0. Sparse
// snapshots with zero uniques or zero views stay well defined this way.
func Ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// firstNonEmpty returns the first value that is not the empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FormatSpikeTag renders the compact tag for a rule at the given threshold,
// e.g. "views/visitor>5" or "clones/views>20%". The ratio rule renders as a
// percentage because that is how the reports have always phrased it.
func FormatSpikeTag(rule SpikeRule, threshold float64) string {
	switch rule {
	case SpikeViewsPerVisitor:
		return "views/visitor>" + formatThreshold(threshold)
	case SpikeClonesPerCloner:
		return "clones/unique_cloner>" + formatThreshold(threshold)
	case SpikeCloneViewRatio:
		return "clones/views>" + formatThreshold(threshold*100) + "%"
	default:
		return string(rule)
	}
}

// formatThreshold trims trailing zeros so default thresholds render as
// whole numbers ("5", not "5.00").
func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
