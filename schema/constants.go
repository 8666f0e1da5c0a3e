package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// SelectStrategy represents how the latest snapshot is chosen.
	SelectStrategy string

	// SpikeRule represents one spike detection predicate.
	SpikeRule string

	// Status represents where a compared entry appears across two snapshots.
	Status string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All snapshot selection strategies supported.
const (
	ByCollected SelectStrategy = "collected" // default
	ByFilename  SelectStrategy = "filename"
)

// Spike rules applied to each tracked day.
const (
	SpikeViewsPerVisitor SpikeRule = "views-per-visitor" // views / unique visitors
	SpikeClonesPerCloner SpikeRule = "clones-per-cloner" // clones / unique cloners
	SpikeCloneViewRatio  SpikeRule = "clone-view-ratio"  // clones / views
)

// Default spike thresholds.
const (
	DefaultViewsPerVisitorThreshold = 5.0
	DefaultClonesPerClonerThreshold = 3.0
	DefaultCloneViewRatioThreshold  = 0.20
)

// All comparison statuses supported.
const (
	NewStatus      Status = "new"      // only in the target snapshot
	ActiveStatus   Status = "active"   // in both snapshots
	InactiveStatus Status = "inactive" // only in the base snapshot
	UnknownStatus  Status = "unknown"
)

// AllSpikeRules returns a list of all spike rules in evaluation order.
var AllSpikeRules = []SpikeRule{SpikeViewsPerVisitor, SpikeClonesPerCloner, SpikeCloneViewRatio}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidSelectStrategies lists all valid snapshot selection strategies.
var ValidSelectStrategies = map[SelectStrategy]struct{}{
	ByCollected: {},
	ByFilename:  {},
}

// GetDefaultThresholds returns the default threshold for every spike rule.
func GetDefaultThresholds() map[SpikeRule]float64 {
	return map[SpikeRule]float64{
		SpikeViewsPerVisitor: DefaultViewsPerVisitorThreshold,
		SpikeClonesPerCloner: DefaultClonesPerClonerThreshold,
		SpikeCloneViewRatio:  DefaultCloneViewRatioThreshold,
	}
}

// GetSpikeRuleDescription returns a short human description of a spike rule.
func GetSpikeRuleDescription(rule SpikeRule) string {
	switch rule {
	case SpikeViewsPerVisitor:
		return "Daily views divided by daily unique visitors"
	case SpikeClonesPerCloner:
		return "Daily clones divided by daily unique cloners"
	case SpikeCloneViewRatio:
		return "Daily clones divided by daily views"
	default:
		return "Unknown rule"
	}
}
