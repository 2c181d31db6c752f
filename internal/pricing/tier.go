// Package pricing turns a batch's mean risk score into a premium quote and
// a short piece of advice. Both use the same tier boundaries.
package pricing

// Tier boundaries. Both are exclusive: a mean of exactly 70 or exactly 30
// lands in TierStandard.
const (
	HighRiskThreshold = 70.0
	LowRiskThreshold  = 30.0
)

// Tier is a premium band.
type Tier string

const (
	TierLow      Tier = "low"
	TierStandard Tier = "standard"
	TierHigh     Tier = "high"
)

// TierFor classifies a mean risk score. High is checked first.
func TierFor(meanRisk float64) Tier {
	switch {
	case meanRisk > HighRiskThreshold:
		return TierHigh
	case meanRisk < LowRiskThreshold:
		return TierLow
	default:
		return TierStandard
	}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierLow:
		return "Safe driver discount"
	case TierStandard:
		return "Standard"
	case TierHigh:
		return "High risk surcharge"
	default:
		return string(t)
	}
}
