package pricing

import (
	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/logging"
)

// Advice messages, one per tier.
const (
	AdviceHigh     = "Risk detected! Drive safer to lower your premium."
	AdviceLow      = "Excellent driving! You earned a safe driver discount."
	AdviceStandard = "Keep it steady! Maintain safe driving to keep your rates stable."
)

// AdviceFor returns the message for a tier.
func AdviceFor(t Tier) string {
	switch t {
	case TierHigh:
		return AdviceHigh
	case TierLow:
		return AdviceLow
	default:
		return AdviceStandard
	}
}

// Advisor picks advice for a mean risk score.
type Advisor struct {
	logger *zap.Logger
}

// NewAdvisor creates an Advisor. A nil logger discards output.
func NewAdvisor(logger *zap.Logger) *Advisor {
	return &Advisor{logger: logging.OrNop(logger)}
}

// Advise returns the message for meanRisk's tier.
func (a *Advisor) Advise(meanRisk float64) string {
	msg := AdviceFor(TierFor(meanRisk))
	a.logger.Info("advice", zap.String("message", msg))
	return msg
}
