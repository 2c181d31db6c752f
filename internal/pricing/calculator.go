package pricing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/logging"
)

// Config holds premium settings.
type Config struct {
	BasePremium float64

	// HighMultiplier and LowMultiplier scale the base for TierHigh and
	// TierLow. TierStandard always pays the base.
	HighMultiplier float64
	LowMultiplier  float64
}

// DefaultConfig returns the standard premium schedule.
func DefaultConfig() Config {
	return Config{
		BasePremium:    1000,
		HighMultiplier: 1.2,
		LowMultiplier:  0.9,
	}
}

// Quote is a priced tier.
type Quote struct {
	MeanRisk float64
	Tier     Tier
	Premium  float64
}

// Calculator prices a mean risk score.
type Calculator struct {
	cfg    Config
	logger *zap.Logger
}

// NewCalculator creates a Calculator. A nil logger discards output.
func NewCalculator(cfg Config, logger *zap.Logger) *Calculator {
	return &Calculator{cfg: cfg, logger: logging.OrNop(logger)}
}

// Quote prices meanRisk.
func (c *Calculator) Quote(meanRisk float64) Quote {
	tier := TierFor(meanRisk)

	premium := c.cfg.BasePremium
	switch tier {
	case TierHigh:
		premium *= c.cfg.HighMultiplier
	case TierLow:
		premium *= c.cfg.LowMultiplier
	}

	c.logger.Info("premium set",
		zap.String("tier", string(tier)),
		zap.String("premium", FormatCurrency(premium)))
	return Quote{MeanRisk: meanRisk, Tier: tier, Premium: premium}
}

// FormatCurrency renders an amount as dollars with two decimals.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
