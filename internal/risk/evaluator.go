// Package risk scores a single trip.
//
// The score is built in three steps: a weighted base from speed and hard
// braking (capped), a multiplier for the trip's driving-pattern group, and
// additive penalties for adverse weather and heavy traffic (capped again).
package risk

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/logging"
	"github.com/abhisek/driverisk/internal/trip"
)

// Assessment is the scored form of a trip.
type Assessment struct {
	trip.Trip

	OverSpeed     bool
	ExcessBraking bool
	Risky         bool

	BaseRisk        float64
	ClusterAdjusted float64
	Score           float64
}

// Evaluator scores trips.
type Evaluator struct {
	cfg    Config
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator. A nil logger discards output.
func NewEvaluator(cfg Config, logger *zap.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, logger: logging.OrNop(logger)}
}

// Evaluate scores one trip. The trip's Group must already be assigned.
func (e *Evaluator) Evaluate(t trip.Trip) Assessment {
	a := Assessment{Trip: t}

	a.OverSpeed, a.ExcessBraking = e.Flags(t)
	a.Risky = a.OverSpeed || a.ExcessBraking
	e.logger.Info("driving evaluation",
		zap.String("trip_id", t.ID),
		zap.Bool("over_speed", a.OverSpeed),
		zap.Bool("hard_brakes", a.ExcessBraking))

	a.BaseRisk = e.BaseRisk(t.SpeedKmh, t.HardBrakes)
	a.ClusterAdjusted = e.AdjustForGroup(a.BaseRisk, t.Group)
	e.logger.Info("risk after cluster adjustment",
		zap.String("trip_id", t.ID),
		zap.Int("group", t.Group),
		zap.String("risk", format2(a.ClusterAdjusted)))

	a.Score = e.ApplyConditions(a.ClusterAdjusted, t.Weather, t.Traffic)
	e.logger.Info("final risk score",
		zap.String("trip_id", t.ID),
		zap.String("risk", format2(a.Score)))

	return a
}

// EvaluateAll scores a batch, preserving order.
func (e *Evaluator) EvaluateAll(trips []trip.Trip) []Assessment {
	out := make([]Assessment, len(trips))
	for i, t := range trips {
		out[i] = e.Evaluate(t)
	}
	return out
}

// Flags reports over-speed and excess braking. Both thresholds are
// exclusive: exactly 80 km/h or exactly 2 brakes is not flagged.
func (e *Evaluator) Flags(t trip.Trip) (overSpeed, excessBraking bool) {
	return t.SpeedKmh > e.cfg.OverSpeedKmh, t.HardBrakes > e.cfg.MaxHardBrakes
}

// BaseRisk returns the weighted speed and braking score, capped at MaxScore.
func (e *Evaluator) BaseRisk(speedKmh, hardBrakes int) float64 {
	risk := float64(speedKmh)*e.cfg.SpeedWeight + float64(hardBrakes)*e.cfg.BrakeWeight
	return min(risk, e.cfg.MaxScore)
}

// AdjustForGroup scales risk for any group other than 0. The result is
// not capped; ApplyConditions does that.
func (e *Evaluator) AdjustForGroup(risk float64, group int) float64 {
	if group == 0 {
		return risk
	}
	return risk * e.cfg.GroupMultiplier
}

// ApplyConditions adds the weather and traffic penalties and caps the
// result at MaxScore.
func (e *Evaluator) ApplyConditions(risk float64, weather, traffic string) float64 {
	if trip.WeatherOf(weather).Adverse() {
		risk += e.cfg.AdverseWeatherPenalty
	}
	if trip.TrafficOf(traffic) == trip.TrafficHeavy {
		risk += e.cfg.HeavyTrafficPenalty
	}
	return min(risk, e.cfg.MaxScore)
}

func format2(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
