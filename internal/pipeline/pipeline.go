// Package pipeline runs one batch of collected trips through filtering,
// anonymization, clustering, scoring and pricing.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/abhisek/driverisk/internal/cluster"
	"github.com/abhisek/driverisk/internal/config"
	"github.com/abhisek/driverisk/internal/logging"
	"github.com/abhisek/driverisk/internal/pricing"
	"github.com/abhisek/driverisk/internal/risk"
	"github.com/abhisek/driverisk/internal/stream"
	"github.com/abhisek/driverisk/internal/trip"
)

// ErrNoValidData means every record in the batch was dropped.
var ErrNoValidData = errors.New("no valid trip data received")

// Summary is the result of one run.
type Summary struct {
	RunID string

	// Collected is the batch size before filtering.
	Collected int

	// Dropped counts records lost in the stream filter.
	Dropped int

	// Assessments holds one scored trip per kept record, in arrival order.
	Assessments []risk.Assessment

	AverageRisk float64
	Quote       pricing.Quote
	Advice      string
}

// Processed is the number of trips that reached scoring.
func (s Summary) Processed() int {
	return len(s.Assessments)
}

// Options holds the stage implementations.
type Options struct {
	Filter     *stream.Filter
	Clusterer  *cluster.Clusterer
	Evaluator  *risk.Evaluator
	Calculator *pricing.Calculator
	Advisor    *pricing.Advisor
}

// Pipeline processes trip batches.
type Pipeline struct {
	opts   Options
	logger *zap.Logger
	newID  func() string
}

// New creates a Pipeline. A nil logger discards output.
func New(opts Options, logger *zap.Logger) *Pipeline {
	return &Pipeline{opts: opts, logger: logging.OrNop(logger), newID: uuid.NewString}
}

// FromConfig builds a Pipeline with the standard stages configured from cfg.
func FromConfig(cfg config.Config, logger *zap.Logger) *Pipeline {
	streamCfg := stream.DefaultConfig()
	streamCfg.DropRate = cfg.DropRate
	streamCfg.Pace = cfg.Pace
	streamCfg.RedactIdentity = cfg.RedactIdentity

	kmCfg := cluster.DefaultKMeansConfig()
	kmCfg.Seed = cfg.ClusterSeed

	priceCfg := pricing.DefaultConfig()
	priceCfg.BasePremium = cfg.BasePremium

	return New(Options{
		Filter:     stream.NewFilter(streamCfg, stream.NewSampler(cfg.DropSeed), nil, logger),
		Clusterer:  cluster.NewClusterer(cluster.NewKMeans(kmCfg), logger),
		Evaluator:  risk.NewEvaluator(risk.DefaultConfig(), logger),
		Calculator: pricing.NewCalculator(priceCfg, logger),
		Advisor:    pricing.NewAdvisor(logger),
	}, logger)
}

// Run processes one batch. When nothing survives the filter it returns
// ErrNoValidData along with a partial Summary (run id and counts).
func (p *Pipeline) Run(ctx context.Context, records []trip.Record) (Summary, error) {
	sum := Summary{RunID: p.newID(), Collected: len(records)}
	log := p.logger.With(zap.String("run_id", sum.RunID))

	res, err := p.opts.Filter.Process(ctx, records)
	if err != nil {
		return sum, fmt.Errorf("stream trips: %w", err)
	}
	sum.Dropped = res.Dropped
	if len(res.Kept) == 0 {
		log.Warn("no trips survived the stream", zap.Int("dropped", res.Dropped))
		return sum, ErrNoValidData
	}

	trips := trip.AnonymizeAll(res.Kept)
	for _, t := range trips {
		log.Info("data after removing personal info", zap.Stringer("data", t))
	}

	if err := p.opts.Clusterer.Assign(trips); err != nil {
		return sum, fmt.Errorf("cluster trips: %w", err)
	}

	sum.Assessments = p.opts.Evaluator.EvaluateAll(trips)
	scores := make([]float64, len(sum.Assessments))
	for i, a := range sum.Assessments {
		scores[i] = a.Score
	}
	sum.AverageRisk = stat.Mean(scores, nil)

	sum.Quote = p.opts.Calculator.Quote(sum.AverageRisk)
	sum.Advice = p.opts.Advisor.Advise(sum.AverageRisk)

	log.Info("run complete",
		zap.Int("processed", sum.Processed()),
		zap.Int("dropped", sum.Dropped),
		zap.String("average_risk", fmt.Sprintf("%.2f", sum.AverageRisk)))
	return sum, nil
}
