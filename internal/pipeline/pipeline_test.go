package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/driverisk/internal/cluster"
	"github.com/abhisek/driverisk/internal/config"
	"github.com/abhisek/driverisk/internal/pricing"
	"github.com/abhisek/driverisk/internal/risk"
	"github.com/abhisek/driverisk/internal/stream"
	"github.com/abhisek/driverisk/internal/trip"
)

type constSampler float64

func (c constSampler) Rand() float64 { return float64(c) }

func noSleep(context.Context, time.Duration) error { return nil }

func newTestPipeline(sample float64, logger *zap.Logger) *Pipeline {
	p := New(Options{
		Filter:     stream.NewFilter(stream.DefaultConfig(), constSampler(sample), noSleep, logger),
		Clusterer:  cluster.NewClusterer(cluster.NewKMeans(cluster.DefaultKMeansConfig()), logger),
		Evaluator:  risk.NewEvaluator(risk.DefaultConfig(), logger),
		Calculator: pricing.NewCalculator(pricing.DefaultConfig(), logger),
		Advisor:    pricing.NewAdvisor(logger),
	}, logger)
	p.newID = func() string { return "run-1" }
	return p
}

func record(name string, speed, brakes int, weather, traffic string) trip.Record {
	return trip.Record{
		Identity: trip.Identity{DriverName: name, LicenseNumber: "LIC-" + name},
		Trip: trip.Trip{
			ID:         "trip-" + name,
			SpeedKmh:   speed,
			HardBrakes: brakes,
			Weather:    weather,
			Traffic:    traffic,
		},
	}
}

func TestRun_RiskyRainyTrip(t *testing.T) {
	sum, err := newTestPipeline(0.5, nil).Run(context.Background(),
		[]trip.Record{record("ada", 90, 3, "Rain", "Heavy")})
	require.NoError(t, err)

	require.Equal(t, 1, sum.Processed())
	a := sum.Assessments[0]
	assert.Equal(t, 0, a.Group)
	assert.InDelta(t, 24.0, a.BaseRisk, 1e-9)
	assert.InDelta(t, 39.0, a.Score, 1e-9)
	assert.True(t, a.Risky)

	assert.InDelta(t, 39.0, sum.AverageRisk, 1e-9)
	assert.Equal(t, pricing.TierStandard, sum.Quote.Tier)
	assert.InDelta(t, 1000.0, sum.Quote.Premium, 1e-9)
	assert.Equal(t, pricing.AdviceStandard, sum.Advice)
}

func TestRun_CalmClearTrip(t *testing.T) {
	sum, err := newTestPipeline(0.5, nil).Run(context.Background(),
		[]trip.Record{record("bob", 20, 0, "Clear", "Light")})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, sum.AverageRisk, 1e-9)
	assert.False(t, sum.Assessments[0].Risky)
	assert.Equal(t, pricing.TierLow, sum.Quote.Tier)
	assert.InDelta(t, 900.0, sum.Quote.Premium, 1e-9)
	assert.Equal(t, pricing.AdviceLow, sum.Advice)
}

func TestRun_TwoGroups(t *testing.T) {
	records := []trip.Record{
		record("a", 30, 0, "Clear", "Light"),
		record("b", 130, 6, "Clear", "Light"),
		record("c", 35, 1, "Clear", "Light"),
	}

	sum, err := newTestPipeline(0.5, nil).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, sum.Assessments, 3)

	assert.Equal(t, 0, sum.Assessments[0].Group)
	assert.Equal(t, 1, sum.Assessments[1].Group)
	assert.Equal(t, 0, sum.Assessments[2].Group)

	// b: base 13 + 30 = 43, scaled by 1.2 for group 1.
	assert.InDelta(t, 51.6, sum.Assessments[1].Score, 1e-9)
	assert.InDelta(t, (3+51.6+8.5)/3, sum.AverageRisk, 1e-9)
}

func TestRun_AllDropped(t *testing.T) {
	records := []trip.Record{record("a", 30, 0, "Clear", "Light"), record("b", 60, 1, "Rain", "Light")}

	sum, err := newTestPipeline(0.01, nil).Run(context.Background(), records)

	assert.ErrorIs(t, err, ErrNoValidData)
	assert.Equal(t, "run-1", sum.RunID)
	assert.Equal(t, 2, sum.Collected)
	assert.Equal(t, 2, sum.Dropped)
	assert.Zero(t, sum.Processed())
}

func TestRun_EmptyBatch(t *testing.T) {
	_, err := newTestPipeline(0.5, nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(0.5, nil).Run(ctx, []trip.Record{record("a", 30, 0, "Clear", "Light")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNoValidData))
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	records := []trip.Record{
		record("a", 30, 0, "Clear", "Light"),
		record("b", 130, 6, "Clear", "Light"),
	}

	_, err := newTestPipeline(0.5, nil).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, "a", records[0].DriverName)
	assert.Equal(t, 0, records[1].Group, "groups are written to the anonymized copies")
}

func TestRun_AnonymizedLogsHaveNoIdentity(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	_, err := newTestPipeline(0.5, zap.New(core)).Run(context.Background(),
		[]trip.Record{record("ada", 90, 3, "Rain", "Heavy")})
	require.NoError(t, err)

	entries := logs.FilterMessage("data after removing personal info").All()
	require.Len(t, entries, 1)
	data := entries[0].ContextMap()["data"]
	assert.NotContains(t, data, "ada")
	assert.Contains(t, data, "speed=90")
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DropRate = 0
	cfg.Pace = 0
	cfg.BasePremium = 2000

	sum, err := FromConfig(cfg, nil).Run(context.Background(),
		[]trip.Record{record("ada", 90, 3, "Rain", "Heavy")})
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.InDelta(t, 2000.0, sum.Quote.Premium, 1e-9)
}
