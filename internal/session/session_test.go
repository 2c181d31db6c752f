package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/driverisk/internal/cluster"
	"github.com/abhisek/driverisk/internal/collector"
	"github.com/abhisek/driverisk/internal/pipeline"
	"github.com/abhisek/driverisk/internal/pricing"
	"github.com/abhisek/driverisk/internal/risk"
	"github.com/abhisek/driverisk/internal/stream"
	"github.com/abhisek/driverisk/internal/trip"
)

type constSampler float64

func (c constSampler) Rand() float64 { return float64(c) }

func noSleep(context.Context, time.Duration) error { return nil }

// newScripted wires a real collector and pipeline to scripted input.
// sample is the drop draw for every packet: below 0.1 drops it.
func newScripted(input string, sample float64) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	p := pipeline.New(pipeline.Options{
		Filter:     stream.NewFilter(stream.DefaultConfig(), constSampler(sample), noSleep, nil),
		Clusterer:  cluster.NewClusterer(cluster.NewKMeans(cluster.DefaultKMeansConfig()), nil),
		Evaluator:  risk.NewEvaluator(risk.DefaultConfig(), nil),
		Calculator: pricing.NewCalculator(pricing.DefaultConfig(), nil),
		Advisor:    pricing.NewAdvisor(nil),
	}, nil)
	s := New(Options{
		Source:   collector.New(strings.NewReader(input), &out, collector.Config{}, nil),
		Pipeline: p,
		Out:      &out,
	}, nil)
	return s, &out
}

func tripLines(name, speed, brakes, weather, traffic string) string {
	return strings.Join([]string{name, "LIC-" + name, speed, brakes, weather, traffic}, "\n") + "\n"
}

func TestRun_SingleTrip(t *testing.T) {
	input := tripLines("Ana", "90", "3", "Rain", "Heavy") + "n\n" + "n\n"
	s, out := newScripted(input, 0.5)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Enter your trip details:")
	assert.Contains(t, got, "Add another trip? (y/n): ")
	assert.Contains(t, got, "Processed 1 trips")
	assert.Contains(t, got, "Average Risk Score: 39.00")
	assert.Contains(t, got, "Premium: $1000.00")
	assert.Contains(t, got, "Advice: "+pricing.AdviceStandard)
	assert.Contains(t, got, "Run again? (y/n): ")
	assert.True(t, strings.HasSuffix(got, MsgGoodbye+"\n"))
	assert.Equal(t, PhaseDone, s.Phase())
	assert.Equal(t, 1, s.Runs())
}

func TestRun_TwoTripsThenRerun(t *testing.T) {
	input := tripLines("Ana", "20", "0", "Clear", "Light") + "y\n" +
		tripLines("Ben", "20", "0", "Clear", "Light") + "n\n" +
		"y\n" +
		tripLines("Cy", "20", "0", "clear", "light") + "n\n" +
		"n\n"
	s, out := newScripted(input, 0.5)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Processed 2 trips")
	assert.Contains(t, got, "Processed 1 trips")
	assert.Equal(t, 2, strings.Count(got, "==== Insurance Summary ===="))
	assert.Contains(t, got, "Premium: $900.00")
	assert.Equal(t, 1, strings.Count(got, MsgGoodbye))
	assert.Equal(t, 2, s.Runs())
}

func TestRun_AllDropped(t *testing.T) {
	input := tripLines("Ana", "90", "3", "Rain", "Heavy") + "n\n" + "n\n"
	s, out := newScripted(input, 0.01)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, MsgNoValidData)
	assert.NotContains(t, got, "Insurance Summary")
	assert.Contains(t, got, MsgGoodbye)
	assert.Equal(t, 1, s.Runs())
}

func TestRun_InputEndsAfterTrip(t *testing.T) {
	// No answer to "Add another trip?": the trip is still scored.
	s, out := newScripted(tripLines("Ana", "20", "0", "Clear", "Light"), 0.5)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Processed 1 trips")
	assert.Contains(t, got, MsgGoodbye)
}

func TestRun_InputEndsBeforeNextTrip(t *testing.T) {
	// "y" to another trip, then nothing: the finished trip is still scored.
	input := tripLines("Ana", "20", "0", "Clear", "Light") + "y\n"
	s, out := newScripted(input, 0.5)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Processed 1 trips")
	assert.Contains(t, got, "Premium: $900.00")
	assert.True(t, strings.HasSuffix(got, MsgGoodbye+"\n"))
	assert.Equal(t, 1, s.Runs())
}

func TestRun_InputEndsInsideLaterTrip(t *testing.T) {
	input := tripLines("Ana", "90", "3", "Rain", "Heavy") + "y\n" + "Ben\nLIC-Ben\n40\n"
	s, out := newScripted(input, 0.5)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Processed 1 trips")
	assert.Contains(t, got, "Average Risk Score: 39.00")
	assert.Equal(t, 1, s.Runs())
}

func TestRun_InputEndsMidTrip(t *testing.T) {
	s, out := newScripted("Ana\nLIC-1\n90\n", 0.5)

	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.NotContains(t, got, "Insurance Summary")
	assert.Contains(t, got, MsgGoodbye)
	assert.Equal(t, 0, s.Runs())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newScripted(tripLines("Ana", "20", "0", "Clear", "Light"), 0.5)

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseCollect, s.Phase())
}

type fakeSource struct {
	records []trip.Record
	answers []bool
}

func (f *fakeSource) Collect(context.Context) (trip.Record, error) {
	if len(f.records) == 0 {
		return trip.Record{}, collector.ErrInputClosed
	}
	r := f.records[0]
	f.records = f.records[1:]
	return r, nil
}

func (f *fakeSource) Confirm(context.Context, string) (bool, error) {
	if len(f.answers) == 0 {
		return false, collector.ErrInputClosed
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a, nil
}

type runnerFunc func(context.Context, []trip.Record) (pipeline.Summary, error)

func (f runnerFunc) Run(ctx context.Context, r []trip.Record) (pipeline.Summary, error) {
	return f(ctx, r)
}

func TestRun_PipelineError(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	s := New(Options{
		Source: &fakeSource{records: []trip.Record{{}}, answers: []bool{false}},
		Pipeline: runnerFunc(func(context.Context, []trip.Record) (pipeline.Summary, error) {
			return pipeline.Summary{}, boom
		}),
		Out: &out,
	}, nil)

	err := s.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "run 1")
	assert.Equal(t, PhaseProcess, s.Phase())
	assert.NotContains(t, out.String(), MsgGoodbye)
}

func TestRun_BatchesAreIndependent(t *testing.T) {
	var sizes []int
	src := &fakeSource{
		records: []trip.Record{{}, {}, {}},
		// trip, more=yes, trip, more=no, rerun=yes, trip, more=no, rerun=no
		answers: []bool{true, false, true, false, false},
	}
	s := New(Options{
		Source: src,
		Pipeline: runnerFunc(func(_ context.Context, r []trip.Record) (pipeline.Summary, error) {
			sizes = append(sizes, len(r))
			return pipeline.Summary{}, pipeline.ErrNoValidData
		}),
		HideTrips: true,
	}, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []int{2, 1}, sizes)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "collect", PhaseCollect.String())
	assert.Equal(t, "done", PhaseDone.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
