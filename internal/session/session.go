// Package session drives the interactive collect, score and summarize loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/collector"
	"github.com/abhisek/driverisk/internal/logging"
	"github.com/abhisek/driverisk/internal/pipeline"
	"github.com/abhisek/driverisk/internal/report"
	"github.com/abhisek/driverisk/internal/trip"
)

// User-facing lines.
const (
	MsgNoValidData = "No valid trip data received."
	MsgGoodbye     = "Goodbye! Drive safe!"

	askAnotherTrip = "Add another trip?"
	askRunAgain    = "Run again?"
)

// Phase is a step of the session loop.
type Phase int

const (
	PhaseCollect  Phase = iota // Reading trips until the user stops
	PhaseProcess               // Filtering, clustering and scoring the batch
	PhaseRerun                 // Asking whether to start another run
	PhaseDone                  // Goodbye printed
)

func (p Phase) String() string {
	switch p {
	case PhaseCollect:
		return "collect"
	case PhaseProcess:
		return "process"
	case PhaseRerun:
		return "rerun"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TripSource reads trips and yes/no answers from the user.
type TripSource interface {
	Collect(ctx context.Context) (trip.Record, error)
	Confirm(ctx context.Context, question string) (bool, error)
}

// Runner scores one batch of trips.
type Runner interface {
	Run(ctx context.Context, records []trip.Record) (pipeline.Summary, error)
}

var (
	_ TripSource = (*collector.Collector)(nil)
	_ Runner     = (*pipeline.Pipeline)(nil)
)

// Options holds the session's dependencies.
type Options struct {
	Source   TripSource
	Pipeline Runner
	Out      io.Writer

	// HideTrips skips the per-trip table above the summary.
	HideTrips bool
}

// Session runs batches until the user declines another run.
type Session struct {
	opts   Options
	logger *zap.Logger

	phase Phase
	runs  int
}

// New creates a Session.
func New(opts Options, logger *zap.Logger) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Session{opts: opts, logger: logging.OrNop(logger)}
}

// Phase reports where the loop currently is.
func (s *Session) Phase() Phase { return s.phase }

// Runs reports how many batches were processed, including empty ones.
func (s *Session) Runs() int { return s.runs }

// Run loops until the user declines another run. Running out of input ends
// the session like a decline; complete trips already entered are still
// scored. Context cancellation is returned as is.
func (s *Session) Run(ctx context.Context) error {
	for {
		s.phase = PhaseCollect
		records, err := s.collectBatch(ctx)
		if errors.Is(err, collector.ErrInputClosed) {
			return s.finish()
		}
		if err != nil {
			return err
		}

		s.phase = PhaseProcess
		if err := s.process(ctx, records); err != nil {
			return err
		}
		s.runs++

		s.phase = PhaseRerun
		again, err := s.opts.Source.Confirm(ctx, askRunAgain)
		if errors.Is(err, collector.ErrInputClosed) {
			return s.finish()
		}
		if err != nil {
			return err
		}
		if !again {
			return s.finish()
		}
	}
}

func (s *Session) collectBatch(ctx context.Context) ([]trip.Record, error) {
	var records []trip.Record
	for {
		rec, err := s.opts.Source.Collect(ctx)
		if errors.Is(err, collector.ErrInputClosed) && len(records) > 0 {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		more, err := s.opts.Source.Confirm(ctx, askAnotherTrip)
		if errors.Is(err, collector.ErrInputClosed) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if !more {
			return records, nil
		}
	}
}

func (s *Session) process(ctx context.Context, records []trip.Record) error {
	summary, err := s.opts.Pipeline.Run(ctx, records)
	if errors.Is(err, pipeline.ErrNoValidData) {
		return s.println(MsgNoValidData)
	}
	if err != nil {
		return fmt.Errorf("run %d: %w", s.runs+1, err)
	}

	if !s.opts.HideTrips {
		if err := report.Fprintln(s.opts.Out, report.Trips(summary.Assessments)); err != nil {
			return err
		}
	}
	return report.Fprintln(s.opts.Out, report.Summary(summary))
}

func (s *Session) finish() error {
	s.phase = PhaseDone
	s.logger.Debug("session finished", zap.Int("runs", s.runs))
	return s.println(MsgGoodbye)
}

func (s *Session) println(msg string) error {
	_, err := fmt.Fprintln(s.opts.Out, msg)
	return err
}
