// Package stream replays collected trips as if they arrived from an
// in-car device: each record may be lost in transit, and kept records
// arrive at a fixed pace.
package stream

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/abhisek/driverisk/internal/logging"
	"github.com/abhisek/driverisk/internal/trip"
)

// Config holds filter settings.
type Config struct {
	// DropRate is the probability that a record is lost.
	DropRate float64

	// Pace is the wait after each kept record.
	Pace time.Duration

	// RedactIdentity masks identifying fields in the "received data" log.
	RedactIdentity bool
}

// DefaultConfig returns a 10% drop rate and half a second of pacing.
func DefaultConfig() Config {
	return Config{
		DropRate: 0.1,
		Pace:     500 * time.Millisecond,
	}
}

// Sampler draws values uniformly from [0, 1).
type Sampler interface {
	Rand() float64
}

// NewSampler returns a uniform sampler over a PCG source. A zero seed
// picks one from the clock.
func NewSampler(seed uint64) Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return distuv.Uniform{Min: 0, Max: 1, Src: rand.NewPCG(seed, seed>>1)}
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Result is the outcome of one pass over a batch.
type Result struct {
	// Kept holds the surviving records in their original order.
	Kept []trip.Record

	// Dropped counts records lost to simulated device failure.
	Dropped int
}

// Filter simulates an unreliable device feed.
type Filter struct {
	cfg     Config
	sampler Sampler
	sleep   Sleeper
	logger  *zap.Logger
}

// NewFilter creates a Filter. A nil sleep uses Sleep; a nil logger
// discards output.
func NewFilter(cfg Config, sampler Sampler, sleep Sleeper, logger *zap.Logger) *Filter {
	if sleep == nil {
		sleep = Sleep
	}
	return &Filter{cfg: cfg, sampler: sampler, sleep: sleep, logger: logging.OrNop(logger)}
}

// Process passes each record through the simulated feed. Dropped records
// are logged and never retried. Only context cancellation is an error.
func (f *Filter) Process(ctx context.Context, records []trip.Record) (Result, error) {
	res := Result{Kept: make([]trip.Record, 0, len(records))}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if f.sampler.Rand() < f.cfg.DropRate {
			res.Dropped++
			f.logger.Warn("simulated device failure: skipping invalid packet",
				zap.String("trip_id", r.ID))
			continue
		}

		f.logger.Info("received data", zap.String("packet", f.describe(r)))
		res.Kept = append(res.Kept, r)

		if err := f.sleep(ctx, f.cfg.Pace); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (f *Filter) describe(r trip.Record) string {
	if f.cfg.RedactIdentity {
		return r.Redacted()
	}
	return r.String()
}
