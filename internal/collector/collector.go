// Package collector gathers trip records from an interactive prompt.
package collector

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/logging"
	"github.com/abhisek/driverisk/internal/trip"
)

// Prompt labels for the text fields.
const (
	driverPrompt  = "Driver Name: "
	licensePrompt = "License Number: "
	weatherPrompt = "Weather Condition (Clear, Rain, Snow, Fog): "
	trafficPrompt = "Traffic Condition (Light, Moderate, Heavy): "
)

// Config holds collector settings.
type Config struct {
	// RedactIdentity masks driver name and license number in the
	// "collected trip data" log line.
	RedactIdentity bool
}

// Collector reads trip records from in and writes prompts to out.
type Collector struct {
	p      *prompter
	cfg    Config
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates a Collector. A nil logger discards output.
func New(in io.Reader, out io.Writer, cfg Config, logger *zap.Logger) *Collector {
	return &Collector{
		p:      newPrompter(in, out),
		cfg:    cfg,
		logger: logging.OrNop(logger),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Collect prompts for one trip. Numeric answers are re-asked until valid.
// It fails only when input runs out (ErrInputClosed) or ctx is done.
func (c *Collector) Collect(ctx context.Context) (trip.Record, error) {
	var rec trip.Record
	var err error

	c.p.say("\nEnter your trip details:")
	if rec.DriverName, err = c.p.ask(ctx, driverPrompt); err != nil {
		return trip.Record{}, err
	}
	if rec.LicenseNumber, err = c.p.ask(ctx, licensePrompt); err != nil {
		return trip.Record{}, err
	}
	if rec.SpeedKmh, err = speedField.read(ctx, c.p); err != nil {
		return trip.Record{}, err
	}
	if rec.HardBrakes, err = brakesField.read(ctx, c.p); err != nil {
		return trip.Record{}, err
	}
	if rec.Weather, err = c.p.ask(ctx, weatherPrompt); err != nil {
		return trip.Record{}, err
	}
	if rec.Traffic, err = c.p.ask(ctx, trafficPrompt); err != nil {
		return trip.Record{}, err
	}

	rec.ID = c.newID()
	rec.CapturedAt = c.now()

	data := rec.String()
	if c.cfg.RedactIdentity {
		data = rec.Redacted()
	}
	c.logger.Info("collected trip data", zap.String("data", data))
	return rec, nil
}

// Confirm asks a yes/no question. Only "y" (any case) means yes.
func (c *Collector) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := c.p.ask(ctx, question+" (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// Say writes a line to the prompt output.
func (c *Collector) Say(msg string) {
	c.p.say(msg)
}
