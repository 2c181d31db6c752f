package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/driverisk/internal/cluster"
	"github.com/abhisek/driverisk/internal/config"
	"github.com/abhisek/driverisk/internal/pricing"
	"github.com/abhisek/driverisk/internal/report"
	"github.com/abhisek/driverisk/internal/risk"
	"github.com/abhisek/driverisk/internal/trip"
)

type scoreFlags struct {
	speed   int
	brakes  int
	weather string
	traffic string
	group   int
}

func newScoreCmd() *cobra.Command {
	var f scoreFlags
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one trip without prompts",
		Long: "score evaluates a single trip, skipping the simulated feed and " +
			"clustering, and prints its risk score, premium and advice.",
		Example: "  driverisk score --speed 90 --brakes 3 --weather rain --traffic heavy",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, f)
		},
	}

	cmd.Flags().IntVar(&f.speed, "speed", 0, "Average speed in km/h")
	cmd.Flags().IntVar(&f.brakes, "brakes", 0, "Number of hard brakes")
	cmd.Flags().StringVar(&f.weather, "weather", "Clear", "Weather condition (Clear, Rain, Snow, Fog)")
	cmd.Flags().StringVar(&f.traffic, "traffic", "Light", "Traffic condition (Light, Moderate, Heavy)")
	cmd.Flags().IntVar(&f.group, "group", 0, "Driving pattern group (0 or 1)")
	_ = cmd.MarkFlagRequired("speed")
	_ = cmd.MarkFlagRequired("brakes")
	return cmd
}

func (f scoreFlags) validate() error {
	switch {
	case f.speed < 0:
		return &config.ValidationError{Field: "speed", Reason: "must not be negative"}
	case f.brakes < 0:
		return &config.ValidationError{Field: "brakes", Reason: "must not be negative"}
	case f.group < 0 || f.group >= cluster.Groups:
		return &config.ValidationError{Field: "group", Reason: fmt.Sprintf("must be 0..%d", cluster.Groups-1)}
	}
	return nil
}

func runScore(cmd *cobra.Command, f scoreFlags) error {
	if err := f.validate(); err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	t := trip.Trip{
		ID:         uuid.NewString(),
		SpeedKmh:   f.speed,
		HardBrakes: f.brakes,
		Weather:    f.weather,
		Traffic:    f.traffic,
		CapturedAt: time.Now(),
		Group:      f.group,
	}
	a := risk.NewEvaluator(risk.DefaultConfig(), logger).Evaluate(t)

	priceCfg := pricing.DefaultConfig()
	priceCfg.BasePremium = cfg.BasePremium
	q := pricing.NewCalculator(priceCfg, logger).Quote(a.Score)
	advice := pricing.NewAdvisor(logger).Advise(a.Score)

	return report.Fprintln(cmd.OutOrStdout(), report.Assessment(a, q, advice))
}
