package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/config"
	"github.com/abhisek/driverisk/internal/logging"
)

// configEnv names the config file when --config is not given.
const configEnv = "DRIVERISK_CONFIG"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "driverisk",
		Short: "Driving risk and insurance premium estimator",
		Long: "driverisk collects trip details, scores driving risk per trip and " +
			"suggests an insurance premium with advice for the batch.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (overrides "+configEnv+" env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Float64("base-premium", 0, "Base premium in dollars before tier adjustment")

	root.AddCommand(newRunCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}

// resolveConfig layers settings: flags over DRIVERISK_* env vars over the
// config file over defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(configEnv)
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("base-premium") {
		cfg.BasePremium, _ = flags.GetFloat64("base-premium")
	}
	return cfg, cfg.Validate()
}

// newLogger writes log lines to w, keeping them apart from prompts.
func newLogger(cfg config.Config, w io.Writer) (*zap.Logger, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, Output: w})
}
