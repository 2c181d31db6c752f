package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/driverisk/internal/collector"
	"github.com/abhisek/driverisk/internal/pipeline"
	"github.com/abhisek/driverisk/internal/session"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd)
		},
	}
}

// runSession resolves config, wires the stages, and runs the prompt loop
// until the user quits or interrupts.
func runSession(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	s := session.New(session.Options{
		Source:   collector.New(cmd.InOrStdin(), out, collector.Config{RedactIdentity: cfg.RedactIdentity}, logger),
		Pipeline: pipeline.FromConfig(cfg, logger),
		Out:      out,
	}, logger)

	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, session.MsgGoodbye)
		return nil
	}
	return err
}
