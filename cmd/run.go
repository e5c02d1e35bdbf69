package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/app"
	"github.com/abhisek/mathsnap/internal/prefs"
)

// runApp opens the stores, builds the solver, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := e.solver(ctx)
	if err != nil {
		return err
	}

	p, err := prefs.Load(ctx, e.kv)
	if err != nil {
		e.logger.Warn("load preferences, using defaults", zap.Error(err))
	}

	source, label := e.captureSource("", "")
	deps := app.Deps{
		Solver:      svc,
		History:     e.history,
		KV:          e.kv,
		CameraLabel: label,
		Countdown:   e.cfg.Capture.Countdown,
		Logger:      e.logger,
	}
	if source != nil {
		deps.CameraSource = source
	}

	if err := app.Run(ctx, deps, app.InitialState(p, e.history.Items())); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
