package main

import (
	"context"

	"github.com/geo-martino/syncify/internal/engine"
	"github.com/geo-martino/syncify/internal/formatter"
	"github.com/geo-martino/syncify/internal/models"
	"github.com/urfave/cli/v3"
)

// Check validates every reference in the current catalog against Spotify.
// With --simple set it degrades to schema-only validation.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	mode := models.ModeFull
	if cmd.Bool("simple") {
		mode = models.ModeSimple
	}
	return r.runCheck(ctx, cmd, mode)
}

// SimpleCheck validates reference schemas without any remote traffic.
func (r *Runner) SimpleCheck(ctx context.Context, cmd *cli.Command) error {
	return r.runCheck(ctx, cmd, models.ModeSimple)
}

func (r *Runner) runCheck(ctx context.Context, cmd *cli.Command, mode models.CheckMode) error {
	eng, cleanup, err := r.reconciler(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	r.logger.Info("checking references", "mode", mode.String())
	progressCh := make(chan engine.ProgressUpdate, 50)
	done := r.watchProgress(progressCh)

	report, err := eng.Check(ctx, mode, progressCh)
	close(progressCh)
	<-done
	if err != nil && report == nil {
		return err
	}

	if werr := r.writeReport(cmd, report, formatter.CheckToText(report)); werr != nil {
		return werr
	}
	// An interrupted run still printed its partial results.
	return err
}
