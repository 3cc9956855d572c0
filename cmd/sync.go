package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/geo-martino/syncify/internal/engine"
	"github.com/geo-martino/syncify/internal/formatter"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/urfave/cli/v3"
)

// Refresh captures the current catalog and persists it as the new baseline.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	eng, cleanup, err := r.reconciler(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	r.logger.Info("refreshing baseline")
	progressCh := make(chan engine.ProgressUpdate, 50)
	done := r.watchProgress(progressCh)

	result, err := eng.Refresh(ctx, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	return r.writeReport(cmd, result, formatter.RefreshToText(result))
}

// Differences compares the stored baseline against the current catalog.
func (r *Runner) Differences(ctx context.Context, cmd *cli.Command) error {
	eng, cleanup, err := r.reconciler(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	r.logger.Info("computing differences against baseline")
	progressCh := make(chan engine.ProgressUpdate, 50)
	done := r.watchProgress(progressCh)

	report, err := eng.Differences(ctx, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	return r.writeReport(cmd, report, formatter.DiffToText(report))
}

// Update records a fresh baseline and applies queued membership changes.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	changes, err := loadChanges(cmd.String("changes"))
	if err != nil {
		return err
	}
	dryRun := cmd.Bool("dry-run")

	eng, cleanup, err := r.reconciler(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	r.logger.Info("applying membership changes", "changes", len(changes), "dry_run", dryRun)
	progressCh := make(chan engine.ProgressUpdate, 50)
	done := r.watchProgress(progressCh)

	result, err := eng.Update(ctx, changes, dryRun, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	return r.writeReport(cmd, result, formatter.UpdateToText(result))
}

// loadChanges parses a queued changes file. The file holds a JSON array of
// per-playlist additions and removals.
func loadChanges(path string) ([]services.MembershipChange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changes file: %w", err)
	}

	var changes []services.MembershipChange
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil, fmt.Errorf("failed to parse changes file: %w", err)
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("changes file %s holds no changes", path)
	}
	return changes, nil
}
