package main

import (
	"context"

	"github.com/geo-martino/syncify/internal/engine"
	"github.com/geo-martino/syncify/internal/formatter"
	"github.com/urfave/cli/v3"
)

// ArtworkStatus reports artwork presence for every playlist and track.
func (r *Runner) ArtworkStatus(ctx context.Context, cmd *cli.Command) error {
	return r.runArtwork(ctx, cmd, engine.ReportMissing, false)
}

// ArtworkMissing lists entries with no artwork on either side.
func (r *Runner) ArtworkMissing(ctx context.Context, cmd *cli.Command) error {
	return r.runArtwork(ctx, cmd, engine.ReportMissing, true)
}

// ArtworkExtractLocal uploads local artwork to entries missing it on Spotify.
func (r *Runner) ArtworkExtractLocal(ctx context.Context, cmd *cli.Command) error {
	return r.runArtwork(ctx, cmd, engine.ExtractLocal, false)
}

// ArtworkExtractSpotify downloads Spotify artwork for entries missing it locally.
func (r *Runner) ArtworkExtractSpotify(ctx context.Context, cmd *cli.Command) error {
	return r.runArtwork(ctx, cmd, engine.ExtractRemote, false)
}

func (r *Runner) runArtwork(ctx context.Context, cmd *cli.Command, dir engine.Direction, onlyMissing bool) error {
	eng, cleanup, err := r.reconciler(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	r.logger.Info("resolving artwork", "direction", dir.String())
	progressCh := make(chan engine.ProgressUpdate, 50)
	done := r.watchProgress(progressCh)

	report, err := eng.Artwork(ctx, dir, progressCh)
	close(progressCh)
	<-done
	if err != nil && report == nil {
		return err
	}

	if werr := r.writeReport(cmd, report, formatter.ArtworkToText(report, onlyMissing)); werr != nil {
		return werr
	}
	return err
}
