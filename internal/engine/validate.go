package engine

import (
	"context"
	"sync"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/services"
)

// Validate classifies every distinct reference in the snapshot.
//
// Simple mode is a pure schema inspection pass: it never issues a remote
// query and reports reachability as unknown. Full mode additionally confirms
// reachability against the catalog source, retrying transient failures a
// bounded number of times before downgrading to unreachable.
//
// Results follow snapshot traversal order regardless of how playlist units
// were scheduled. A single unreachable reference never aborts the run; on
// cancellation the results collected so far are returned alongside the
// context error.
func (e *Reconciler) Validate(ctx context.Context, snap *models.Snapshot, mode models.CheckMode, progress chan<- ProgressUpdate) ([]models.URICheckResult, error) {
	if mode == models.ModeSimple {
		return e.validateSimple(snap), nil
	}
	return e.validateFull(ctx, snap, progress)
}

// validateSimple inspects reference schemas only.
func (e *Reconciler) validateSimple(snap *models.Snapshot) []models.URICheckResult {
	refs := snap.References()
	results := make([]models.URICheckResult, 0, len(refs))
	for _, ref := range refs {
		results = append(results, models.NewURICheckResult(ref, schemaClass(ref), models.ModeSimple, ""))
	}
	return results
}

// schemaClass classifies a reference by shape alone. Schema-valid references
// come back unknown: reachability is not decided here.
func schemaClass(ref models.Reference) models.Classification {
	value := ref.RefURI()

	if ref.RefKind() == models.KindArtwork {
		if services.IsArtworkURL(value) {
			return models.ClassUnknown
		}
		return models.ClassMalformed
	}

	if services.ClassifyReference(value) == services.TypeInvalid {
		return models.ClassMalformed
	}
	return models.ClassUnknown
}

// validateFull confirms reachability per reference, processing playlists
// concurrently under the engine's worker and rate limits.
func (e *Reconciler) validateFull(ctx context.Context, snap *models.Snapshot, progress chan<- ProgressUpdate) ([]models.URICheckResult, error) {
	playlists := snap.Playlists()

	// Assign references to playlist units up front so global first-occurrence
	// dedup stays deterministic regardless of scheduling.
	units := make([][]models.Reference, len(playlists))
	seen := make(map[string]bool)
	for i, pl := range playlists {
		add := func(r models.Reference) {
			if r.RefURI() == "" || seen[r.RefURI()] {
				return
			}
			seen[r.RefURI()] = true
			units[i] = append(units[i], r)
		}
		add(models.PlaylistRef{URI: pl.URI})
		add(models.ArtworkRef{URI: pl.ArtworkURI, OwnerURI: pl.URI})
		for _, tr := range pl.Tracks {
			add(models.TrackRef{URI: tr.URI})
			add(models.ArtworkRef{URI: tr.ArtworkURI, OwnerURI: tr.URI})
		}
	}

	limiter := e.newLimiter()
	unitResults := make([][]models.URICheckResult, len(units))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				unitResults[i] = e.validateUnit(ctx, units[i], limiter)
			}
		}()
	}

	total := len(units)
dispatch:
	for i := range units {
		e.sendProgress(progress, validatePlaylistUpdate(i+1, total, playlists[i].Name))
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	// Flatten in snapshot order; cancelled units flush what they collected.
	var results []models.URICheckResult
	for _, ur := range unitResults {
		results = append(results, ur...)
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// validateUnit classifies one playlist's references sequentially.
// Returns early with partial results when the context is cancelled.
func (e *Reconciler) validateUnit(ctx context.Context, refs []models.Reference, limiter waiter) []models.URICheckResult {
	results := make([]models.URICheckResult, 0, len(refs))

	for _, ref := range refs {
		if ctx.Err() != nil {
			return results
		}
		results = append(results, e.checkReference(ctx, ref, limiter))
	}
	return results
}

// checkReference resolves one reference in full mode.
func (e *Reconciler) checkReference(ctx context.Context, ref models.Reference, limiter waiter) models.URICheckResult {
	if class := schemaClass(ref); class == models.ClassMalformed {
		return models.NewURICheckResult(ref, models.ClassMalformed, models.ModeFull, "")
	}

	// The unavailable dummy is schema-valid but intentionally has no remote
	// counterpart; it is never queried.
	if services.IsUnavailableURI(ref.RefURI()) {
		return models.NewURICheckResult(ref, models.ClassUnknown, models.ModeFull, "")
	}

	var exists bool
	err := retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		exists, err = e.source.URIExists(ctx, ref.RefURI())
		return err
	})

	switch {
	case err == nil && exists:
		return models.NewURICheckResult(ref, models.ClassValid, models.ModeFull, "")
	case err == nil:
		return models.NewURICheckResult(ref, models.ClassUnreachable, models.ModeFull, "confirmed absent")
	default:
		return models.NewURICheckResult(ref, models.ClassUnreachable, models.ModeFull, err.Error())
	}
}
