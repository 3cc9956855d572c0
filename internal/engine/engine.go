package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
)

// BaselineStore persists the baseline snapshot between runs.
type BaselineStore interface {
	// SaveBaseline atomically replaces the stored baseline.
	SaveBaseline(snap *models.Snapshot) error

	// LoadBaseline returns the stored baseline, or shared.ErrNoBaseline when
	// none has been persisted yet.
	LoadBaseline() (*models.Snapshot, error)
}

// Options tunes how the engine talks to its collaborators.
type Options struct {
	Workers      int           // Concurrent playlist units for remote passes
	RateLimit    float64       // Remote requests per second across all workers
	MaxRetries   int           // Attempts per remote call before downgrading
	RetryBackoff time.Duration // Initial backoff, doubled per transient retry
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = 1
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 500 * time.Millisecond
	}
	return o
}

// Engine defines the reconciliation operations the CLI drives.
type Engine interface {
	// Refresh captures the current catalog state and persists it as the new baseline.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error)

	// Update persists a fresh baseline and applies queued membership changes to the catalog.
	Update(ctx context.Context, changes []services.MembershipChange, dryRun bool, progress chan<- ProgressUpdate) (*UpdateResult, error)

	// Differences compares the persisted baseline against a fresh capture of the catalog.
	Differences(ctx context.Context, progress chan<- ProgressUpdate) (*DiffReport, error)

	// Check captures the current catalog and validates every reference in it.
	Check(ctx context.Context, mode models.CheckMode, progress chan<- ProgressUpdate) (*CheckReport, error)

	// Artwork captures the current catalog and reconciles artwork in the given direction.
	Artwork(ctx context.Context, dir Direction, progress chan<- ProgressUpdate) (*ArtworkReport, error)
}

// Reconciler implements Engine: it orchestrates snapshot capture, validation,
// artwork resolution, diffing and baseline persistence against the injected
// collaborators.
type Reconciler struct {
	source services.CatalogSource
	sink   services.CatalogSink
	local  services.LocalMetadataSource
	store  BaselineStore
	logger *log.Logger
	opts   Options
}

// NewReconciler constructs an engine around the given collaborators.
func NewReconciler(source services.CatalogSource, sink services.CatalogSink, local services.LocalMetadataSource, store BaselineStore, logger *log.Logger, opts Options) *Reconciler {
	return &Reconciler{
		source: source,
		sink:   sink,
		local:  local,
		store:  store,
		logger: logger,
		opts:   opts.withDefaults(),
	}
}

// waiter is the slice of rate.Limiter the engine depends on.
type waiter interface {
	Wait(ctx context.Context) error
}

// newLimiter returns a fresh limiter per operation so one long-running pass
// never starves a later one of burst capacity.
func (e *Reconciler) newLimiter() waiter {
	return rate.NewLimiter(rate.Limit(e.opts.RateLimit), 1)
}

// sendProgress delivers an update without ever blocking the pipeline.
func (e *Reconciler) sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}

// BuildCurrent captures a fresh snapshot of the remote catalog. Fetch
// failures that survive retry are fatal; there is nothing to reconcile
// without a catalog.
func (e *Reconciler) BuildCurrent(ctx context.Context, progress chan<- ProgressUpdate) (*models.Snapshot, error) {
	e.sendProgress(progress, buildSnapshotUpdate(0, 1))

	var raw []services.RawPlaylist
	err := retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
		var err error
		raw, err = e.source.FetchCatalog(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching catalog from %s: %w", e.source.Name(), err)
	}

	snap, err := BuildSnapshot(raw, time.Now())
	if err != nil {
		return nil, err
	}

	e.logger.Debug("captured snapshot", "id", snap.ID(), "playlists", snap.Len(), "tracks", snap.TrackCount())
	e.sendProgress(progress, builtSnapshotUpdate(snap.Len(), snap.TrackCount()))
	return snap, nil
}

// RefreshResult summarizes a baseline refresh.
type RefreshResult struct {
	SnapshotID string    `json:"snapshot_id"`
	TakenAt    time.Time `json:"taken_at"`
	Playlists  int       `json:"playlists"`
	Tracks     int       `json:"tracks"`
}

// Refresh captures the current catalog state and persists it as the new
// baseline, replacing any previous one.
func (e *Reconciler) Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	snap, err := e.BuildCurrent(ctx, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, persistBaselineUpdate(snap.ID()))
	if err := e.store.SaveBaseline(snap); err != nil {
		return nil, fmt.Errorf("persisting baseline: %w", err)
	}

	return &RefreshResult{
		SnapshotID: snap.ID(),
		TakenAt:    snap.TakenAt(),
		Playlists:  snap.Len(),
		Tracks:     snap.TrackCount(),
	}, nil
}

// ChangeOutcome records how one queued membership change fared.
type ChangeOutcome struct {
	PlaylistURI string `json:"playlist_uri"`
	Added       int    `json:"added"`
	Removed     int    `json:"removed"`
	Error       string `json:"error,omitempty"`
}

// UpdateResult summarizes an update run.
type UpdateResult struct {
	DryRun     bool            `json:"dry_run"`
	Outcomes   []ChangeOutcome `json:"outcomes"`
	Applied    int             `json:"applied"`
	Failed     int             `json:"failed"`
	BaselineID string          `json:"baseline_id,omitempty"`
}

// Update persists a fresh capture as the new baseline and then applies the
// queued membership changes to the catalog. The baseline records the state
// the changes were computed against. A change that targets a playlist absent
// from the snapshot is skipped with an error outcome rather than aborting
// the run. With dryRun set, nothing is sent and no baseline moves.
func (e *Reconciler) Update(ctx context.Context, changes []services.MembershipChange, dryRun bool, progress chan<- ProgressUpdate) (*UpdateResult, error) {
	snap, err := e.BuildCurrent(ctx, progress)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{DryRun: dryRun}
	if !dryRun {
		e.sendProgress(progress, persistBaselineUpdate(snap.ID()))
		if err := e.store.SaveBaseline(snap); err != nil {
			return nil, fmt.Errorf("persisting baseline: %w", err)
		}
		result.BaselineID = snap.ID()
	}

	limiter := e.newLimiter()

	for i, change := range changes {
		e.sendProgress(progress, applyChangesUpdate(i+1, len(changes), change.PlaylistURI))

		outcome := ChangeOutcome{
			PlaylistURI: change.PlaylistURI,
			Added:       len(change.Add),
			Removed:     len(change.Remove),
		}

		if _, ok := snap.Playlist(change.PlaylistURI); !ok {
			outcome.Error = fmt.Sprintf("%v: %s", shared.ErrPlaylistNotFound, change.PlaylistURI)
		} else if !dryRun {
			err := retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				return e.sink.ApplyMembership(ctx, change)
			})
			if err != nil {
				outcome.Error = err.Error()
			}
		}

		if outcome.Error == "" {
			result.Applied++
		} else {
			result.Failed++
			e.logger.Warn("membership change failed", "playlist", change.PlaylistURI, "error", outcome.Error)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// DiffReport summarizes the differences between the baseline and the current
// catalog state.
type DiffReport struct {
	BaselineID      string                       `json:"baseline_id"`
	BaselineTakenAt time.Time                    `json:"baseline_taken_at"`
	BaselineAge     string                       `json:"baseline_age"`
	CurrentID       string                       `json:"current_id"`
	Playlists       map[string]models.DiffResult `json:"playlists"`
	TotalAdded      int                          `json:"total_added"`
	TotalRemoved    int                          `json:"total_removed"`
	TotalReordered  int                          `json:"total_reordered"`
	TotalUnchanged  int                          `json:"total_unchanged"`
	Clean           bool                         `json:"clean"`
}

// Differences compares the persisted baseline against a fresh capture of the
// catalog. A missing baseline is fatal; run a refresh first.
func (e *Reconciler) Differences(ctx context.Context, progress chan<- ProgressUpdate) (*DiffReport, error) {
	baseline, err := e.store.LoadBaseline()
	if err != nil {
		return nil, err
	}

	current, err := e.BuildCurrent(ctx, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, computeDiffUpdate(1, 1))
	diffs := Diff(baseline, current)

	report := &DiffReport{
		BaselineID:      baseline.ID(),
		BaselineTakenAt: baseline.TakenAt(),
		BaselineAge:     time.Since(baseline.TakenAt()).Round(time.Second).String(),
		CurrentID:       current.ID(),
		Playlists:       diffs,
		Clean:           true,
	}
	for _, d := range diffs {
		report.TotalAdded += len(d.Added)
		report.TotalRemoved += len(d.Removed)
		report.TotalReordered += len(d.Reordered)
		report.TotalUnchanged += d.Unchanged
		if !d.Empty() {
			report.Clean = false
		}
	}
	return report, nil
}

// CheckReport summarizes a reference validation run.
type CheckReport struct {
	SnapshotID  string                  `json:"snapshot_id"`
	Mode        string                  `json:"mode"`
	Results     []models.URICheckResult `json:"results"`
	Valid       int                     `json:"valid"`
	Malformed   int                     `json:"malformed"`
	Unreachable int                     `json:"unreachable"`
	Unknown     int                     `json:"unknown"`
	Partial     bool                    `json:"partial,omitempty"` // Run was cancelled; results are incomplete
}

// Check captures the current catalog and validates every reference in it.
// On cancellation the report carries the partial results alongside the error.
func (e *Reconciler) Check(ctx context.Context, mode models.CheckMode, progress chan<- ProgressUpdate) (*CheckReport, error) {
	snap, err := e.BuildCurrent(ctx, progress)
	if err != nil {
		return nil, err
	}

	results, verr := e.Validate(ctx, snap, mode, progress)

	report := &CheckReport{
		SnapshotID: snap.ID(),
		Mode:       mode.String(),
		Results:    results,
		Partial:    verr != nil,
	}
	for _, r := range results {
		switch r.Classification {
		case models.ClassValid:
			report.Valid++
		case models.ClassMalformed:
			report.Malformed++
		case models.ClassUnreachable:
			report.Unreachable++
		case models.ClassUnknown:
			report.Unknown++
		}
	}
	return report, verr
}

// ArtworkReport summarizes an artwork resolution pass.
type ArtworkReport struct {
	SnapshotID string                `json:"snapshot_id"`
	Direction  string                `json:"direction"`
	Records    []models.ArtworkRecord `json:"records"`
	Extracted  int                   `json:"extracted"`
	Missing    int                   `json:"missing"`
	Conflicts  int                   `json:"conflicts"`
	Failures   int                   `json:"failures"`
	Partial    bool                  `json:"partial,omitempty"`
}

// Artwork captures the current catalog and reconciles artwork in the given
// direction. On cancellation the report carries the partial records alongside
// the error.
func (e *Reconciler) Artwork(ctx context.Context, dir Direction, progress chan<- ProgressUpdate) (*ArtworkReport, error) {
	snap, err := e.BuildCurrent(ctx, progress)
	if err != nil {
		return nil, err
	}

	records, rerr := e.ResolveArtwork(ctx, snap, dir, progress)

	report := &ArtworkReport{
		SnapshotID: snap.ID(),
		Direction:  dir.String(),
		Records:    records,
		Partial:    rerr != nil,
	}
	for _, r := range records {
		switch {
		case r.Action == models.ActionExtractedLocal || r.Action == models.ActionExtractedRemote:
			report.Extracted++
		case r.Action == models.ActionMissingBoth:
			report.Missing++
		}
		if r.Conflict {
			report.Conflicts++
		}
		if r.Detail != "" {
			report.Failures++
		}
	}
	return report, rerr
}
