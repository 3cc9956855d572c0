package engine

import (
	"bytes"
	"context"
	"sync"

	"github.com/geo-martino/syncify/internal/models"
)

// Direction selects what the artwork pass does with each entry.
type Direction int

const (
	// ExtractLocal pushes locally stored artwork to entries missing it remotely.
	ExtractLocal Direction = iota
	// ExtractRemote downloads remote artwork for entries missing it locally.
	ExtractRemote
	// ReportMissing only reports entries lacking artwork on both sides.
	ReportMissing
)

func (d Direction) String() string {
	switch d {
	case ExtractLocal:
		return "extract-local"
	case ExtractRemote:
		return "extract-remote"
	case ReportMissing:
		return "report-missing"
	default:
		return "unknown"
	}
}

// artworkEntry is one owner (playlist or track) whose artwork state gets
// resolved. remoteURI is the snapshot's recorded remote location; it can be
// empty even when artwork exists remotely, which the live check covers.
type artworkEntry struct {
	owner     string
	kind      models.RefKind
	name      string
	remoteURI string
}

// ResolveArtwork reconciles artwork presence for every playlist and track in
// the snapshot. Report-missing is a pure pass over snapshot and local state;
// the extract directions talk to the catalog and process playlists
// concurrently. Per-entry failures are recorded in the entry's Detail and
// never abort the pass.
func (e *Reconciler) ResolveArtwork(ctx context.Context, snap *models.Snapshot, dir Direction, progress chan<- ProgressUpdate) ([]models.ArtworkRecord, error) {
	playlists := snap.Playlists()

	units := make([][]artworkEntry, len(playlists))
	for i, pl := range playlists {
		units[i] = append(units[i], artworkEntry{
			owner:     pl.URI,
			kind:      models.KindPlaylist,
			name:      pl.Name,
			remoteURI: pl.ArtworkURI,
		})
		for _, tr := range pl.Tracks {
			units[i] = append(units[i], artworkEntry{
				owner:     tr.URI,
				kind:      models.KindTrack,
				name:      tr.Title,
				remoteURI: tr.ArtworkURI,
			})
		}
	}

	if dir == ReportMissing {
		var records []models.ArtworkRecord
		for i, unit := range units {
			e.sendProgress(progress, artworkPlaylistUpdate(i+1, len(units), playlists[i].Name))
			for _, entry := range unit {
				records = append(records, e.reportEntry(entry))
			}
		}
		return records, nil
	}

	limiter := e.newLimiter()
	unitRecords := make([][]models.ArtworkRecord, len(units))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				for _, entry := range units[i] {
					if ctx.Err() != nil {
						return
					}
					unitRecords[i] = append(unitRecords[i], e.resolveEntry(ctx, entry, dir, limiter))
				}
			}
		}()
	}

	total := len(units)
dispatch:
	for i := range units {
		e.sendProgress(progress, artworkPlaylistUpdate(i+1, total, playlists[i].Name))
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var records []models.ArtworkRecord
	for _, ur := range unitRecords {
		records = append(records, ur...)
	}

	if err := ctx.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// reportEntry resolves presence without any remote traffic.
func (e *Reconciler) reportEntry(entry artworkEntry) models.ArtworkRecord {
	_, hasLocal := e.local.LookupArtwork(entry.owner)
	hasRemote := entry.remoteURI != ""

	action := models.ActionNone
	if !hasLocal && !hasRemote {
		action = models.ActionMissingBoth
	}
	return newArtworkRecord(entry, hasLocal, hasRemote, false, action, "")
}

// resolveEntry reconciles one entry in an extract direction.
func (e *Reconciler) resolveEntry(ctx context.Context, entry artworkEntry, dir Direction, limiter waiter) models.ArtworkRecord {
	_, hasLocal := e.local.LookupArtwork(entry.owner)
	hasRemote := entry.remoteURI != ""

	// The snapshot is immutable, so an upload from an earlier pass is only
	// visible through a live presence check.
	if !hasRemote {
		var live bool
		err := retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			live, err = e.source.HasArtwork(ctx, entry.owner)
			return err
		})
		if err != nil {
			return newArtworkRecord(entry, hasLocal, false, false, models.ActionNone, err.Error())
		}
		hasRemote = live
	}

	switch {
	case !hasLocal && !hasRemote:
		return newArtworkRecord(entry, false, false, false, models.ActionMissingBoth, "")

	case hasLocal && hasRemote:
		return e.resolveBoth(ctx, entry, limiter)

	case dir == ExtractLocal && hasLocal:
		return e.extractLocal(ctx, entry, limiter)

	case dir == ExtractRemote && hasRemote:
		return e.extractRemote(ctx, entry, limiter)

	default:
		// Artwork exists only on the side this direction does not push from.
		return newArtworkRecord(entry, hasLocal, hasRemote, false, models.ActionNone, "")
	}
}

// resolveBoth checks consistency when artwork exists on both sides. Payloads
// that differ are flagged as a conflict and left untouched; resolution is
// automatic only when exactly one side has artwork.
func (e *Reconciler) resolveBoth(ctx context.Context, entry artworkEntry, limiter waiter) models.ArtworkRecord {
	if entry.remoteURI == "" {
		// Remote presence came from the live check; there is no recorded
		// location to compare against, so treat the pair as settled.
		return newArtworkRecord(entry, true, true, false, models.ActionNone, "")
	}

	localData, err := e.local.ReadArtwork(entry.owner)
	if err != nil {
		return newArtworkRecord(entry, true, true, false, models.ActionNone, err.Error())
	}

	var remoteData []byte
	err = retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		remoteData, err = e.source.DownloadArtwork(ctx, entry.remoteURI)
		return err
	})
	if err != nil {
		return newArtworkRecord(entry, true, true, false, models.ActionNone, err.Error())
	}

	conflict := !bytes.Equal(localData, remoteData)
	return newArtworkRecord(entry, true, true, conflict, models.ActionNone, "")
}

// extractLocal uploads local-only artwork to the catalog.
func (e *Reconciler) extractLocal(ctx context.Context, entry artworkEntry, limiter waiter) models.ArtworkRecord {
	// Cover upload is a playlist-only API; local-only track artwork stays put.
	if entry.kind != models.KindPlaylist {
		return newArtworkRecord(entry, true, false, false, models.ActionNone, "")
	}

	data, err := e.local.ReadArtwork(entry.owner)
	if err != nil {
		return newArtworkRecord(entry, true, false, false, models.ActionNone, err.Error())
	}

	err = retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		return e.sink.UploadArtwork(ctx, entry.owner, data)
	})
	if err != nil {
		return newArtworkRecord(entry, true, false, false, models.ActionNone, err.Error())
	}
	return newArtworkRecord(entry, true, true, false, models.ActionExtractedLocal, "")
}

// extractRemote downloads remote-only artwork into local storage.
func (e *Reconciler) extractRemote(ctx context.Context, entry artworkEntry, limiter waiter) models.ArtworkRecord {
	if entry.remoteURI == "" {
		// Presence came from the live check; there is no recorded location to
		// download from.
		return newArtworkRecord(entry, false, true, false, models.ActionNone, "")
	}

	var data []byte
	err := retry(ctx, e.opts.MaxRetries, e.opts.RetryBackoff, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		data, err = e.source.DownloadArtwork(ctx, entry.remoteURI)
		return err
	})
	if err != nil {
		return newArtworkRecord(entry, false, true, false, models.ActionNone, err.Error())
	}

	if _, err := e.local.SaveArtwork(entry.owner, data); err != nil {
		return newArtworkRecord(entry, false, true, false, models.ActionNone, err.Error())
	}
	return newArtworkRecord(entry, true, true, false, models.ActionExtractedRemote, "")
}

func newArtworkRecord(entry artworkEntry, hasLocal, hasRemote, conflict bool, action models.ArtworkAction, detail string) models.ArtworkRecord {
	return models.ArtworkRecord{
		OwnerURI:  entry.owner,
		Kind:      entry.kind,
		KindName:  entry.kind.String(),
		HasLocal:  hasLocal,
		HasRemote: hasRemote,
		Conflict:  conflict,
		Action:    action,
		ActName:   action.String(),
		Detail:    detail,
	}
}
