package engine

import (
	"github.com/geo-martino/syncify/internal/models"
)

// Diff compares two snapshots and reports per-playlist change sets keyed by
// playlist URI.
//
// Reorder detection is a direct positional comparison: any track present in
// both sides at a different ordinal position is reported as reordered, even
// when neighbouring tracks also moved. No edit-distance minimization is
// attempted; the result is O(n) and deterministic, so running twice on the
// same pair yields identical output.
func Diff(oldSnap, newSnap *models.Snapshot) map[string]models.DiffResult {
	results := make(map[string]models.DiffResult)

	for _, pl := range oldSnap.Playlists() {
		newPl, inNew := newSnap.Playlist(pl.URI)
		if !inNew {
			// Playlist removed wholesale: every track is a removal.
			results[pl.URI] = models.DiffResult{
				Added:     []string{},
				Removed:   trackURIs(pl),
				Reordered: []string{},
			}
			continue
		}
		results[pl.URI] = diffPlaylist(pl, newPl)
	}

	for _, pl := range newSnap.Playlists() {
		if _, inOld := oldSnap.Playlist(pl.URI); inOld {
			continue
		}
		// Playlist added wholesale: every track is an addition.
		results[pl.URI] = models.DiffResult{
			Added:     trackURIs(pl),
			Removed:   []string{},
			Reordered: []string{},
		}
	}

	return results
}

// diffPlaylist compares one playlist present in both snapshots.
func diffPlaylist(oldPl, newPl models.Playlist) models.DiffResult {
	oldPos := positions(oldPl)
	newPos := positions(newPl)

	result := models.DiffResult{
		Added:     []string{},
		Removed:   []string{},
		Reordered: []string{},
	}

	// Removals in old ordinal order; additions and reorders in new ordinal
	// order. Iterating the track slices keeps the output deterministic, and
	// only the first occurrence of a duplicate URI is classified.
	seenOld := make(map[string]bool, len(oldPl.Tracks))
	for _, tr := range oldPl.Tracks {
		if seenOld[tr.URI] {
			continue
		}
		seenOld[tr.URI] = true
		if _, ok := newPos[tr.URI]; !ok {
			result.Removed = append(result.Removed, tr.URI)
		}
	}

	seenNew := make(map[string]bool, len(newPl.Tracks))
	for _, tr := range newPl.Tracks {
		if seenNew[tr.URI] {
			continue
		}
		seenNew[tr.URI] = true
		op, ok := oldPos[tr.URI]
		switch {
		case !ok:
			result.Added = append(result.Added, tr.URI)
		case op != tr.Position:
			result.Reordered = append(result.Reordered, tr.URI)
		default:
			result.Unchanged++
		}
	}

	return result
}

func positions(pl models.Playlist) map[string]int {
	pos := make(map[string]int, len(pl.Tracks))
	for _, tr := range pl.Tracks {
		// First occurrence wins for duplicate entries.
		if _, ok := pos[tr.URI]; !ok {
			pos[tr.URI] = tr.Position
		}
	}
	return pos
}

func trackURIs(pl models.Playlist) []string {
	uris := make([]string, 0, len(pl.Tracks))
	seen := make(map[string]bool, len(pl.Tracks))
	for _, tr := range pl.Tracks {
		if !seen[tr.URI] {
			seen[tr.URI] = true
			uris = append(uris, tr.URI)
		}
	}
	return uris
}
