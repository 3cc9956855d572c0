package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
)

// BuildSnapshot converts raw catalog records into a normalized [models.Snapshot].
//
// Pure transformation: tracks are ordered by their reported ordinal position
// and re-numbered contiguously. Fails when any record lacks its identity
// field; a snapshot missing identities cannot be reasoned about downstream.
func BuildSnapshot(raw []services.RawPlaylist, takenAt time.Time) (*models.Snapshot, error) {
	playlists := make([]models.Playlist, 0, len(raw))

	for i, rp := range raw {
		if rp.URI == "" {
			return nil, fmt.Errorf("%w: playlist record %d has no URI", shared.ErrMalformedInput, i)
		}

		pl := models.Playlist{
			URI:        rp.URI,
			Name:       rp.Name,
			ArtworkURI: rp.ArtworkURI,
			Tracks:     make([]models.Track, 0, len(rp.Tracks)),
		}

		for j, rt := range rp.Tracks {
			if rt.URI == "" {
				return nil, fmt.Errorf("%w: track record %d in playlist %s has no URI", shared.ErrMalformedInput, j, rp.URI)
			}
			pl.Tracks = append(pl.Tracks, models.Track{
				URI:        rt.URI,
				Title:      rt.Title,
				Artist:     rt.Artist,
				ArtworkURI: rt.ArtworkURI,
				Position:   rt.Position,
			})
		}

		sort.SliceStable(pl.Tracks, func(a, b int) bool {
			return pl.Tracks[a].Position < pl.Tracks[b].Position
		})
		for j := range pl.Tracks {
			pl.Tracks[j].Position = j
		}

		playlists = append(playlists, pl)
	}

	return models.NewSnapshot(shared.GenerateID(), takenAt, playlists), nil
}
