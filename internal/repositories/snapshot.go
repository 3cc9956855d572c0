package repositories

import (
	"database/sql"
	"fmt"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/shared"
)

// defaultCatalogID scopes the baseline. A single authenticated user has one
// catalog, so one baseline row exists at a time.
const defaultCatalogID = "default"

// SnapshotRepository persists baseline snapshots in SQLite.
//
// Implements the engine's BaselineStore: SaveBaseline atomically replaces the
// previous baseline, LoadBaseline reconstructs it with playlists and tracks
// in their captured order.
type SnapshotRepository struct {
	db        *sql.DB
	catalogID string
}

// NewSnapshotRepository creates a SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, catalogID: defaultCatalogID}
}

// SaveBaseline replaces the stored baseline with snap in one transaction.
// A failure at any point leaves the previous baseline untouched.
func (r *SnapshotRepository) SaveBaseline(snap *models.Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", shared.ErrPersistence, err)
	}
	defer tx.Rollback()

	var previousID string
	err = tx.QueryRow(`SELECT id FROM snapshots WHERE catalog_id = ?`, r.catalogID).Scan(&previousID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("%w: query previous baseline: %v", shared.ErrPersistence, err)
	}
	if previousID != "" {
		for _, stmt := range []string{
			`DELETE FROM snapshot_tracks WHERE snapshot_id = ?`,
			`DELETE FROM snapshot_playlists WHERE snapshot_id = ?`,
			`DELETE FROM snapshots WHERE id = ?`,
		} {
			if _, err := tx.Exec(stmt, previousID); err != nil {
				return fmt.Errorf("%w: clear previous baseline: %v", shared.ErrPersistence, err)
			}
		}
	}

	_, err = tx.Exec(
		`INSERT INTO snapshots (id, catalog_id, taken_at) VALUES (?, ?, ?)`,
		snap.ID(), r.catalogID, snap.TakenAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert snapshot: %v", shared.ErrPersistence, err)
	}

	for pos, pl := range snap.Playlists() {
		_, err = tx.Exec(
			`INSERT INTO snapshot_playlists (snapshot_id, uri, name, artwork_uri, position) VALUES (?, ?, ?, ?, ?)`,
			snap.ID(), pl.URI, pl.Name, pl.ArtworkURI, pos,
		)
		if err != nil {
			return fmt.Errorf("%w: insert playlist %s: %v", shared.ErrPersistence, pl.URI, err)
		}

		for _, tr := range pl.Tracks {
			_, err = tx.Exec(
				`INSERT INTO snapshot_tracks (snapshot_id, playlist_uri, uri, title, artist, artwork_uri, local_artwork, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				snap.ID(), pl.URI, tr.URI, tr.Title, tr.Artist, tr.ArtworkURI, tr.LocalArtwork, tr.Position,
			)
			if err != nil {
				return fmt.Errorf("%w: insert track %s: %v", shared.ErrPersistence, tr.URI, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit baseline: %v", shared.ErrPersistence, err)
	}
	return nil
}

// LoadBaseline reconstructs the stored baseline snapshot. Returns
// shared.ErrNoBaseline when none has been persisted.
func (r *SnapshotRepository) LoadBaseline() (*models.Snapshot, error) {
	var (
		id      string
		takenAt sql.NullTime
	)
	err := r.db.QueryRow(
		`SELECT id, taken_at FROM snapshots WHERE catalog_id = ?`, r.catalogID,
	).Scan(&id, &takenAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNoBaseline
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query baseline: %v", shared.ErrPersistence, err)
	}

	playlists, err := r.loadPlaylists(id)
	if err != nil {
		return nil, err
	}

	tracks, err := r.loadTracks(id)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		playlists[i].Tracks = tracks[playlists[i].URI]
	}

	return models.NewSnapshot(id, takenAt.Time, playlists), nil
}

func (r *SnapshotRepository) loadPlaylists(snapshotID string) ([]models.Playlist, error) {
	rows, err := r.db.Query(
		`SELECT uri, name, artwork_uri FROM snapshot_playlists WHERE snapshot_id = ? ORDER BY position`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query playlists: %v", shared.ErrPersistence, err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var (
			pl      models.Playlist
			artwork sql.NullString
		)
		if err := rows.Scan(&pl.URI, &pl.Name, &artwork); err != nil {
			return nil, fmt.Errorf("%w: scan playlist: %v", shared.ErrPersistence, err)
		}
		pl.ArtworkURI = artwork.String
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate playlists: %v", shared.ErrPersistence, err)
	}
	return playlists, nil
}

func (r *SnapshotRepository) loadTracks(snapshotID string) (map[string][]models.Track, error) {
	rows, err := r.db.Query(
		`SELECT playlist_uri, uri, title, artist, artwork_uri, local_artwork, position
		 FROM snapshot_tracks WHERE snapshot_id = ? ORDER BY playlist_uri, position`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query tracks: %v", shared.ErrPersistence, err)
	}
	defer rows.Close()

	tracks := make(map[string][]models.Track)
	for rows.Next() {
		var (
			playlistURI            string
			tr                     models.Track
			artist, artwork, local sql.NullString
		)
		if err := rows.Scan(&playlistURI, &tr.URI, &tr.Title, &artist, &artwork, &local, &tr.Position); err != nil {
			return nil, fmt.Errorf("%w: scan track: %v", shared.ErrPersistence, err)
		}
		tr.Artist = artist.String
		tr.ArtworkURI = artwork.String
		tr.LocalArtwork = local.String
		tracks[playlistURI] = append(tracks[playlistURI], tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tracks: %v", shared.ErrPersistence, err)
	}
	return tracks, nil
}
