// package services defines the collaborator interfaces the engine consumes
//
// Spotify (remote catalog), local artwork folder
package services

import (
	"context"
)

// RawTrack is one per-track record as supplied by a catalog source.
type RawTrack struct {
	URI        string
	Title      string
	Artist     string
	ArtworkURI string
	Position   int
}

// RawPlaylist is one per-playlist record as supplied by a catalog source.
type RawPlaylist struct {
	URI        string
	Name       string
	ArtworkURI string
	Tracks     []RawTrack
}

// CatalogSource supplies raw playlist/track records and answers existence
// queries for a URI. Implementations may be slow or rate-limited; callers
// retry transient failures a bounded number of times.
type CatalogSource interface {
	// Name returns the name of the catalog service (e.g. "Spotify").
	Name() string

	// FetchCatalog retrieves all playlists with their tracks for the
	// authenticated user.
	FetchCatalog(ctx context.Context) ([]RawPlaylist, error)

	// URIExists reports whether the given reference resolves on the remote
	// service. A false return with nil error means the service confirmed
	// absence.
	URIExists(ctx context.Context, uri string) (bool, error)

	// DownloadArtwork fetches the artwork payload behind an artwork URI.
	DownloadArtwork(ctx context.Context, uri string) ([]byte, error)

	// HasArtwork reports whether the entry identified by ownerURI currently
	// carries artwork on the remote service. Unlike the snapshot's artwork
	// flags this reflects live state, so a just-uploaded image is visible to
	// a subsequent resolution pass.
	HasArtwork(ctx context.Context, ownerURI string) (bool, error)
}

// MembershipChange describes queued playlist membership mutations for one
// playlist, computed by an update run.
type MembershipChange struct {
	PlaylistURI string   `json:"playlist_uri"`
	Add         []string `json:"add,omitempty"`    // Track URIs to append
	Remove      []string `json:"remove,omitempty"` // Track URIs to remove
}

// CatalogSink accepts artwork uploads and playlist membership mutations.
type CatalogSink interface {
	// UploadArtwork attaches an artwork payload to the playlist or track
	// identified by ownerURI.
	UploadArtwork(ctx context.Context, ownerURI string, payload []byte) error

	// ApplyMembership applies queued additions/removals to one playlist.
	ApplyMembership(ctx context.Context, change MembershipChange) error
}

// LocalMetadataSource supplies artwork payloads embedded in or stored beside
// local files, keyed by track/playlist identity.
type LocalMetadataSource interface {
	// LookupArtwork returns the local artwork path for an identity, if any.
	LookupArtwork(id string) (string, bool)

	// ReadArtwork returns the artwork payload for an identity.
	ReadArtwork(id string) ([]byte, error)

	// SaveArtwork stores a downloaded payload locally and returns its path.
	SaveArtwork(id string, payload []byte) (string, error)
}
