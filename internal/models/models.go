// package models defines the data model for the playlist reconciliation engine
package models

import (
	"time"
)

// RefKind identifies what a URI reference points at.
type RefKind int

const (
	KindTrack RefKind = iota
	KindPlaylist
	KindArtwork
)

func (k RefKind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindPlaylist:
		return "playlist"
	case KindArtwork:
		return "artwork"
	default:
		return ""
	}
}

// Reference is any URI-valued pointer to a track, playlist, or artwork asset.
//
// Validation treats all reference kinds uniformly; the kind tag is carried
// through to the per-reference check result.
type Reference interface {
	RefURI() string
	RefKind() RefKind
}

// TrackRef is a Reference to a track.
type TrackRef struct {
	URI string
}

func (r TrackRef) RefURI() string   { return r.URI }
func (r TrackRef) RefKind() RefKind { return KindTrack }

// PlaylistRef is a Reference to a playlist.
type PlaylistRef struct {
	URI string
}

func (r PlaylistRef) RefURI() string   { return r.URI }
func (r PlaylistRef) RefKind() RefKind { return KindPlaylist }

// ArtworkRef is a Reference to an artwork asset, tagged with the URI of the
// track or playlist that carries it.
type ArtworkRef struct {
	URI      string
	OwnerURI string
}

func (r ArtworkRef) RefURI() string   { return r.URI }
func (r ArtworkRef) RefKind() RefKind { return KindArtwork }

// Track represents a single playlist entry.
//
// Position is the ordinal position within its playlist and is significant:
// it reflects user-visible ordering and drives reorder detection.
type Track struct {
	URI          string `json:"uri"`
	Title        string `json:"title"`
	Artist       string `json:"artist,omitempty"`
	ArtworkURI   string `json:"artwork_uri,omitempty"`   // Remote album artwork reference
	LocalArtwork string `json:"local_artwork,omitempty"` // Local artwork path, empty when absent
	Position     int    `json:"position"`
}

// Playlist represents one playlist with its tracks in ordinal order.
type Playlist struct {
	URI        string  `json:"uri"`
	Name       string  `json:"name"`
	ArtworkURI string  `json:"artwork_uri,omitempty"`
	Tracks     []Track `json:"tracks"`
}

// Snapshot is an immutable capture of one or more playlists at a point in
// time. It is never mutated after creation; later state supersedes it as a
// whole new Snapshot.
type Snapshot struct {
	id        string
	takenAt   time.Time
	playlists []Playlist
	index     map[string]int
}

// NewSnapshot creates a Snapshot from playlists in the given order.
// The playlist slice is copied; callers may not mutate the snapshot through it.
func NewSnapshot(id string, takenAt time.Time, playlists []Playlist) *Snapshot {
	copied := make([]Playlist, len(playlists))
	index := make(map[string]int, len(playlists))
	for i, pl := range playlists {
		tracks := make([]Track, len(pl.Tracks))
		copy(tracks, pl.Tracks)
		pl.Tracks = tracks
		copied[i] = pl
		index[pl.URI] = i
	}
	return &Snapshot{id: id, takenAt: takenAt, playlists: copied, index: index}
}

// ID returns the snapshot's unique identifier.
func (s *Snapshot) ID() string { return s.id }

// TakenAt returns the capture timestamp.
func (s *Snapshot) TakenAt() time.Time { return s.takenAt }

// Playlists returns the playlists in snapshot order. The returned slice must
// be treated as read-only.
func (s *Snapshot) Playlists() []Playlist { return s.playlists }

// Playlist returns the playlist with the given URI, if present.
func (s *Snapshot) Playlist(uri string) (Playlist, bool) {
	i, ok := s.index[uri]
	if !ok {
		return Playlist{}, false
	}
	return s.playlists[i], true
}

// Len returns the number of playlists captured.
func (s *Snapshot) Len() int { return len(s.playlists) }

// TrackCount returns the total number of tracks across all playlists.
func (s *Snapshot) TrackCount() int {
	n := 0
	for _, pl := range s.playlists {
		n += len(pl.Tracks)
	}
	return n
}

// References returns every distinct reference in the snapshot in traversal
// order: playlists in snapshot order; within each playlist the playlist URI,
// its artwork URI, then each track's URI and artwork URI in ordinal order.
// Repeated URIs keep their first occurrence only.
func (s *Snapshot) References() []Reference {
	var refs []Reference
	seen := make(map[string]bool)

	add := func(r Reference) {
		if r.RefURI() == "" || seen[r.RefURI()] {
			return
		}
		seen[r.RefURI()] = true
		refs = append(refs, r)
	}

	for _, pl := range s.playlists {
		add(PlaylistRef{URI: pl.URI})
		add(ArtworkRef{URI: pl.ArtworkURI, OwnerURI: pl.URI})
		for _, tr := range pl.Tracks {
			add(TrackRef{URI: tr.URI})
			add(ArtworkRef{URI: tr.ArtworkURI, OwnerURI: tr.URI})
		}
	}

	return refs
}

// CheckMode selects how much work URI validation does.
type CheckMode int

const (
	// ModeFull inspects reference schemas and confirms reachability
	// against the remote catalog.
	ModeFull CheckMode = iota
	// ModeSimple is schema-only inspection. It never issues a remote query;
	// reachability is reported as unknown.
	ModeSimple
)

func (m CheckMode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSimple:
		return "simple"
	default:
		return ""
	}
}

// Classification is the validation outcome for a single reference.
type Classification int

const (
	ClassValid Classification = iota
	ClassMalformed
	ClassUnreachable
	ClassUnknown
)

func (c Classification) String() string {
	switch c {
	case ClassValid:
		return "valid"
	case ClassMalformed:
		return "malformed"
	case ClassUnreachable:
		return "unreachable"
	case ClassUnknown:
		return "unknown"
	default:
		return ""
	}
}

// URICheckResult is the per-reference record produced by a validation run.
type URICheckResult struct {
	Reference      string         `json:"reference"`
	Kind           RefKind        `json:"-"`
	KindName       string         `json:"kind"`
	Classification Classification `json:"-"`
	Class          string         `json:"classification"`
	Mode           CheckMode      `json:"-"`
	ModeName       string         `json:"mode"`
	Detail         string         `json:"detail,omitempty"` // Collaborator error text, if any
}

// NewURICheckResult builds a URICheckResult with the display names filled in.
func NewURICheckResult(ref Reference, class Classification, mode CheckMode, detail string) URICheckResult {
	return URICheckResult{
		Reference:      ref.RefURI(),
		Kind:           ref.RefKind(),
		KindName:       ref.RefKind().String(),
		Classification: class,
		Class:          class.String(),
		Mode:           mode,
		ModeName:       mode.String(),
		Detail:         detail,
	}
}

// ArtworkAction is the resolution action taken for one entry.
type ArtworkAction int

const (
	ActionNone ArtworkAction = iota
	ActionExtractedLocal
	ActionExtractedRemote
	ActionMissingBoth
)

func (a ArtworkAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionExtractedLocal:
		return "extracted-from-local"
	case ActionExtractedRemote:
		return "extracted-from-remote"
	case ActionMissingBoth:
		return "missing-both"
	default:
		return ""
	}
}

// ArtworkRecord is the per-entry outcome of an artwork resolution pass.
type ArtworkRecord struct {
	OwnerURI  string        `json:"owner_uri"`
	Kind      RefKind       `json:"-"`
	KindName  string        `json:"kind"`
	HasLocal  bool          `json:"has_local"`
	HasRemote bool          `json:"has_remote"`
	Conflict  bool          `json:"conflict,omitempty"`
	Action    ArtworkAction `json:"-"`
	ActName   string        `json:"action"`
	Detail    string        `json:"detail,omitempty"`
}

// DiffResult describes how one playlist changed between two snapshots.
//
// Every track URI present in either side appears in exactly one of
// Added, Removed, Reordered, or the Unchanged count. Added and Removed never
// intersect.
type DiffResult struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Reordered []string `json:"reordered"`
	Unchanged int      `json:"unchanged"`
}

// Empty reports whether the playlist saw no change at all.
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Reordered) == 0
}
