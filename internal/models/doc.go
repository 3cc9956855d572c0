// Package models defines the domain types for the playlist snapshot
// reconciliation engine.
//
// The package contains two categories of types:
//
// 1. Catalog state: immutable captures of remote playlist state
//   - [Snapshot] : point-in-time capture of one or more playlists
//   - [Playlist] : one playlist with tracks in ordinal order
//   - [Track] : a playlist entry with its URI and artwork references
//
// 2. Engine results: transient records produced per operation run
//   - [URICheckResult] : per-reference validation outcome
//   - [ArtworkRecord] : per-entry artwork resolution outcome
//   - [DiffResult] : per-playlist structural change set
//
// The [Reference] interface abstracts over track, playlist, and artwork URIs
// so validation logic treats all three uniformly. Snapshots are constructed
// once via [NewSnapshot] and never mutated; later catalog state supersedes a
// snapshot rather than editing it.
package models
