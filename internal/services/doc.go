// Package services defines the external collaborator interfaces the engine
// consumes and their concrete implementations.
//
// Interfaces:
//   - [CatalogSource] : supplies raw playlist/track records and answers
//     per-reference existence queries
//   - [CatalogSink] : accepts artwork uploads and membership mutations
//   - [LocalMetadataSource] : supplies locally stored artwork payloads
//
// Implementations:
//   - [SpotifyCatalog] : CatalogSource + CatalogSink over the Spotify Web
//     API, authenticated via [golang.org/x/oauth2]
//   - [FolderArtwork] : LocalMetadataSource over a directory of extracted
//     artwork files
//
// The package also owns the Spotify reference taxonomy ([ClassifyReference],
// [ExtractID], [ReferenceKind]): URIs, open.spotify.com and api.spotify.com
// URLs, and bare 22-character base62 IDs, plus the [UnavailableURI] dummy
// for items with no remote counterpart.
package services
