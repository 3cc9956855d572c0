// Spotify reference taxonomy.
//
// A reference may take one of four shapes: a URI ("spotify:<kind>:<id>"),
// an open.spotify.com URL, an api.spotify.com URL, or a bare 22-character
// base62 ID. Everything else is malformed.
package services

import (
	"strings"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyExtURL   = "https://open.spotify.com"

	// UnavailableURI marks an item that intentionally has no remote
	// counterpart. It is schema-valid but excluded from all remote logic.
	UnavailableURI = "spotify:track:unavailable"

	idLength = 22
)

// IDType is the shape a Spotify reference takes.
type IDType int

const (
	TypeInvalid IDType = iota
	TypeURI            // spotify:<kind>:<id>
	TypeURL            // api.spotify.com URL
	TypeURLExt         // open.spotify.com URL
	TypeID             // bare 22-char base62 ID
)

func (t IDType) String() string {
	switch t {
	case TypeURI:
		return "uri"
	case TypeURL:
		return "url"
	case TypeURLExt:
		return "url_ext"
	case TypeID:
		return "id"
	default:
		return "invalid"
	}
}

// validKinds are the item kinds a URI or URL path may carry.
var validKinds = map[string]bool{
	"track":    true,
	"playlist": true,
	"album":    true,
	"artist":   true,
	"user":     true,
	"episode":  true,
	"show":     true,
}

// isBase62ID reports whether value is a well-formed bare Spotify ID.
func isBase62ID(value string) bool {
	if len(value) != idLength {
		return false
	}
	for _, c := range value {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// ClassifyReference determines the shape of a Spotify reference.
// Returns TypeInvalid when the value matches none of the known shapes.
func ClassifyReference(value string) IDType {
	lower := strings.ToLower(value)

	if strings.HasPrefix(lower, strings.ToLower(spotifyExtURL)) {
		return TypeURLExt
	}
	if strings.HasPrefix(lower, strings.ToLower(spotifyBaseURL)) {
		return TypeURL
	}

	if parts := strings.Split(value, ":"); len(parts) == 3 {
		if parts[0] != "spotify" || !validKinds[parts[1]] {
			return TypeInvalid
		}
		// User IDs are free-form usernames, not base62.
		if parts[1] == "user" && parts[2] != "" {
			return TypeURI
		}
		if value == UnavailableURI || isBase62ID(parts[2]) {
			return TypeURI
		}
		return TypeInvalid
	}

	if isBase62ID(value) {
		return TypeID
	}

	return TypeInvalid
}

// ReferenceKind extracts the item kind ("track", "playlist", ...) carried by
// a URI or URL reference. Returns "" for bare IDs and malformed values.
func ReferenceKind(value string) string {
	switch ClassifyReference(value) {
	case TypeURI:
		return strings.Split(value, ":")[1]
	case TypeURL, TypeURLExt:
		trimmed := strings.TrimPrefix(strings.TrimPrefix(value, spotifyBaseURL), spotifyExtURL)
		parts := strings.Split(strings.Trim(trimmed, "/"), "/")
		if len(parts) >= 1 {
			kind := strings.TrimSuffix(parts[0], "s")
			if validKinds[kind] {
				return kind
			}
		}
	}
	return ""
}

// ExtractID pulls the bare ID out of any reference shape.
// Returns "" when the reference is malformed.
func ExtractID(value string) string {
	switch ClassifyReference(value) {
	case TypeID:
		return value
	case TypeURI:
		return strings.Split(value, ":")[2]
	case TypeURL, TypeURLExt:
		trimmed := strings.TrimPrefix(strings.TrimPrefix(value, spotifyBaseURL), spotifyExtURL)
		parts := strings.Split(strings.Trim(trimmed, "/"), "/")
		if len(parts) >= 2 {
			// Drop query parameters from share links.
			id, _, _ := strings.Cut(parts[1], "?")
			if isBase62ID(id) {
				return id
			}
		}
	}
	return ""
}

// IsUnavailableURI reports whether value is the dummy URI for items with no
// remote counterpart.
func IsUnavailableURI(value string) bool {
	return value == UnavailableURI
}

// IsArtworkURL reports whether value looks like a fetchable artwork location.
// Artwork references are plain https URLs served off Spotify's image CDN, not
// spotify: URIs.
func IsArtworkURL(value string) bool {
	return strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "http://")
}
