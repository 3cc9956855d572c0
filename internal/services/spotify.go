// Spotify implementation of [CatalogSource] and [CatalogSink]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geo-martino/syncify/internal/shared"
	"golang.org/x/oauth2"
)

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

type spotifyTrack struct {
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

type spotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   spotifyTrack `json:"track"`
}

type spotifyPaginatedTracks struct {
	Items  []spotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

type spotifySimplePlaylist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

type spotifyPaginatedPlaylists struct {
	Items  []spotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyCatalog implements [CatalogSource] and [CatalogSink] against the
// Spotify Web API. Uses [oauth2] for authentication.
type SpotifyCatalog struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
}

// NewSpotifyCatalog creates a Spotify catalog client with the given credentials.
func NewSpotifyCatalog(cfg shared.SpotifyConfig) (*SpotifyCatalog, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-public",
			"playlist-modify-private",
			"ugc-image-upload",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	c := &SpotifyCatalog{
		config:     config,
		httpClient: http.DefaultClient,
	}

	if cfg.AccessToken != "" {
		c.token = &oauth2.Token{AccessToken: cfg.AccessToken}
		c.httpClient = config.Client(context.Background(), c.token)
	} else if path := TokenPath(cfg); path != "" {
		// A token saved by a previous `auth` run keeps the client authenticated.
		if token, err := LoadToken(path); err == nil {
			c.token = token
			c.httpClient = config.Client(context.Background(), token)
		}
	}

	return c, nil
}

// Token returns the current OAuth token, nil before authentication.
func (c *SpotifyCatalog) Token() *oauth2.Token {
	return c.token
}

// Authenticate exchanges an authorization code for a token. Not needed when
// an access token was supplied in the config.
func (c *SpotifyCatalog) Authenticate(ctx context.Context, authCode string) error {
	if authCode == "" {
		return fmt.Errorf("%w: missing auth code", shared.ErrMissingCredentials)
	}

	token, err := c.config.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	c.token = token
	c.httpClient = c.config.Client(ctx, c.token)
	return nil
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (c *SpotifyCatalog) GetAuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (c *SpotifyCatalog) Name() string {
	return "Spotify"
}

// statusError carries the HTTP status of a failed API call so callers can
// separate confirmed absence from transient outages.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("spotify API error: status %d", e.status)
}

// Unwrap classifies rate limiting and server errors as transient and 409
// responses as conflicts; everything else is a plain API failure.
func (e *statusError) Unwrap() error {
	switch {
	case e.status == http.StatusTooManyRequests || e.status >= 500:
		return shared.ErrTransient
	case e.status == http.StatusConflict:
		return shared.ErrConflict
	default:
		return shared.ErrAPIRequest
	}
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (c *SpotifyCatalog) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if c.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody io.Reader
	contentType := "application/json"
	switch b := body.(type) {
	case nil:
	case []byte:
		// Raw payloads (image upload) go through base64 per the API contract.
		reqBody = bytes.NewReader(b)
		contentType = "image/jpeg"
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// userPlaylists retrieves one page of the current user's playlists.
func (c *SpotifyCatalog) userPlaylists(ctx context.Context, limit, offset int) (*spotifyPaginatedPlaylists, error) {
	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var response spotifyPaginatedPlaylists
	if err := c.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// playlistTracks retrieves one page of a playlist's tracks.
func (c *SpotifyCatalog) playlistTracks(ctx context.Context, playlistID string, limit, offset int) (*spotifyPaginatedTracks, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, limit, offset)

	var response spotifyPaginatedTracks
	if err := c.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// FetchCatalog retrieves all playlists with their tracks for the
// authenticated user, following pagination on both levels.
func (c *SpotifyCatalog) FetchCatalog(ctx context.Context) ([]RawPlaylist, error) {
	var raw []RawPlaylist
	limit := 50
	offset := 0

	for {
		page, err := c.userPlaylists(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlists: %w", err)
		}

		for _, sp := range page.Items {
			pl := RawPlaylist{
				URI:  sp.URI,
				Name: sp.Name,
			}
			if len(sp.Images) > 0 {
				pl.ArtworkURI = sp.Images[0].URL
			}

			tracks, err := c.fetchAllTracks(ctx, sp.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch tracks for %s: %w", sp.URI, err)
			}
			pl.Tracks = tracks

			raw = append(raw, pl)
		}

		if page.Next == nil {
			break
		}
		offset += limit
	}

	return raw, nil
}

// fetchAllTracks follows track pagination for one playlist.
func (c *SpotifyCatalog) fetchAllTracks(ctx context.Context, playlistID string) ([]RawTrack, error) {
	var tracks []RawTrack
	limit := 100
	offset := 0

	for {
		page, err := c.playlistTracks(ctx, playlistID, limit, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			tr := RawTrack{
				URI:      item.Track.URI,
				Title:    item.Track.Name,
				Position: len(tracks),
			}
			// Items stripped of their track payload (removed or region-locked
			// content) keep their slot under the unavailable dummy.
			if tr.URI == "" {
				tr.URI = UnavailableURI
			}
			if len(item.Track.Artists) > 0 {
				tr.Artist = item.Track.Artists[0].Name
			}
			if len(item.Track.Album.Images) > 0 {
				tr.ArtworkURI = item.Track.Album.Images[0].URL
			}
			tracks = append(tracks, tr)
		}

		if page.Next == nil {
			break
		}
		offset += limit
	}

	return tracks, nil
}

// existenceEndpoints maps reference kinds to their lookup endpoints.
var existenceEndpoints = map[string]string{
	"track":    "/tracks/%s",
	"playlist": "/playlists/%s?fields=id",
	"album":    "/albums/%s",
	"artist":   "/artists/%s",
	"episode":  "/episodes/%s",
	"show":     "/shows/%s",
}

// URIExists queries the API for the reference. A 404 or 400 confirms
// absence; rate limiting and server errors surface as transient failures for
// the caller's retry loop.
func (c *SpotifyCatalog) URIExists(ctx context.Context, uri string) (bool, error) {
	if IsArtworkURL(uri) {
		return c.artworkExists(ctx, uri)
	}

	kind := ReferenceKind(uri)
	id := ExtractID(uri)
	pattern, ok := existenceEndpoints[kind]
	if !ok || id == "" {
		return false, fmt.Errorf("%w: cannot resolve reference %q", shared.ErrInvalidInput, uri)
	}

	err := c.doRequest(ctx, "GET", fmt.Sprintf(pattern, id), nil, nil)
	if err == nil {
		return true, nil
	}

	var se *statusError
	if errors.As(err, &se) && (se.status == http.StatusNotFound || se.status == http.StatusBadRequest) {
		return false, nil
	}
	return false, err
}

// artworkExists probes an artwork URL without pulling the payload.
func (c *SpotifyCatalog) artworkExists(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "HEAD", url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return false, fmt.Errorf("%w: status %d", shared.ErrTransient, resp.StatusCode)
	default:
		return false, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
}

// DownloadArtwork fetches the artwork payload behind an artwork URL.
func (c *SpotifyCatalog) DownloadArtwork(ctx context.Context, uri string) ([]byte, error) {
	if !IsArtworkURL(uri) {
		return nil, fmt.Errorf("%w: not an artwork URL: %q", shared.ErrInvalidInput, uri)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download artwork: status %d", shared.ErrArtworkNotFound, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork data: %w", err)
	}

	return payload, nil
}

// HasArtwork reports whether a playlist currently carries cover images.
// Track entries carry album artwork, which the snapshot already records, so
// for non-playlist owners this falls back to the snapshot-visible state and
// reports false.
func (c *SpotifyCatalog) HasArtwork(ctx context.Context, ownerURI string) (bool, error) {
	if ReferenceKind(ownerURI) != "playlist" {
		return false, nil
	}

	id := ExtractID(ownerURI)
	if id == "" {
		return false, fmt.Errorf("%w: invalid playlist reference %q", shared.ErrInvalidInput, ownerURI)
	}

	var images []spotifyImage
	endpoint := fmt.Sprintf("/playlists/%s/images", id)
	if err := c.doRequest(ctx, "GET", endpoint, nil, &images); err != nil {
		return false, err
	}
	return len(images) > 0, nil
}

// UploadArtwork attaches an artwork payload to a playlist. The API accepts
// base64-encoded JPEG only.
func (c *SpotifyCatalog) UploadArtwork(ctx context.Context, ownerURI string, payload []byte) error {
	if ReferenceKind(ownerURI) != "playlist" {
		return fmt.Errorf("%w: artwork upload is only supported for playlists, got %q", shared.ErrInvalidInput, ownerURI)
	}

	id := ExtractID(ownerURI)
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(payload)))
	base64.StdEncoding.Encode(encoded, payload)

	endpoint := fmt.Sprintf("/playlists/%s/images", id)
	if err := c.doRequest(ctx, "PUT", endpoint, encoded, nil); err != nil {
		return fmt.Errorf("failed to upload artwork for %s: %w", ownerURI, err)
	}
	return nil
}

// ApplyMembership applies queued additions and removals to one playlist.
func (c *SpotifyCatalog) ApplyMembership(ctx context.Context, change MembershipChange) error {
	id := ExtractID(change.PlaylistURI)
	if id == "" {
		return fmt.Errorf("%w: invalid playlist reference %q", shared.ErrInvalidInput, change.PlaylistURI)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", id)

	// The API caps both mutation payloads at 100 URIs per call.
	for _, chunk := range chunked(change.Add, 100) {
		body := map[string]any{"uris": chunk}
		if err := c.doRequest(ctx, "POST", endpoint, body, nil); err != nil {
			return fmt.Errorf("failed to add tracks to %s: %w", change.PlaylistURI, err)
		}
	}

	for _, chunk := range chunked(change.Remove, 100) {
		items := make([]map[string]string, len(chunk))
		for i, uri := range chunk {
			items[i] = map[string]string{"uri": uri}
		}
		body := map[string]any{"tracks": items}
		if err := c.doRequest(ctx, "DELETE", endpoint, body, nil); err != nil {
			return fmt.Errorf("failed to remove tracks from %s: %w", change.PlaylistURI, err)
		}
	}

	return nil
}

// chunked splits uris into size-bounded slices.
func chunked(uris []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(uris); start += size {
		end := min(start+size, len(uris))
		chunks = append(chunks, uris[start:end])
	}
	return chunks
}
