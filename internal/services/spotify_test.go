package services

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geo-martino/syncify/internal/shared"
)

func TestNewSpotifyCatalog(t *testing.T) {
	t.Run("with valid credentials", func(t *testing.T) {
		catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURI:  "http://localhost:9999/cb",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if catalog.Name() != "Spotify" {
			t.Errorf("expected catalog name 'Spotify', got %s", catalog.Name())
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		_, err := NewSpotifyCatalog(shared.SpotifyConfig{ClientSecret: "secret"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing client secret", func(t *testing.T) {
		_, err := NewSpotifyCatalog(shared.SpotifyConfig{ClientID: "id"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("default redirect URI", func(t *testing.T) {
		catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if catalog.config.RedirectURL == "" {
			t.Error("expected a default redirect URI")
		}
	})

	t.Run("access token skips exchange", func(t *testing.T) {
		catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			AccessToken:  "token",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if catalog.token == nil {
			t.Error("expected token to be set from config")
		}
	})
}

func TestSpotifyCatalog_GetAuthURL(t *testing.T) {
	catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}

	authURL := catalog.GetAuthURL("test_state")
	if !strings.Contains(authURL, "accounts.spotify.com") {
		t.Error("auth URL should contain Spotify domain")
	}
	if !strings.Contains(authURL, "test_client_id") {
		t.Error("auth URL should contain client_id")
	}
	if !strings.Contains(authURL, "test_state") {
		t.Error("auth URL should contain state")
	}
}

func TestSpotifyCatalog_NotAuthenticated(t *testing.T) {
	catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenPath:    filepath.Join(t.TempDir(), "token.json"),
	})
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}

	_, err = catalog.FetchCatalog(context.Background())
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSpotifyCatalog_URIExists_InvalidReference(t *testing.T) {
	catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		AccessToken:  "token",
	})
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}

	// Malformed references fail before any network call.
	if _, err := catalog.URIExists(context.Background(), "not-a-uri"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStatusError_Classification(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusTooManyRequests, shared.ErrTransient},
		{http.StatusInternalServerError, shared.ErrTransient},
		{http.StatusBadGateway, shared.ErrTransient},
		{http.StatusConflict, shared.ErrConflict},
		{http.StatusNotFound, shared.ErrAPIRequest},
		{http.StatusForbidden, shared.ErrAPIRequest},
	}

	for _, tt := range tests {
		err := &statusError{status: tt.status}
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("status %d: expected %v in chain", tt.status, tt.sentinel)
		}
	}
}

func TestChunked(t *testing.T) {
	uris := []string{"a", "b", "c", "d", "e"}

	chunks := chunked(uris, 2)
	if len(chunks) != 3 {
		t.Fatalf("chunked() returned %d chunks, want 3", len(chunks))
	}
	if len(chunks[2]) != 1 || chunks[2][0] != "e" {
		t.Errorf("last chunk = %v, want [e]", chunks[2])
	}

	if got := chunked(nil, 2); got != nil {
		t.Errorf("chunked(nil) = %v, want nil", got)
	}
}
