package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/geo-martino/syncify/internal/shared"
	"golang.org/x/oauth2"
)

func TestTokenFile(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auth", "token.json")
		saved := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}

		if err := SaveToken(path, saved); err != nil {
			t.Fatalf("SaveToken() error = %v", err)
		}

		loaded, err := LoadToken(path)
		if err != nil {
			t.Fatalf("LoadToken() error = %v", err)
		}
		if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
			t.Errorf("loaded token = %+v", loaded)
		}
	})

	t.Run("configured path wins", func(t *testing.T) {
		cfg := shared.SpotifyConfig{TokenPath: "/tmp/custom/token.json"}
		if got := TokenPath(cfg); got != "/tmp/custom/token.json" {
			t.Errorf("TokenPath() = %s", got)
		}
	})

	t.Run("save without token", func(t *testing.T) {
		err := SaveToken(filepath.Join(t.TempDir(), "token.json"), nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("SaveToken(nil) error = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("load missing file", func(t *testing.T) {
		_, err := LoadToken(filepath.Join(t.TempDir(), "token.json"))
		if !os.IsNotExist(err) {
			t.Errorf("LoadToken() error = %v, want not-exist", err)
		}
	})

	t.Run("load empty access token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		if err := os.WriteFile(path, []byte(`{"refresh_token":"r"}`), 0600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadToken(path)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("LoadToken() error = %v, want ErrNotAuthenticated", err)
		}
	})
}

// A token saved by one invocation authenticates the next.
func TestNewSpotifyCatalogLoadsSavedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := SaveToken(path, &oauth2.Token{AccessToken: "persisted"}); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	catalog, err := NewSpotifyCatalog(shared.SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenPath:    path,
	})
	if err != nil {
		t.Fatalf("NewSpotifyCatalog() error = %v", err)
	}

	token := catalog.Token()
	if token == nil || token.AccessToken != "persisted" {
		t.Errorf("catalog token = %+v, want the saved token", token)
	}
}
