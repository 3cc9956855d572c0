package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geo-martino/syncify/internal/shared"
	"golang.org/x/oauth2"
)

// TokenPath returns where the OAuth token lives on disk: the configured path
// when set, otherwise ~/.syncify/token.json.
func TokenPath(cfg shared.SpotifyConfig) string {
	if cfg.TokenPath != "" {
		return cfg.TokenPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".syncify", "token.json")
}

// SaveToken persists a token so later invocations start authenticated.
func SaveToken(path string, token *oauth2.Token) error {
	if path == "" || token == nil {
		return fmt.Errorf("%w: no token to save", shared.ErrNotAuthenticated)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken reads a previously saved token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token file %s holds no access token", shared.ErrNotAuthenticated, path)
	}
	return &token, nil
}
