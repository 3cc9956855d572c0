package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/geo-martino/syncify/internal/shared"
)

// artworkExtensions in lookup preference order.
var artworkExtensions = []string{".jpg", ".jpeg", ".png"}

// FolderArtwork implements [LocalMetadataSource] over a directory of artwork
// files extracted from the local library, keyed by track/playlist ID.
type FolderArtwork struct {
	root string
}

// NewFolderArtwork creates a FolderArtwork rooted at dir.
func NewFolderArtwork(dir string) *FolderArtwork {
	return &FolderArtwork{root: dir}
}

// LookupArtwork returns the artwork path for an identity, if a file exists.
func (f *FolderArtwork) LookupArtwork(id string) (string, bool) {
	key := ExtractID(id)
	if key == "" {
		key = id
	}

	for _, ext := range artworkExtensions {
		path := filepath.Join(f.root, key+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ReadArtwork returns the artwork payload for an identity.
func (f *FolderArtwork) ReadArtwork(id string) ([]byte, error) {
	path, ok := f.LookupArtwork(id)
	if !ok {
		return nil, fmt.Errorf("%w: no local artwork for %s", shared.ErrArtworkNotFound, id)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork file: %w", err)
	}
	return payload, nil
}

// SaveArtwork stores a downloaded payload under the identity's key and
// returns the written path.
func (f *FolderArtwork) SaveArtwork(id string, payload []byte) (string, error) {
	if err := os.MkdirAll(f.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create artwork directory: %w", err)
	}

	key := ExtractID(id)
	if key == "" {
		key = id
	}

	path := filepath.Join(f.root, key+".jpg")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write artwork file: %w", err)
	}
	return path, nil
}
