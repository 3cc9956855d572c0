// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"sync"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
)

// MockCatalog is a test double for [services.CatalogSource] and
// [services.CatalogSink] serving canned data.
type MockCatalog struct {
	mu sync.Mutex

	Catalog  []services.RawPlaylist
	FetchErr error
	Exists   map[string]bool
	Images   map[string][]byte // DownloadArtwork payloads keyed by artwork URI

	Uploaded map[string][]byte
	Applied  []services.MembershipChange
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Exists:   make(map[string]bool),
		Images:   make(map[string][]byte),
		Uploaded: make(map[string][]byte),
	}
}

func (m *MockCatalog) Name() string { return "mock" }

func (m *MockCatalog) FetchCatalog(ctx context.Context) ([]services.RawPlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Catalog, nil
}

func (m *MockCatalog) URIExists(ctx context.Context, uri string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Exists[uri], nil
}

func (m *MockCatalog) DownloadArtwork(ctx context.Context, uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.Images[uri]; ok {
		return data, nil
	}
	return nil, shared.ErrArtworkNotFound
}

func (m *MockCatalog) HasArtwork(ctx context.Context, ownerURI string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Uploaded[ownerURI]
	return ok, nil
}

func (m *MockCatalog) UploadArtwork(ctx context.Context, ownerURI string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploaded[ownerURI] = payload
	return nil
}

func (m *MockCatalog) ApplyMembership(ctx context.Context, change services.MembershipChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Applied = append(m.Applied, change)
	return nil
}

// MockLocal is a test double for [services.LocalMetadataSource] over an
// in-memory map.
type MockLocal struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewMockLocal() *MockLocal {
	return &MockLocal{Files: make(map[string][]byte)}
}

func (m *MockLocal) LookupArtwork(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Files[id]; ok {
		return "artwork/" + id + ".jpg", true
	}
	return "", false
}

func (m *MockLocal) ReadArtwork(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.Files[id]; ok {
		return data, nil
	}
	return nil, shared.ErrArtworkNotFound
}

func (m *MockLocal) SaveArtwork(id string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[id] = payload
	return "artwork/" + id + ".jpg", nil
}

// MockStore is an in-memory baseline store.
type MockStore struct {
	Baseline *models.Snapshot
}

func (m *MockStore) SaveBaseline(snap *models.Snapshot) error {
	m.Baseline = snap
	return nil
}

func (m *MockStore) LoadBaseline() (*models.Snapshot, error) {
	if m.Baseline == nil {
		return nil, shared.ErrNoBaseline
	}
	return m.Baseline, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
