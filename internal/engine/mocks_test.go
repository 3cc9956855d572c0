package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
)

// mockCatalog implements services.CatalogSource and services.CatalogSink with
// canned data and per-URI failure injection.
type mockCatalog struct {
	mu sync.Mutex

	catalog  []services.RawPlaylist
	fetchErr error

	exists        map[string]bool   // URIExists answers; absent key reports false
	existsErr     map[string]error  // per-URI existence errors
	transientLeft map[string]int    // per-URI transient failures before success
	remoteImages  map[string][]byte // live artwork presence by owner URI
	artworkData   map[string][]byte // DownloadArtwork payloads by artwork URI
	uploadErr     error
	applyErr      map[string]error

	fetchCalls    int
	existsCalls   int
	hasImgCalls   int
	downloadCalls int
	uploaded      map[string][]byte
	applied       []services.MembershipChange
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		exists:        make(map[string]bool),
		existsErr:     make(map[string]error),
		transientLeft: make(map[string]int),
		remoteImages:  make(map[string][]byte),
		artworkData:   make(map[string][]byte),
		applyErr:      make(map[string]error),
		uploaded:      make(map[string][]byte),
	}
}

func (m *mockCatalog) Name() string { return "mock" }

func (m *mockCatalog) FetchCatalog(ctx context.Context) ([]services.RawPlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.catalog, nil
}

func (m *mockCatalog) URIExists(ctx context.Context, uri string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.transientLeft[uri] > 0 {
		m.transientLeft[uri]--
		return false, fmt.Errorf("%w: try again", shared.ErrTransient)
	}
	if err := m.existsErr[uri]; err != nil {
		return false, err
	}
	return m.exists[uri], nil
}

func (m *mockCatalog) DownloadArtwork(ctx context.Context, uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloadCalls++
	data, ok := m.artworkData[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrArtworkNotFound, uri)
	}
	return data, nil
}

func (m *mockCatalog) HasArtwork(ctx context.Context, ownerURI string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasImgCalls++
	if _, ok := m.uploaded[ownerURI]; ok {
		return true, nil
	}
	_, ok := m.remoteImages[ownerURI]
	return ok, nil
}

func (m *mockCatalog) UploadArtwork(ctx context.Context, ownerURI string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploaded[ownerURI] = payload
	return nil
}

func (m *mockCatalog) ApplyMembership(ctx context.Context, change services.MembershipChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.applyErr[change.PlaylistURI]; err != nil {
		return err
	}
	m.applied = append(m.applied, change)
	return nil
}

func (m *mockCatalog) remoteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls + m.existsCalls + m.hasImgCalls + m.downloadCalls
}

// mockLocal implements services.LocalMetadataSource over an in-memory map.
type mockLocal struct {
	mu      sync.Mutex
	files   map[string][]byte
	readErr error
}

func newMockLocal() *mockLocal {
	return &mockLocal{files: make(map[string][]byte)}
}

func (m *mockLocal) LookupArtwork(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; ok {
		return "artwork/" + id + ".jpg", true
	}
	return "", false
}

func (m *mockLocal) ReadArtwork(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrArtworkNotFound, id)
	}
	return data, nil
}

func (m *mockLocal) SaveArtwork(id string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = payload
	return "artwork/" + id + ".jpg", nil
}

// mockStore implements BaselineStore in memory.
type mockStore struct {
	baseline *models.Snapshot
	saveErr  error
}

func (m *mockStore) SaveBaseline(snap *models.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.baseline = snap
	return nil
}

func (m *mockStore) LoadBaseline() (*models.Snapshot, error) {
	if m.baseline == nil {
		return nil, shared.ErrNoBaseline
	}
	return m.baseline, nil
}

func newTestEngine(catalog *mockCatalog, local *mockLocal, store *mockStore) *Reconciler {
	return NewReconciler(catalog, catalog, local, store, shared.NewLogger(io.Discard), Options{
		Workers:      2,
		RateLimit:    1000,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	})
}
