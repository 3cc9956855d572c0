package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
)

func catalogFixture() []services.RawPlaylist {
	return []services.RawPlaylist{
		{
			URI:  testPlaylistURI,
			Name: "Commute",
			Tracks: []services.RawTrack{
				{URI: testTrackA, Title: "One", Position: 0},
				{URI: testTrackB, Title: "Two", Position: 1},
			},
		},
	}
}

func TestRefreshPersistsBaseline(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()
	store := &mockStore{}

	eng := newTestEngine(catalog, newMockLocal(), store)
	result, err := eng.Refresh(context.Background(), nil)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if result.Playlists != 1 || result.Tracks != 2 {
		t.Errorf("result = %+v, want 1 playlist and 2 tracks", result)
	}
	if store.baseline == nil {
		t.Fatal("baseline was not persisted")
	}
	if store.baseline.ID() != result.SnapshotID {
		t.Errorf("persisted baseline %s != reported %s", store.baseline.ID(), result.SnapshotID)
	}
}

func TestRefreshFetchFailureIsFatal(t *testing.T) {
	catalog := newMockCatalog()
	catalog.fetchErr = fmt.Errorf("%w: service down", shared.ErrTransient)
	store := &mockStore{}

	eng := newTestEngine(catalog, newMockLocal(), store)
	_, err := eng.Refresh(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error when fetch keeps failing")
	}
	if store.baseline != nil {
		t.Error("baseline must not move on a failed refresh")
	}
	// All attempts were spent before giving up.
	if catalog.fetchCalls != 3 {
		t.Errorf("fetch attempts = %d, want 3", catalog.fetchCalls)
	}
}

func TestDifferencesRequiresBaseline(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()

	eng := newTestEngine(catalog, newMockLocal(), &mockStore{})
	_, err := eng.Differences(context.Background(), nil)
	if !errors.Is(err, shared.ErrNoBaseline) {
		t.Errorf("Differences() error = %v, want ErrNoBaseline", err)
	}
}

func TestDifferencesAgainstBaseline(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()
	store := &mockStore{}
	eng := newTestEngine(catalog, newMockLocal(), store)

	if _, err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// The catalog moves on: track A dropped, track C appended.
	catalog.mu.Lock()
	catalog.catalog = []services.RawPlaylist{
		{
			URI:  testPlaylistURI,
			Name: "Commute",
			Tracks: []services.RawTrack{
				{URI: testTrackB, Title: "Two", Position: 0},
				{URI: "spotify:track:cccccccccccccccccccccc", Title: "Three", Position: 1},
			},
		},
	}
	catalog.mu.Unlock()

	report, err := eng.Differences(context.Background(), nil)
	if err != nil {
		t.Fatalf("Differences() error = %v", err)
	}

	if report.Clean {
		t.Error("report.Clean = true, want false")
	}
	if report.TotalAdded != 1 || report.TotalRemoved != 1 || report.TotalReordered != 1 {
		t.Errorf("totals = +%d -%d ~%d, want +1 -1 ~1", report.TotalAdded, report.TotalRemoved, report.TotalReordered)
	}
	if report.BaselineID == "" || report.CurrentID == "" || report.BaselineID == report.CurrentID {
		t.Errorf("snapshot identities not distinct: baseline %q current %q", report.BaselineID, report.CurrentID)
	}
}

func TestUpdateDryRunTouchesNothing(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()
	store := &mockStore{}
	eng := newTestEngine(catalog, newMockLocal(), store)

	changes := []services.MembershipChange{
		{PlaylistURI: testPlaylistURI, Add: []string{"spotify:track:cccccccccccccccccccccc"}},
	}

	result, err := eng.Update(context.Background(), changes, true, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !result.DryRun || result.Applied != 1 {
		t.Errorf("result = %+v, want dry-run with 1 applicable change", result)
	}
	if len(catalog.applied) != 0 {
		t.Error("dry run sent membership changes to the sink")
	}
	if store.baseline != nil {
		t.Error("dry run moved the baseline")
	}
}

func TestUpdatePersistsBaselineAndApplies(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()
	store := &mockStore{}
	eng := newTestEngine(catalog, newMockLocal(), store)

	changes := []services.MembershipChange{
		{PlaylistURI: testPlaylistURI, Add: []string{"spotify:track:cccccccccccccccccccccc"}, Remove: []string{testTrackA}},
	}

	result, err := eng.Update(context.Background(), changes, false, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if result.Applied != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want 1 applied", result)
	}
	if len(catalog.applied) != 1 || catalog.applied[0].PlaylistURI != testPlaylistURI {
		t.Errorf("sink received %+v", catalog.applied)
	}
	if store.baseline == nil || store.baseline.ID() != result.BaselineID {
		t.Error("baseline does not record the snapshot the changes were applied against")
	}
	if catalog.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want a single capture", catalog.fetchCalls)
	}
}

func TestUpdateUnknownPlaylistSkipped(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()
	eng := newTestEngine(catalog, newMockLocal(), &mockStore{})

	changes := []services.MembershipChange{
		{PlaylistURI: "spotify:playlist:9999999999999999999999", Add: []string{testTrackA}},
		{PlaylistURI: testPlaylistURI, Add: []string{"spotify:track:cccccccccccccccccccccc"}},
	}

	result, err := eng.Update(context.Background(), changes, false, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if result.Applied != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 applied and 1 failed", result)
	}
	if len(catalog.applied) != 1 {
		t.Errorf("sink received %d changes, want 1", len(catalog.applied))
	}
	if result.Outcomes[0].Error == "" {
		t.Error("unknown playlist outcome carries no error")
	}
}

func TestCheckCountsClassifications(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()
	catalog.exists[testPlaylistURI] = true
	catalog.exists[testTrackA] = true
	// testTrackB confirmed absent.

	eng := newTestEngine(catalog, newMockLocal(), &mockStore{})
	report, err := eng.Check(context.Background(), models.ModeFull, nil)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if report.Valid != 2 || report.Unreachable != 1 || report.Malformed != 0 {
		t.Errorf("counts = %d valid %d unreachable %d malformed, want 2/1/0",
			report.Valid, report.Unreachable, report.Malformed)
	}
	if report.Partial {
		t.Error("completed run flagged partial")
	}
	if report.Mode != "full" {
		t.Errorf("mode = %q, want full", report.Mode)
	}
}

func TestArtworkReportCounts(t *testing.T) {
	catalog := newMockCatalog()
	catalog.catalog = catalogFixture()

	eng := newTestEngine(catalog, newMockLocal(), &mockStore{})
	report, err := eng.Artwork(context.Background(), ReportMissing, nil)
	if err != nil {
		t.Fatalf("Artwork() error = %v", err)
	}

	// Playlist and both tracks carry no artwork anywhere.
	if report.Missing != 3 || report.Extracted != 0 {
		t.Errorf("missing = %d extracted = %d, want 3/0", report.Missing, report.Extracted)
	}
	if report.Direction != "report-missing" {
		t.Errorf("direction = %q", report.Direction)
	}
}
