package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/geo-martino/syncify/internal/engine"
	"github.com/geo-martino/syncify/internal/models"
)

func TestDiffToTextCleanReport(t *testing.T) {
	report := &engine.DiffReport{
		BaselineID:      "base-1",
		BaselineTakenAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		BaselineAge:     "2h 15m",
		CurrentID:       "cur-1",
		Playlists:       map[string]models.DiffResult{},
		Clean:           true,
	}

	out := string(DiffToText(report))
	if !strings.Contains(out, "No differences found") {
		t.Errorf("clean report output missing summary:\n%s", out)
	}
	if !strings.Contains(out, "base-1") || !strings.Contains(out, "2h 15m") {
		t.Errorf("output missing baseline identity or age:\n%s", out)
	}
}

func TestDiffToTextListsChanges(t *testing.T) {
	report := &engine.DiffReport{
		BaselineID: "base-1",
		CurrentID:  "cur-1",
		Playlists: map[string]models.DiffResult{
			"spotify:playlist:1111111111111111111111": {
				Added:     []string{"spotify:track:cccccccccccccccccccccc"},
				Removed:   []string{"spotify:track:aaaaaaaaaaaaaaaaaaaaaa"},
				Reordered: []string{"spotify:track:bbbbbbbbbbbbbbbbbbbbbb"},
				Unchanged: 4,
			},
		},
		TotalAdded:     1,
		TotalRemoved:   1,
		TotalReordered: 1,
		TotalUnchanged: 4,
	}

	out := string(DiffToText(report))
	for _, want := range []string{
		"+ spotify:track:cccccccccccccccccccccc",
		"- spotify:track:aaaaaaaaaaaaaaaaaaaaaa",
		"~ spotify:track:bbbbbbbbbbbbbbbbbbbbbb",
		"1 added, 1 removed, 1 reordered, 4 unchanged",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckToTextOmitsValidEntries(t *testing.T) {
	report := &engine.CheckReport{
		SnapshotID: "snap-1",
		Mode:       "full",
		Results: []models.URICheckResult{
			{Reference: "spotify:track:aaaaaaaaaaaaaaaaaaaaaa", Classification: models.ClassValid, Class: "valid", KindName: "track"},
			{Reference: "not-a-uri", Classification: models.ClassMalformed, Class: "malformed", KindName: "track"},
			{Reference: "spotify:track:bbbbbbbbbbbbbbbbbbbbbb", Classification: models.ClassUnreachable, Class: "unreachable", KindName: "track", Detail: "confirmed absent"},
		},
		Valid:       1,
		Malformed:   1,
		Unreachable: 1,
	}

	out := string(CheckToText(report))
	if strings.Contains(out, "spotify:track:aaaaaaaaaaaaaaaaaaaaaa") {
		t.Errorf("valid reference should be summarized, not listed:\n%s", out)
	}
	if !strings.Contains(out, "not-a-uri") || !strings.Contains(out, "confirmed absent") {
		t.Errorf("problem references missing:\n%s", out)
	}
	if !strings.Contains(out, "1 valid, 1 malformed, 1 unreachable, 0 unknown") {
		t.Errorf("summary line missing:\n%s", out)
	}
}

func TestCheckToTextFlagsPartialRun(t *testing.T) {
	report := &engine.CheckReport{SnapshotID: "snap-1", Mode: "full", Partial: true}
	if out := string(CheckToText(report)); !strings.Contains(out, "interrupted") {
		t.Errorf("partial run not flagged:\n%s", out)
	}
}

func TestArtworkToTextOnlyMissing(t *testing.T) {
	report := &engine.ArtworkReport{
		SnapshotID: "snap-1",
		Direction:  "report-missing",
		Records: []models.ArtworkRecord{
			{OwnerURI: "spotify:track:aaaaaaaaaaaaaaaaaaaaaa", KindName: "track", HasLocal: true, ActName: "none"},
			{OwnerURI: "spotify:track:bbbbbbbbbbbbbbbbbbbbbb", KindName: "track", Action: models.ActionMissingBoth, ActName: "missing-both"},
		},
		Missing: 1,
	}

	out := string(ArtworkToText(report, true))
	if strings.Contains(out, "spotify:track:aaaaaaaaaaaaaaaaaaaaaa") {
		t.Errorf("covered entry listed in missing-only output:\n%s", out)
	}
	if !strings.Contains(out, "spotify:track:bbbbbbbbbbbbbbbbbbbbbb") {
		t.Errorf("missing entry absent from output:\n%s", out)
	}
}

func TestArtworkToTextConflictsAndFailures(t *testing.T) {
	report := &engine.ArtworkReport{
		SnapshotID: "snap-1",
		Direction:  "extract-local",
		Records: []models.ArtworkRecord{
			{OwnerURI: "spotify:playlist:1111111111111111111111", KindName: "playlist", HasLocal: true, HasRemote: true, Conflict: true, ActName: "none"},
			{OwnerURI: "spotify:track:aaaaaaaaaaaaaaaaaaaaaa", KindName: "track", HasLocal: true, ActName: "none", Detail: "upload rejected"},
		},
		Conflicts: 1,
		Failures:  1,
	}

	out := string(ArtworkToText(report, false))
	if !strings.Contains(out, "conflict") || !strings.Contains(out, "upload rejected") {
		t.Errorf("conflict or failure detail missing:\n%s", out)
	}
}

func TestUpdateToTextDryRun(t *testing.T) {
	result := &engine.UpdateResult{
		DryRun:  true,
		Applied: 1,
		Outcomes: []engine.ChangeOutcome{
			{PlaylistURI: "spotify:playlist:1111111111111111111111", Added: 2, Removed: 1},
		},
	}

	out := string(UpdateToText(result))
	if !strings.Contains(out, "dry run") || !strings.Contains(out, "+2 -1") {
		t.Errorf("dry run output incomplete:\n%s", out)
	}
}

func TestToJSONRoundTrips(t *testing.T) {
	report := &engine.CheckReport{SnapshotID: "snap-1", Mode: "simple", Unknown: 3}

	data, err := ToJSON(report, true)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded engine.CheckReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if decoded.SnapshotID != "snap-1" || decoded.Unknown != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}
