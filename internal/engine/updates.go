package engine

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	PhaseBuildSnapshot Phase = iota
	PhaseValidateRefs
	PhaseResolveArtwork
	PhaseComputeDiff
	PhasePersistBaseline
	PhaseApplyChanges
)

func (p Phase) String() string {
	switch p {
	case PhaseBuildSnapshot:
		return "build_snapshot"
	case PhaseValidateRefs:
		return "validate_refs"
	case PhaseResolveArtwork:
		return "resolve_artwork"
	case PhaseComputeDiff:
		return "compute_diff"
	case PhasePersistBaseline:
		return "persist_baseline"
	case PhaseApplyChanges:
		return "apply_changes"
	default:
		return ""
	}
}

func buildSnapshotUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseBuildSnapshot,
		Step:    step,
		Total:   total,
		Message: "Fetching catalog from remote service...",
	}
}

func builtSnapshotUpdate(playlists, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseBuildSnapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Captured %d playlists (%d tracks)", playlists, tracks),
	}
}

func validatePlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseValidateRefs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking references: %s", step, total, name),
	}
}

func artworkPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseResolveArtwork,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving artwork: %s", step, total, name),
	}
}

func computeDiffUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseComputeDiff,
		Step:    step,
		Total:   total,
		Message: "Comparing snapshots...",
	}
}

func persistBaselineUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhasePersistBaseline,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Persisting baseline snapshot %s", id),
	}
}

func applyChangesUpdate(step, total int, playlistURI string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseApplyChanges,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Applying membership changes: %s", step, total, playlistURI),
	}
}
