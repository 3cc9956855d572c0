// package formatter renders engine reports as styled text or JSON for the CLI
package formatter

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/geo-martino/syncify/internal/engine"
	"github.com/geo-martino/syncify/internal/models"
	"github.com/geo-martino/syncify/internal/shared"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// ToJSON renders any report as JSON, optionally indented.
func ToJSON(v any, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(v, pretty)
}

// DiffToText renders a diff report as readable text, playlists in sorted
// URI order so repeated runs print identically.
func DiffToText(report *engine.DiffReport) []byte {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render("Differences against baseline") + "\n")
	buf.WriteString(fmt.Sprintf("Baseline: %s (taken %s, age %s)\n",
		report.BaselineID, report.BaselineTakenAt.Format("2006-01-02 15:04:05"), report.BaselineAge))
	buf.WriteString(fmt.Sprintf("Current:  %s\n\n", report.CurrentID))

	if report.Clean {
		buf.WriteString(styles.ok.Render("No differences found") + "\n")
		return buf.Bytes()
	}

	uris := make([]string, 0, len(report.Playlists))
	for uri := range report.Playlists {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	for _, uri := range uris {
		d := report.Playlists[uri]
		if d.Empty() {
			continue
		}
		buf.WriteString(fmt.Sprintf("%s\n", uri))
		for _, t := range d.Added {
			buf.WriteString("  " + styles.ok.Render("+ "+t) + "\n")
		}
		for _, t := range d.Removed {
			buf.WriteString("  " + styles.err.Render("- "+t) + "\n")
		}
		for _, t := range d.Reordered {
			buf.WriteString("  " + styles.warn.Render("~ "+t) + "\n")
		}
		buf.WriteString(styles.help.Render(fmt.Sprintf("  %d unchanged", d.Unchanged)) + "\n")
	}

	buf.WriteString(fmt.Sprintf("\nTotals: %d added, %d removed, %d reordered, %d unchanged\n",
		report.TotalAdded, report.TotalRemoved, report.TotalReordered, report.TotalUnchanged))
	return buf.Bytes()
}

// CheckToText renders a validation report. Valid references are summarized;
// everything else is listed per reference.
func CheckToText(report *engine.CheckReport) []byte {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render(fmt.Sprintf("Reference check (%s mode)", report.Mode)) + "\n")
	buf.WriteString(fmt.Sprintf("Snapshot: %s\n\n", report.SnapshotID))

	for _, r := range report.Results {
		if r.Classification == models.ClassValid {
			continue
		}
		line := fmt.Sprintf("%-12s %-8s %s", r.Class, r.KindName, r.Reference)
		switch r.Classification {
		case models.ClassMalformed:
			line = styles.err.Render(line)
		case models.ClassUnreachable:
			line = styles.warn.Render(line)
		default:
			line = styles.help.Render(line)
		}
		buf.WriteString(line + "\n")
		if r.Detail != "" {
			buf.WriteString(styles.help.Render("    "+r.Detail) + "\n")
		}
	}

	buf.WriteString(fmt.Sprintf("\n%d valid, %d malformed, %d unreachable, %d unknown\n",
		report.Valid, report.Malformed, report.Unreachable, report.Unknown))
	if report.Partial {
		buf.WriteString(styles.warn.Render("Run was interrupted; results are incomplete") + "\n")
	}
	return buf.Bytes()
}

// ArtworkToText renders an artwork report. With onlyMissing set, entries that
// have artwork somewhere are omitted.
func ArtworkToText(report *engine.ArtworkReport, onlyMissing bool) []byte {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render(fmt.Sprintf("Artwork resolution (%s)", report.Direction)) + "\n")
	buf.WriteString(fmt.Sprintf("Snapshot: %s\n\n", report.SnapshotID))

	shown := 0
	for _, r := range report.Records {
		if onlyMissing && r.Action != models.ActionMissingBoth {
			continue
		}
		if !onlyMissing && r.Action == models.ActionNone && !r.Conflict && r.Detail == "" {
			continue
		}
		shown++

		var line string
		switch {
		case r.Conflict:
			line = styles.err.Render(fmt.Sprintf("conflict     %-8s %s", r.KindName, r.OwnerURI))
		case r.Action == models.ActionMissingBoth:
			line = styles.warn.Render(fmt.Sprintf("missing      %-8s %s", r.KindName, r.OwnerURI))
		case r.Detail != "":
			line = styles.err.Render(fmt.Sprintf("failed       %-8s %s", r.KindName, r.OwnerURI))
		default:
			line = styles.ok.Render(fmt.Sprintf("%-12s %-8s %s", r.ActName, r.KindName, r.OwnerURI))
		}
		buf.WriteString(line + "\n")
		if r.Detail != "" {
			buf.WriteString(styles.help.Render("    "+r.Detail) + "\n")
		}
	}

	if shown == 0 {
		buf.WriteString(styles.ok.Render("Nothing to do") + "\n")
	}

	buf.WriteString(fmt.Sprintf("\n%d extracted, %d missing, %d conflicts, %d failures\n",
		report.Extracted, report.Missing, report.Conflicts, report.Failures))
	if report.Partial {
		buf.WriteString(styles.warn.Render("Run was interrupted; results are incomplete") + "\n")
	}
	return buf.Bytes()
}

// UpdateToText renders an update run summary.
func UpdateToText(result *engine.UpdateResult) []byte {
	var buf bytes.Buffer

	header := "Membership update"
	if result.DryRun {
		header += " (dry run)"
	}
	buf.WriteString(styles.title.Render(header) + "\n")

	for _, o := range result.Outcomes {
		if o.Error != "" {
			buf.WriteString(styles.err.Render(fmt.Sprintf("failed  %s: %s", o.PlaylistURI, o.Error)) + "\n")
			continue
		}
		verb := "applied"
		if result.DryRun {
			verb = "queued "
		}
		buf.WriteString(styles.ok.Render(fmt.Sprintf("%s %s", verb, o.PlaylistURI)) +
			styles.help.Render(fmt.Sprintf("  +%d -%d", o.Added, o.Removed)) + "\n")
	}

	buf.WriteString(fmt.Sprintf("\n%d applied, %d failed\n", result.Applied, result.Failed))
	if result.BaselineID != "" {
		buf.WriteString(styles.help.Render("Baseline recorded: "+result.BaselineID) + "\n")
	}
	return buf.Bytes()
}

// RefreshToText renders a baseline refresh summary.
func RefreshToText(result *engine.RefreshResult) []byte {
	var buf bytes.Buffer
	buf.WriteString(styles.ok.Render("Baseline refreshed") + "\n")
	buf.WriteString(fmt.Sprintf("Snapshot %s: %d playlists, %d tracks (taken %s)\n",
		result.SnapshotID, result.Playlists, result.Tracks, result.TakenAt.Format("2006-01-02 15:04:05")))
	return buf.Bytes()
}
