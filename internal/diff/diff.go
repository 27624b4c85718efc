// Package diff compares two revisions of a document line by line.
//
// Lines uses set membership, not position: a line present in both texts is
// never reported, however it moved or repeated. Revision comparisons depend on
// these counts, so it must not be replaced by an edit-script diff. Patch gives
// the positional view for display only.
package diff

import (
	"encoding/json"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept around a change in Patch.
const contextLines = 3

// Result holds the lines unique to each side of a comparison.
type Result struct {
	Added   []string // in the new text, absent from the old
	Removed []string // in the old text, absent from the new
}

// Lines compares oldText and newText as sets of lines.
func Lines(oldText, newText string) Result {
	oldLines := strings.Split(oldText, "\n")
	newLines := strings.Split(newText, "\n")

	return Result{
		Added:   missingFrom(newLines, set(oldLines)),
		Removed: missingFrom(oldLines, set(newLines)),
	}
}

func set(lines []string) map[string]struct{} {
	s := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		s[l] = struct{}{}
	}
	return s
}

// missingFrom keeps the lines not in other, in order, duplicates included.
func missingFrom(lines []string, other map[string]struct{}) []string {
	out := []string{}
	for _, l := range lines {
		if _, ok := other[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

func (r Result) AddedCount() int   { return len(r.Added) }
func (r Result) RemovedCount() int { return len(r.Removed) }

// TotalChanges is AddedCount + RemovedCount.
func (r Result) TotalChanges() int { return r.AddedCount() + r.RemovedCount() }

// MarshalJSON includes the derived counts.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Added        []string `json:"added"`
		Removed      []string `json:"removed"`
		AddedCount   int      `json:"added_count"`
		RemovedCount int      `json:"removed_count"`
		TotalChanges int      `json:"total_changes"`
	}{r.Added, r.Removed, r.AddedCount(), r.RemovedCount(), r.TotalChanges()})
}

// Patch returns a positional line diff of oldText and newText with "+ ", "- "
// and "  " prefixes. Long unchanged runs are collapsed to "...".
func Patch(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	d := dmp.DiffMain(a, b, false)
	return format(dmp.DiffCharsToLines(d, lines))
}

func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for _, l := range lines[:contextLines] {
					b.WriteString("  " + l + "\n")
				}
				b.WriteString("  ...\n")
				for _, l := range lines[len(lines)-contextLines:] {
					b.WriteString("  " + l + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}
