package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"ringkasan/internal/diff"
)

// Action tags why a revision was created. The set is open.
type Action string

const (
	ActionEdit     Action = "edit"
	ActionAutoSave Action = "auto-save"
	ActionRestore  Action = "restore"
	ActionImport   Action = "import"
)

const AnonymousAuthor = "anonymous"

// Extra keys written by RestoreVersion.
const (
	ExtraRestoredFrom      = "restoredFrom"
	ExtraOriginalTimestamp = "originalTimestamp"
)

// ContentStats are computed once when a revision is created.
type ContentStats struct {
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
	LineCount int `json:"line_count"`
}

// ComputeStats counts whitespace-separated words, runes and lines.
func ComputeStats(content string) ContentStats {
	return ContentStats{
		WordCount: len(strings.Fields(content)),
		CharCount: utf8.RuneCountInString(content),
		LineCount: strings.Count(content, "\n") + 1,
	}
}

// Revision is one immutable snapshot of a document.
type Revision struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Content    string         `json:"content"`
	AuthorID   string         `json:"author_id"`
	Action     Action         `json:"action"`
	Timestamp  time.Time      `json:"timestamp"`
	Stats      ContentStats   `json:"stats"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy that shares no mutable state with r.
func (r Revision) Clone() Revision {
	if r.Extra != nil {
		r.Extra = CloneExtra(r.Extra, nil)
	}
	return r
}

// CloneExtra deep-copies the maps and slices of extra. Non-nil leaf is
// applied to every string on the way.
func CloneExtra(extra map[string]any, leaf func(string) string) map[string]any {
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = cloneValue(v, leaf)
	}
	return out
}

func cloneValue(v any, leaf func(string) string) any {
	switch v := v.(type) {
	case map[string]any:
		return CloneExtra(v, leaf)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e, leaf)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, e := range v {
			if leaf != nil {
				e = leaf(e)
			}
			out[i] = e
		}
		return out
	case string:
		if leaf != nil {
			return leaf(v)
		}
	}
	return v
}

// Ref returns the content-free reference to r.
func (r Revision) Ref() RevisionRef {
	return RevisionRef{ID: r.ID, Timestamp: r.Timestamp, AuthorID: r.AuthorID, Action: r.Action, Stats: r.Stats}
}

// RevisionRef identifies a revision without its content.
type RevisionRef struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	AuthorID  string       `json:"author_id"`
	Action    Action       `json:"action"`
	Stats     ContentStats `json:"stats"`
}

// SaveOptions are the optional inputs of SaveVersion.
type SaveOptions struct {
	AuthorID string
	Action   Action
	Extra    map[string]any
}

// Comparison is the line-set difference between two revisions.
type Comparison struct {
	DocumentID string      `json:"document_id"`
	Version1   RevisionRef `json:"version1"`
	Version2   RevisionRef `json:"version2"`
	Changes    diff.Result `json:"changes"`
	Patch      string      `json:"patch"`
}

// TimelineEntry is one point of HistoryStats.Timeline.
type TimelineEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	WordCount int       `json:"word_count"`
}

// HistoryStats summarizes a document's retained revisions.
type HistoryStats struct {
	DocumentID       string          `json:"document_id"`
	TotalVersions    int             `json:"total_versions"`
	FirstVersion     *Revision       `json:"first_version"`
	LastVersion      *Revision       `json:"last_version"`
	AverageWordCount int             `json:"average_word_count"`
	EditCount        int             `json:"edit_count"`
	Timeline         []TimelineEntry `json:"timeline"`
}

// ExportBundle is a metadata-only snapshot of a document's history.
type ExportBundle struct {
	DocumentID    string        `json:"document_id"`
	ExportedAt    time.Time     `json:"exported_at"`
	TotalVersions int           `json:"total_versions"`
	Versions      []RevisionRef `json:"versions"`
}

// VersionPage is one page of a document's revisions, newest first.
type VersionPage struct {
	Versions []Revision `json:"versions"`
	Total    int        `json:"total"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
	HasMore  bool       `json:"has_more"`
}
