package service

import (
	"math"
	"strings"
	"time"

	"ringkasan/internal/diff"
	"ringkasan/internal/history/model"
	"ringkasan/internal/history/repository"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/logger"
	"ringkasan/pkg/metrics"
	"ringkasan/pkg/sanitize"
	"ringkasan/socket"
)

const (
	DefaultCleanupKeep = 10
	DefaultPageLimit   = 20
	MaxPageLimit       = 100
)

// Notifier receives an event for every change to a document's history.
type Notifier interface {
	Notify(docID, eventType string, payload any)
}

type VersionService struct {
	Repo        *repository.RevisionRepository
	Notifier    Notifier
	Metrics     *metrics.Metrics
	CleanupKeep int

	now func() time.Time
}

func NewVersionService(repo *repository.RevisionRepository, notifier Notifier, m *metrics.Metrics) *VersionService {
	return &VersionService{
		Repo:        repo,
		Notifier:    notifier,
		Metrics:     m,
		CleanupKeep: DefaultCleanupKeep,
		now:         time.Now,
	}
}

// SaveVersion sanitizes content and appends it as the document's newest revision.
func (s *VersionService) SaveVersion(docID, content string, opts model.SaveOptions) (model.Revision, error) {
	return s.save(docID, content, opts, socket.RevisionSavedType)
}

func (s *VersionService) save(docID, content string, opts model.SaveOptions, event string) (model.Revision, error) {
	docID, err := requireDocID(docID)
	if err != nil {
		return model.Revision{}, err
	}
	if strings.TrimSpace(content) == "" {
		return model.Revision{}, apperror.InvalidArgument("content is required")
	}
	clean := sanitize.String(content)
	if clean == "" {
		return model.Revision{}, apperror.InvalidArgument("content is empty after sanitization")
	}

	author := sanitize.String(opts.AuthorID)
	if author == "" {
		author = model.AnonymousAuthor
	}
	action := model.Action(sanitize.String(string(opts.Action)))
	if action == "" {
		action = model.ActionEdit
	}

	rev, evicted := s.Repo.Append(model.Revision{
		DocumentID: docID,
		Content:    clean,
		AuthorID:   author,
		Action:     action,
		Timestamp:  s.now().UTC(),
		Stats:      model.ComputeStats(clean),
		Extra:      sanitizeExtra(opts.Extra),
	})
	s.Metrics.RevisionSaved(string(action), evicted)
	logger.Sugar.Infof("Saved revision %s of doc %s (action %s, author %s)", rev.ID, docID, action, author)

	s.notify(docID, event, rev)
	return rev, nil
}

// GetVersions returns every retained revision, newest first.
func (s *VersionService) GetVersions(docID string) ([]model.Revision, error) {
	docID, err := requireDocID(docID)
	if err != nil {
		return nil, err
	}
	return newestFirst(s.Repo.List(docID)), nil
}

// ListVersions returns one page of GetVersions.
func (s *VersionService) ListVersions(docID string, offset, limit int) (*model.VersionPage, error) {
	if offset < 0 || limit < 0 {
		return nil, apperror.InvalidArgument("offset and limit must not be negative")
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	all, err := s.GetVersions(docID)
	if err != nil {
		return nil, err
	}

	page := &model.VersionPage{Versions: []model.Revision{}, Total: len(all), Offset: offset, Limit: limit}
	if offset < len(all) {
		end := min(offset+limit, len(all))
		page.Versions = all[offset:end]
		page.HasMore = end < len(all)
	}
	return page, nil
}

// GetVersion returns a revision by id. A missing revision is not an error.
func (s *VersionService) GetVersion(docID, versionID string) (model.Revision, bool) {
	return s.Repo.Find(strings.TrimSpace(docID), versionID)
}

// GetLatestVersion returns the document's newest revision.
func (s *VersionService) GetLatestVersion(docID string) (model.Revision, bool) {
	return s.Repo.Latest(strings.TrimSpace(docID))
}

// CompareVersions diffs version1 against version2: added lines are those
// only in version2, removed lines those only in version1.
func (s *VersionService) CompareVersions(docID, versionID1, versionID2 string) (*model.Comparison, error) {
	docID, err := requireDocID(docID)
	if err != nil {
		return nil, err
	}

	v1, ok := s.Repo.Find(docID, versionID1)
	if !ok {
		return nil, apperror.NotFound("version %s not found for document %s", versionID1, docID)
	}
	v2, ok := s.Repo.Find(docID, versionID2)
	if !ok {
		return nil, apperror.NotFound("version %s not found for document %s", versionID2, docID)
	}

	return &model.Comparison{
		DocumentID: docID,
		Version1:   v1.Ref(),
		Version2:   v2.Ref(),
		Changes:    diff.Lines(v1.Content, v2.Content),
		Patch:      diff.Patch(v1.Content, v2.Content),
	}, nil
}

// RestoreVersion appends a copy of an earlier revision's content. History is
// never rewritten.
func (s *VersionService) RestoreVersion(docID, versionID, authorID string) (model.Revision, error) {
	docID, err := requireDocID(docID)
	if err != nil {
		return model.Revision{}, err
	}
	target, ok := s.Repo.Find(docID, versionID)
	if !ok {
		return model.Revision{}, apperror.NotFound("version %s not found for document %s", versionID, docID)
	}

	return s.save(docID, target.Content, model.SaveOptions{
		AuthorID: authorID,
		Action:   model.ActionRestore,
		Extra: map[string]any{
			model.ExtraRestoredFrom:      target.ID,
			model.ExtraOriginalTimestamp: target.Timestamp.Format(time.RFC3339Nano),
		},
	}, socket.RevisionRestoredType)
}

// GetVersionStats summarizes the retained history. A document without
// revisions yields zeroed stats.
func (s *VersionService) GetVersionStats(docID string) (*model.HistoryStats, error) {
	versions, err := s.GetVersions(docID)
	if err != nil {
		return nil, err
	}

	stats := &model.HistoryStats{
		DocumentID:    strings.TrimSpace(docID),
		TotalVersions: len(versions),
		Timeline:      make([]model.TimelineEntry, 0, len(versions)),
	}
	if len(versions) == 0 {
		return stats, nil
	}

	words := 0
	for _, v := range versions {
		words += v.Stats.WordCount
		if v.Action == model.ActionEdit {
			stats.EditCount++
		}
		stats.Timeline = append(stats.Timeline, model.TimelineEntry{
			Timestamp: v.Timestamp,
			Action:    v.Action,
			WordCount: v.Stats.WordCount,
		})
	}
	first, last := versions[len(versions)-1], versions[0]
	stats.FirstVersion = &first
	stats.LastVersion = &last
	stats.AverageWordCount = int(math.Round(float64(words) / float64(len(versions))))
	return stats, nil
}

// CleanupOldVersions keeps only the newest keepCount revisions. keepCount 0
// still keeps the newest one.
func (s *VersionService) CleanupOldVersions(docID string, keepCount int) (int, error) {
	docID, err := requireDocID(docID)
	if err != nil {
		return 0, err
	}
	if keepCount < 0 {
		return 0, apperror.InvalidArgument("keepCount must not be negative")
	}

	removed := s.Repo.Truncate(docID, keepCount)
	if removed == 0 {
		return 0, nil
	}
	s.Metrics.RevisionsEvicted(removed)
	logger.Sugar.Infof("Cleaned up %d old revisions of doc %s", removed, docID)

	s.notify(docID, socket.HistoryCleanedType, map[string]int{
		"removed":   removed,
		"remaining": s.Repo.Count(docID),
	})
	return removed, nil
}

// ExportVersionHistory returns revision metadata, newest first, without content.
func (s *VersionService) ExportVersionHistory(docID string) (*model.ExportBundle, error) {
	versions, err := s.GetVersions(docID)
	if err != nil {
		return nil, err
	}

	bundle := &model.ExportBundle{
		DocumentID:    strings.TrimSpace(docID),
		ExportedAt:    s.now().UTC(),
		TotalVersions: len(versions),
		Versions:      make([]model.RevisionRef, 0, len(versions)),
	}
	for _, v := range versions {
		bundle.Versions = append(bundle.Versions, v.Ref())
	}
	return bundle, nil
}

func (s *VersionService) notify(docID, event string, payload any) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(docID, event, payload)
}

func requireDocID(docID string) (string, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return "", apperror.InvalidArgument("documentId is required")
	}
	return docID, nil
}

func newestFirst(log []model.Revision) []model.Revision {
	out := make([]model.Revision, len(log))
	for i, rev := range log {
		out[len(log)-1-i] = rev
	}
	return out
}

func sanitizeExtra(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	return model.CloneExtra(extra, sanitize.String)
}
