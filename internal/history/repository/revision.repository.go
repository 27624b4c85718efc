package repository

import (
	"sync"
	"time"

	"github.com/rs/xid"

	"ringkasan/internal/history/model"
	"ringkasan/pkg/logger"
)

// DefaultRetentionCap is the per-document history length used when none is configured.
const DefaultRetentionCap = 50

// RevisionRepository keeps every document's revisions in memory, oldest first.
// One lock covers all logs: append and trim must never interleave.
type RevisionRepository struct {
	mu        sync.RWMutex
	logs      map[string][]model.Revision
	retention int
}

// NewRevisionRepository returns an empty repository. A cap below one keeps
// only the newest revision of each document.
func NewRevisionRepository(retention int) *RevisionRepository {
	return &RevisionRepository{
		logs:      make(map[string][]model.Revision),
		retention: retention,
	}
}

// Cap returns the retention cap.
func (r *RevisionRepository) Cap() int {
	return r.retention
}

// Append stores rev as the newest revision of its document and evicts the
// oldest revisions beyond the cap. A revision without an ID gets one under the
// lock, so IDs sort in insertion order. A timestamp not after the previous
// revision's is moved one nanosecond past it. Returns the stored revision and
// how many were evicted.
func (r *RevisionRepository) Append(rev model.Revision) (model.Revision, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rev.ID == "" {
		rev.ID = xid.New().String()
	}
	log := r.logs[rev.DocumentID]
	if n := len(log); n > 0 && !rev.Timestamp.After(log[n-1].Timestamp) {
		rev.Timestamp = log[n-1].Timestamp.Add(time.Nanosecond)
	}
	stored := rev.Clone()
	log = append(log, stored)

	log, evicted := keepNewest(log, r.retention)
	r.logs[rev.DocumentID] = log
	if evicted > 0 {
		logger.Sugar.Debugf("Evicted %d revisions of doc %s (cap %d)", evicted, rev.DocumentID, r.retention)
	}
	return stored.Clone(), evicted
}

// List returns a copy of the document's revisions, oldest first.
func (r *RevisionRepository) List(docID string) []model.Revision {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.logs[docID]
	out := make([]model.Revision, len(log))
	for i, rev := range log {
		out[i] = rev.Clone()
	}
	return out
}

// Find returns the revision with the given id.
func (r *RevisionRepository) Find(docID, versionID string) (model.Revision, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rev := range r.logs[docID] {
		if rev.ID == versionID {
			return rev.Clone(), true
		}
	}
	return model.Revision{}, false
}

// Latest returns the newest revision of the document.
func (r *RevisionRepository) Latest(docID string) (model.Revision, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.logs[docID]
	if len(log) == 0 {
		return model.Revision{}, false
	}
	return log[len(log)-1].Clone(), true
}

// Count returns the number of retained revisions of the document.
func (r *RevisionRepository) Count(docID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.logs[docID])
}

// Truncate keeps only the newest keep revisions and returns how many were
// removed. keep below one keeps the newest revision.
func (r *RevisionRepository) Truncate(docID string, keep int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, removed := keepNewest(r.logs[docID], keep)
	if removed > 0 {
		r.logs[docID] = log
	}
	return removed
}

// keepNewest drops the oldest entries of log beyond limit.
func keepNewest(log []model.Revision, limit int) ([]model.Revision, int) {
	if limit < 1 {
		limit = 1
	}
	excess := len(log) - limit
	if excess <= 0 {
		return log, 0
	}
	kept := make([]model.Revision, limit)
	copy(kept, log[excess:])
	return kept, excess
}
