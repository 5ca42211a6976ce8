package curation

import (
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// Filter returns the ordered subset of snippets matching the status filter
// (empty means all) AND containing the query case-insensitively in symptom
// name, source excerpt or original text. Side-effect free.
func Filter(snippets []*model.Snippet, status types.ReviewStatus, query string) []*model.Snippet {
	q := strings.ToLower(strings.TrimSpace(query))

	var result []*model.Snippet
	for _, s := range snippets {
		if status != "" && s.ReviewStatus != status {
			continue
		}
		if q != "" && !matchesQuery(s, q) {
			continue
		}
		result = append(result, s)
	}
	return result
}

func matchesQuery(s *model.Snippet, q string) bool {
	return strings.Contains(strings.ToLower(s.Symptom), q) ||
		strings.Contains(strings.ToLower(s.SourceExcerpt), q) ||
		strings.Contains(strings.ToLower(s.OriginalText), q)
}

// BatchResult reports the outcome of a batch status change. Missing IDs are
// skipped, not fatal.
type BatchResult struct {
	Updated []model.SnippetID
	Missing []model.SnippetID
}

// Session is the curator's working set: a snapshot of snippets plus the
// current filter, search term and selection. The selection is always a
// subset of the visible snippets; any filter or search change re-intersects
// it so a later batch operation cannot act on hidden items.
type Session struct {
	mu       sync.RWMutex
	snippets []*model.Snippet
	index    map[model.SnippetID]*model.Snippet
	status   types.ReviewStatus // "" means all
	query    string
	selected map[model.SnippetID]struct{}
}

// NewSession creates a working set from a snippet snapshot. The snapshot is
// deep-copied; later repository changes do not leak in.
func NewSession(snippets []*model.Snippet) *Session {
	s := &Session{
		snippets: make([]*model.Snippet, 0, len(snippets)),
		index:    make(map[model.SnippetID]*model.Snippet, len(snippets)),
		selected: make(map[model.SnippetID]struct{}),
	}
	for _, sn := range snippets {
		copied := sn.Clone()
		s.snippets = append(s.snippets, copied)
		s.index[copied.ID] = copied
	}
	return s
}

// SetStatusFilter sets the status filter (empty clears it) and drops
// selections on items the new view hides.
func (s *Session) SetStatusFilter(status types.ReviewStatus) error {
	if status != "" && !status.IsValid() {
		return goerr.Wrap(model.ErrInvalidStatus, "unknown review status", goerr.V("status", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.reintersectLocked()
	return nil
}

// SetQuery sets the search term and drops selections on items the new view
// hides.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.reintersectLocked()
}

// Visible returns the filtered view under the current filter and query
func (s *Session) Visible() []*model.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := s.visibleLocked()
	result := make([]*model.Snippet, len(visible))
	for i, sn := range visible {
		result[i] = sn.Clone()
	}
	return result
}

func (s *Session) visibleLocked() []*model.Snippet {
	return Filter(s.snippets, s.status, s.query)
}

func (s *Session) reintersectLocked() {
	visible := make(map[model.SnippetID]struct{})
	for _, sn := range s.visibleLocked() {
		visible[sn.ID] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := visible[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// Select marks the given IDs for batch action. IDs not currently visible
// are ignored.
func (s *Session) Select(ids ...model.SnippetID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make(map[model.SnippetID]struct{})
	for _, sn := range s.visibleLocked() {
		visible[sn.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := visible[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
}

// Toggle flips the selection state of one visible snippet
func (s *Session) Toggle(id model.SnippetID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	for _, sn := range s.visibleLocked() {
		if sn.ID == id {
			s.selected[id] = struct{}{}
			return
		}
	}
}

// SelectAll selects exactly the currently visible snippets
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[model.SnippetID]struct{})
	for _, sn := range s.visibleLocked() {
		s.selected[sn.ID] = struct{}{}
	}
}

// ClearSelection drops all selections
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[model.SnippetID]struct{})
}

// Selected returns the selected IDs in working-set order
func (s *Session) Selected() []model.SnippetID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.SnippetID
	for _, sn := range s.snippets {
		if _, ok := s.selected[sn.ID]; ok {
			result = append(result, sn.ID)
		}
	}
	return result
}

// SetStatus sets the review status of one snippet in the working set.
// Returns model.ErrSnippetNotFound if the ID is absent.
func (s *Session) SetStatus(id model.SnippetID, status types.ReviewStatus) error {
	if !status.IsValid() {
		return goerr.Wrap(model.ErrInvalidStatus, "unknown review status", goerr.V("status", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setStatusLocked(id, status)
}

func (s *Session) setStatusLocked(id model.SnippetID, status types.ReviewStatus) error {
	sn, ok := s.index[id]
	if !ok {
		return goerr.Wrap(model.ErrSnippetNotFound, "snippet not found", goerr.V("id", id))
	}
	sn.ReviewStatus = status
	sn.Revision++
	return nil
}

// BatchSetStatus applies the status to exactly the named snippets that
// exist. Missing IDs are reported in the result, not treated as fatal; no
// other snippet's status changes.
func (s *Session) BatchSetStatus(ids []model.SnippetID, status types.ReviewStatus) (BatchResult, error) {
	if !status.IsValid() {
		return BatchResult{}, goerr.Wrap(model.ErrInvalidStatus, "unknown review status", goerr.V("status", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result BatchResult
	for _, id := range ids {
		if err := s.setStatusLocked(id, status); err != nil {
			result.Missing = append(result.Missing, id)
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result, nil
}

// Get returns one snippet from the working set
func (s *Session) Get(id model.SnippetID) (*model.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sn, ok := s.index[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrSnippetNotFound, "snippet not found", goerr.V("id", id))
	}
	return sn.Clone(), nil
}

// Snapshot returns a deep copy of the whole working set in order
func (s *Session) Snapshot() []*model.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Snippet, len(s.snippets))
	for i, sn := range s.snippets {
		result[i] = sn.Clone()
	}
	return result
}
