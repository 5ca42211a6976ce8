package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/service/curation"
	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
)

// ReviewUseCase drives the snippet review workflow. Status changes apply to
// an in-memory working set and reach the repository only on Save, so a
// failed save never loses the curator's edits.
type ReviewUseCase struct {
	repo interfaces.Repository

	mu      sync.Mutex
	session *curation.Session
}

// NewReviewUseCase creates the review use case
func NewReviewUseCase(repo interfaces.Repository) *ReviewUseCase {
	return &ReviewUseCase{
		repo: repo,
	}
}

// Load refreshes the working set from the repository, discarding unsaved
// edits.
func (uc *ReviewUseCase) Load(ctx context.Context) error {
	snippets, err := uc.repo.Snippet().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load snippets")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.session = curation.NewSession(snippets)

	logging.From(ctx).Info("review working set loaded", "snippets", len(snippets))
	return nil
}

func (uc *ReviewUseCase) ensureSession(ctx context.Context) (*curation.Session, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.session == nil {
		snippets, err := uc.repo.Snippet().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load snippets")
		}
		uc.session = curation.NewSession(snippets)
	}
	return uc.session, nil
}

// ListInput filters and paginates the review queue
type ListInput struct {
	Status types.ReviewStatus // empty means all
	Query  string
	Offset int
	Limit  int // 0 means no limit
}

// ListOutput is one page of the filtered review queue
type ListOutput struct {
	Snippets []*model.Snippet
	Total    int // matching snippets before pagination
	Counts   map[types.ReviewStatus]int
}

// List returns the filtered, searched and paginated review queue, plus
// per-status counts over the whole working set.
func (uc *ReviewUseCase) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "unknown review status",
			goerr.V("status", input.Status))
	}
	if input.Offset < 0 || input.Limit < 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "offset and limit must not be negative",
			goerr.V("offset", input.Offset), goerr.V("limit", input.Limit))
	}

	session, err := uc.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	all := session.Snapshot()
	matched := curation.Filter(all, input.Status, input.Query)

	counts := make(map[types.ReviewStatus]int, len(types.AllReviewStatuses()))
	for _, s := range types.AllReviewStatuses() {
		counts[s] = 0
	}
	for _, sn := range all {
		counts[sn.ReviewStatus.Normalize()]++
	}

	out := &ListOutput{
		Total:  len(matched),
		Counts: counts,
	}

	page := matched
	if input.Offset > 0 {
		if input.Offset >= len(page) {
			page = nil
		} else {
			page = page[input.Offset:]
		}
	}
	if input.Limit > 0 && len(page) > input.Limit {
		page = page[:input.Limit]
	}
	out.Snippets = page

	return out, nil
}

// Get returns one snippet from the working set
func (uc *ReviewUseCase) Get(ctx context.Context, id model.SnippetID) (*model.Snippet, error) {
	session, err := uc.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	return session.Get(id)
}

// SetStatus changes one snippet's review status in the working set
func (uc *ReviewUseCase) SetStatus(ctx context.Context, id model.SnippetID, status types.ReviewStatus) (*model.Snippet, error) {
	session, err := uc.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := session.SetStatus(id, status); err != nil {
		return nil, err
	}
	return session.Get(id)
}

// BatchSetStatus changes the status of several snippets in the working set.
// Missing IDs are reported, not fatal.
func (uc *ReviewUseCase) BatchSetStatus(ctx context.Context, ids []model.SnippetID, status types.ReviewStatus) (curation.BatchResult, error) {
	session, err := uc.ensureSession(ctx)
	if err != nil {
		return curation.BatchResult{}, err
	}

	result, err := session.BatchSetStatus(ids, status)
	if err != nil {
		return curation.BatchResult{}, err
	}

	logging.From(ctx).Info("batch status applied",
		"status", status,
		"updated", len(result.Updated),
		"missing", len(result.Missing))
	return result, nil
}

// Save writes the working set back to the repository. On failure the
// working set is kept as-is so the curator can retry.
func (uc *ReviewUseCase) Save(ctx context.Context) error {
	session, err := uc.ensureSession(ctx)
	if err != nil {
		return err
	}

	snapshot := session.Snapshot()
	if err := uc.repo.Snippet().SaveAll(ctx, snapshot); err != nil {
		return goerr.Wrap(err, "failed to save review working set")
	}

	logging.From(ctx).Info("review working set saved", "snippets", len(snapshot))
	return nil
}

// ImportPayload is the JSON document produced by the extraction tool
type ImportPayload struct {
	Snippets []ImportSnippet `json:"knowledge_snippets"`
}

// ImportSnippet is one extracted snippet in the import payload
type ImportSnippet struct {
	ID            string   `json:"id"`
	Symptom       string   `json:"symptom"`
	PracticeTips  []string `json:"practice_tips"`
	Pitfalls      []string `json:"pitfalls"`
	Dosage        string   `json:"dosage"`
	SourceExcerpt string   `json:"source_snippet"`
	OriginalText  string   `json:"original_text"`
	SourceFile    string   `json:"source_file"`
	Confidence    float64  `json:"confidence"`
}

// Import ingests an extraction payload. Every imported snippet starts over
// at pending regardless of any status in the payload. Validation runs over
// the whole payload before anything is stored.
func (uc *ReviewUseCase) Import(ctx context.Context, raw []byte) (int, error) {
	var payload ImportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, goerr.Wrap(ErrInvalidInput, "failed to parse import payload",
			goerr.V("cause", err.Error()))
	}
	if len(payload.Snippets) == 0 {
		return 0, goerr.Wrap(ErrInvalidInput, "import payload has no snippets")
	}

	snippets := make([]*model.Snippet, 0, len(payload.Snippets))
	for _, in := range payload.Snippets {
		sn := &model.Snippet{
			ID:            model.SnippetID(in.ID),
			Symptom:       in.Symptom,
			PracticeTips:  in.PracticeTips,
			Pitfalls:      in.Pitfalls,
			Dosage:        in.Dosage,
			SourceExcerpt: in.SourceExcerpt,
			OriginalText:  in.OriginalText,
			SourceFile:    in.SourceFile,
			Confidence:    in.Confidence,
			ReviewStatus:  types.ReviewStatusPending,
		}
		if err := sn.Validate(); err != nil {
			return 0, goerr.Wrap(err, "invalid snippet in import payload",
				goerr.V("id", in.ID))
		}
		snippets = append(snippets, sn)
	}

	if err := uc.repo.Snippet().SaveAll(ctx, snippets); err != nil {
		return 0, goerr.Wrap(err, "failed to store imported snippets")
	}

	// Imported snippets belong in the review queue right away
	uc.mu.Lock()
	uc.session = nil
	uc.mu.Unlock()

	logging.From(ctx).Info("snippets imported", "count", len(snippets))
	return len(snippets), nil
}

// ExportPayload is the JSON document handed to the downstream knowledge
// base build
type ExportPayload struct {
	Snippets []ExportSnippet `json:"knowledge_snippets"`
}

// ExportSnippet is one approved snippet in the export payload
type ExportSnippet struct {
	ID            string   `json:"id"`
	Symptom       string   `json:"symptom"`
	PracticeTips  []string `json:"practice_tips"`
	Pitfalls      []string `json:"pitfalls"`
	Dosage        string   `json:"dosage"`
	SourceExcerpt string   `json:"source_snippet"`
	SourceFile    string   `json:"source_file"`
	Confidence    float64  `json:"confidence"`
}

// ExportApproved returns the approved snippets from the repository as the
// downstream payload. Pending and rejected snippets never leave this
// system.
func (uc *ReviewUseCase) ExportApproved(ctx context.Context) (*ExportPayload, error) {
	snippets, err := uc.repo.Snippet().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load snippets for export")
	}

	payload := &ExportPayload{
		Snippets: []ExportSnippet{},
	}
	for _, sn := range snippets {
		if sn.ReviewStatus != types.ReviewStatusApproved {
			continue
		}
		payload.Snippets = append(payload.Snippets, ExportSnippet{
			ID:            string(sn.ID),
			Symptom:       sn.Symptom,
			PracticeTips:  sn.PracticeTips,
			Pitfalls:      sn.Pitfalls,
			Dosage:        sn.Dosage,
			SourceExcerpt: sn.SourceExcerpt,
			SourceFile:    sn.SourceFile,
			Confidence:    sn.Confidence,
		})
	}

	return payload, nil
}
