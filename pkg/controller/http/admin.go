package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
)

// maxUploadBytes caps the extraction payload size
const maxUploadBytes = 16 << 20

func (s *Server) handleListSnippets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := usecase.ListInput{
		Query: q.Get("q"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := types.ParseReviewStatus(raw)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "unknown review status",
				goerr.V("status", raw)))
			return
		}
		input.Status = status
	}
	var err error
	if input.Offset, err = parseQueryInt(q.Get("offset"), 0); err != nil {
		handleError(w, r, err)
		return
	}
	if input.Limit, err = parseQueryInt(q.Get("limit"), 0); err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.uc.Review.List(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"snippets": out.Snippets,
		"total":    out.Total,
		"counts":   out.Counts,
	})
}

func (s *Server) handleUploadSnippets(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "failed to read upload body"))
		return
	}

	count, err := s.uc.Review.Import(r.Context(), raw)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"imported": count,
	})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := model.SnippetID(chi.URLParam(r, "snippetID"))

	var input struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	status, err := types.ParseReviewStatus(input.Status)
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "unknown review status",
			goerr.V("status", input.Status)))
		return
	}

	updated, err := s.uc.Review.SetStatus(r.Context(), id, status)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	if len(input.IDs) == 0 {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "ids must not be empty"))
		return
	}

	status, err := types.ParseReviewStatus(input.Status)
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "unknown review status",
			goerr.V("status", input.Status)))
		return
	}

	ids := make([]model.SnippetID, len(input.IDs))
	for i, raw := range input.IDs {
		ids[i] = model.SnippetID(raw)
	}

	result, err := s.uc.Review.BatchSetStatus(r.Context(), ids, status)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"updated": result.Updated,
		"missing": result.Missing,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Review.Save(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"saved": true,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	payload, err := s.uc.Review.ExportApproved(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, payload)
}

func parseQueryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "query parameter must be a non-negative integer",
			goerr.V("value", raw))
	}
	return n, nil
}
