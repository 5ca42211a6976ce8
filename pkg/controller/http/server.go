package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
	"github.com/James3014/TurnFix-qwen/pkg/utils/errutil"
	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
	"github.com/James3014/TurnFix-qwen/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session-feedback", s.handleSubmitSessionFeedback)
		r.Post("/practice-card-feedback", s.handleSubmitCardFeedback)
		r.Post("/practice-card-feedback/favorite", s.handleSetFavorite)
		r.Post("/followup-needs", s.handleFollowupNeeds)

		r.Get("/personalization/recommendations/{practiceID}", s.handleRecommendations)

		r.Route("/feedback/analytics", func(r chi.Router) {
			r.Get("/", s.handleAnalyticsSummary)
			r.Get("/cards/{practiceID}", s.handleCardAnalytics)
			r.Get("/symptoms/{symptom}", s.handleSymptomApplicability)
		})

		r.Route("/admin/knowledge", func(r chi.Router) {
			r.Get("/", s.handleListSnippets)
			r.Post("/upload", s.handleUploadSnippets)
			r.Post("/{snippetID}/status", s.handleSetStatus)
			r.Post("/batch-status", s.handleBatchStatus)
			r.Post("/save", s.handleSave)
			r.Get("/export", s.handleExport)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests. It also embeds a
// request-scoped logger carrying the request ID into the context, so
// downstream log lines correlate with the access line.
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(r.Context(), w, data)
}

// handleError maps domain errors to HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, model.ErrMissingField),
		errors.Is(err, model.ErrInvalidConfidence),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidRating):
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
	case errors.Is(err, model.ErrSnippetNotFound),
		errors.Is(err, model.ErrCardNotFound),
		errors.Is(err, model.ErrCardFeedbackNotFound):
		errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

// decodeJSON parses the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(usecase.ErrInvalidInput, "failed to parse request body",
			goerr.V("cause", err.Error()))
	}
	return nil
}
