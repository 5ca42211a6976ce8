package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/James3014/TurnFix-qwen/pkg/controller/http"
	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/repository/memory"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, interfaces.Repository) {
	t.Helper()

	repo := memory.New()
	catalog := []*model.PracticeCard{
		{ID: 1, Name: "重心前移練習", Goal: "改善後座", CardType: "balance", Symptoms: []string{"後座"}},
		{ID: 2, Name: "單腳平衡", Goal: "強化平衡", CardType: "balance", Symptoms: []string{"後座"}},
	}
	uc := usecase.New(repo, usecase.WithCatalog(catalog))

	ts := httptest.NewServer(httpctrl.New(uc))
	t.Cleanup(ts.Close)
	return ts, repo
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { resp.Body.Close() })
	if dst != nil {
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(dst)).Required()
	}
	return resp
}

func TestSessionFeedbackEndpoint(t *testing.T) {
	ts, repo := newTestServer(t)

	t.Run("valid submission returns 201", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/session-feedback",
			`{"session_id": 1, "symptom": "後座", "rating": "applicable"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)
	})

	t.Run("feedback text and type reach storage", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/session-feedback",
			`{"session_id": 9, "symptom": "後座", "rating": "applicable", "feedback_text": "下半場好多了", "feedback_type": "delayed"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)

		records, err := repo.SessionFeedback().List(context.Background())
		gt.NoError(t, err).Required()
		var found *model.SessionFeedback
		for _, r := range records {
			if r.SessionID == 9 {
				found = r
			}
		}
		gt.Value(t, found).NotNil().Required()
		gt.Value(t, found.Comment).Equal("下半場好多了")
		gt.Value(t, found.Timing).Equal(types.FeedbackTimingDelayed)
	})

	t.Run("unknown rating returns 400", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/session-feedback",
			`{"session_id": 1, "symptom": "後座", "rating": "great"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/session-feedback", `{broken`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})
}

func TestCardFeedbackEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("rating a catalog card returns 201", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/practice-card-feedback",
			`{"session_id": 1, "practice_id": 1, "rating": 5}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)
	})

	t.Run("unknown card returns 404", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/practice-card-feedback",
			`{"session_id": 1, "practice_id": 999, "rating": 5}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
	})

	t.Run("favorite toggle on existing record returns 200", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/practice-card-feedback/favorite",
			`{"session_id": 1, "practice_id": 1, "is_favorite": true}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	})

	t.Run("favorite toggle without a record returns 404", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/practice-card-feedback/favorite",
			`{"session_id": 77, "practice_id": 1, "is_favorite": true}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
	})
}

type recommendationsResponse struct {
	Recommendations struct {
		Message         string `json:"message"`
		Recommendations []struct {
			ID                int64  `json:"id"`
			Name              string `json:"name"`
			Goal              string `json:"goal"`
			SimilarToPrevious bool   `json:"similar_to_previous"`
			BasedOnPreference bool   `json:"based_on_preference"`
		} `json:"recommendations"`
	} `json:"recommendations"`
}

func TestRecommendationsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("no history yields an empty list with a message", func(t *testing.T) {
		var body recommendationsResponse
		resp := getJSON(t, ts.URL+"/api/personalization/recommendations/1", &body)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Array(t, body.Recommendations.Recommendations).Length(0)
		gt.Value(t, body.Recommendations.Message).NotEqual("")
	})

	t.Run("history yields tagged recommendations", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/practice-card-feedback",
			`{"session_id": 1, "practice_id": 2, "rating": 5}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)

		var body recommendationsResponse
		respGet := getJSON(t, ts.URL+"/api/personalization/recommendations/1?session_id=1", &body)
		gt.Value(t, respGet.StatusCode).Equal(http.StatusOK)
		gt.Array(t, body.Recommendations.Recommendations).Length(1)
		entry := body.Recommendations.Recommendations[0]
		gt.Value(t, entry.ID).Equal(int64(2))
		gt.Value(t, entry.Name).Equal("單腳平衡")
		gt.B(t, entry.SimilarToPrevious).True()
		gt.B(t, entry.BasedOnPreference).True()
	})

	t.Run("unknown card returns 404", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/api/personalization/recommendations/999", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
	})

	t.Run("non-numeric card ID returns 400", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/api/personalization/recommendations/abc", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})

	t.Run("followup needs returns recommended cards", func(t *testing.T) {
		var body struct {
			RecommendedCards []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"recommended_cards"`
		}
		resp := postJSON(t, ts.URL+"/api/followup-needs",
			`{"input_text": "想加強平衡", "level": "", "terrain": ""}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body)).Required()
		gt.Array(t, body.RecommendedCards).Length(2)
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	postJSON(t, ts.URL+"/api/session-feedback",
		`{"session_id": 1, "symptom": "後座", "rating": "applicable"}`)
	postJSON(t, ts.URL+"/api/practice-card-feedback",
		`{"session_id": 1, "practice_id": 1, "rating": 4}`)

	t.Run("summary returns aggregates", func(t *testing.T) {
		var body struct {
			TotalSessionFeedback int     `json:"total_session_feedback"`
			CompletionRate       float64 `json:"completion_rate"`
			TotalCardRatings     int     `json:"total_card_ratings"`
		}
		resp := getJSON(t, ts.URL+"/api/feedback/analytics/?total_sessions=2", &body)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Value(t, body.TotalSessionFeedback).Equal(1)
		gt.Value(t, body.CompletionRate).Equal(0.5)
		gt.Value(t, body.TotalCardRatings).Equal(1)
	})

	t.Run("card analytics returns per-card stats", func(t *testing.T) {
		var body struct {
			TotalRatings  int     `json:"total_ratings"`
			AverageRating float64 `json:"average_rating"`
		}
		resp := getJSON(t, ts.URL+"/api/feedback/analytics/cards/1", &body)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Value(t, body.TotalRatings).Equal(1)
		gt.Value(t, body.AverageRating).Equal(4.0)
	})

	t.Run("negative total_sessions returns 400", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/api/feedback/analytics/?total_sessions=-1", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})
}

func TestAdminKnowledgeEndpoints(t *testing.T) {
	ts, repo := newTestServer(t)
	ctx := context.Background()

	upload := `{
		"knowledge_snippets": [
			{"id": "k1", "symptom": "後座", "practice_tips": ["重心前移"], "confidence": 0.9},
			{"id": "k2", "symptom": "轉彎外滑", "confidence": 0.7}
		]
	}`

	t.Run("upload imports snippets as pending", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/admin/knowledge/upload", upload)
		gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)

		sn, err := repo.Snippet().Get(ctx, "k1")
		gt.NoError(t, err).Required()
		gt.Value(t, sn.ReviewStatus.String()).Equal("pending")
	})

	t.Run("list returns snippets with counts", func(t *testing.T) {
		var body struct {
			Snippets []json.RawMessage `json:"snippets"`
			Total    int               `json:"total"`
			Counts   map[string]int    `json:"counts"`
		}
		resp := getJSON(t, ts.URL+"/api/admin/knowledge/", &body)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Value(t, body.Total).Equal(2)
		gt.Value(t, body.Counts["pending"]).Equal(2)
	})

	t.Run("single status change returns the updated snippet", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/admin/knowledge/k1/status", `{"status": "approved"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	})

	t.Run("batch status reports updated and missing", func(t *testing.T) {
		var body struct {
			Updated []string `json:"updated"`
			Missing []string `json:"missing"`
		}
		resp := postJSON(t, ts.URL+"/api/admin/knowledge/batch-status",
			`{"ids": ["k2", "ghost"], "status": "rejected"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body)).Required()
		gt.Array(t, body.Updated).Equal([]string{"k2"})
		gt.Array(t, body.Missing).Equal([]string{"ghost"})
	})

	t.Run("unknown status returns 400", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/admin/knowledge/k1/status", `{"status": "archived"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})

	t.Run("save persists edits and export returns approved only", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/admin/knowledge/save", `{}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		stored, err := repo.Snippet().Get(ctx, "k1")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.ReviewStatus.String()).Equal("approved")

		var body struct {
			Snippets []struct {
				ID string `json:"id"`
			} `json:"knowledge_snippets"`
		}
		respExport := getJSON(t, ts.URL+"/api/admin/knowledge/export", &body)
		gt.Value(t, respExport.StatusCode).Equal(http.StatusOK)
		gt.Array(t, body.Snippets).Length(1)
		gt.Value(t, body.Snippets[0].ID).Equal("k1")
	})

	t.Run("status change on missing snippet returns 404", func(t *testing.T) {
		resp := postJSON(t, ts.URL+fmt.Sprintf("/api/admin/knowledge/%s/status", "ghost"),
			`{"status": "approved"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
	})
}
