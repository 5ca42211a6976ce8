package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/repository/firestore"
	"github.com/James3014/TurnFix-qwen/pkg/repository/memory"
)

func runSnippetRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and pending status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		snippet := &model.Snippet{
			Symptom:       "後座",
			PracticeTips:  []string{"重心前移", "壓前刃"},
			Pitfalls:      []string{"過度前傾"},
			Dosage:        "每趟10次",
			SourceExcerpt: "重心太靠後導致轉彎失控",
			Confidence:    0.85,
		}

		created, err := repo.Snippet().Create(ctx, snippet)
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}

		if created.ID == "" {
			t.Error("expected non-empty ID")
		}
		if created.ReviewStatus != types.ReviewStatusPending {
			t.Errorf("expected pending status, got %s", created.ReviewStatus)
		}
		if created.Revision != 0 {
			t.Errorf("expected revision 0, got %d", created.Revision)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
	})

	t.Run("Create rejects missing symptom", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Snippet().Create(ctx, &model.Snippet{Confidence: 0.5})
		if !errors.Is(err, model.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("Create rejects confidence out of range", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Snippet().Create(ctx, &model.Snippet{Symptom: "後座", Confidence: 1.5})
		if !errors.Is(err, model.ErrInvalidConfidence) {
			t.Errorf("expected ErrInvalidConfidence, got %v", err)
		}
	})

	t.Run("Get returns stored snippet", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Snippet().Create(ctx, &model.Snippet{
			Symptom:    "轉彎外滑",
			Confidence: 0.7,
		})
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}

		got, err := repo.Snippet().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get snippet: %v", err)
		}
		if got.Symptom != "轉彎外滑" {
			t.Errorf("expected symptom 轉彎外滑, got %s", got.Symptom)
		}
	})

	t.Run("Get unknown ID returns ErrSnippetNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Snippet().Get(ctx, model.NewSnippetID())
		if !errors.Is(err, model.ErrSnippetNotFound) {
			t.Errorf("expected ErrSnippetNotFound, got %v", err)
		}
	})

	t.Run("SetStatus updates status and bumps revision", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Snippet().Create(ctx, &model.Snippet{
			Symptom:    "內傾過度",
			Confidence: 0.9,
		})
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}

		updated, err := repo.Snippet().SetStatus(ctx, created.ID, types.ReviewStatusApproved)
		if err != nil {
			t.Fatalf("failed to set status: %v", err)
		}
		if updated.ReviewStatus != types.ReviewStatusApproved {
			t.Errorf("expected approved, got %s", updated.ReviewStatus)
		}
		if updated.Revision != created.Revision+1 {
			t.Errorf("expected revision %d, got %d", created.Revision+1, updated.Revision)
		}

		// Free transitions: approved back to pending is allowed
		reset, err := repo.Snippet().SetStatus(ctx, created.ID, types.ReviewStatusPending)
		if err != nil {
			t.Fatalf("failed to reset status: %v", err)
		}
		if reset.ReviewStatus != types.ReviewStatusPending {
			t.Errorf("expected pending, got %s", reset.ReviewStatus)
		}
	})

	t.Run("SetStatus unknown ID returns ErrSnippetNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Snippet().SetStatus(ctx, model.NewSnippetID(), types.ReviewStatusRejected)
		if !errors.Is(err, model.ErrSnippetNotFound) {
			t.Errorf("expected ErrSnippetNotFound, got %v", err)
		}
	})

	t.Run("SetStatus rejects invalid status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Snippet().Create(ctx, &model.Snippet{Symptom: "後座", Confidence: 0.5})
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}

		_, err = repo.Snippet().SetStatus(ctx, created.ID, types.ReviewStatus("archived"))
		if !errors.Is(err, model.ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("SaveAll upserts and preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Snippet().Create(ctx, &model.Snippet{Symptom: "後座", Confidence: 0.6})
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}

		edited := created.Clone()
		edited.ReviewStatus = types.ReviewStatusApproved
		fresh := &model.Snippet{
			ID:         model.NewSnippetID(),
			Symptom:    "站姿過窄",
			Confidence: 0.8,
		}

		if err := repo.Snippet().SaveAll(ctx, []*model.Snippet{edited, fresh}); err != nil {
			t.Fatalf("failed to save all: %v", err)
		}

		got, err := repo.Snippet().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get snippet: %v", err)
		}
		if got.ReviewStatus != types.ReviewStatusApproved {
			t.Errorf("expected approved, got %s", got.ReviewStatus)
		}
		// Firestore stores timestamps at microsecond precision
		if !got.CreatedAt.Truncate(time.Millisecond).Equal(created.CreatedAt.Truncate(time.Millisecond)) {
			t.Errorf("expected CreatedAt preserved, got %v vs %v", got.CreatedAt, created.CreatedAt)
		}

		if _, err := repo.Snippet().Get(ctx, fresh.ID); err != nil {
			t.Fatalf("expected fresh snippet stored: %v", err)
		}
	})

	t.Run("List returns snippets oldest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Snippet().Create(ctx, &model.Snippet{Symptom: "first", Confidence: 0.5})
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}
		second, err := repo.Snippet().Create(ctx, &model.Snippet{Symptom: "second", Confidence: 0.5})
		if err != nil {
			t.Fatalf("failed to create snippet: %v", err)
		}

		all, err := repo.Snippet().List(ctx)
		if err != nil {
			t.Fatalf("failed to list snippets: %v", err)
		}
		if len(all) < 2 {
			t.Fatalf("expected at least 2 snippets, got %d", len(all))
		}

		var firstIdx, secondIdx int
		for i, sn := range all {
			switch sn.ID {
			case first.ID:
				firstIdx = i
			case second.ID:
				secondIdx = i
			}
		}
		if firstIdx > secondIdx {
			t.Errorf("expected oldest first ordering, first at %d, second at %d", firstIdx, secondIdx)
		}
	})
}

func TestMemorySnippetRepository(t *testing.T) {
	runSnippetRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreSnippetRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	runSnippetRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, databaseID)
		if err != nil {
			t.Fatalf("failed to create firestore repository: %v", err)
		}
		t.Cleanup(func() {
			if err := repo.Close(); err != nil {
				t.Logf("failed to close firestore repository: %v", err)
			}
		})
		return repo
	})
}
