package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhutton/lodestar/internal/database"
	"github.com/mhutton/lodestar/internal/quest"
	"github.com/mhutton/lodestar/internal/store"
)

func setupQuestHandler(t *testing.T) (*QuestHandler, *http.ServeMux) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewQuestHandler(store.NewQuestStore(db), quest.NewLedger(), quest.NewScheduler(), nil, slog.New(slog.DiscardHandler))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quests", h.List)
	mux.HandleFunc("GET /api/quests/next", h.Next)
	mux.HandleFunc("POST /api/quests/{id}/complete", h.Complete)
	mux.HandleFunc("POST /api/quests/reset", h.Reset)
	mux.HandleFunc("POST /api/quests/custom", h.CreateCustom)
	return h, mux
}

func TestQuestList(t *testing.T) {
	_, mux := setupQuestHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quests", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var quests []questView
	if err := json.NewDecoder(rec.Body).Decode(&quests); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(quests) == 0 {
		t.Fatal("expected seeded quests")
	}
	for _, q := range quests {
		if q.CompletedAt != nil {
			t.Errorf("quest %q completed before any completion", q.ID)
		}
	}
}

func TestQuestNext(t *testing.T) {
	_, mux := setupQuestHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quests/next", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var next questView
	if err := json.NewDecoder(rec.Body).Decode(&next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if next.ID == "" {
		t.Error("next quest has no id")
	}
}

func TestQuestCompleteAndReset(t *testing.T) {
	h, mux := setupQuestHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/brush-teeth/complete", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d, want 200", rec.Code)
	}
	var completed questView
	if err := json.NewDecoder(rec.Body).Decode(&completed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Error("completed quest missing completed_at")
	}
	if _, ok := h.ledger.LastCompletion("brush-teeth"); !ok {
		t.Error("completion not recorded in ledger")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/reset", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d, want 204", rec.Code)
	}
	if _, ok := h.ledger.LastCompletion("brush-teeth"); ok {
		t.Error("ledger not cleared by reset")
	}
}

func TestQuestCompleteUnknown(t *testing.T) {
	_, mux := setupQuestHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/no-such/complete", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestQuestCreateCustom(t *testing.T) {
	_, mux := setupQuestHandler(t)

	body := strings.NewReader(`{"title": "Visit the garden", "description": "Walk to the roses."}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/custom", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	// Custom quests stay out of the catalog listing.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quests", nil))
	var quests []questView
	if err := json.NewDecoder(rec.Body).Decode(&quests); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, q := range quests {
		if q.Custom {
			t.Errorf("custom quest %q in catalog listing", q.ID)
		}
	}
}

func TestQuestCreateCustomRequiresTitle(t *testing.T) {
	_, mux := setupQuestHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/custom", strings.NewReader(`{"title": "  "}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
