package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mhutton/lodestar/internal/database"
	"github.com/mhutton/lodestar/internal/store"
)

func setupPINTest(t *testing.T) (*store.SettingsStore, http.Handler) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	settings := store.NewSettingsStore(db)
	handler := RequireCaregiverPIN(settings)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	return settings, handler
}

func setPIN(t *testing.T, settings *store.SettingsStore, pin string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	if err := settings.Set(store.KeyCaregiverPINHash, string(hash)); err != nil {
		t.Fatalf("store pin hash: %v", err)
	}
}

func TestPINNotConfiguredAllows(t *testing.T) {
	_, handler := setupPINTest(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/reset", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestPINMissingHeader(t *testing.T) {
	settings, handler := setupPINTest(t)
	setPIN(t, settings, "1234")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quests/reset", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestPINWrong(t *testing.T) {
	settings, handler := setupPINTest(t)
	setPIN(t, settings, "1234")

	req := httptest.NewRequest(http.MethodPost, "/api/quests/reset", nil)
	req.Header.Set(pinHeader, "9999")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestPINCorrect(t *testing.T) {
	settings, handler := setupPINTest(t)
	setPIN(t, settings, "1234")

	req := httptest.NewRequest(http.MethodPost, "/api/quests/reset", nil)
	req.Header.Set(pinHeader, "1234")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
