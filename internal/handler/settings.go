package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/mhutton/lodestar/internal/store"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, logger: logger}
}

// GetPIN handles GET /api/settings/pin. It reports only whether a PIN is
// configured, never the hash.
func (h *SettingsHandler) GetPIN(w http.ResponseWriter, r *http.Request) {
	_, err := h.settingsStore.Get(store.KeyCaregiverPINHash)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusOK, map[string]bool{"configured": false})
		return
	}
	if err != nil {
		h.logger.Error("get pin setting", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read settings"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

type setPINRequest struct {
	PIN string `json:"pin"`
}

// SetPIN handles PUT /api/settings/pin. Caregiver-gated, so changing an
// existing PIN requires knowing the current one.
func (h *SettingsHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req setPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.PIN) < 4 || len(req.PIN) > 8 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be 4-8 digits"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save PIN"})
		return
	}
	if err := h.settingsStore.Set(store.KeyCaregiverPINHash, string(hash)); err != nil {
		h.logger.Error("store pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
