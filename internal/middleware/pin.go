package middleware

import (
	"database/sql"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/mhutton/lodestar/internal/store"
)

const pinHeader = "X-Caregiver-PIN"

// RequireCaregiverPIN guards caregiver-only endpoints. The client sends the
// PIN in the X-Caregiver-PIN header; it is checked against the bcrypt hash
// in settings. If no PIN has been configured yet, access is open so first-run
// setup can happen at all.
func RequireCaregiverPIN(settings *store.SettingsStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hash, err := settings.Get(store.KeyCaregiverPINHash)
			if errors.Is(err, sql.ErrNoRows) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			pin := r.Header.Get(pinHeader)
			if pin == "" {
				http.Error(w, "Caregiver PIN required", http.StatusUnauthorized)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
				http.Error(w, "Incorrect PIN", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
