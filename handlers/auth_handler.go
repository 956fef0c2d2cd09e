package handlers

import (
	"encoding/json"
	"net/http"

	"hobbymeet/metrics"
	"hobbymeet/middleware"
	"hobbymeet/services"
	"hobbymeet/utils/errors"
)

type AuthHandler struct {
	sessions *services.SessionService
}

func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	profile, token, err := h.sessions.Login(r.Context(), creds)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	metrics.Logins.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"token":   token,
		"profile": profile,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	if err := h.sessions.Logout(r.Context(), userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}
