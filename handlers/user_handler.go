package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hobbymeet/metrics"
	"hobbymeet/middleware"
	"hobbymeet/models"
	"hobbymeet/services"
	"hobbymeet/utils/errors"
)

type UserHandler struct {
	sessions *services.SessionService
}

func NewUserHandler(sessions *services.SessionService) *UserHandler {
	return &UserHandler{sessions: sessions}
}

// requireUser resolves the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	profile, err := h.sessions.Profile(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, profile)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var upd services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if err := h.sessions.UpdateProfile(r.Context(), userID, upd); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Profile updated"})
}

func (h *UserHandler) UpdateHobbies(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input struct {
		Hobbies []string `json:"hobbies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if err := h.sessions.UpdateHobbies(r.Context(), userID, input.Hobbies); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Hobbies updated"})
}

func (h *UserHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input struct {
		Privacy models.PrivacyLevel `json:"privacy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if err := h.sessions.UpdatePrivacy(r.Context(), userID, input.Privacy); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Privacy settings updated", "privacy": string(input.Privacy)})
}

func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	active, err := h.sessions.ToggleActiveStatus(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{"active": active})
}

func (h *UserHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input struct {
		Role models.UserRole `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if err := h.sessions.UpgradeRole(r.Context(), userID, input.Role); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Role updated", "role": string(input.Role)})
}

type targetInput struct {
	UserID int64 `json:"user_id"`
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.relationshipOp(w, r, h.sessions.FollowUser, "Following user")
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.relationshipOp(w, r, h.sessions.UnfollowUser, "Unfollowed user")
}

func (h *UserHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.relationshipOp(w, r, h.sessions.BlockUser, "User blocked")
}

func (h *UserHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.relationshipOp(w, r, h.sessions.UnblockUser, "User unblocked")
}

func (h *UserHandler) relationshipOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, targetID int64) error, message string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input targetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if err := op(r.Context(), userID, input.UserID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": message})
}

func (h *UserHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input struct {
		UserID      int64  `json:"user_id"`
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	report, err := h.sessions.ReportUser(r.Context(), userID, input.UserID, input.Reason, input.Description)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	metrics.Reports.Inc()
	writeJSON(w, map[string]string{
		"message":   "Report submitted",
		"reference": report.Reference,
	})
}

func (h *UserHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input struct {
		ReceiverID int64  `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	msg, err := h.sessions.SendMessage(r.Context(), userID, input.ReceiverID, input.Content)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{"message": "Message sent", "id": msg.ID})
}

// NearbyPeople serves GET /people/nearby?lat=&lng=&radius=, the geo-index
// query over users who made themselves visible on the map.
func (h *UserHandler) NearbyPeople(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	radius := 0.0
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
	}

	people, err := h.sessions.NearbyPeople(r.Context(), lat, lng, radius)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"people": people,
		"count":  len(people),
	})
}

func (h *UserHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	notifications, err := h.sessions.Notifications(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

func (h *UserHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	notifID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if err := h.sessions.MarkNotificationRead(r.Context(), userID, notifID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Notification marked as read"})
}
