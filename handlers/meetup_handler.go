package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"hobbymeet/metrics"
	"hobbymeet/middleware"
	"hobbymeet/models"
	"hobbymeet/services"
	"hobbymeet/utils/errors"
)

type MeetupHandler struct {
	discovery *services.MeetupService
}

func NewMeetupHandler(discovery *services.MeetupService) *MeetupHandler {
	return &MeetupHandler{discovery: discovery}
}

// GetByLocation serves GET /meetups?lat=&lng=&radius= with a genuine
// distance cutoff.
func (h *MeetupHandler) GetByLocation(w http.ResponseWriter, r *http.Request) {
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

	meetups, err := h.discovery.MeetupsByLocation(r.Context(), lat, lng, radius)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"meetups": meetups,
		"count":   len(meetups),
		"lat":     lat,
		"lng":     lng,
	})
}

// GetByHobbies serves GET /meetups/hobbies?h=Photography,Hiking with OR
// matching; an empty filter returns everything.
func (h *MeetupHandler) GetByHobbies(w http.ResponseWriter, r *http.Request) {
	var hobbies []string
	if raw := r.URL.Query().Get("h"); raw != "" {
		for _, hobby := range strings.Split(raw, ",") {
			if hobby = strings.TrimSpace(hobby); hobby != "" {
				hobbies = append(hobbies, hobby)
			}
		}
	}

	meetups, err := h.discovery.MeetupsByHobbies(r.Context(), hobbies)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"meetups": meetups,
		"count":   len(meetups),
	})
}

func (h *MeetupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var draft models.MeetupDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	// The signed-in user hosts what they create.
	draft.HostID = userID

	meetup, err := h.discovery.Create(r.Context(), draft)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	metrics.MeetupsCreated.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(meetup)
}

func (h *MeetupHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	meetupID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.discovery.RSVP(r.Context(), meetupID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	metrics.RSVPs.Inc()

	writeJSON(w, map[string]string{"message": "RSVP confirmed"})
}

// GetPeople serves GET /people?hobby=A&hobby=B, the filtered map roster.
func (h *MeetupHandler) GetPeople(w http.ResponseWriter, r *http.Request) {
	hobbies := r.URL.Query()["hobby"]

	people, err := h.discovery.VisiblePeople(r.Context(), hobbies)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"people": people,
		"count":  len(people),
	})
}

func (h *MeetupHandler) GetHobbies(w http.ResponseWriter, r *http.Request) {
	hobbies, err := h.discovery.AllHobbies(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{"hobbies": hobbies})
}
