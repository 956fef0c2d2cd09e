package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbymeet/config"
	"hobbymeet/middleware"
	"hobbymeet/models"
	"hobbymeet/services"
	"hobbymeet/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Port:           "0",
		JWTSecret:      "integration-secret",
		StoreBackend:   config.BackendMemory,
		AuthMode:       config.AuthModeMock,
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	sessions := services.NewSessionService(storage.NewMemoryProfileStore(), storage.NewMemoryGeoIndex(), cfg.JWTSecret, true)
	discovery := services.NewMeetupService(
		storage.NewMemoryMeetupRepo(storage.SeedMeetups(time.Now())),
		storage.NewMemoryPeopleRepo(storage.SeedPeople()),
	)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	t.Cleanup(limiter.Close)
	srv := httptest.NewServer(newRouter(cfg, sessions, discovery, limiter))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"username": "demo",
		"password": "demo",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginAndProfileFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp, profile := doJSON(t, http.MethodGet, srv.URL+"/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), profile["id"])
	assert.Equal(t, "Demo User", profile["name"])

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/user/notifications", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/meetups", "", map[string]any{"title": "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFollowBlockFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/user/follow", token, map[string]int64{"user_id": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/user/block", token, map[string]int64{"user_id": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, profile := doJSON(t, http.MethodGet, srv.URL+"/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, profile["following"])
	assert.Equal(t, []any{float64(2)}, profile["blocked_users"])
}

func TestDiscoveryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/meetups?lat=40.7128&lng=-74.006&radius=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/meetups/hobbies?h=Photography", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/people?hobby=Hiking", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/hobbies", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["hobbies"], 11)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/meetups?lat=abc&lng=-74.006", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNearbyPeopleEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/people/nearby?lat=40.7128&lng=-74.006&radius=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/user/active/toggle", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/people/nearby?lat=40.7128&lng=-74.006&radius=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), body["count"])
	hit := body["people"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), hit["id"])
	assert.Equal(t, "Demo User", hit["name"])
}

func TestCreateAndRSVPMeetup(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	draft := models.MeetupDraft{
		Title:        "Chess Night",
		Description:  "Casual games, all levels",
		Location:     models.UserLocation{Lat: 40.72, Lng: -74.0},
		Hobbies:      []string{"Chess"},
		StartTime:    time.Now().Add(48 * time.Hour),
		MaxAttendees: 2,
		Privacy:      models.MeetupPublic,
	}
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/meetups", token, draft)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(4), created["id"])
	// The signed-in user hosts and attends.
	assert.Equal(t, float64(1), created["host_id"])
	assert.Equal(t, []any{float64(1)}, created["attendees"])

	id := int64(created["id"].(float64))

	// The host is already attending.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/meetups/%d/rsvp", id), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/meetups/9999/rsvp", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token still parses but the session and slot are gone.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
