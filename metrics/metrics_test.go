package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware())
	r.HandleFunc("/meetups/{id:[0-9]+}/rsvp", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("POST")

	for _, target := range []string{"/meetups/3/rsvp", "/meetups/4/rsvp"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// One series per route, not one per meetup id.
	got := testutil.ToFloat64(HTTPRequests.WithLabelValues("POST", "/meetups/{id:[0-9]+}/rsvp", "200"))
	assert.Equal(t, float64(2), got)
	assert.Equal(t, float64(0), testutil.ToFloat64(HTTPRequests.WithLabelValues("POST", "/meetups/3/rsvp", "200")))
}
