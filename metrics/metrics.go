// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hobbymeet_http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	Logins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbymeet_logins_total",
		Help: "Successful logins.",
	})

	MeetupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbymeet_meetups_created_total",
		Help: "Meetups created.",
	})

	RSVPs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbymeet_rsvps_total",
		Help: "Successful meetup RSVPs.",
	})

	Reports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbymeet_reports_total",
		Help: "User reports filed.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware counts every request by method, route and status. The route
// label uses the mux path template, so parameterized paths share one series
// instead of minting one per id.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					path = tmpl
				}
			}
			HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		})
	}
}
