package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterRejectsBursts(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Close()
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/meetups", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))

	// Buckets are per client address.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestRateLimiterCloseStopsSweeper(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	rl.Close()

	// The sweep goroutine has observed the close.
	select {
	case <-rl.done:
	default:
		t.Fatal("done channel still open after Close")
	}

	// Closing twice is fine, and the limiter itself keeps working.
	rl.Close()
	assert.True(t, rl.allow("10.0.0.1"))
}
