package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurstThenDeny(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 0.001, Burst: 2})
	defer l.Stop()

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "clients are limited independently")
	assert.Equal(t, 2, l.ActiveClients())
}

func TestCleanupDropsIdleClients(t *testing.T) {
	l := NewLimiter(Config{IdleTimeout: time.Minute})
	defer l.Stop()

	l.Allow("a")
	l.cleanup(time.Now())
	assert.Equal(t, 1, l.ActiveClients())

	l.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, l.ActiveClients())
}

func TestMiddlewareOnlyLimitsListedMethods(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 0.001, Burst: 1})
	defer l.Stop()
	l.Stop()

	h := l.Middleware(func(*http.Request) string { return "c" }, nil, http.MethodPost)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	do := func(method string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/transactions", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
}
