package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apihttp "staybook-backend/internal/api/http"
	"staybook-backend/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := apihttp.NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	handler := limiter.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
}

func TestRateLimiterIgnoresForwardingHeadersFromUntrustedPeers(t *testing.T) {
	limiter := apihttp.NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	handler := limiter.Middleware(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	first.RemoteAddr = "10.0.0.5:1234"
	first.Header.Set("X-Forwarded-For", "203.0.113.9")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, first)
	assert.Equal(t, http.StatusOK, res.Code)

	spoofed := httptest.NewRequest(http.MethodGet, "/health", nil)
	spoofed.RemoteAddr = "10.0.0.5:1234"
	spoofed.Header.Set("X-Real-IP", "198.51.100.77")
	spoofed.Header.Set("X-Forwarded-For", "198.51.100.78")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, spoofed)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
}

func TestRateLimiterSeparatesClientsBehindTrustedProxy(t *testing.T) {
	limiter := apihttp.NewRateLimiter(config.RateLimitConfig{
		RequestsPerMinute: 1,
		Burst:             1,
		TrustedProxies:    []string{"10.0.0.0/24"},
	})
	handler := limiter.Middleware(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	first.RemoteAddr = "10.0.0.1:4000"
	first.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	second := httptest.NewRequest(http.MethodGet, "/health", nil)
	second.RemoteAddr = "10.0.0.2:4000"
	second.Header.Set("X-Real-IP", "198.51.100.2")

	for _, req := range []*http.Request{first, second} {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}

	again := httptest.NewRequest(http.MethodGet, "/health", nil)
	again.RemoteAddr = "10.0.0.2:4001"
	again.Header.Set("X-Forwarded-For", "203.0.113.7")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, again)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)

	direct := httptest.NewRequest(http.MethodGet, "/health", nil)
	direct.RemoteAddr = "192.0.2.10:5000"
	direct.Header.Set("X-Forwarded-For", "203.0.113.99")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, direct)
	assert.Equal(t, http.StatusOK, res.Code)
}
