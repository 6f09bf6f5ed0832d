package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelane/lingo"
	"github.com/drivelane/lingo/provider"
)

func testConfig() Config {
	return Config{
		Addr:            ":0",
		BasePath:        "/api",
		DefaultLanguage: "en",
		RequestTimeout:  5 * time.Second,
		ShutdownTimeout: time.Second,
		RatePerSecond:   1000,
		RateBurst:       1000,
	}
}

func newTestServer(t *testing.T, p lingo.Provider) *Server {
	t.Helper()
	return New(testConfig(), p, zerolog.Nop())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, provider.NewMockProvider())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RatePerSecond = 0.001
	cfg.RateBurst = 1
	srv := New(cfg, provider.NewMockProvider(), zerolog.Nop())
	handler := srv.Handler()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/language", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/language", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var body errorResponse
	decodeBody(t, second, &body)
	assert.Equal(t, "Too many requests", body.Error)
}

func TestRateLimit_SkipsHealthz(t *testing.T) {
	cfg := testConfig()
	cfg.RatePerSecond = 0.001
	cfg.RateBurst = 1
	srv := New(cfg, provider.NewMockProvider(), zerolog.Nop())
	handler := srv.Handler()

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
