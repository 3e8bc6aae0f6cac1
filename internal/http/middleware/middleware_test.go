package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/plant-store/internal/http/ban"
	rl "github.com/rogerio-castellano/plant-store/internal/http/rate_limiter"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestTraceID_SetsHeaderAndContext(t *testing.T) {
	var seen string
	h := TraceID(log.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r.Context())
		assert.Equal(t, seen, Logger(r.Context()).Data["trace_id"])
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plants/1", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(TraceIDHeader))
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&log.JSONFormatter{})

	h := TraceID(logger)(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/plants/9", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DELETE", entry["method"])
	assert.Equal(t, "/plants/9", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "warning", entry["level"])
	assert.NotEmpty(t, entry["trace_id"])
}

func TestRateLimit_RejectsThenBans(t *testing.T) {
	visitors := rl.NewVisitors(0.001, 1, time.Minute)
	bans := ban.NewMemoryStore(ban.Policy{MaxStrikes: 2, StrikeWindow: time.Minute, BanDuration: time.Hour})
	h := RateLimit(visitors, bans)(http.HandlerFunc(okHandler))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/plants/1", nil)
		req.RemoteAddr = "198.51.100.7:4242"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)

	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())

	assert.Equal(t, http.StatusTooManyRequests, do().Code)

	w = do()
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"temporarily banned"}`, w.Body.String())
}

func TestRateLimit_SeparateClients(t *testing.T) {
	visitors := rl.NewVisitors(0.001, 1, time.Minute)
	bans := ban.NewMemoryStore(ban.Policy{MaxStrikes: 10, StrikeWindow: time.Minute, BanDuration: time.Hour})
	h := RateLimit(visitors, bans)(http.HandlerFunc(okHandler))

	for _, addr := range []string{"192.0.2.1:1000", "192.0.2.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/plants/1", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
}
