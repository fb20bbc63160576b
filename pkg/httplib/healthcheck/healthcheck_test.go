package healthcheck

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_ServeHTTP(t *testing.T) {
	testCases := []struct {
		name       string
		redisErr   error
		wantStatus int
		wantRedis  string
	}{
		{name: "all healthy", wantStatus: http.StatusOK, wantRedis: "ok"},
		{name: "redis down", redisErr: stderrors.New("dial tcp: refused"), wantStatus: http.StatusServiceUnavailable, wantRedis: "dial tcp: refused"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hc := New(time.Second).
				Register("questdb", func(context.Context) error { return nil }).
				Register("redis", func(context.Context) error { return tc.redisErr })

			rec := httptest.NewRecorder()
			hc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			var report map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, "ok", report["questdb"])
			assert.Equal(t, tc.wantRedis, report["redis"])
		})
	}
}

func TestHealthCheck_HandlerPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := New(time.Second).Handler(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/focus", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
