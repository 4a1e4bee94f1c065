package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/gemdocs"
	gemdocshttp "github.com/fwojciec/gemdocs/http"
	"github.com/fwojciec/gemdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer(t *testing.T) {
	t.Parallel()

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		srv := gemdocshttp.NewServer(&mock.Refresher{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("refresh accepts POST and GET", func(t *testing.T) {
		t.Parallel()

		results := []gemdocs.TriggerResult{gemdocs.TriggerStarted, gemdocs.TriggerInProgress}
		calls := 0
		srv := gemdocshttp.NewServer(&mock.Refresher{
			TriggerFn: func() gemdocs.TriggerResult {
				r := results[calls]
				calls++
				return r
			},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":"started"}`, rec.Body.String())

		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refresh", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"status":"in_progress"}`, rec.Body.String())
	})

	t.Run("status before first run", func(t *testing.T) {
		t.Parallel()

		srv := gemdocshttp.NewServer(&mock.Refresher{
			StatusFn: func() gemdocs.RunStatus {
				return gemdocs.RunStatus{State: gemdocs.RunIdle}
			},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"idle","last_run":null,"error":null}`, rec.Body.String())
	})

	t.Run("status after failed run", func(t *testing.T) {
		t.Parallel()

		lastRun := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
		srv := gemdocshttp.NewServer(&mock.Refresher{
			StatusFn: func() gemdocs.RunStatus {
				return gemdocs.RunStatus{State: gemdocs.RunFailed, LastRun: &lastRun, Error: "index write failed"}
			},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))
		assert.JSONEq(t, `{"status":"failed","last_run":"2025-06-01T08:30:00Z","error":"index write failed"}`, rec.Body.String())
	})

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()

		srv := gemdocshttp.NewServer(&mock.Refresher{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/refresh", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		t.Parallel()

		srv := gemdocshttp.NewServer(&mock.Refresher{
			StatusFn: func() gemdocs.RunStatus { panic("boom") },
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("mounts MCP handler", func(t *testing.T) {
		t.Parallel()

		mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		srv := gemdocshttp.NewServer(&mock.Refresher{}, gemdocshttp.WithMCPHandler(mcpHandler))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("MCP endpoint absent without handler", func(t *testing.T) {
		t.Parallel()

		srv := gemdocshttp.NewServer(&mock.Refresher{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := gemdocshttp.NewServer(&mock.Refresher{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "ok", payload["status"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
