package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okPing(context.Context) error { return nil }

func TestHandler_Healthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewPingChecker("storage", okPing, 0))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, StatusHealthy, response.Status)
	require.Equal(t, "v1.0.0", response.Version)
	require.Len(t, response.Checks, 1)
	require.Equal(t, "storage", response.Checks[0].Name)
}

func TestHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewPingChecker("storage", func(context.Context) error {
		return errors.New("connection refused")
	}, 0))
	handler.RegisterChecker("cache", NewPingChecker("cache", okPing, 0))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, StatusUnhealthy, response.Status)
	require.Len(t, response.Checks, 2)
	require.Equal(t, "cache", response.Checks[0].Name)
	require.Equal(t, "storage", response.Checks[1].Name)
	require.Equal(t, "connection refused", response.Checks[1].Message)
}

func TestMount_Routes(t *testing.T) {
	handler := NewHandler("dev")
	failing := false
	handler.RegisterChecker("storage", NewPingChecker("storage", func(context.Context) error {
		if failing {
			return errors.New("down")
		}
		return nil
	}, 0))

	mux := http.NewServeMux()
	handler.Mount(mux)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	require.Equal(t, "ok", get("/livez").Body.String())
	require.Equal(t, "ready", get("/readyz").Body.String())

	failing = true
	ready := get("/readyz")
	require.Equal(t, http.StatusServiceUnavailable, ready.Code)
	require.Equal(t, "not ready", ready.Body.String())
	require.Equal(t, http.StatusOK, get("/livez").Code)
}

func TestPingChecker_Timeout(t *testing.T) {
	checker := NewPingChecker("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	check := checker.Check(context.Background())
	require.Equal(t, StatusUnhealthy, check.Status)
	require.Contains(t, check.Message, "deadline exceeded")
}
