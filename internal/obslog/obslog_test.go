package obslog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sportify-app/apiserver/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("console logger: %v", err)
	}
	if _, err := New(config.LogConfig{Level: "info"}); err != nil {
		t.Fatalf("default format: %v", err)
	}
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(config.LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestInitReplacesGlobal(t *testing.T) {
	before := L()
	logger, err := Init(config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { global.Store(before) })

	if L() != logger {
		t.Fatalf("expected global logger to be replaced")
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"match not found"}`))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/match/9", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zap.WarnLevel {
		t.Fatalf("expected warn level for 404, got %s", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["status"] != int64(http.StatusNotFound) || fields["path"] != "/api/match/9" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if fields["request_id"] == nil || fields["request_id"] == "" {
		t.Fatalf("expected request id to be logged")
	}
}
