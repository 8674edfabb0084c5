package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/khen08/mrt3sim/store"
)

func discardLogger() log.Logger {
	l := log.New()
	l.SetHandler(log.DiscardHandler())
	return l
}

func TestHealthEndpointReportsOK(t *testing.T) {
	s := New(store.NewMemorySink(), discardLogger())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`body["status"] = %q, want "ok"`, body["status"])
	}
}

func TestRunEndpointRejectsMalformedConfig(t *testing.T) {
	s := New(store.NewMemorySink(), discardLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/run", strings.NewReader(`{"config": "not-an-object", "demand_csv": ""}`))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a malformed config payload", rec.Code)
	}
}
