// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func testRouter(t *testing.T, o *Orchestrator) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	NewAPIHandler(o).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleGenerate(t *testing.T) {
	r := testRouter(t, newTestOrchestrator(t, nil))

	w := postJSON(t, r, "/api/v1/insight", map[string]interface{}{
		"feature": "daily_card",
		"kind":    "guidance",
		"context": map[string]interface{}{
			"primary_data": map[string]interface{}{"focusNumber": 7},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var insight KASPERInsight
	if err := json.Unmarshal(w.Body.Bytes(), &insight); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insight.Text == "" || insight.Feature != "daily_card" {
		t.Errorf("insight = %+v", insight)
	}
}

func TestHandleGenerateValidation(t *testing.T) {
	r := testRouter(t, newTestOrchestrator(t, nil))

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"unknown feature", map[string]interface{}{"feature": "tarot", "kind": "guidance"}},
		{"unknown kind", map[string]interface{}{"feature": "daily_card", "kind": "sermon"}},
		{"empty body", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/v1/insight", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleGenerateMalformedJSON(t *testing.T) {
	r := testRouter(t, newTestOrchestrator(t, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insight", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleQuick(t *testing.T) {
	r := testRouter(t, newTestOrchestrator(t, nil))

	w := postJSON(t, r, "/api/v1/insight/quick", map[string]interface{}{
		"feature": "sanctum_guidance",
		"query":   "how is today?",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var insight KASPERInsight
	if err := json.Unmarshal(w.Body.Bytes(), &insight); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Kind defaults to guidance when omitted.
	if insight.Kind != "guidance" {
		t.Errorf("kind = %q, want guidance", insight.Kind)
	}
}

func TestHandleAvailable(t *testing.T) {
	r := testRouter(t, newTestOrchestrator(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/insight/available/daily_card", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp availableResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Feature != "daily_card" || !resp.Available {
		t.Errorf("resp = %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/insight/available/tarot", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown feature status = %d, want 400", w.Code)
	}
}

func TestHandleClearCache(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	r := testRouter(t, o)

	if _, err := o.GenerateQuickInsight(httptest.NewRequest("GET", "/", nil).Context(),
		"daily_card", "guidance", ""); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/clear", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if o.cache.Size() != 0 {
		t.Errorf("cache size = %d after clear", o.cache.Size())
	}
}

func TestHandleHealth(t *testing.T) {
	r := testRouter(t, newTestOrchestrator(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	// Unconfigured orchestrator reports not ready.
	r = testRouterNotReady(t)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("not-ready status = %d, want 503", w.Code)
	}
}

func testRouterNotReady(t *testing.T) *mux.Router {
	t.Helper()
	o := NewOrchestrator(DefaultEngineConfig(), nil)
	r := mux.NewRouter()
	NewAPIHandler(o).RegisterRoutes(r)
	return r
}

func TestErrorStatusMapping(t *testing.T) {
	// Not-ready orchestrator surfaces model_not_loaded as 503.
	r := testRouterNotReady(t)
	w := postJSON(t, r, "/api/v1/insight", map[string]interface{}{
		"feature": "daily_card",
		"kind":    "guidance",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("model_not_loaded status = %d, want 503", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeModelNotLoaded {
		t.Errorf("code = %q", resp.Code)
	}

	// Providers that fail every call surface insufficient_data as 422.
	o := newTestOrchestrator(t, nil,
		&flakyProvider{id: "numerology"},
		&flakyProvider{id: "cosmic"},
	)
	w = postJSON(t, testRouter(t, o), "/api/v1/insight", map[string]interface{}{
		"feature": "daily_card",
		"kind":    "guidance",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("insufficient_data status = %d, want 422", w.Code)
	}

	// A saturated gate surfaces as 429.
	o = newTestOrchestrator(t, func(cfg *Config) {
		cfg.MaxConcurrent = 1
		cfg.MaxGateRetries = 2
	})
	o.gate.TryAcquire()
	w = postJSON(t, testRouter(t, o), "/api/v1/insight", map[string]interface{}{
		"feature": "daily_card",
		"kind":    "guidance",
	})
	o.gate.Release()
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("engine_saturated status = %d, want 429", w.Code)
	}
}
