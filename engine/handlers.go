// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"kasper/engine/shared/logger"
	"kasper/engine/shared/types"
)

// APIHandler exposes the orchestrator over HTTP.
type APIHandler struct {
	orch *Orchestrator
	log  *logger.Logger
}

// NewAPIHandler creates the HTTP handler set for an orchestrator.
func NewAPIHandler(orch *Orchestrator) *APIHandler {
	return &APIHandler{
		orch: orch,
		log:  logger.New("insight-api"),
	}
}

// RegisterRoutes attaches the insight API to a router.
func (h *APIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/insight", h.handleGenerate).Methods("POST")
	r.HandleFunc("/api/v1/insight/quick", h.handleQuick).Methods("POST")
	r.HandleFunc("/api/v1/insight/available/{feature}", h.handleAvailable).Methods("GET")
	r.HandleFunc("/api/v1/cache/clear", h.handleClearCache).Methods("POST")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
}

// generateRequest is the JSON body for POST /api/v1/insight.
type generateRequest struct {
	Feature           string         `json:"feature"`
	Kind              string         `json:"kind"`
	Priority          string         `json:"priority,omitempty"`
	Context           RequestContext `json:"context"`
	RequiredProviders []string       `json:"required_providers,omitempty"`
}

// quickRequestBody is the JSON body for POST /api/v1/insight/quick.
type quickRequestBody struct {
	Feature string `json:"feature"`
	Kind    string `json:"kind"`
	Query   string `json:"query,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type availableResponse struct {
	Feature   string `json:"feature"`
	Available bool   `json:"available"`
}

func (h *APIHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	feature := types.Feature(body.Feature)
	kind := types.Kind(body.Kind)
	if !feature.IsValid() {
		writeJSONError(w, http.StatusBadRequest, "unknown feature: "+body.Feature, "")
		return
	}
	if !kind.IsValid() {
		writeJSONError(w, http.StatusBadRequest, "unknown kind: "+body.Kind, "")
		return
	}

	req := NewInsightRequest(feature, kind, body.Context)
	req.RequiredProviders = body.RequiredProviders
	if p := types.Priority(body.Priority); p.IsValid() {
		req.Priority = p
	}

	insight, err := h.orch.GenerateInsight(r.Context(), req)
	if err != nil {
		h.writeEngineError(w, req.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

func (h *APIHandler) handleQuick(w http.ResponseWriter, r *http.Request) {
	var body quickRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	feature := types.Feature(body.Feature)
	kind := types.Kind(body.Kind)
	if !feature.IsValid() {
		writeJSONError(w, http.StatusBadRequest, "unknown feature: "+body.Feature, "")
		return
	}
	if !kind.IsValid() {
		kind = types.KindGuidance
	}

	insight, err := h.orch.GenerateQuickInsight(r.Context(), feature, kind, body.Query)
	if err != nil {
		h.writeEngineError(w, "", err)
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

func (h *APIHandler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	feature := types.Feature(mux.Vars(r)["feature"])
	if !feature.IsValid() {
		writeJSONError(w, http.StatusBadRequest, "unknown feature: "+feature.String(), "")
		return
	}

	writeJSON(w, http.StatusOK, availableResponse{
		Feature:   feature.String(),
		Available: h.orch.HasInsightAvailable(r.Context(), feature),
	})
}

func (h *APIHandler) handleClearCache(w http.ResponseWriter, r *http.Request) {
	h.orch.ClearCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if !h.orch.Ready() {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"providers": h.orch.Registry().List(),
	})
}

// writeEngineError maps the error taxonomy onto HTTP status codes.
func (h *APIHandler) writeEngineError(w http.ResponseWriter, requestID string, err error) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		switch engineErr.Code {
		case ErrCodeModelNotLoaded:
			writeJSONError(w, http.StatusServiceUnavailable, engineErr.Message, engineErr.Code)
			return
		case ErrCodeInsufficientData:
			writeJSONError(w, http.StatusUnprocessableEntity, engineErr.Message, engineErr.Code)
			return
		case ErrCodeEngineSaturated:
			writeJSONError(w, http.StatusTooManyRequests, engineErr.Message, engineErr.Code)
			return
		}
	}

	h.log.WarnWithError(requestID, "unexpected generation error", err, nil)
	writeJSONError(w, http.StatusInternalServerError, "generation failed", "")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
