package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/partfit/compat-engine/internal/engine"
	"github.com/partfit/compat-engine/internal/observability"
	"github.com/partfit/compat-engine/internal/vehicle"
)

type handlers struct {
	logger   *observability.Logger
	resolver *engine.Resolver
}

func newHandlers(logger *observability.Logger, resolver *engine.Resolver) *handlers {
	return &handlers{logger: logger, resolver: resolver}
}

type resolveRequest struct {
	Vehicle  vehicle.Descriptor `json:"vehicle"`
	Category string             `json:"category,omitempty"`
	NoCache  bool               `json:"noCache,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports service liveness.
func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Resolve computes a compatibility report for the vehicle in the request body.
func (h *handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Vehicle.Brand == "" || req.Vehicle.Model == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "vehicle brand and model are required"})
		return
	}

	rep, err := h.resolver.Resolve(r.Context(), req.Vehicle, engine.Options{
		CategoryFilter: req.Category,
		BypassCache:    req.NoCache,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoRequirements) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error().Err(err).Str("brand", req.Vehicle.Brand).Str("model", req.Vehicle.Model).Msg("resolution failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "resolution failed"})
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
