// Package http provides the JSON API for decisionbridge.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openfeel/decisionbridge/app"
	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/ports"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ErrorResponseBody is the JSON error envelope.
type ErrorResponseBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail identifies what went wrong.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VersionResponse is the version endpoint response.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ServiceInfo describes a registered decision service.
type ServiceInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuditEntryInfo describes one recorded decision.
type AuditEntryInfo struct {
	ID         string    `json:"id"`
	Service    string    `json:"service"`
	At         time.Time `json:"at"`
	DurationMS float64   `json:"durationMs"`
	Inputs     string    `json:"inputs"`
	Outputs    string    `json:"outputs"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// Handler serves the decision API.
type Handler struct {
	decide       *app.DecideService
	registry     ports.ServiceRegistry
	audit        ports.AuditStore // optional
	logger       zerolog.Logger
	version      string
	serveMetrics bool
}

// Deps contains dependencies for the handler.
type Deps struct {
	Decide       *app.DecideService
	Registry     ports.ServiceRegistry
	Audit        ports.AuditStore
	Logger       zerolog.Logger
	Version      string
	ServeMetrics bool
}

// NewHandler creates the API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		decide:       deps.Decide,
		registry:     deps.Registry,
		audit:        deps.Audit,
		logger:       deps.Logger,
		version:      deps.Version,
		serveMetrics: deps.ServeMetrics,
	}
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/{service}", h.handleDecide)
	r.Get("/api/services", h.handleListServices)
	r.Get("/api/services/{service}", h.handleGetService)
	r.Delete("/api/services/{service}", h.handleDeleteService)
	if h.audit != nil {
		r.Get("/api/audit", h.handleRecentDecisions)
	}

	r.Get("/healthz", h.handleHealth)
	r.Get("/version", h.handleVersion)
	if h.serveMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

// handleDecide runs one decision: decode the JSON inputs, evaluate,
// return the encoded envelope.
func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	serviceName := chi.URLParam(r, "service")

	dec := json.NewDecoder(r.Body)
	// Keep numbers as json.Number so the bridge decides how to widen.
	dec.UseNumber()

	var inputs map[string]any
	if err := dec.Decode(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object")
		return
	}

	resp, err := h.decide.Decide(r.Context(), serviceName, inputs)
	if err != nil {
		if errors.Is(err, decision.ErrServiceNotFound) {
			writeError(w, http.StatusNotFound, "service_not_found", "no decision service named "+serviceName)
			return
		}
		h.logger.Error().Err(err).Str("service", serviceName).Msg("decide failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "decision failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list services failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "cannot list services")
		return
	}
	infos := make([]ServiceInfo, len(services))
	for i, svc := range services {
		infos[i] = serviceInfo(svc)
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleGetService(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "service")
	svc, err := h.registry.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, decision.ErrServiceNotFound) {
			writeError(w, http.StatusNotFound, "service_not_found", "no decision service named "+name)
			return
		}
		h.logger.Error().Err(err).Str("service", name).Msg("get service failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "cannot read service")
		return
	}
	writeJSON(w, http.StatusOK, serviceInfo(svc))
}

func (h *Handler) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "service")
	if err := h.registry.Delete(r.Context(), name); err != nil {
		if errors.Is(err, decision.ErrServiceNotFound) {
			writeError(w, http.StatusNotFound, "service_not_found", "no decision service named "+name)
			return
		}
		h.logger.Error().Err(err).Str("service", name).Msg("delete service failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "cannot delete service")
		return
	}
	h.logger.Info().Str("service", name).Msg("decision service deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleRecentDecisions returns the most recent audit entries, newest
// first. The route is only mounted when an audit store is configured.
func (h *Handler) handleRecentDecisions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("recent decisions failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "cannot read audit trail")
		return
	}

	infos := make([]AuditEntryInfo, len(entries))
	for i, e := range entries {
		infos[i] = AuditEntryInfo{
			ID:         e.ID,
			Service:    e.Service,
			At:         e.At,
			DurationMS: float64(e.Duration) / float64(time.Millisecond),
			Inputs:     e.Inputs,
			Outputs:    e.Outputs,
			Success:    e.Success,
			Error:      e.Error,
		}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: h.version, Service: "decisionbridge"})
}

func serviceInfo(svc decision.Service) ServiceInfo {
	return ServiceInfo{
		Name:        svc.Name,
		Description: svc.Description,
		CreatedAt:   svc.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponseBody{Error: ErrorDetail{Code: code, Message: message}})
}
