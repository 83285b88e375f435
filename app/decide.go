// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/openfeel/decisionbridge/adapters/metrics"
	"github.com/openfeel/decisionbridge/core/bridge"
	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/ports"
	"github.com/rs/zerolog"
)

// DecideService runs decisions: it resolves the named service, decodes
// the client inputs through the bridge, calls the engine, and encodes
// the result back into a JSON-serializable envelope.
type DecideService struct {
	registry ports.ServiceRegistry
	bridge   *bridge.Bridge
	audit    ports.AuditStore   // optional
	metrics  *metrics.Collector // optional
	clock    ports.Clock
	idGen    ports.IDGenerator
	logger   zerolog.Logger
}

// DecideDeps contains dependencies for DecideService.
type DecideDeps struct {
	Registry ports.ServiceRegistry
	Bridge   *bridge.Bridge
	Audit    ports.AuditStore
	Metrics  *metrics.Collector
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   zerolog.Logger
}

// NewDecideService creates a new decide service.
func NewDecideService(deps DecideDeps) *DecideService {
	return &DecideService{
		registry: deps.Registry,
		bridge:   deps.Bridge,
		audit:    deps.Audit,
		metrics:  deps.Metrics,
		clock:    deps.Clock,
		idGen:    deps.IDGen,
		logger:   deps.Logger,
	}
}

// Status carries engine status errors. An empty struct means success.
type Status struct {
	Errors []string `json:"errors,omitempty"`
}

// DecideResponse is the decision envelope returned to clients. The
// field names are the wire contract.
type DecideResponse struct {
	Result        map[string]any `json:"Result"`
	ExecutedRules [][]string     `json:"Executed Rule"`
	Status        Status         `json:"Status"`
}

// Decide makes one decision with the named service.
//
// An unknown service is an error (decision.ErrServiceNotFound). An
// engine failure is not: per the wire contract it yields an envelope
// with an empty result and the errors under Status.
func (s *DecideService) Decide(ctx context.Context, serviceName string, inputs map[string]any) (DecideResponse, error) {
	svc, err := s.registry.Get(ctx, serviceName)
	if err != nil {
		return DecideResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.DecisionsInFlight.Inc()
		defer s.metrics.DecisionsInFlight.Dec()
	}

	decoded := make(map[string]any, len(inputs))
	for name, value := range inputs {
		decoded[name] = s.bridge.DecodeInput(value)
	}

	start := s.clock.Now()
	outcome, engineErr := svc.Engine.Decide(ctx, decoded)
	elapsed := s.clock.Now().Sub(start)

	resp := DecideResponse{
		Result:        map[string]any{},
		ExecutedRules: [][]string{},
	}
	switch {
	case engineErr != nil:
		resp.Status.Errors = []string{engineErr.Error()}
	case outcome.Failed():
		resp.Status.Errors = outcome.Errors
	default:
		for _, r := range outcome.ExecutedRules {
			resp.ExecutedRules = append(resp.ExecutedRules, []string{r.Decision, r.Table, r.RuleID})
		}
		for name, value := range outcome.Result {
			resp.Result[name] = s.bridge.EncodeOutput(value)
		}
	}

	success := len(resp.Status.Errors) == 0
	decisionID := s.idGen.New()
	s.observe(serviceName, success, elapsed)
	s.record(decisionID, serviceName, start, elapsed, inputs, resp, success)

	s.logger.Info().
		Str("decision_id", decisionID).
		Str("service", serviceName).
		Dur("duration", elapsed).
		Bool("success", success).
		Msg("decision made")

	return resp, nil
}

func (s *DecideService) observe(service string, success bool, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if !success {
		status = "error"
	}
	s.metrics.DecisionsTotal.WithLabelValues(service, status).Inc()
	s.metrics.DecisionDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

func (s *DecideService) record(id, service string, at time.Time, elapsed time.Duration, inputs map[string]any, resp DecideResponse, success bool) {
	if s.audit == nil {
		return
	}
	inputsJSON, _ := json.Marshal(inputs)
	outputsJSON, _ := json.Marshal(resp.Result)
	s.audit.Record(decision.AuditEntry{
		ID:       id,
		Service:  service,
		At:       at,
		Duration: elapsed,
		Inputs:   string(inputsJSON),
		Outputs:  string(outputsJSON),
		Success:  success,
		Error:    strings.Join(resp.Status.Errors, "; "),
	})
}
