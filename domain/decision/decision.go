// Package decision defines the decision-service domain: registered
// services, the engine contract, and the outcome an engine produces.
// How an engine evaluates its rules (DMN tables, expressions) is the
// engine's business; this package only carries values across.
package decision

import (
	"context"
	"errors"
	"time"

	"github.com/openfeel/decisionbridge/domain/feel"
)

// ErrServiceNotFound is returned when no service with the given name is
// registered.
var ErrServiceNotFound = errors.New("decision service not found")

// Engine evaluates a decision over typed inputs.
//
// Inputs is the post-decode tree: JSON natives with whole numbers
// widened to float64, escape strings already resolved to feel.Value.
type Engine interface {
	Decide(ctx context.Context, inputs map[string]any) (Outcome, error)
}

// Service is a registered decision service.
type Service struct {
	Name        string
	Description string
	CreatedAt   time.Time
	Engine      Engine
}

// Outcome is what an engine returns from one evaluation, pre-encode.
type Outcome struct {
	// Result maps output names to FEEL values.
	Result map[string]feel.Value

	// ExecutedRules records which rules fired, in execution order.
	ExecutedRules []ExecutedRule

	// Errors carries engine status errors. A non-empty slice means the
	// evaluation failed; Result is then ignored.
	Errors []string
}

// Failed reports whether the outcome carries status errors.
func (o Outcome) Failed() bool { return len(o.Errors) > 0 }

// ExecutedRule identifies one fired rule.
type ExecutedRule struct {
	Decision string `json:"decision"`
	Table    string `json:"table"`
	RuleID   string `json:"ruleId"`
}

// AuditEntry is one recorded decision, kept for the audit trail.
type AuditEntry struct {
	ID       string
	Service  string
	At       time.Time
	Duration time.Duration
	Inputs   string // JSON
	Outputs  string // JSON
	Success  bool
	Error    string
}
