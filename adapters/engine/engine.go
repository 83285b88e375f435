// Package engine provides basic decision.Engine implementations.
// Real engines (DMN table evaluators) plug in through the same
// interface; these exist for wiring, smoke testing and demos.
package engine

import (
	"context"
	"fmt"

	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/domain/feel"
)

// Echo returns every decoded input as an output, lifted into the FEEL
// universe. Useful for exercising the full decode/encode round trip
// without any rule logic.
type Echo struct{}

// Decide echoes the inputs back as the result.
func (Echo) Decide(ctx context.Context, inputs map[string]any) (decision.Outcome, error) {
	result := make(map[string]feel.Value, len(inputs))
	for name, v := range inputs {
		fv, err := feel.FromNative(v)
		if err != nil {
			return decision.Outcome{}, fmt.Errorf("input %q: %w", name, err)
		}
		result[name] = fv
	}
	return decision.Outcome{
		Result:        result,
		ExecutedRules: []decision.ExecutedRule{{Decision: "echo", Table: "echo", RuleID: "1"}},
	}, nil
}

// Static always returns a fixed outcome (or error). Test fixture.
type Static struct {
	Outcome decision.Outcome
	Err     error
}

// Decide returns the configured outcome.
func (s Static) Decide(ctx context.Context, inputs map[string]any) (decision.Outcome, error) {
	return s.Outcome, s.Err
}

// Ensure interface compliance.
var (
	_ decision.Engine = Echo{}
	_ decision.Engine = Static{}
)
