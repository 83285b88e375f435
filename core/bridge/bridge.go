// Package bridge converts values between the JSON transport universe
// and the FEEL value universe.
//
// DecodeInput normalizes a JSON-decoded tree before it reaches a
// decision engine: whole numbers widen to float64 (FEEL has no integer
// type) and escape strings (@"...") resolve to typed FEEL values via
// the expression parser. EncodeOutput projects an engine result back
// into a JSON-serializable tree, escape-encoding every variant JSON
// cannot carry natively.
//
// Both directions are pure tree transforms with no I/O and no shared
// state; a Bridge is safe for concurrent use.
package bridge

import (
	"encoding/json"

	"github.com/openfeel/decisionbridge/domain/feel"
	"github.com/openfeel/decisionbridge/ports"
)

// Stats receives counters from the bridge. All methods must be safe for
// concurrent use.
type Stats interface {
	EscapeDecoded()
	EscapeEncoded()
	ParseFailure()
}

// Bridge converts between transport and FEEL values.
type Bridge struct {
	parser ports.ExpressionParser
	stats  Stats
}

// New creates a Bridge that resolves escape strings with parser.
func New(parser ports.ExpressionParser) *Bridge {
	return &Bridge{parser: parser}
}

// NewWithStats creates a Bridge that additionally reports counters.
func NewWithStats(parser ports.ExpressionParser, stats Stats) *Bridge {
	return &Bridge{parser: parser, stats: stats}
}

// DecodeInput normalizes a JSON-decoded value tree.
//
// Inside mappings and sequences, whole numbers widen to float64 and
// escape strings resolve to FEEL values; container shape, order and
// keys are preserved. A top-level escape string resolves the same way;
// any other top-level scalar is returned unchanged.
//
// Decoding is best-effort: an escape string whose payload the parser
// rejects stays a plain string, and the rest of the tree is still
// processed.
func (b *Bridge) DecodeInput(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = b.decodeElement(el)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = b.decodeElement(el)
		}
		return out
	case string:
		if IsEscape(t) {
			return b.resolve(t)
		}
		return t
	default:
		return v
	}
}

// decodeElement handles one mapping value or sequence element.
func (b *Bridge) decodeElement(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case string:
		if IsEscape(t) {
			return b.resolve(t)
		}
		return t
	case map[string]any, []any:
		return b.DecodeInput(t)
	default:
		return v
	}
}

// resolve delegates an escape payload to the expression parser. On any
// parse error the original string is kept (fail-soft, never
// destructive).
func (b *Bridge) resolve(s string) any {
	v, err := b.parser.Parse(Payload(s))
	if err != nil {
		if b.stats != nil {
			b.stats.ParseFailure()
		}
		return s
	}
	if b.stats != nil {
		b.stats.EscapeDecoded()
	}
	return v
}

// EncodeOutput projects a FEEL value into a JSON-serializable tree.
//
// Date, time, date-time, duration and interval variants become escape
// strings carrying their canonical literal. Booleans, null, numbers and
// strings pass through natively. Contexts and lists keep their shape
// with every element encoded recursively. Encoding is total: an
// unrecognized variant falls through unchanged.
func (b *Bridge) EncodeOutput(v feel.Value) any {
	switch t := v.(type) {
	case feel.Date:
		return b.escape(t)
	case feel.DateTime:
		return b.escape(t)
	case feel.Time:
		return b.escape(t)
	case feel.DaysSecondsDuration:
		return b.escape(t)
	case feel.Boolean:
		return bool(t)
	case feel.Null:
		return nil
	case nil:
		return nil
	case feel.YearsMonthsDuration:
		return b.escape(t)
	case feel.Interval:
		return b.escape(t)
	case feel.Context:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = b.EncodeOutput(el)
		}
		return out
	case feel.List:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = b.EncodeOutput(el)
		}
		return out
	case feel.Number:
		return float64(t)
	case feel.String:
		return string(t)
	default:
		return v
	}
}

func (b *Bridge) escape(v feel.Value) string {
	if b.stats != nil {
		b.stats.EscapeEncoded()
	}
	return Wrap(v.Literal())
}
