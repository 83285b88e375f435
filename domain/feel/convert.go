package feel

import (
	"encoding/json"
	"fmt"
)

// Equal reports deep semantic equality between two FEEL values.
// Calendar variants compare by instant, containers element-wise.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Date:
		return av.Time.Equal(b.(Date).Time)
	case Time:
		return av.Time.Equal(b.(Time).Time)
	case DateTime:
		return av.Time.Equal(b.(DateTime).Time)
	case Interval:
		bv := b.(Interval)
		return av.LowEnd == bv.LowEnd && av.HighEnd == bv.HighEnd &&
			Equal(av.Low, bv.Low) && Equal(av.High, bv.High)
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Context:
		bv := b.(Context)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			ov, ok := bv[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// FromNative lifts a JSON-native Go value into the FEEL universe.
// Values that already are FEEL values pass through unchanged.
func FromNative(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Boolean(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(t), nil
	case int:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case []any:
		list := make(List, len(t))
		for i, el := range t {
			lv, err := FromNative(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			list[i] = lv
		}
		return list, nil
	case map[string]any:
		ctx := make(Context, len(t))
		for k, el := range t {
			lv, err := FromNative(el)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			ctx[k] = lv
		}
		return ctx, nil
	default:
		return nil, fmt.Errorf("cannot represent %T as a FEEL value", v)
	}
}
