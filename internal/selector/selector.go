// Package selector extracts the numeric sequence the status card is computed
// from: the values of the first numeric field of the first series.
package selector

import (
	"encoding/json"
	"math"

	"github.com/obsidianstack/statcard/pkg/types"
)

// SelectNumericField returns the values of the first numeric field in the
// first series, dropping entries that fail a runtime numeric check. Order is
// preserved.
//
// ok is false when there are no series, the first series has no numeric
// field, or nothing survives filtering. Callers render all three cases the
// same way.
func SelectNumericField(series []types.Series) (values []float64, ok bool) {
	if len(series) == 0 {
		return nil, false
	}

	field, found := series[0].FirstNumeric()
	if !found {
		return nil, false
	}

	values = make([]float64, 0, len(field.Values))
	for _, raw := range field.Values {
		if v, isNum := toFloat(raw); isNum {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}

// toFloat converts a decoded value to a finite float64.
// nil, non-numeric types, NaN and ±Inf are rejected.
func toFloat(raw any) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
