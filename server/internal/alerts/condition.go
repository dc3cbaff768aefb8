package alerts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/obsidianstack/statcard/internal/card"
)

// evalCondition evaluates a rule condition string against a card.
//
// Supported expressions (field operator value):
//
//	average > 90
//	current >= 95
//	minimum < 5
//	maximum > 100
//	volatility > 40
//	anomalies > 0
//	status == HIGH
//	trend == volatile
//
// Numeric fields never fire on a card without data.
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, vm card.ViewModel) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	switch field {
	case "status":
		return compareLabel(string(vm.Analysis.StatusLabel), op, rhs), 0
	case "trend":
		return compareLabel(string(vm.Analysis.Trend), op, rhs), 0
	case "anomalies":
		threshold, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return false, 0
		}
		v := float64(vm.Analysis.AnomalyCount)
		return compareFloat(v, op, threshold), v
	default:
		v, ok := numericField(field, vm)
		if !ok {
			return false, 0
		}
		threshold, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return false, 0
		}
		return compareFloat(v, op, threshold), v
	}
}

// ValidateCondition reports whether cond is a well-formed rule expression.
func ValidateCondition(cond string) error {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return fmt.Errorf("condition %q: want \"field op value\"", cond)
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	switch field {
	case "status", "trend":
		if op != "==" && op != "!=" {
			return fmt.Errorf("condition %q: %s supports == and != only", cond, field)
		}
		return nil
	case "average", "current", "minimum", "maximum", "volatility", "anomalies":
	default:
		return fmt.Errorf("condition %q: unknown field %q", cond, field)
	}
	switch op {
	case ">", ">=", "<", "<=", "==":
	default:
		return fmt.Errorf("condition %q: unknown operator %q", cond, op)
	}
	if _, err := strconv.ParseFloat(rhs, 64); err != nil {
		return fmt.Errorf("condition %q: value %q is not a number", cond, rhs)
	}
	return nil
}

// numericField maps a field name to its value on the card.
func numericField(field string, vm card.ViewModel) (float64, bool) {
	st := vm.Stats
	if st == nil {
		return 0, false
	}
	switch field {
	case "average":
		return st.Average, true
	case "current":
		return st.Current, true
	case "minimum":
		return st.Minimum, true
	case "maximum":
		return st.Maximum, true
	case "volatility":
		return st.Volatility(), true
	default:
		return 0, false
	}
}

func compareLabel(v, op, want string) bool {
	switch op {
	case "==":
		return strings.EqualFold(v, want)
	case "!=":
		return !strings.EqualFold(v, want)
	default:
		return false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
