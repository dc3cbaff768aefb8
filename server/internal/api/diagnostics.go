package api

import (
	"fmt"

	"github.com/obsidianstack/statcard/internal/card"
	"github.com/obsidianstack/statcard/internal/compute"
)

// DiagnosticHint is one human-readable insight about a card, shown as a chip
// next to it.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short chip label.
	Title string `json:"title"`
	// Detail is the full explanation shown on hover.
	Detail string `json:"detail"`
	// Value is an optional number associated with the hint.
	Value *float64 `json:"value,omitempty"`
}

// computeDiagnostics derives hints from a card, critical first.
func computeDiagnostics(vm card.ViewModel) []DiagnosticHint {
	hints := make([]DiagnosticHint, 0, 3)

	if !vm.HasData() {
		return append(hints, DiagnosticHint{
			Key:   "no_data",
			Level: "info",
			Title: "No numeric data",
			Detail: "The query returned no series, or its first series has no numeric field " +
				"with usable values. Check the query and the field types it returns.",
		})
	}

	a := vm.Analysis
	if a.AnomalyCount > 0 {
		n := float64(a.AnomalyCount)
		hints = append(hints, DiagnosticHint{
			Key:   "anomalies",
			Level: "critical",
			Title: "Anomalies detected",
			Detail: fmt.Sprintf("%d sample(s) exceed the anomaly threshold of %.2f "+
				"(average + %.0f).", a.AnomalyCount, a.AnomalyThreshold, compute.AnomalyOffset),
			Value: &n,
		})
	}

	if a.Trend == compute.TrendVolatile {
		v := vm.Stats.Volatility()
		hints = append(hints, DiagnosticHint{
			Key:   "volatile",
			Level: "warning",
			Title: "Highly volatile",
			Detail: fmt.Sprintf("The series spans %.2f between its minimum and maximum, "+
				"more than %.0f.", v, compute.HighVolatility),
			Value: &v,
		})
	}

	switch a.StatusLabel {
	case compute.LabelLow, compute.LabelHigh:
		avg := vm.Stats.Average
		hints = append(hints, DiagnosticHint{
			Key:    "out_of_range",
			Level:  "warning",
			Title:  "Average out of range",
			Detail: fmt.Sprintf("%s (average %.2f, normal range %.0f to %.0f).", a.StatusText, avg, compute.LowThreshold, compute.HighThreshold),
			Value:  &avg,
		})
	}

	return hints
}
