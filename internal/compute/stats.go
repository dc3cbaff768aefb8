package compute

import (
	"github.com/montanaflynn/stats"
)

// Stats is the aggregate view of one numeric sequence.
type Stats struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`

	// Current is the last sample in the order it was received.
	Current float64 `json:"current"`

	// Count is the number of samples the aggregates were computed over.
	Count int `json:"count"`
}

// Volatility is the spread of the sequence, Maximum − Minimum.
func (s Stats) Volatility() float64 {
	return s.Maximum - s.Minimum
}

// ComputeStats aggregates values. It returns false when values is empty.
func ComputeStats(values []float64) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}

	// The library only errors on empty input, which is handled above.
	avg, _ := stats.Mean(values)
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)

	return Stats{
		Average: avg,
		Minimum: lo,
		Maximum: hi,
		Current: values[len(values)-1],
		Count:   len(values),
	}, true
}
