// Package compute derives the status card's numbers and classification from
// a numeric sequence.
//
// stats.go provides ComputeStats: average, minimum, maximum and current (the
// last sample in received order). It reports false for an empty sequence.
//
// analysis.go provides Analyze, which classifies Stats into a status label and
// tone, a trend and an anomaly narrative. Every classification is a list of
// half-open bands evaluated in order, first match wins:
//
//	status   average < 30 → LOW, average > 70 → HIGH, else NORMAL
//	trend    max−min > 40 → highly volatile, > 20 → moderate, else stable
//	anomaly  value > average+25
//
// Both functions are pure. Missing data is the NO_DATA state, never an error.
package compute
