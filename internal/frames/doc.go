// Package frames decodes query results into []types.Series.
//
// Two input formats are supported:
//   - json: {"series":[{"name":..,"fields":[{"name":..,"type":"number","values":[..]}]}]}
//     or a bare array of series. Numbers are kept as json.Number so the
//     selector applies its own runtime check.
//   - prometheus: the text exposition format. Every metric family becomes one
//     Series, ordered by family name, with a "labels" string field and a
//     "value" number field.
//
// Decode errors are returned to the caller; they never reach the card core.
package frames
