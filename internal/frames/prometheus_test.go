package frames

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/statcard/internal/selector"
)

// exposition is a realistic subset of a node exporter scrape.
const exposition = `
# HELP node_load1 1m load average.
# TYPE node_load1 gauge
node_load1 0.42

# HELP http_requests_total Total HTTP requests.
# TYPE http_requests_total counter
http_requests_total{code="200",method="get"} 1027
http_requests_total{code="500",method="get"} 3

# HELP rpc_duration_seconds RPC latency.
# TYPE rpc_duration_seconds summary
rpc_duration_seconds{quantile="0.5"} 0.05
rpc_duration_seconds_sum 17.5
rpc_duration_seconds_count 350
`

func TestDecodePrometheus(t *testing.T) {
	series, err := DecodePrometheus(strings.NewReader(exposition))
	require.NoError(t, err)
	require.Len(t, series, 3)

	// Families come back sorted by name.
	assert.Equal(t, "http_requests_total", series[0].Name)
	assert.Equal(t, "node_load1", series[1].Name)
	assert.Equal(t, "rpc_duration_seconds", series[2].Name)

	reqs := series[0]
	require.Len(t, reqs.Fields, 2)
	assert.Equal(t, FieldLabels, reqs.Fields[0].Name)
	assert.Equal(t, []any{`{code="200",method="get"}`, `{code="500",method="get"}`}, reqs.Fields[0].Values)
	assert.Equal(t, []any{1027.0, 3.0}, reqs.Fields[1].Values)

	assert.Equal(t, []any{"{}"}, series[1].Fields[0].Values)
	assert.Equal(t, []any{17.5}, series[2].Fields[1].Values)
}

func TestDecodePrometheus_FeedsSelector(t *testing.T) {
	series, err := DecodePrometheus(strings.NewReader(exposition))
	require.NoError(t, err)

	values, ok := selector.SelectNumericField(series)
	require.True(t, ok)
	assert.Equal(t, []float64{1027, 3}, values)
}

func TestDecodePrometheus_Empty(t *testing.T) {
	series, err := DecodePrometheus(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestDecodePrometheus_Garbage(t *testing.T) {
	_, err := DecodePrometheus(strings.NewReader("# TYPE node_load1 nonsense\n"))
	assert.Error(t, err)
}
