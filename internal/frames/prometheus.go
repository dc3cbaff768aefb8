package frames

import (
	"fmt"
	"io"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"

	"github.com/obsidianstack/statcard/pkg/types"
)

// Field names of a series decoded from the exposition format.
const (
	FieldLabels = "labels"
	FieldValue  = "value"
)

// DecodePrometheus reads a Prometheus text exposition.
// A partial parse that still yields families is treated as success.
func DecodePrometheus(r io.Reader) ([]types.Series, error) {
	parser := expfmt.NewTextParser(model.UTF8Validation)
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("frames: parse prometheus text: %w", err)
	}

	names := make([]string, 0, len(mfs))
	for name := range mfs {
		names = append(names, name)
	}
	// Map order is random; series order must be stable.
	sort.Strings(names)

	out := make([]types.Series, 0, len(names))
	for _, name := range names {
		out = append(out, familySeries(name, mfs[name]))
	}
	return out, nil
}

// familySeries converts one metric family into a Series.
func familySeries(name string, mf *dto.MetricFamily) types.Series {
	metrics := mf.GetMetric()
	labels := make([]any, 0, len(metrics))
	values := make([]any, 0, len(metrics))

	for _, m := range metrics {
		labels = append(labels, formatLabels(m.GetLabel()))
		values = append(values, sampleValue(m))
	}

	return types.Series{
		Name: name,
		Fields: []types.Field{
			{Name: FieldLabels, Type: types.FieldTypeString, Values: labels},
			{Name: FieldValue, Type: types.FieldTypeNumber, Values: values},
		},
	}
}

// sampleValue returns the scalar value of a metric. Summaries and histograms
// contribute their sample sum; a metric with no value yields nil, which the
// selector drops.
func sampleValue(m *dto.Metric) any {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	case m.Summary != nil:
		return m.Summary.GetSampleSum()
	case m.Histogram != nil:
		return m.Histogram.GetSampleSum()
	default:
		return nil
	}
}

// formatLabels renders label pairs as {a="1",b="2"}, sorted by name.
func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
