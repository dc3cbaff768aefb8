package selector

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/statcard/pkg/types"
)

func numberField(name string, vals ...any) types.Field {
	return types.Field{Name: name, Type: types.FieldTypeNumber, Values: vals}
}

func TestSelectNumericField_NoData(t *testing.T) {
	tests := []struct {
		name   string
		series []types.Series
	}{
		{name: "nil list", series: nil},
		{name: "empty list", series: []types.Series{}},
		{
			name: "no numeric field",
			series: []types.Series{{Fields: []types.Field{
				{Name: "host", Type: types.FieldTypeString, Values: []any{"a", "b"}},
				{Name: "time", Type: types.FieldTypeTime, Values: []any{1, 2}},
			}}},
		},
		{
			name:   "numeric field with no values",
			series: []types.Series{{Fields: []types.Field{numberField("cpu")}}},
		},
		{
			name: "numeric field with only malformed values",
			series: []types.Series{{Fields: []types.Field{
				numberField("cpu", nil, "12", true, math.NaN(), math.Inf(1)),
			}}},
		},
		{
			name: "numeric field only in a later series",
			series: []types.Series{
				{Fields: []types.Field{{Name: "host", Type: types.FieldTypeString}}},
				{Fields: []types.Field{numberField("cpu", 1.0, 2.0)}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, ok := SelectNumericField(tc.series)
			assert.False(t, ok)
			assert.Nil(t, values)
		})
	}
}

func TestSelectNumericField_FirstNumericWins(t *testing.T) {
	series := []types.Series{{Fields: []types.Field{
		{Name: "time", Type: types.FieldTypeTime, Values: []any{100, 200, 300}},
		numberField("cpu", 10.0, 20.0, 30.0),
		numberField("mem", 99.0),
	}}}

	values, ok := SelectNumericField(series)
	require.True(t, ok)
	assert.Equal(t, []float64{10, 20, 30}, values)
}

func TestSelectNumericField_FiltersMalformedPreservingOrder(t *testing.T) {
	series := []types.Series{{Fields: []types.Field{
		numberField("cpu", 5, nil, json.Number("7.5"), "oops", float32(2), math.NaN(), int64(-3), json.Number("x")),
	}}}

	values, ok := SelectNumericField(series)
	require.True(t, ok)
	assert.Equal(t, []float64{5, 7.5, 2, -3}, values)
}

func TestSelectNumericField_DoesNotMutateInput(t *testing.T) {
	field := numberField("cpu", 1.0, "bad", 2.0)
	series := []types.Series{{Fields: []types.Field{field}}}

	_, ok := SelectNumericField(series)
	require.True(t, ok)
	assert.Equal(t, []any{1.0, "bad", 2.0}, series[0].Fields[0].Values)
}

func TestSelectNumericField_Stable(t *testing.T) {
	series := []types.Series{{Fields: []types.Field{numberField("cpu", 3.0, 1.0, 2.0)}}}

	first, _ := SelectNumericField(series)
	second, _ := SelectNumericField(series)
	assert.Equal(t, first, second)
}
