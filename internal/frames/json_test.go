package frames

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/statcard/pkg/types"
)

const queryResult = `{
  "series": [
    {
      "name": "cpu",
      "fields": [
        {"name": "time", "type": "time", "values": [1700000000000, 1700000060000, 1700000120000]},
        {"name": "host", "type": "string", "values": ["a", "b", "c"]},
        {"name": "usage", "type": "number", "values": [10, 20.5, null]}
      ]
    },
    {
      "name": "mem",
      "fields": [{"name": "used", "type": "number", "values": [1]}]
    }
  ]
}`

func TestDecodeJSON_Object(t *testing.T) {
	series, err := DecodeJSON(strings.NewReader(queryResult))
	require.NoError(t, err)
	require.Len(t, series, 2)

	cpu := series[0]
	assert.Equal(t, "cpu", cpu.Name)
	require.Len(t, cpu.Fields, 3)
	assert.Equal(t, types.FieldTypeTime, cpu.Fields[0].Type)
	assert.Equal(t, types.FieldTypeString, cpu.Fields[1].Type)
	assert.Equal(t, types.FieldTypeNumber, cpu.Fields[2].Type)
	assert.Equal(t, []any{json.Number("10"), json.Number("20.5"), nil}, cpu.Fields[2].Values)

	assert.Equal(t, "mem", series[1].Name)
}

func TestDecodeJSON_BareArray(t *testing.T) {
	series, err := DecodeJSON(strings.NewReader(`[{"fields":[{"name":"v","type":"number","values":[1,2]}]}]`))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, series[0].Fields[0].Values)
}

func TestDecodeJSON_UnknownTypeIsOther(t *testing.T) {
	series, err := DecodeJSON(strings.NewReader(`{"series":[{"fields":[{"name":"x","type":"geo","values":[]}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, types.FieldTypeOther, series[0].Fields[0].Type)
}

func TestDecodeJSON_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n", `{"series":[]}`, `[]`} {
		series, err := DecodeJSON(strings.NewReader(in))
		require.NoError(t, err, "input %q", in)
		assert.Empty(t, series, "input %q", in)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`{"series": [`))
	assert.Error(t, err)
}

func TestDecodeJSON_TrailingData(t *testing.T) {
	for _, in := range []string{
		`{"series":[]} garbage`,
		`{"series":[]}{"series":[]}`,
		`[] []`,
		`[]]`,
	} {
		_, err := DecodeJSON(strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestDecodeJSON_TrailingWhitespace(t *testing.T) {
	series, err := DecodeJSON(strings.NewReader("{\"series\":[]}\n\n"))
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("prometheus")
	require.NoError(t, err)
	assert.Equal(t, FormatPrometheus, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestDecode_Dispatch(t *testing.T) {
	series, err := Decode(strings.NewReader(`[]`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, series)

	_, err = Decode(strings.NewReader(`[]`), Format("xml"))
	assert.Error(t, err)
}
