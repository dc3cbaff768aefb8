package frames

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/obsidianstack/statcard/pkg/types"
)

type wireField struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Values []any  `json:"values"`
}

type wireSeries struct {
	Name   string      `json:"name"`
	Fields []wireField `json:"fields"`
}

type wireResult struct {
	Series []wireSeries `json:"series"`
}

// DecodeJSON reads a JSON query result.
func DecodeJSON(r io.Reader) ([]types.Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("frames: read json: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON query result held in memory. Whitespace-only input
// is an empty result; anything after the first JSON value is an error.
func ParseJSON(data []byte) ([]types.Series, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []types.Series{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var wire []wireSeries
	if data[0] == '[' {
		if err := dec.Decode(&wire); err != nil {
			return nil, fmt.Errorf("frames: parse json: %w", err)
		}
	} else {
		var res wireResult
		if err := dec.Decode(&res); err != nil {
			return nil, fmt.Errorf("frames: parse json: %w", err)
		}
		wire = res.Series
	}

	// Exactly one JSON value is accepted.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("frames: parse json: trailing data after query result")
	}

	return fromWire(wire), nil
}

// fromWire converts decoded wire series, mapping type names to tags.
func fromWire(wire []wireSeries) []types.Series {
	out := make([]types.Series, 0, len(wire))
	for _, ws := range wire {
		s := types.Series{Name: ws.Name, Fields: make([]types.Field, 0, len(ws.Fields))}
		for _, wf := range ws.Fields {
			s.Fields = append(s.Fields, types.Field{
				Name:   wf.Name,
				Type:   types.ParseFieldType(wf.Type),
				Values: wf.Values,
			})
		}
		out = append(out, s)
	}
	return out
}
