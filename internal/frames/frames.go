package frames

import (
	"fmt"
	"io"

	"github.com/obsidianstack/statcard/pkg/types"
)

// Format names a query result encoding.
type Format string

// Supported formats.
const (
	FormatJSON       Format = "json"
	FormatPrometheus Format = "prometheus"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatPrometheus:
		return Format(s), nil
	default:
		return "", fmt.Errorf("frames: unknown format %q: want json|prometheus", s)
	}
}

// Decode reads a query result in the given format.
func Decode(r io.Reader, format Format) ([]types.Series, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatPrometheus:
		return DecodePrometheus(r)
	default:
		return nil, fmt.Errorf("frames: unsupported format %q", format)
	}
}
