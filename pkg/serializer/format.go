// Package serializer handles output encoding for collected objects and the
// run summary.
package serializer

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding for collected objects.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"

	// FormatBoth writes every object in both encodings.
	FormatBoth Format = "both"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatBoth:
		return false
	}
	return true
}

// Encodings expands the format into the concrete encodings to write.
func (f Format) Encodings() []Format {
	if f == FormatBoth {
		return []Format{FormatYAML, FormatJSON}
	}
	return []Format{f}
}

// Extension returns the file extension for a concrete encoding.
func (f Format) Extension() string {
	return string(f)
}

// Encode marshals v in the given concrete encoding. FormatBoth is not a
// concrete encoding and must be expanded with Encodings first.
func Encode(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return b, nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %q", f)
	}
}
