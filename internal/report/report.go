// Package report shapes engine results into the envelopes printed by the CLI.
// Generic envelopes mirror the query engine; editor envelopes carry a success
// flag and flattened fields for editor integrations.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write encodes v to w in the given format.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Error is the failure envelope for generic commands.
type Error struct {
	Error string `json:"error" yaml:"error"`
}

// EditorError is the failure envelope for editor commands.
type EditorError struct {
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error" yaml:"error"`
}

// NewError wraps err in the envelope matching the command shape.
func NewError(err error, editor bool) any {
	if editor {
		return EditorError{Success: false, Error: err.Error()}
	}
	return Error{Error: err.Error()}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
