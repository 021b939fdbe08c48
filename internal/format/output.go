package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Outliner is implemented by payloads that have a natural indented-text
// rendering alongside their JSON shape.
type Outliner interface {
	OutlineRows() []OutlineRow
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - text (indented outline; payloads without an outline shape fall back to JSON)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		if o, ok := v.(Outliner); ok {
			return WriteOutline(w, o.OutlineRows())
		}
		return WriteJSON(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: We intentionally keep output strict JSON only. If you need to
// communicate how to fetch more data, use a `meta` object or `_hint` fields.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
