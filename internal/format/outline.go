package format

import (
	"bytes"
	"io"
	"strings"
)

// OutlineRow is one line of indented-text output.
type OutlineRow struct {
	Name      string
	Depth     int
	Completed bool
	// Collapsed marks rows whose descendants are hidden from the listing.
	Collapsed bool
}

// WriteOutline renders rows as tab-indented text, one task per line, with a
// "[x]" prefix for completed tasks and a trailing ellipsis on collapsed rows.
// The shape round-trips through the paste/import parser.
func WriteOutline(w io.Writer, rows []OutlineRow) error {
	var buf bytes.Buffer
	for _, r := range rows {
		if r.Depth > 0 {
			buf.WriteString(strings.Repeat("\t", r.Depth))
		}
		if r.Completed {
			buf.WriteString("[x] ")
		}
		buf.WriteString(r.Name)
		if r.Collapsed {
			buf.WriteString(" …")
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}
