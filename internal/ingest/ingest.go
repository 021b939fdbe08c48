// Package ingest bounds and parses externally sourced outline text (clipboard
// paste, file import) before it ever reaches the engine's reconstruction
// algorithm. The engine assumes already-validated, bounded input.
package ingest

import (
	"fmt"
	"strings"

	"arbor-cli/internal/model"
)

type Limits struct {
	// MaxBytes is the raw payload ceiling, applied before parsing.
	MaxBytes int
	// MaxEntries caps the number of parsed entries.
	MaxEntries int
	// MaxDepth caps normalized nesting depth (0 = flat).
	MaxDepth int
}

func DefaultLimits() Limits {
	return Limits{
		MaxBytes:   1 << 20, // 1 MiB of outline text is already absurd
		MaxEntries: 10_000,
		MaxDepth:   64,
	}
}

// LimitError reports which ceiling an external payload exceeded.
type LimitError struct {
	Dimension string // bytes|entries|depth
	Limit     int
	Actual    int
}

func (e LimitError) Error() string {
	return fmt.Sprintf("input exceeds %s limit: %d > %d", e.Dimension, e.Actual, e.Limit)
}

// Parse validates raw outline text against the limits and converts it into
// flat entries. Indentation is tabs or two-space steps; a leading "[x]"
// marks the entry completed, "[ ]" is accepted and ignored.
func Parse(text string, limits Limits) ([]model.FlatEntry, error) {
	if limits.MaxBytes > 0 && len(text) > limits.MaxBytes {
		return nil, LimitError{Dimension: "bytes", Limit: limits.MaxBytes, Actual: len(text)}
	}

	var entries []model.FlatEntry
	minDepth := -1
	maxDepth := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth, rest := measureIndent(line)
		name, completed := stripCheckbox(rest)
		if name == "" {
			continue
		}
		entries = append(entries, model.FlatEntry{Name: name, Depth: depth, Completed: completed})
		if minDepth < 0 || depth < minDepth {
			minDepth = depth
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	if limits.MaxEntries > 0 && len(entries) > limits.MaxEntries {
		return nil, LimitError{Dimension: "entries", Limit: limits.MaxEntries, Actual: len(entries)}
	}
	if len(entries) > 0 && limits.MaxDepth > 0 {
		if normalized := maxDepth - minDepth; normalized > limits.MaxDepth {
			return nil, LimitError{Dimension: "depth", Limit: limits.MaxDepth, Actual: normalized}
		}
	}
	return entries, nil
}

// ValidateEntries applies the entry-count and depth ceilings to an
// already-parsed batch (e.g. structured import files).
func ValidateEntries(entries []model.FlatEntry, limits Limits) error {
	if limits.MaxEntries > 0 && len(entries) > limits.MaxEntries {
		return LimitError{Dimension: "entries", Limit: limits.MaxEntries, Actual: len(entries)}
	}
	if len(entries) == 0 || limits.MaxDepth <= 0 {
		return nil
	}
	minDepth := entries[0].Depth
	maxDepth := entries[0].Depth
	for _, en := range entries {
		if en.Depth < minDepth {
			minDepth = en.Depth
		}
		if en.Depth > maxDepth {
			maxDepth = en.Depth
		}
	}
	if normalized := maxDepth - minDepth; normalized > limits.MaxDepth {
		return LimitError{Dimension: "depth", Limit: limits.MaxDepth, Actual: normalized}
	}
	return nil
}

// Format renders entries back to tab-indented outline text, the inverse of
// Parse. Completed entries get a "[x] " prefix.
func Format(entries []model.FlatEntry) string {
	var b strings.Builder
	for _, en := range entries {
		for i := 0; i < en.Depth; i++ {
			b.WriteByte('\t')
		}
		if en.Completed {
			b.WriteString("[x] ")
		}
		b.WriteString(en.Name)
		b.WriteByte('\n')
	}
	return b.String()
}

// measureIndent counts indentation steps: one tab or two spaces per level.
func measureIndent(line string) (depth int, rest string) {
	i := 0
	spaces := 0
	for i < len(line) {
		switch line[i] {
		case '\t':
			depth++
			spaces = 0
			i++
		case ' ':
			spaces++
			if spaces == 2 {
				depth++
				spaces = 0
			}
			i++
		default:
			return depth, line[i:]
		}
	}
	return depth, ""
}

func stripCheckbox(s string) (name string, completed bool) {
	s = strings.TrimSpace(s)
	// Common list prefixes from markdown-ish sources.
	for _, p := range []string{"- ", "* "} {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(strings.TrimPrefix(s, p))
			break
		}
	}
	switch {
	case strings.HasPrefix(s, "[x]"), strings.HasPrefix(s, "[X]"):
		return strings.TrimSpace(s[3:]), true
	case strings.HasPrefix(s, "[ ]"):
		return strings.TrimSpace(s[3:]), false
	}
	return s, false
}
