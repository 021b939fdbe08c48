package ingest

import (
	"errors"
	"strings"
	"testing"

	"arbor-cli/internal/model"
)

func TestParse_IndentAndCheckboxes(t *testing.T) {
	text := "Work\n\tA\n\t\t[x] B\n  - Spaced\nSub\n\n* [ ] Open\n"
	entries, err := Parse(text, DefaultLimits())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []model.FlatEntry{
		{Name: "Work", Depth: 0},
		{Name: "A", Depth: 1},
		{Name: "B", Depth: 2, Completed: true},
		{Name: "Spaced", Depth: 1},
		{Name: "Sub", Depth: 0},
		{Name: "Open", Depth: 0},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries; got %d: %v", len(want), len(entries), entries)
	}
	for i, w := range want {
		if entries[i] != w {
			t.Fatalf("entry %d: expected %+v; got %+v", i, w, entries[i])
		}
	}
}

func TestParse_ByteLimit(t *testing.T) {
	limits := Limits{MaxBytes: 16, MaxEntries: 100, MaxDepth: 10}
	_, err := Parse(strings.Repeat("x", 17), limits)
	var le LimitError
	if !errors.As(err, &le) || le.Dimension != "bytes" {
		t.Fatalf("expected bytes limit error; got %v", err)
	}
	if le.Limit != 16 || le.Actual != 17 {
		t.Fatalf("unexpected limit error: %+v", le)
	}
}

func TestParse_EntryLimit(t *testing.T) {
	limits := Limits{MaxBytes: 1 << 20, MaxEntries: 3, MaxDepth: 10}
	_, err := Parse("a\nb\nc\nd\n", limits)
	var le LimitError
	if !errors.As(err, &le) || le.Dimension != "entries" {
		t.Fatalf("expected entries limit error; got %v", err)
	}
}

func TestParse_DepthLimitIsNormalized(t *testing.T) {
	limits := Limits{MaxBytes: 1 << 20, MaxEntries: 100, MaxDepth: 2}
	// Raw depths 5..8, but the normalized span 3 is what trips the ceiling.
	text := "\t\t\t\t\ta\n\t\t\t\t\t\tb\n\t\t\t\t\t\t\tc\n\t\t\t\t\t\t\t\td\n"
	_, err := Parse(text, limits)
	var le LimitError
	if !errors.As(err, &le) || le.Dimension != "depth" {
		t.Fatalf("expected depth limit error; got %v", err)
	}
	if le.Actual != 3 {
		t.Fatalf("expected normalized depth 3; got %d", le.Actual)
	}

	// The same absolute depth passes when the block is uniform.
	if _, err := Parse("\t\t\t\t\ta\n\t\t\t\t\tb\n", limits); err != nil {
		t.Fatalf("uniform block refused: %v", err)
	}
}

func TestValidateEntries(t *testing.T) {
	limits := Limits{MaxEntries: 2, MaxDepth: 1}
	ok := []model.FlatEntry{{Name: "a", Depth: 4}, {Name: "b", Depth: 5}}
	if err := ValidateEntries(ok, limits); err != nil {
		t.Fatalf("expected pass; got %v", err)
	}
	deep := []model.FlatEntry{{Name: "a", Depth: 0}, {Name: "b", Depth: 2}}
	var le LimitError
	if err := ValidateEntries(deep, limits); !errors.As(err, &le) || le.Dimension != "depth" {
		t.Fatalf("expected depth limit error; got %v", err)
	}
}

func TestFormat_RoundTripsParse(t *testing.T) {
	entries := []model.FlatEntry{
		{Name: "Work", Depth: 0},
		{Name: "A", Depth: 1, Completed: true},
		{Name: "Sub", Depth: 0},
	}
	text := Format(entries)
	back, err := Parse(text, DefaultLimits())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(back) != len(entries) {
		t.Fatalf("expected %d entries; got %d", len(entries), len(back))
	}
	for i := range entries {
		if back[i] != entries[i] {
			t.Fatalf("entry %d: expected %+v; got %+v", i, entries[i], back[i])
		}
	}
}
