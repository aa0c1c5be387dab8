package diag

import (
	"errors"
	"testing"

	"github.com/stanza-edit/stanza/internal/engine/buffer"
	"github.com/stanza-edit/stanza/internal/engine/marks"
)

const source = "package main\n\nfunc main() {\n\tprintln(undefined)\n}\n"

// Offsets within source: line 3 is "\tprintln(undefined)", starting at 28;
// "undefined" spans bytes 37..46.
const notification = `{
	"jsonrpc": "2.0",
	"method": "textDocument/publishDiagnostics",
	"params": {
		"uri": "file:///tmp/main.go",
		"diagnostics": [
			{
				"range": {
					"start": {"line": 3, "character": 9},
					"end": {"line": 3, "character": 18}
				},
				"severity": 1,
				"source": "compiler",
				"code": "UndeclaredName",
				"message": "undefined: undefined"
			},
			{
				"range": {
					"start": {"line": 0, "character": 0},
					"end": {"line": 0, "character": 7}
				},
				"severity": 2,
				"source": "lint",
				"message": "package comment missing"
			}
		]
	}
}`

func TestParse(t *testing.T) {
	buf := buffer.FromString(source)

	ds, err := Parse([]byte(notification), buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("parsed %d diagnostics, want 2", len(ds))
	}

	if ds[0].Range != marks.NewRange(37, 46) {
		t.Errorf("range = %v, want [37:46)", ds[0].Range)
	}
	if got := buf.TextRange(ds[0].Range.Start, ds[0].Range.End); got != "undefined" {
		t.Errorf("diagnostic covers %q, want %q", got, "undefined")
	}
	if ds[0].Severity != SeverityError || ds[0].Source != "compiler" ||
		ds[0].Code != "UndeclaredName" || ds[0].Message != "undefined: undefined" {
		t.Errorf("unexpected fields: %+v", ds[0])
	}

	if ds[1].Range != marks.NewRange(0, 7) {
		t.Errorf("range = %v, want [0:7)", ds[1].Range)
	}
	if ds[1].Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", ds[1].Severity)
	}
}

func TestParseBareParams(t *testing.T) {
	buf := buffer.FromString("one line")
	payload := `{"uri": "file:///x", "diagnostics": [
		{"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 3}}, "message": "m"}
	]}`

	ds, err := Parse([]byte(payload), buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ds) != 1 || ds[0].Range != marks.NewRange(0, 3) {
		t.Fatalf("got %v", ds)
	}
	if ds[0].Severity != SeverityError {
		t.Errorf("unset severity = %v, want error", ds[0].Severity)
	}
}

func TestParseMalformed(t *testing.T) {
	buf := buffer.FromString("x")
	cases := []string{
		`not json`,
		`{"params": {}}`,
		`{"params": {"diagnostics": 42}}`,
		`{"params": {"diagnostics": [{"range": {"start": {"line": 0}}}]}}`,
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c), buf); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("Parse(%q): err = %v, want ErrMalformedPayload", c, err)
		}
	}
}

func TestParseDropsOutOfRangePositions(t *testing.T) {
	buf := buffer.FromString("tiny")
	payload := `{"diagnostics": [
		{"range": {"start": {"line": 9, "character": 0}, "end": {"line": 9, "character": 1}}, "message": "stale"},
		{"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 4}}, "message": "live"}
	]}`

	ds, err := Parse([]byte(payload), buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ds) != 1 || ds[0].Message != "live" {
		t.Fatalf("got %v, want only the in-range diagnostic", ds)
	}
}

func TestSetPublishAndTrack(t *testing.T) {
	buf := buffer.FromString(source)
	set := NewSet(buf)

	n, err := set.Publish([]byte(notification))
	if err != nil || n != 2 {
		t.Fatalf("Publish = %d, %v; want 2", n, err)
	}

	// Editing above the diagnostic moves it with the text.
	if _, err := buf.Insert(0, "// a comment\n"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	all := set.All()
	if len(all) != 2 {
		t.Fatalf("All() = %v, want 2 diagnostics", all)
	}
	last := all[1]
	if got := buf.TextRange(last.Range.Start, last.Range.End); got != "undefined" {
		t.Errorf("diagnostic drifted to %q after edit", got)
	}

	if got := set.At(last.Range.Start + 1); len(got) != 1 || got[0].Message != "undefined: undefined" {
		t.Errorf("At inside squiggle = %v", got)
	}
	if got := set.At(last.Range.End + 1); len(got) != 0 {
		t.Errorf("At past squiggle = %v, want none", got)
	}

	errs, warnings, _, _ := set.Counts()
	if errs != 1 || warnings != 1 {
		t.Errorf("Counts = %d errors, %d warnings; want 1 and 1", errs, warnings)
	}

	// A republish supersedes the previous set.
	n, err = set.Publish([]byte(`{"diagnostics": []}`))
	if err != nil || n != 0 {
		t.Fatalf("empty Publish = %d, %v", n, err)
	}
	if buf.MarkCount() != 0 {
		t.Errorf("%d marks left after empty publish", buf.MarkCount())
	}
}

func TestSetDropsDiagnosticWhenTextDeleted(t *testing.T) {
	buf := buffer.FromString(source)
	set := NewSet(buf)
	if _, err := set.Publish([]byte(notification)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Deleting across the flagged identifier consumes the mark.
	if err := buf.Delete(30, 48); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, d := range set.All() {
		if d.Message == "undefined: undefined" {
			t.Errorf("diagnostic survived deletion of its text: %v", d)
		}
	}
}

func TestSetSeverityFilter(t *testing.T) {
	buf := buffer.FromString(source)
	set := NewSet(buf, WithMinSeverity(SeverityError))

	n, err := set.Publish([]byte(notification))
	if err != nil || n != 1 {
		t.Fatalf("Publish = %d, %v; want only the error kept", n, err)
	}
	if all := set.All(); len(all) != 1 || all[0].Severity != SeverityError {
		t.Errorf("All() = %v", all)
	}
}

func TestBuildTree(t *testing.T) {
	ds := []Diagnostic{
		{Range: marks.NewRange(10, 20), Severity: SeverityError},
		{Range: marks.NewRange(0, 5), Severity: SeverityWarning},
		{Range: marks.Point(30), Severity: SeverityHint},
	}
	tree := BuildTree(40, ds)

	if tree.Len() != 40 {
		t.Errorf("Len() = %d, want 40", tree.Len())
	}
	if tree.Count() != 3 {
		t.Errorf("Count() = %d, want 3", tree.Count())
	}
	for i, d := range ds {
		if got, ok := tree.Get(marks.ID(i + 1)); !ok || got != d.Range {
			t.Errorf("Get(%d) = %v, %v; want %v", i+1, got, ok, d.Range)
		}
	}
}
