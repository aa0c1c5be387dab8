// Package diag anchors language-server diagnostics into a buffer.
//
// Diagnostics arrive as LSP publishDiagnostics payloads addressed by
// line/UTF-16 column. The package converts them to byte offsets, places a
// range mark per diagnostic, and keeps message and severity retrievable by
// position afterwards; the marks make the squiggles survive edits without
// any re-publish from the server.
package diag

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/stanza-edit/stanza/internal/engine/buffer"
	"github.com/stanza-edit/stanza/internal/engine/marks"
)

// ErrMalformedPayload reports a publishDiagnostics payload that does not
// have the expected shape.
var ErrMalformedPayload = errors.New("diag: malformed publishDiagnostics payload")

// Severity mirrors the LSP DiagnosticSeverity values.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// String returns the severity name as language servers spell it.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is one reported problem, located by byte range.
type Diagnostic struct {
	Range    marks.Range
	Severity Severity
	Source   string
	Code     string
	Message  string
}

// PositionConverter resolves LSP line/UTF-16-column positions to byte
// offsets. Both *buffer.Buffer and *buffer.Snapshot satisfy it.
type PositionConverter interface {
	PointUTF16ToOffset(p buffer.PointUTF16) (int, error)
}

// Parse decodes a publishDiagnostics payload against the document the
// positions refer to. Both a full JSON-RPC notification and a bare params
// object are accepted. Diagnostics whose positions fall outside the
// document are dropped rather than failing the batch; a server and editor
// briefly disagreeing about the document is routine.
func Parse(payload []byte, doc PositionConverter) ([]Diagnostic, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrMalformedPayload
	}

	list := gjson.GetBytes(payload, "params.diagnostics")
	if !list.Exists() {
		list = gjson.GetBytes(payload, "diagnostics")
	}
	if !list.IsArray() {
		return nil, ErrMalformedPayload
	}

	var out []Diagnostic
	var badShape bool
	list.ForEach(func(_, d gjson.Result) bool {
		start, sOK := point(d.Get("range.start"))
		end, eOK := point(d.Get("range.end"))
		if !sOK || !eOK {
			badShape = true
			return false
		}

		startOff, err := doc.PointUTF16ToOffset(start)
		if err != nil {
			return true
		}
		endOff, err := doc.PointUTF16ToOffset(end)
		if err != nil || endOff < startOff {
			return true
		}

		sev := Severity(d.Get("severity").Int())
		if sev == 0 {
			// The LSP spec leaves unset severity to the client.
			sev = SeverityError
		}

		out = append(out, Diagnostic{
			Range:    marks.NewRange(startOff, endOff),
			Severity: sev,
			Source:   d.Get("source").String(),
			Code:     d.Get("code").String(),
			Message:  d.Get("message").String(),
		})
		return true
	})
	if badShape {
		return nil, ErrMalformedPayload
	}
	return out, nil
}

func point(r gjson.Result) (buffer.PointUTF16, bool) {
	line, char := r.Get("line"), r.Get("character")
	if !line.Exists() || !char.Exists() {
		return buffer.PointUTF16{}, false
	}
	return buffer.PointUTF16{Line: int(line.Int()), Column: int(char.Int())}, true
}

// BuildTree assembles a standalone mark tree over a document of the given
// length, one range mark per diagnostic, ids assigned by batch position
// starting at 1. Useful when loading a stored diagnostic set for a document
// that is not open in a buffer.
func BuildTree(length int, ds []Diagnostic) *marks.MarkTree {
	b := marks.NewBuilder(length)
	for i, d := range ds {
		b.Add(d.Range.Start, marks.ID(i+1),
			marks.WithWidth(d.Range.Len()),
			marks.WithEndBias(marks.BiasLeft))
	}
	return b.Build()
}
