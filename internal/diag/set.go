package diag

import (
	"sort"
	"sync"

	"github.com/stanza-edit/stanza/internal/engine/buffer"
	"github.com/stanza-edit/stanza/internal/engine/marks"
)

// Set tracks the diagnostics of one buffer. Each diagnostic is backed by a
// range mark in the buffer, so positions stay current as the user edits;
// the Set resolves messages and severities through those marks on demand.
type Set struct {
	mu   sync.RWMutex
	buf  *buffer.Buffer
	byID map[marks.ID]Diagnostic

	minSeverity Severity
	maxCount    int
}

// Option configures a Set.
type Option func(*Set)

// WithMinSeverity drops diagnostics less severe than the given level.
func WithMinSeverity(s Severity) Option {
	return func(set *Set) {
		set.minSeverity = s
	}
}

// WithMaxCount caps the number of tracked diagnostics per publish; the
// most severe are kept.
func WithMaxCount(n int) Option {
	return func(set *Set) {
		set.maxCount = n
	}
}

// NewSet creates a diagnostic set over the given buffer.
func NewSet(buf *buffer.Buffer, opts ...Option) *Set {
	s := &Set{
		buf:         buf,
		byID:        make(map[marks.ID]Diagnostic),
		minSeverity: SeverityHint, // include everything by default
		maxCount:    1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish replaces the tracked diagnostics with the ones in the given
// publishDiagnostics payload, mirroring LSP semantics where each publish
// supersedes the previous set. Returns the number of diagnostics tracked.
func (s *Set) Publish(payload []byte) (int, error) {
	ds, err := Parse(payload, s.buf)
	if err != nil {
		return 0, err
	}
	s.Replace(ds)
	return s.Count(), nil
}

// Replace installs an already-parsed batch, superseding the previous one.
func (s *Set) Replace(ds []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.byID {
		s.buf.RemoveMark(id)
	}
	s.byID = make(map[marks.ID]Diagnostic, len(ds))

	filtered := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		if d.Severity > s.minSeverity {
			continue
		}
		filtered = append(filtered, d)
	}
	if len(filtered) > s.maxCount {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Severity < filtered[j].Severity
		})
		filtered = filtered[:s.maxCount]
	}

	for _, d := range filtered {
		// The end leans left so text typed at the edge of a squiggle is
		// not swallowed by it.
		id, err := s.buf.PlaceMark(d.Range.Start,
			marks.WithWidth(d.Range.Len()),
			marks.WithEndBias(marks.BiasLeft))
		if err != nil {
			continue
		}
		s.byID[id] = d
	}
}

// Clear drops every tracked diagnostic and its mark.
func (s *Set) Clear() {
	s.Replace(nil)
}

// Count returns the number of tracked diagnostics.
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// All returns the tracked diagnostics at their current positions, sorted by
// start offset then severity.
func (s *Set) All() []Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Diagnostic, 0, len(s.byID))
	for id, d := range s.byID {
		r, ok := s.buf.Mark(id)
		if !ok {
			// The mark was consumed by an edit; the diagnostic is stale.
			continue
		}
		d.Range = r
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Start != out[j].Range.Start {
			return out[i].Range.Start < out[j].Range.Start
		}
		return out[i].Severity < out[j].Severity
	})
	return out
}

// At returns the diagnostics covering the given byte offset. A zero-width
// diagnostic matches the offset it sits on.
func (s *Set) At(offset int) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.All() {
		if d.Range.Contains(offset) || (d.Range.IsEmpty() && d.Range.Start == offset) {
			out = append(out, d)
		}
	}
	return out
}

// Counts returns the number of tracked diagnostics per severity, in
// error, warning, information, hint order.
func (s *Set) Counts() (errs, warnings, infos, hints int) {
	for _, d := range s.All() {
		switch d.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		case SeverityInformation:
			infos++
		default:
			hints++
		}
	}
	return errs, warnings, infos, hints
}
