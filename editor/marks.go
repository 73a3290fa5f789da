package editor

import (
	"fmt"
	"maps"

	"github.com/iw2rmb/flourish/buffer"
)

// MarkOptions binds presentation and behavior to a marked range.
type MarkOptions struct {
	// ClassName is resolved through Config.ClassStyles for every grapheme in
	// the range.
	ClassName string

	// InclusiveLeft and InclusiveRight control whether text inserted exactly
	// at the start/end of the range becomes part of it.
	InclusiveLeft  bool
	InclusiveRight bool

	// Atomic ranges cannot hold the cursor: it is pushed past them.
	Atomic bool
	// Collapsed ranges are hidden from view, replaced by ReplacedWith.
	Collapsed bool
	// ClearOnEnter clears the marker when the cursor enters the range.
	ClearOnEnter bool
	// ClearWhenEmpty clears the marker once edits shrink it to nothing.
	ClearWhenEmpty bool
	// ReplacedWith is shown in place of a collapsed range.
	ReplacedWith string

	HandleMouseEvents bool
	// ReadOnly ranges refuse key edits that touch them; see ReadOnlyIn.
	ReadOnly     bool
	AddToHistory bool

	// StartStyle and EndStyle are extra classes for the first and last
	// grapheme of the range.
	StartStyle string
	EndStyle   string

	Title  string
	Shared bool

	// Attrs carries host-defined properties that the editor stores but does
	// not interpret.
	Attrs map[string]any
}

func (o MarkOptions) clone() MarkOptions {
	o.Attrs = maps.Clone(o.Attrs)
	return o
}

// TextMarker is a live marked range. Its endpoints follow document edits.
type TextMarker struct {
	id       int
	from, to buffer.Pos
	opt      MarkOptions
	owner    *decorations
	attached bool
}

func (tm *TextMarker) ID() int { return tm.id }

// Find returns the marker's current range. It reports false once the marker
// has been cleared.
func (tm *TextMarker) Find() (buffer.Range, bool) {
	if tm == nil || !tm.attached {
		return buffer.Range{}, false
	}
	return buffer.Range{Start: tm.from, End: tm.to}, true
}

// Options returns a copy of the marker's options.
func (tm *TextMarker) Options() MarkOptions { return tm.opt.clone() }

// Clear detaches the marker. Clearing twice is a no-op.
func (tm *TextMarker) Clear() {
	if tm == nil || !tm.attached {
		return
	}
	tm.owner.removeMark(tm)
}

// MarkText marks [from, to) with opt.
//
// Positions must address the current document and from must not come after
// to. An empty range with ClearWhenEmpty yields a marker that is never
// attached, so Find reports false for it.
func (m Model) MarkText(from, to buffer.Pos, opt MarkOptions) (*TextMarker, error) {
	if !m.buf.ValidPos(from) || !m.buf.ValidPos(to) || buffer.ComparePos(from, to) > 0 {
		return nil, fmt.Errorf("%w: %v-%v", ErrInvalidRange, from, to)
	}

	d := m.decor
	d.nextID++
	tm := &TextMarker{
		id:    d.nextID,
		from:  from,
		to:    to,
		opt:   opt.clone(),
		owner: d,
	}
	if from == to && opt.ClearWhenEmpty {
		return tm, nil
	}
	tm.attached = true
	d.marks = append(d.marks, tm)
	d.touch()
	return tm, nil
}

// AllMarks returns the attached markers in creation order.
func (m Model) AllMarks() []*TextMarker {
	return append([]*TextMarker(nil), m.decor.marks...)
}

// FindMarksAt returns the markers whose range covers pos. Empty markers
// cover their single position.
func (m Model) FindMarksAt(pos buffer.Pos) []*TextMarker {
	var out []*TextMarker
	for _, tm := range m.decor.marks {
		if tm.covers(pos) {
			out = append(out, tm)
		}
	}
	return out
}

// ReadOnlyAt reports whether a read-only marker covers pos.
func (m Model) ReadOnlyAt(pos buffer.Pos) bool {
	for _, tm := range m.decor.marks {
		if tm.opt.ReadOnly && tm.covers(pos) {
			return true
		}
	}
	return false
}

// ReadOnlyIn reports whether editing r would touch a read-only marker. A
// non-empty r is refused when it overlaps a marker. An empty r is an
// insertion point, refused strictly inside a marker or at an inclusive edge.
func (m Model) ReadOnlyIn(r buffer.Range) bool {
	r = buffer.NormalizeRange(r)
	for _, tm := range m.decor.marks {
		if !tm.opt.ReadOnly {
			continue
		}
		if !r.IsEmpty() {
			if tm.overlaps(r) {
				return true
			}
			continue
		}
		p := r.Start
		if tm.strictlyInside(p) ||
			(p == tm.from && tm.opt.InclusiveLeft) ||
			(p == tm.to && tm.opt.InclusiveRight) {
			return true
		}
	}
	return false
}

func (tm *TextMarker) covers(pos buffer.Pos) bool {
	if tm.from == tm.to {
		return pos == tm.from
	}
	return buffer.Range{Start: tm.from, End: tm.to}.Contains(pos)
}

// strictlyInside reports from < pos < to.
func (tm *TextMarker) strictlyInside(pos buffer.Pos) bool {
	return buffer.ComparePos(tm.from, pos) < 0 && buffer.ComparePos(pos, tm.to) < 0
}

// overlaps reports whether the non-empty range r shares a grapheme with the
// marker.
func (tm *TextMarker) overlaps(r buffer.Range) bool {
	return buffer.ComparePos(tm.from, r.End) < 0 && buffer.ComparePos(r.Start, tm.to) < 0
}

func (tm *TextMarker) mapThrough(e buffer.AppliedEdit) {
	wasEmpty := tm.from == tm.to
	tm.from = buffer.MapPos(tm.from, e, !tm.opt.InclusiveLeft)
	tm.to = buffer.MapPos(tm.to, e, tm.opt.InclusiveRight)
	if buffer.ComparePos(tm.from, tm.to) > 0 {
		tm.to = tm.from
	}
	if !wasEmpty && tm.from == tm.to && tm.opt.ClearWhenEmpty {
		tm.attached = false
	}
}
