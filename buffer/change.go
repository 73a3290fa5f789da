package buffer

import "github.com/iw2rmb/flourish/internal/grapheme"

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	ChangeSourceLocal ChangeSource = iota
	ChangeSourceHistory
)

// SelectionState captures normalized selection state at a point in time.
type SelectionState struct {
	Active bool
	Range  Range
}

// AppliedEdit describes one effective edit in a change transaction.
//
// RangeBefore is expressed in the document as it was before the edit,
// RangeAfter in the document right after it. Both share the same Start.
type AppliedEdit struct {
	RangeBefore Range
	RangeAfter  Range
	InsertText  string
	DeletedText string
}

// Change is a normalized, versioned mutation payload.
type Change struct {
	Source          ChangeSource
	VersionBefore   uint64
	VersionAfter    uint64
	CursorBefore    Pos
	CursorAfter     Pos
	SelectionBefore SelectionState
	SelectionAfter  SelectionState
	AppliedEdits    []AppliedEdit
}

type changeBuilder struct {
	source          ChangeSource
	versionBefore   uint64
	cursorBefore    Pos
	selectionBefore SelectionState
	appliedEdits    []AppliedEdit
}

// LastChange returns the most recent effective text change.
func (b *Buffer) LastChange() (Change, bool) {
	if !b.hasLastChange {
		return Change{}, false
	}
	return cloneChange(b.lastChange), true
}

func cloneChange(in Change) Change {
	out := in
	out.AppliedEdits = append([]AppliedEdit(nil), in.AppliedEdits...)
	return out
}

func selectionStateFromInternal(sel selectionState) SelectionState {
	if !sel.active {
		return SelectionState{}
	}
	r := NormalizeRange(Range{Start: sel.anchor, End: sel.end})
	if r.IsEmpty() {
		return SelectionState{}
	}
	return SelectionState{Active: true, Range: r}
}

func (b *Buffer) beginChange(source ChangeSource) changeBuilder {
	return changeBuilder{
		source:          source,
		versionBefore:   b.version,
		cursorBefore:    b.cursor,
		selectionBefore: selectionStateFromInternal(b.sel),
	}
}

func (cb *changeBuilder) addAppliedEdit(edit AppliedEdit) {
	edit.RangeBefore = NormalizeRange(edit.RangeBefore)
	edit.RangeAfter = NormalizeRange(edit.RangeAfter)
	cb.appliedEdits = append(cb.appliedEdits, edit)
}

func (b *Buffer) commitChange(cb changeBuilder) {
	if b.version == cb.versionBefore {
		return
	}
	b.lastChange = Change{
		Source:          cb.source,
		VersionBefore:   cb.versionBefore,
		VersionAfter:    b.version,
		CursorBefore:    cb.cursorBefore,
		CursorAfter:     b.cursor,
		SelectionBefore: cb.selectionBefore,
		SelectionAfter:  selectionStateFromInternal(b.sel),
		AppliedEdits:    append([]AppliedEdit(nil), cb.appliedEdits...),
	}
	b.hasLastChange = true
	if b.opt.OnChange != nil {
		b.opt.OnChange(cloneChange(b.lastChange))
	}
}

// MapPos maps p, a position in the document before e was applied, into the
// document after it.
//
// A position equal to the start of a pure insertion stays put unless
// assocRight is set, in which case it moves past the inserted text.
// Positions strictly inside a deleted range collapse to the range start, or
// to the end of the inserted text when assocRight is set.
func MapPos(p Pos, e AppliedEdit, assocRight bool) Pos {
	start, end := e.RangeBefore.Start, e.RangeBefore.End
	newEnd := e.RangeAfter.End

	if ComparePos(p, start) < 0 {
		return p
	}
	if p == start && start == end {
		if assocRight {
			return newEnd
		}
		return p
	}
	if ComparePos(p, end) >= 0 {
		if p.Row == end.Row {
			return Pos{Row: newEnd.Row, GraphemeCol: newEnd.GraphemeCol + p.GraphemeCol - end.GraphemeCol}
		}
		return Pos{Row: p.Row + newEnd.Row - end.Row, GraphemeCol: p.GraphemeCol}
	}
	if p == start || !assocRight {
		return start
	}
	return newEnd
}

// MapLine maps a line index through e. It reports false when the line was
// removed by the edit (joined into the line where the edit starts).
func MapLine(row int, e AppliedEdit) (int, bool) {
	start, end := e.RangeBefore.Start, e.RangeBefore.End
	if row <= start.Row {
		return row, true
	}
	if row <= end.Row {
		return 0, false
	}
	return row + e.RangeAfter.End.Row - end.Row, true
}

// diffAppliedEdit returns the smallest single edit that turns beforeText into
// afterText. History restores use it so that positions tracked outside the
// buffer survive undo and redo of local edits.
func diffAppliedEdit(beforeText, afterText string) (AppliedEdit, bool) {
	if beforeText == afterText {
		return AppliedEdit{}, false
	}
	a := flattenLines(splitLines(beforeText))
	b := flattenLines(splitLines(afterText))

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	start := tokenPos(a, prefix)
	return AppliedEdit{
		RangeBefore: Range{Start: start, End: tokenPos(a, len(a)-suffix)},
		RangeAfter:  Range{Start: start, End: tokenPos(b, len(b)-suffix)},
		InsertText:  grapheme.Join(b[prefix : len(b)-suffix]),
		DeletedText: grapheme.Join(a[prefix : len(a)-suffix]),
	}, true
}

func flattenLines(lines [][]string) []string {
	n := len(lines) - 1
	for _, l := range lines {
		n += len(l)
	}
	out := make([]string, 0, n)
	for i, l := range lines {
		if i > 0 {
			out = append(out, "\n")
		}
		out = append(out, l...)
	}
	return out
}

func tokenPos(tokens []string, idx int) Pos {
	var p Pos
	for _, t := range tokens[:idx] {
		if t == "\n" {
			p.Row++
			p.GraphemeCol = 0
			continue
		}
		p.GraphemeCol++
	}
	return p
}
