package buffer

import (
	"cmp"
	"fmt"
)

// Pos is a document position. Row is the zero-based line, GraphemeCol the
// zero-based grapheme cluster offset within it.
type Pos struct {
	Row         int
	GraphemeCol int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Row, p.GraphemeCol) }

// Range is the half-open span [Start, End).
type Range struct {
	Start Pos
	End   Pos
}

func (r Range) String() string { return r.Start.String() + "-" + r.End.String() }

// TextEdit replaces Range with Text. Text may span lines.
type TextEdit struct {
	Range Range
	Text  string
}

// ComparePos orders positions by row, then column.
func ComparePos(a, b Pos) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.GraphemeCol, b.GraphemeCol)
}

// NormalizeRange swaps inverted endpoints.
func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) > 0 {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

// Contains reports whether p lies in [Start, End).
func (r Range) Contains(p Pos) bool {
	r = NormalizeRange(r)
	return ComparePos(r.Start, p) <= 0 && ComparePos(p, r.End) < 0
}

// ClampPos moves p into a document of rowCount lines (at least one), where
// lineLen reports each line's length in clusters.
func ClampPos(p Pos, rowCount int, lineLen func(row int) int) Pos {
	row := min(max(p.Row, 0), max(rowCount, 1)-1)
	limit := 0
	if lineLen != nil {
		limit = max(lineLen(row), 0)
	}
	return Pos{Row: row, GraphemeCol: min(max(p.GraphemeCol, 0), limit)}
}

// ClampRange clamps both endpoints of r. It does not normalize.
func ClampRange(r Range, rowCount int, lineLen func(row int) int) Range {
	return Range{
		Start: ClampPos(r.Start, rowCount, lineLen),
		End:   ClampPos(r.End, rowCount, lineLen),
	}
}
