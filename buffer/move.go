package buffer

import "github.com/iw2rmb/flourish/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	// MoveWord jumps between word starts (left) and word ends (right) on a
	// line; a line break counts as one step.
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, updates selection anchor/end; if false clears selection
}

func (b *Buffer) Move(m Move) {
	prevCursor := b.cursor
	prevSel := b.sel

	nextCursor := b.clampPos(b.moveCursor(prevCursor, m))

	nextSel := selectionState{}
	if m.Extend {
		anchor := prevCursor
		if prevSel.active && prevSel.anchor != prevSel.end {
			anchor = prevSel.anchor
		}
		if anchor != nextCursor {
			nextSel = selectionState{active: true, anchor: anchor, end: nextCursor}
		}
	}

	if prevCursor == nextCursor && prevSel == nextSel {
		return
	}

	b.cursor = nextCursor
	b.sel = nextSel
	b.version++
}

func (b *Buffer) moveCursor(p Pos, m Move) Pos {
	row, col := p.Row, p.GraphemeCol
	lastRow := len(b.lines) - 1

	if m.Unit == MoveWord {
		return b.moveWord(p, m.Dir)
	}
	if m.Unit == MoveDoc {
		switch m.Dir {
		case DirHome, DirUp:
			return Pos{}
		case DirEnd, DirDown:
			return Pos{Row: lastRow, GraphemeCol: len(b.lines[lastRow])}
		}
		return p
	}

	switch m.Dir {
	case DirLeft:
		if m.Unit != MoveGrapheme || (row == 0 && col == 0) {
			return p
		}
		if col > 0 {
			return Pos{Row: row, GraphemeCol: col - 1}
		}
		return Pos{Row: row - 1, GraphemeCol: len(b.lines[row-1])}
	case DirRight:
		if m.Unit != MoveGrapheme || (row == lastRow && col == len(b.lines[lastRow])) {
			return p
		}
		if col < len(b.lines[row]) {
			return Pos{Row: row, GraphemeCol: col + 1}
		}
		return Pos{Row: row + 1, GraphemeCol: 0}
	case DirUp:
		if row == 0 {
			return p
		}
		return Pos{Row: row - 1, GraphemeCol: min(col, len(b.lines[row-1]))}
	case DirDown:
		if row == lastRow {
			return p
		}
		return Pos{Row: row + 1, GraphemeCol: min(col, len(b.lines[row+1]))}
	case DirHome:
		return Pos{Row: row, GraphemeCol: 0}
	case DirEnd:
		return Pos{Row: row, GraphemeCol: len(b.lines[row])}
	default:
		return p
	}
}

func (b *Buffer) moveWord(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.GraphemeCol
	line := b.lines[row]

	switch dir {
	case DirLeft:
		if col == 0 {
			if row == 0 {
				return p
			}
			return Pos{Row: row - 1, GraphemeCol: len(b.lines[row-1])}
		}
		words := grapheme.WordsIn(line)
		for i := len(words) - 1; i >= 0; i-- {
			if words[i].Start < col {
				return Pos{Row: row, GraphemeCol: words[i].Start}
			}
		}
		return Pos{Row: row}
	case DirRight:
		if col >= len(line) {
			if row == len(b.lines)-1 {
				return p
			}
			return Pos{Row: row + 1}
		}
		for _, w := range grapheme.WordsIn(line) {
			if w.End > col {
				return Pos{Row: row, GraphemeCol: w.End}
			}
		}
		return Pos{Row: row, GraphemeCol: len(line)}
	case DirHome:
		return Pos{Row: row}
	case DirEnd:
		return Pos{Row: row, GraphemeCol: len(line)}
	}
	return p
}
