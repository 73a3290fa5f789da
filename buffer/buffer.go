package buffer

import (
	"strings"

	"github.com/iw2rmb/flourish/internal/grapheme"
)

type Options struct {
	HistoryLimit int // default: 1000

	// OnChange, when set, is called after every effective change with the
	// same payload LastChange returns.
	OnChange func(Change)
}

type selectionState struct {
	active bool
	anchor Pos
	end    Pos
}

// Buffer is the pure document state: text, cursor, and selection.
type Buffer struct {
	lines   [][]string
	version uint64

	cursor Pos
	sel    selectionState

	opt  Options
	hist historyState

	lastChange    Change
	hasLastChange bool
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	return &Buffer{
		lines: splitLines(text),
		opt:   opt,
	}
}

func (b *Buffer) Text() string {
	if len(b.lines) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(grapheme.Join(line))
	}
	return sb.String()
}

func (b *Buffer) Version() uint64 { return b.version }

// LineCount returns the number of logical lines. It is always at least 1.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the text of row, or "" when row is out of range.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return grapheme.Join(b.lines[row])
}

// LineLen returns the grapheme length of row, or 0 when row is out of range.
func (b *Buffer) LineLen(row int) int { return b.lineLen(row) }

// ValidPos reports whether p addresses an existing document position.
func (b *Buffer) ValidPos(p Pos) bool {
	if p.Row < 0 || p.Row >= len(b.lines) {
		return false
	}
	return p.GraphemeCol >= 0 && p.GraphemeCol <= len(b.lines[p.Row])
}

func (b *Buffer) Cursor() Pos { return b.cursor }

func (b *Buffer) SetCursor(p Pos) {
	next := b.clampPos(p)
	if next == b.cursor {
		return
	}
	b.cursor = next
	b.version++
}

func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: b.sel.anchor, End: b.sel.end})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

func (b *Buffer) SetSelection(r Range) {
	clamped := ClampRange(r, len(b.lines), b.lineLen)
	next := selectionState{
		active: true,
		anchor: clamped.Start,
		end:    clamped.End,
	}
	if NormalizeRange(clamped).IsEmpty() {
		next = selectionState{}
	}

	prevRange, prevOK := b.Selection()
	b.sel = next
	nextRange, nextOK := b.Selection()
	if prevOK == nextOK && (!prevOK || prevRange == nextRange) {
		return
	}
	b.version++
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	_, ok := b.Selection()
	b.sel = selectionState{}
	if ok {
		b.version++
	}
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

func splitLines(text string) [][]string {
	parts := strings.Split(text, "\n")
	lines := make([][]string, 0, len(parts))
	for _, s := range parts {
		lines = append(lines, grapheme.Split(s))
	}
	if len(lines) == 0 {
		lines = append(lines, nil)
	}
	return lines
}
