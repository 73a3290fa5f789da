package editor

import (
	"slices"

	"github.com/iw2rmb/flourish/buffer"
)

type lineDecor struct {
	classes [classTargetCount]string
	widgets []*LineWidget
}

// decorations holds the annotation state of one editor. lines is kept
// index-aligned with the buffer's lines.
type decorations struct {
	version uint64
	nextID  int

	marks []*TextMarker
	lines []lineDecor
}

func newDecorations(lineCount int) *decorations {
	return &decorations{lines: make([]lineDecor, lineCount)}
}

func (d *decorations) touch() { d.version++ }

func (d *decorations) ensureLines(n int) {
	if len(d.lines) < n {
		d.lines = append(d.lines, make([]lineDecor, n-len(d.lines))...)
	}
}

func (d *decorations) removeMark(tm *TextMarker) {
	tm.attached = false
	d.marks = slices.DeleteFunc(d.marks, func(x *TextMarker) bool { return x == tm })
	d.touch()
}

func (d *decorations) removeWidget(w *LineWidget) {
	w.attached = false
	if w.row >= 0 && w.row < len(d.lines) {
		d.lines[w.row].widgets = slices.DeleteFunc(d.lines[w.row].widgets, func(x *LineWidget) bool { return x == w })
	}
	d.touch()
}

// applyChange maps every annotation through the change's edits.
func (d *decorations) applyChange(ch buffer.Change) {
	if len(ch.AppliedEdits) == 0 {
		return
	}
	for _, e := range ch.AppliedEdits {
		d.mapLines(e)
		for _, tm := range d.marks {
			tm.mapThrough(e)
		}
	}
	d.marks = slices.DeleteFunc(d.marks, func(tm *TextMarker) bool { return !tm.attached })
	d.touch()
}

func (d *decorations) mapLines(e buffer.AppliedEdit) {
	delta := e.RangeAfter.End.Row - e.RangeBefore.End.Row
	next := make([]lineDecor, max(len(d.lines)+delta, 1))
	for row, ld := range d.lines {
		to, ok := buffer.MapLine(row, e)
		if !ok || to >= len(next) {
			for _, w := range ld.widgets {
				w.attached = false
			}
			continue
		}
		for _, w := range ld.widgets {
			w.row = to
		}
		next[to] = ld
	}
	d.lines = next
}
