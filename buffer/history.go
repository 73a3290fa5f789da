package buffer

type bufferSnapshot struct {
	text   string
	cursor Pos
	sel    selectionState
}

type historyState struct {
	undo []bufferSnapshot
	redo []bufferSnapshot
}

func (b *Buffer) snapshot() bufferSnapshot {
	return bufferSnapshot{
		text:   b.Text(),
		cursor: b.cursor,
		sel:    b.sel,
	}
}

func (b *Buffer) restore(s bufferSnapshot) {
	b.lines = splitLines(s.text)
	b.cursor = b.clampPos(s.cursor)

	if !s.sel.active {
		b.sel = selectionState{}
		return
	}

	anchor := b.clampPos(s.sel.anchor)
	end := b.clampPos(s.sel.end)
	if NormalizeRange(Range{Start: anchor, End: end}).IsEmpty() {
		b.sel = selectionState{}
		return
	}
	b.sel = selectionState{active: true, anchor: anchor, end: end}
}

func (b *Buffer) recordUndo(prev bufferSnapshot) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = pushBounded(b.hist.undo, prev, limit)
	b.hist.redo = nil
}

func pushBounded(stack []bufferSnapshot, s bufferSnapshot, limit int) []bufferSnapshot {
	stack = append(stack, s)
	if len(stack) > limit {
		stack = stack[len(stack)-limit:]
	}
	return stack
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 {
		return false
	}

	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]
	cur := b.restoreFromHistory(prev)
	b.hist.redo = append(b.hist.redo, cur)
	return true
}

func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 {
		return false
	}

	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]
	cur := b.restoreFromHistory(next)
	if limit := b.opt.HistoryLimit; limit > 0 {
		b.hist.undo = pushBounded(b.hist.undo, cur, limit)
	}
	return true
}

func (b *Buffer) restoreFromHistory(s bufferSnapshot) (cur bufferSnapshot) {
	cur = b.snapshot()
	change := b.beginChange(ChangeSourceHistory)

	b.restore(s)
	b.version++
	if applied, ok := diffAppliedEdit(cur.text, s.text); ok {
		change.addAppliedEdit(applied)
	}
	b.commitChange(change)
	return cur
}
