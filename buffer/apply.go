package buffer

// Apply runs edits in order, each against the document the previous one
// produced. Ranges are clamped to the document. Edits that change nothing are
// dropped; the rest form one Change and one undo step, leave the cursor at
// the end of the last of them, and clear the selection.
//
// Apply reports whether the document changed.
func (b *Buffer) Apply(edits ...TextEdit) bool {
	prev := b.snapshot()
	change := b.beginChange(ChangeSourceLocal)

	cursor := b.cursor
	for _, e := range edits {
		next, applied, ok := b.replaceRange(e.Range, e.Text)
		if ok {
			cursor = next
			change.addAppliedEdit(applied)
		}
	}
	if len(change.appliedEdits) == 0 {
		return false
	}

	b.cursor = b.clampPos(cursor)
	b.sel = selectionState{}
	b.version++
	b.recordUndo(prev)
	b.commitChange(change)
	return true
}
