package buffer

import "testing"

func TestBuffer_UndoRedo_BasicTyping(t *testing.T) {
	b := New("", Options{})
	if b.CanUndo() || b.CanRedo() {
		t.Fatalf("expected empty history")
	}

	b.InsertGrapheme("a")
	if !b.CanUndo() {
		t.Fatalf("expected CanUndo=true")
	}

	v := b.Version()
	if ok := b.Undo(); !ok {
		t.Fatalf("expected Undo=true")
	}
	if got, want := b.Text(), ""; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got := b.Version(); got != v+1 {
		t.Fatalf("version=%d, want %d", got, v+1)
	}

	if ok := b.Redo(); !ok {
		t.Fatalf("expected Redo=true")
	}
	if got, want := b.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := b.Cursor(), (Pos{Row: 0, GraphemeCol: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
}

func TestBuffer_Undo_ReportsMinimalEdit(t *testing.T) {
	b := New("a\nb\nc", Options{})
	b.SetSelection(Range{Start: Pos{Row: 1, GraphemeCol: 0}, End: Pos{Row: 2, GraphemeCol: 0}})
	b.DeleteSelection()
	if got, want := b.Text(), "a\nc"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	b.Undo()

	ch, ok := b.LastChange()
	if !ok {
		t.Fatalf("expected last change")
	}
	if got, want := ch.Source, ChangeSourceHistory; got != want {
		t.Fatalf("source=%v, want %v", got, want)
	}
	if got, want := len(ch.AppliedEdits), 1; got != want {
		t.Fatalf("applied edits=%d, want %d", got, want)
	}
	e := ch.AppliedEdits[0]
	wantBefore := Range{Start: Pos{Row: 1}, End: Pos{Row: 1}}
	wantAfter := Range{Start: Pos{Row: 1}, End: Pos{Row: 2}}
	if e.RangeBefore != wantBefore {
		t.Fatalf("range before=%v, want %v", e.RangeBefore, wantBefore)
	}
	if e.RangeAfter != wantAfter {
		t.Fatalf("range after=%v, want %v", e.RangeAfter, wantAfter)
	}
	if got, want := e.InsertText, "b\n"; got != want {
		t.Fatalf("insert text=%q, want %q", got, want)
	}
}

func TestBuffer_HistoryLimit(t *testing.T) {
	b := New("", Options{HistoryLimit: 2})
	b.InsertText("a")
	b.InsertText("b")
	b.InsertText("c")

	undos := 0
	for b.Undo() {
		undos++
	}
	if got, want := undos, 2; got != want {
		t.Fatalf("undos=%d, want %d", got, want)
	}
	if got, want := b.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}
