package editor

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish/buffer"
)

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// press feeds msgs to m and returns the messages produced by their commands.
func press(m Model, msgs ...tea.KeyMsg) (Model, []tea.Msg) {
	var out []tea.Msg
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		if cmd != nil {
			out = append(out, cmd())
		}
	}
	return m, out
}

func TestDefaultKeyMap_BindsEveryAction(t *testing.T) {
	km := DefaultKeyMap()
	for name, b := range map[string]key.Binding{
		"Left": km.Left, "Right": km.Right, "Up": km.Up, "Down": km.Down,
		"WordLeft": km.WordLeft, "WordRight": km.WordRight,
		"Home": km.Home, "End": km.End, "DocStart": km.DocStart, "DocEnd": km.DocEnd,
		"Backspace": km.Backspace, "Delete": km.Delete, "Enter": km.Enter,
		"Undo": km.Undo, "Redo": km.Redo,
	} {
		if len(b.Keys()) == 0 {
			t.Fatalf("%s has no keys", name)
		}
	}
	if !key.Matches(keyMsg(tea.KeyCtrlLeft), km.WordLeft) {
		t.Fatalf("ctrl+left should move by word")
	}
}

func TestUpdate_TypingAndMovement(t *testing.T) {
	m := New(Config{Text: "ac\nz"})
	m, _ = press(m, keyMsg(tea.KeyRight), runes("b"), keyMsg(tea.KeySpace), keyMsg(tea.KeyEnd), keyMsg(tea.KeyEnter))

	if got, want := m.Buffer().Text(), "ab c\n\nz"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := m.Buffer().Cursor(), pos(1, 0); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}

	m, _ = press(m, keyMsg(tea.KeyCtrlEnd))
	if got, want := m.Buffer().Cursor(), pos(2, 1); got != want {
		t.Fatalf("cursor after ctrl+end=%v, want %v", got, want)
	}
}

func TestUpdate_WordMovement(t *testing.T) {
	m := New(Config{Text: "foo bar"})
	m, _ = press(m, keyMsg(tea.KeyCtrlRight), keyMsg(tea.KeyCtrlRight))
	if got, want := m.Buffer().Cursor(), pos(0, 7); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	if got, want := m.Buffer().Cursor(), pos(0, 4); got != want {
		t.Fatalf("cursor after alt+left=%v, want %v", got, want)
	}
}

func TestUpdate_BackspaceJoinsLinesAndUndo(t *testing.T) {
	m := New(Config{Text: "ab\ncd"})
	m.Buffer().SetCursor(pos(1, 0))
	m, _ = press(m, keyMsg(tea.KeyBackspace))
	if got, want := m.Buffer().Text(), "abcd"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	m, _ = press(m, keyMsg(tea.KeyCtrlZ))
	if got, want := m.Buffer().Text(), "ab\ncd"; got != want {
		t.Fatalf("text after undo=%q, want %q", got, want)
	}
	m, _ = press(m, keyMsg(tea.KeyCtrlY))
	if got, want := m.Buffer().Text(), "abcd"; got != want {
		t.Fatalf("text after redo=%q, want %q", got, want)
	}
}

func TestUpdate_PasteInsertsLiterally(t *testing.T) {
	m := New(Config{Text: ""})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x\ny"), Paste: true})
	if got, want := m.Buffer().Text(), "x\ny"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestUpdate_IgnoresKeysWhenBlurred(t *testing.T) {
	m := New(Config{Text: "abc"}).Blur()
	m, _ = press(m, runes("x"), keyMsg(tea.KeyRight))
	if got := m.Buffer().Text(); got != "abc" {
		t.Fatalf("text=%q, want unchanged", got)
	}
	if got := m.Buffer().Cursor(); got != pos(0, 0) {
		t.Fatalf("cursor=%v, want 0:0", got)
	}
}

func TestUpdate_ReadOnlyConfigBlocksEdits(t *testing.T) {
	m := New(Config{Text: "abc", ReadOnly: true})
	m, msgs := press(m, runes("x"), keyMsg(tea.KeyDelete), keyMsg(tea.KeyRight))

	if got := m.Buffer().Text(); got != "abc" {
		t.Fatalf("text=%q, want unchanged", got)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 EditBlockedMsg", len(msgs))
	}
	for _, msg := range msgs {
		if _, ok := msg.(EditBlockedMsg); !ok {
			t.Fatalf("got %T, want EditBlockedMsg", msg)
		}
	}
	if got := m.Buffer().Cursor(); got != pos(0, 1) {
		t.Fatalf("cursor=%v, want movement to still work", got)
	}
}

func TestUpdate_SelectionOverReadOnlyMarkerIsBlocked(t *testing.T) {
	m := New(Config{Text: "abcdef"})
	tm, _ := m.MarkText(pos(0, 2), pos(0, 4), MarkOptions{ReadOnly: true})

	m.Buffer().SetSelection(buffer.Range{Start: pos(0, 0), End: pos(0, 6)})
	m, msgs := press(m, keyMsg(tea.KeyBackspace))

	if got := m.Buffer().Text(); got != "abcdef" {
		t.Fatalf("text=%q, want unchanged", got)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	blocked, ok := msgs[0].(EditBlockedMsg)
	if !ok {
		t.Fatalf("got %T, want EditBlockedMsg", msgs[0])
	}
	if want := (buffer.Range{Start: pos(0, 0), End: pos(0, 6)}); blocked.Range != want {
		t.Fatalf("blocked range=%v, want %v", blocked.Range, want)
	}
	if r, ok := tm.Find(); !ok || r != (buffer.Range{Start: pos(0, 2), End: pos(0, 4)}) {
		t.Fatalf("marker=%v ok=%v, want 0:2-0:4", r, ok)
	}
}

func TestUpdate_ReadOnlyMarkerEdges(t *testing.T) {
	m := New(Config{Text: "abcdef"})
	_, _ = m.MarkText(pos(0, 2), pos(0, 4), MarkOptions{ReadOnly: true})

	// Exclusive edges accept insertions; deleting into the range does not.
	m.Buffer().SetCursor(pos(0, 2))
	m, msgs := press(m, runes("x"))
	if got, want := m.Buffer().Text(), "abxcdef"; got != want || len(msgs) != 0 {
		t.Fatalf("text=%q msgs=%d, want %q and none", got, len(msgs), want)
	}

	m.Buffer().SetCursor(pos(0, 5))
	m, msgs = press(m, keyMsg(tea.KeyBackspace))
	if got, want := m.Buffer().Text(), "abxcdef"; got != want || len(msgs) != 1 {
		t.Fatalf("text=%q msgs=%d, want %q and one block", got, len(msgs), want)
	}

	m.Buffer().SetCursor(pos(0, 4))
	m, msgs = press(m, keyMsg(tea.KeyDelete))
	if got, want := m.Buffer().Text(), "abxcdef"; got != want || len(msgs) != 1 {
		t.Fatalf("text=%q msgs=%d, want %q and one block", got, len(msgs), want)
	}
}

func TestReadOnlyIn(t *testing.T) {
	m := New(Config{Text: "abcdef"})
	_, _ = m.MarkText(pos(0, 2), pos(0, 4), MarkOptions{ReadOnly: true, InclusiveRight: true})

	rng := func(a, b int) buffer.Range { return buffer.Range{Start: pos(0, a), End: pos(0, b)} }
	for _, tc := range []struct {
		r    buffer.Range
		want bool
	}{
		{rng(0, 6), true},
		{rng(0, 2), false},
		{rng(4, 6), false},
		{rng(3, 5), true},
		{rng(2, 2), false},
		{rng(3, 3), true},
		{rng(4, 4), true},
		{rng(6, 0), true},
	} {
		if got := m.ReadOnlyIn(tc.r); got != tc.want {
			t.Fatalf("ReadOnlyIn(%v)=%v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestUpdate_BackspaceRemovesWholeAtomicMarker(t *testing.T) {
	m := New(Config{Text: "a[chip]b"})
	tm, _ := m.MarkText(pos(0, 1), pos(0, 7), MarkOptions{Atomic: true, ClearWhenEmpty: true})

	m.Buffer().SetCursor(pos(0, 7))
	m, _ = press(m, keyMsg(tea.KeyBackspace))

	if got, want := m.Buffer().Text(), "ab"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if _, ok := tm.Find(); ok {
		t.Fatalf("expected atomic marker cleared with its text")
	}
	if got, want := m.Buffer().Cursor(), pos(0, 1); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
}
