package editor

import (
	"errors"
	"testing"

	"github.com/iw2rmb/flourish/buffer"
)

func TestAddLineClass_DeduplicatesAndRemoves(t *testing.T) {
	m := New(Config{Text: "a\nb"})

	if err := m.AddLineClass(1, ClassText, "err"); err != nil {
		t.Fatalf("AddLineClass: %v", err)
	}
	_ = m.AddLineClass(1, ClassText, "err bold")
	if got, want := m.LineClass(1, ClassText), "err bold"; got != want {
		t.Fatalf("class=%q, want %q", got, want)
	}

	_ = m.RemoveLineClass(1, ClassText, "err")
	if got, want := m.LineClass(1, ClassText), "bold"; got != want {
		t.Fatalf("class after remove=%q, want %q", got, want)
	}

	_ = m.AddLineClass(1, ClassBackground, "hl")
	_ = m.RemoveLineClass(1, ClassBackground, "")
	if got := m.LineClass(1, ClassBackground); got != "" {
		t.Fatalf("background class=%q, want empty", got)
	}
}

func TestAddLineClass_InvalidLine(t *testing.T) {
	m := New(Config{Text: "a"})
	if err := m.AddLineClass(3, ClassText, "x"); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("err=%v, want ErrInvalidLine", err)
	}
}

func TestLineClass_FollowsLine(t *testing.T) {
	m := New(Config{Text: "a\nb\nc"})
	_ = m.AddLineClass(2, ClassText, "err")

	m.Buffer().Apply(buffer.TextEdit{Text: "x\n"})

	if got := m.LineClass(2, ClassText); got != "" {
		t.Fatalf("row 2 class=%q, want empty", got)
	}
	if got, want := m.LineClass(3, ClassText), "err"; got != want {
		t.Fatalf("row 3 class=%q, want %q", got, want)
	}
}

func TestLineClass_DroppedWithDeletedLine(t *testing.T) {
	m := New(Config{Text: "a\nb\nc"})
	_ = m.AddLineClass(1, ClassText, "gone")
	_ = m.AddLineClass(2, ClassText, "kept")

	m.Buffer().Apply(buffer.TextEdit{Range: buffer.Range{Start: pos(0, 1), End: pos(1, 1)}})

	if got, want := m.Buffer().Text(), "a\nc"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	var classes []string
	m.EachLine(func(h LineHandle) { classes = append(classes, h.TextClass) })
	if len(classes) != 2 || classes[0] != "" || classes[1] != "kept" {
		t.Fatalf("classes=%q, want [\"\" \"kept\"]", classes)
	}
}

func TestEachLine_VisitsEveryLineInOrder(t *testing.T) {
	m := New(Config{Text: "one\ntwo\nthree"})
	_ = m.AddLineClass(0, ClassGutter, "bp")
	w, _ := m.AddLineWidget(2, divNode(t, "note"), WidgetOptions{})

	var got []LineHandle
	m.EachLine(func(h LineHandle) { got = append(got, h) })

	if len(got) != 3 {
		t.Fatalf("lines=%d, want 3", len(got))
	}
	for i, h := range got {
		if h.Row != i {
			t.Fatalf("line %d has row %d", i, h.Row)
		}
	}
	if got[1].Text != "two" {
		t.Fatalf("text=%q, want two", got[1].Text)
	}
	if got[0].GutterClass != "bp" {
		t.Fatalf("gutter class=%q, want bp", got[0].GutterClass)
	}
	if len(got[2].Widgets) != 1 || got[2].Widgets[0] != w {
		t.Fatalf("widgets on line 2=%v", got[2].Widgets)
	}
	if got[0].Widgets != nil {
		t.Fatalf("expected no widgets on line 0")
	}
}
