package editor

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func assertRows(t *testing.T, got, want []string) {
	t.Helper()
	if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", want) {
		t.Fatalf("unexpected view:\n got: %q\nwant: %q", got, want)
	}
}

func TestModel_SetSizeAffectsViewHeight(t *testing.T) {
	m := New(Config{Text: "a\nb\nc"})
	m = m.Blur()

	m = m.SetSize(20, 2)
	if got := lipgloss.Height(m.View()); got != 2 {
		t.Fatalf("height after SetSize(20,2): got %d, want %d", got, 2)
	}
}

func TestView_LineNumbers(t *testing.T) {
	m := New(Config{
		Text:         "one\ntwo\nthree",
		ShowLineNums: true,
	})
	m = m.Blur().SetSize(12, 3)

	assertRows(t, viewLines(m), []string{"1 one", "2 two", "3 three"})
}

func TestView_WidgetsAboveAndBelow(t *testing.T) {
	m := New(Config{Text: "one\ntwo"})
	m = m.Blur().SetSize(20, 6)

	_, _ = m.AddLineWidget(0, divNode(t, "below"), WidgetOptions{})
	_, _ = m.AddLineWidget(1, divNode(t, "above"), WidgetOptions{Above: true})

	assertRows(t, viewLines(m), []string{"one", "below", "above", "two"})
}

func TestView_WidgetIndentsPastGutterUnlessCovering(t *testing.T) {
	m := New(Config{Text: "one", ShowLineNums: true})
	m = m.Blur().SetSize(20, 4)

	_, _ = m.AddLineWidget(0, divNode(t, "inner"), WidgetOptions{})
	_, _ = m.AddLineWidget(0, divNode(t, "cover"), WidgetOptions{CoverGutter: true})

	assertRows(t, viewLines(m), []string{"1 one", "  inner", "cover"})
}

func TestView_WidgetTruncatedToWidth(t *testing.T) {
	m := New(Config{Text: "x"})
	m = m.Blur().SetSize(6, 3)
	_, _ = m.AddLineWidget(0, divNode(t, "abcdefghij"), WidgetOptions{})

	assertRows(t, viewLines(m), []string{"x", "abcde…"})
}

func TestView_CollapsedMarkerSingleLine(t *testing.T) {
	m := New(Config{Text: "abcdef"})
	m = m.Blur().SetSize(20, 2)
	_, _ = m.MarkText(pos(0, 1), pos(0, 4), MarkOptions{Collapsed: true, ReplacedWith: "~"})

	assertRows(t, viewLines(m), []string{"a~ef"})
}

func TestView_CollapsedMarkerAcrossLines(t *testing.T) {
	m := New(Config{Text: "ab\ncd\nef\ngh"})
	m = m.Blur().SetSize(20, 6)
	_, _ = m.MarkText(pos(0, 1), pos(2, 1), MarkOptions{Collapsed: true, ReplacedWith: "+"})
	_, _ = m.AddLineWidget(1, divNode(t, "hidden"), WidgetOptions{})
	_, _ = m.AddLineWidget(1, divNode(t, "shown"), WidgetOptions{ShowIfHidden: true})

	assertRows(t, viewLines(m), []string{"a+f", "shown", "gh"})
}

func TestView_RefreshesAfterHostAnnotation(t *testing.T) {
	m := New(Config{Text: "one"})
	m = m.Blur().SetSize(20, 3)
	assertRows(t, viewLines(m), []string{"one"})

	_, _ = m.AddLineWidget(0, divNode(t, "late"), WidgetOptions{})
	assertRows(t, viewLines(m), []string{"one", "late"})
}

func TestClassStyle_FirstClassWins(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)

	m := New(Config{
		Text: "a",
		ClassStyles: map[string]lipgloss.Style{
			"err":  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000")),
			"info": r.NewStyle().Underline(true).Foreground(lipgloss.Color("#0000ff")),
		},
	})

	st, ok := m.classStyle("unknown err info")
	if !ok {
		t.Fatalf("expected resolved style")
	}
	if !st.GetBold() || !st.GetUnderline() {
		t.Fatalf("expected bold and underline from both classes")
	}
	if got, want := st.GetForeground(), lipgloss.TerminalColor(lipgloss.Color("#ff0000")); got != want {
		t.Fatalf("foreground=%v, want %v", got, want)
	}

	if _, ok := m.classStyle("unknown"); ok {
		t.Fatalf("expected no style for unknown class")
	}
}

func TestStyleAt_LayersMarkerClasses(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)

	m := New(Config{
		Text: "abcd",
		ClassStyles: map[string]lipgloss.Style{
			"warn":  r.NewStyle().Underline(true),
			"start": r.NewStyle().Bold(true),
			"end":   r.NewStyle().Italic(true),
		},
	})
	_, _ = m.MarkText(pos(0, 1), pos(0, 3), MarkOptions{ClassName: "warn", StartStyle: "start", EndStyle: "end"})

	base := r.NewStyle()
	if st := m.styleAt(pos(0, 0), base); st.GetUnderline() {
		t.Fatalf("col 0 should not be marked")
	}
	st := m.styleAt(pos(0, 1), base)
	if !st.GetUnderline() || !st.GetBold() || st.GetItalic() {
		t.Fatalf("col 1: want underline+bold only")
	}
	st = m.styleAt(pos(0, 2), base)
	if !st.GetUnderline() || st.GetBold() || !st.GetItalic() {
		t.Fatalf("col 2: want underline+italic only")
	}
}
