package editor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// viewLines returns the rendered rows without ANSI sequences, trailing
// padding, or trailing blank rows.
func viewLines(m Model) []string {
	rows := strings.Split(m.View(), "\n")
	for i := range rows {
		rows[i] = strings.TrimRight(ansi.Strip(rows[i]), " ")
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func divNode(t *testing.T, text string) *html.Node {
	t.Helper()
	n := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
