// Package grapheme splits text into user-perceived characters. Every column
// in the module counts these clusters, never bytes or runes.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text.
func Split(text string) []string {
	var out []string
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, cluster)
	}
	return out
}

// Join concatenates clusters.
func Join(clusters []string) string {
	return strings.Join(clusters, "")
}

// Span is a run of clusters covering columns [Start, End).
type Span struct {
	Text       string
	Start, End int
}

// Words returns the identifier-like runs of text: clusters made of letters,
// digits, marks and underscores.
func Words(text string) []Span {
	return WordsIn(Split(text))
}

// WordsIn is Words over already split clusters.
func WordsIn(clusters []string) []Span {
	var (
		out []Span
		cur strings.Builder
		at  int
	)
	for col, c := range clusters {
		if !isWordCluster(c) {
			if cur.Len() > 0 {
				out = append(out, Span{Text: cur.String(), Start: at, End: col})
				cur.Reset()
			}
			continue
		}
		if cur.Len() == 0 {
			at = col
		}
		cur.WriteString(c)
	}
	if cur.Len() > 0 {
		out = append(out, Span{Text: cur.String(), Start: at, End: len(clusters)})
	}
	return out
}

func isWordCluster(c string) bool {
	for i, r := range c {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		case i > 0 && unicode.Is(unicode.M, r):
		default:
			return false
		}
	}
	return c != ""
}
