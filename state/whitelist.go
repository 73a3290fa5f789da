package state

import (
	"maps"
	"slices"
)

// extraNames returns the names in extra that defaults does not already
// cover, without duplicates.
func extraNames(defaults, extra []string) []string {
	var out []string
	for _, name := range extra {
		if name == "" || slices.Contains(defaults, name) || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// pickAttrs copies the attributes named in names that are present in attrs.
func pickAttrs(attrs map[string]any, names []string) map[string]any {
	var out map[string]any
	for _, name := range names {
		v, ok := attrs[name]
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(names))
		}
		out[name] = v
	}
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	return maps.Clone(attrs)
}
