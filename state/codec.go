package state

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeJSON writes s as JSON.
func EncodeJSON(w io.Writer, s Snapshot) error {
	if err := json.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("state: encode json: %w", err)
	}
	return nil
}

// DecodeJSON reads a snapshot written by EncodeJSON.
func DecodeJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("state: decode json: %w", err)
	}
	if s.Markers == nil {
		s.Markers = []MarkerRecord{}
	}
	return s, nil
}

// yamlSnapshot keeps nil line widget entries as YAML nulls.
type yamlSnapshot struct {
	LineClasses []*string         `yaml:"lineClasses"`
	LineWidgets []*[]WidgetRecord `yaml:"lineWidgets"`
	Markers     []MarkerRecord    `yaml:"markers"`
}

// EncodeYAML writes s as YAML.
func EncodeYAML(w io.Writer, s Snapshot) error {
	ys := yamlSnapshot{
		LineClasses: s.LineClasses,
		LineWidgets: make([]*[]WidgetRecord, len(s.LineWidgets)),
		Markers:     s.Markers,
	}
	for i := range s.LineWidgets {
		if s.LineWidgets[i] != nil {
			ys.LineWidgets[i] = &s.LineWidgets[i]
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ys); err != nil {
		return fmt.Errorf("state: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("state: encode yaml: %w", err)
	}
	return nil
}

// DecodeYAML reads a snapshot written by EncodeYAML.
func DecodeYAML(r io.Reader) (Snapshot, error) {
	var ys yamlSnapshot
	if err := yaml.NewDecoder(r).Decode(&ys); err != nil {
		return Snapshot{}, fmt.Errorf("state: decode yaml: %w", err)
	}
	s := Snapshot{
		LineClasses: ys.LineClasses,
		LineWidgets: make([][]WidgetRecord, len(ys.LineWidgets)),
		Markers:     ys.Markers,
	}
	for i, recs := range ys.LineWidgets {
		if recs != nil {
			s.LineWidgets[i] = *recs
		}
	}
	if s.Markers == nil {
		s.Markers = []MarkerRecord{}
	}
	return s, nil
}

// Options objects are encoded flat: whitelisted fields and Extra share one
// object, so an extra "customFlag" sits next to "className".

type markerOptionsFields MarkerOptions

func (o MarkerOptions) MarshalJSON() ([]byte, error) {
	return flattenJSON(markerOptionsFields(o), o.Extra)
}

func (o *MarkerOptions) UnmarshalJSON(b []byte) error {
	var known markerOptionsFields
	extra, err := splitJSON(b, &known, DefaultMarkerProps)
	if err != nil {
		return err
	}
	*o = MarkerOptions(known)
	o.Extra = extra
	return nil
}

func (o MarkerOptions) MarshalYAML() (any, error) { return yamlMap(o) }

func (o *MarkerOptions) UnmarshalYAML(n *yaml.Node) error { return fromYAMLMap(n, o) }

type widgetOptionsFields WidgetOptions

func (o WidgetOptions) MarshalJSON() ([]byte, error) {
	return flattenJSON(widgetOptionsFields(o), o.Extra)
}

func (o *WidgetOptions) UnmarshalJSON(b []byte) error {
	var known widgetOptionsFields
	extra, err := splitJSON(b, &known, DefaultLineWidgetProps)
	if err != nil {
		return err
	}
	*o = WidgetOptions(known)
	o.Extra = extra
	return nil
}

func (o WidgetOptions) MarshalYAML() (any, error) { return yamlMap(o) }

func (o *WidgetOptions) UnmarshalYAML(n *yaml.Node) error { return fromYAMLMap(n, o) }

func flattenJSON(known any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func splitJSON(b []byte, known any, knownNames []string) (map[string]any, error) {
	if err := json.Unmarshal(b, known); err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for _, name := range knownNames {
		delete(m, name)
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

// yamlMap renders v through its JSON form so YAML keys match JSON keys.
func yamlMap(v json.Marshaler) (any, error) {
	b, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromYAMLMap(n *yaml.Node, v json.Unmarshaler) error {
	var m map[string]any
	if err := n.Decode(&m); err != nil {
		return err
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return v.UnmarshalJSON(b)
}
