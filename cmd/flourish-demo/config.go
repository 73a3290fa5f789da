package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// config is the demo's optional YAML configuration.
type config struct {
	DBPath      string               `yaml:"db_path"`
	DocID       string               `yaml:"doc_id"`
	File        string               `yaml:"file"`
	LineNumbers *bool                `yaml:"line_numbers"`
	MarkClass   string               `yaml:"mark_class"`
	LineClass   string               `yaml:"line_class"`
	Styles      map[string]styleSpec `yaml:"styles"`
}

// styleSpec describes a lipgloss style for one class name.
type styleSpec struct {
	Foreground    string `yaml:"foreground"`
	Background    string `yaml:"background"`
	Bold          bool   `yaml:"bold"`
	Italic        bool   `yaml:"italic"`
	Underline     bool   `yaml:"underline"`
	Strikethrough bool   `yaml:"strikethrough"`
	Faint         bool   `yaml:"faint"`
}

func (c *config) defaults() {
	if c.DocID == "" {
		c.DocID = "demo"
		if c.File != "" {
			c.DocID = c.File
		}
	}
	if c.LineNumbers == nil {
		on := true
		c.LineNumbers = &on
	}
	if c.MarkClass == "" {
		c.MarkClass = "mark"
	}
	if c.LineClass == "" {
		c.LineClass = "highlight"
	}
	if c.Styles == nil {
		c.Styles = map[string]styleSpec{
			"mark":      {Background: "58", Underline: true},
			"highlight": {Background: "236"},
			"readonly":  {Foreground: "245", Italic: true},
		}
	}
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.defaults()
	return cfg, nil
}

func (c *config) classStyles() map[string]lipgloss.Style {
	out := make(map[string]lipgloss.Style, len(c.Styles))
	for name, s := range c.Styles {
		out[name] = s.style()
	}
	return out
}

func (s styleSpec) style() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	if s.Strikethrough {
		st = st.Strikethrough(true)
	}
	if s.Faint {
		st = st.Faint(true)
	}
	return st
}
