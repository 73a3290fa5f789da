package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/microcosm-cc/bluemonday"

	"github.com/iw2rmb/flourish"
	"github.com/iw2rmb/flourish/editor"
	"github.com/iw2rmb/flourish/state"
	"github.com/iw2rmb/flourish/store"
)

const sampleText = `Hello from flourish.

Select text with shift+arrows, then:
  ctrl+k  mark the selection
  ctrl+r  mark the selection read-only
  ctrl+l  toggle a class on the cursor line
  ctrl+w  add a widget below the cursor line
  ctrl+s  save annotations, ctrl+o restore them
Ctrl+C to quit.`

func main() {
	configPath := flag.String("config", "", "path to flourish-demo.yaml config file")
	dbPath := flag.String("db", "", "path to SQLite snapshot database (overrides config)")
	file := flag.String("file", "", "file to edit (overrides config)")
	logPath := flag.String("log", "", "write logs to this file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(flourish.VersionTag())
		return
	}

	logger, closeLog, err := newLogger(*logPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flourish-demo: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(logger, *configPath, *dbPath, *file); err != nil {
		logger.Error("flourish-demo: fatal", "error", err)
		fmt.Fprintf(os.Stderr, "flourish-demo: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to path, or discards when path is empty: the terminal
// belongs to the program.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, func() { f.Close() }, nil
}

func run(logger *slog.Logger, configPath, dbPath, file string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if file != "" {
		cfg.File = file
		if configPath == "" {
			cfg.DocID = file
		}
	}

	text := sampleText
	if cfg.File != "" {
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return fmt.Errorf("read %s: %w", cfg.File, err)
		}
		text = string(data)
	}

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.Open(cfg.DBPath, store.WithMkdirAll(), store.WithLogger(logger))
		if err != nil {
			return err
		}
		defer st.Close()
	}

	adapter := state.New(state.Config{
		Sanitizer: bluemonday.UGCPolicy(),
		Logger:    logger,
	})

	m := newModel(cfg, text, adapter, st, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func newEditor(cfg *config, text string) editor.Model {
	return editor.New(editor.Config{
		Text:         text,
		ShowLineNums: *cfg.LineNumbers,
		Style:        editor.DefaultStyle(),
		ClassStyles:  cfg.classStyles(),
		DocID:        cfg.DocID,
	})
}
