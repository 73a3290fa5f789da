// Package store persists editor state snapshots in SQLite, keyed by document.
//
// Every Save appends a revision; Latest returns the newest one. Revisions
// record the snapshot's line count so callers can check it against the
// target document before applying.
//
// Usage:
//
//	st, err := store.Open("states.db")
//	rev, err := st.Save(ctx, "notes.md", snap)
//	rev, err = st.Latest(ctx, "notes.md")
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iw2rmb/flourish"
	"github.com/iw2rmb/flourish/state"
)

// ErrNotFound is returned when no revision matches.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS editor_states (
	id         TEXT PRIMARY KEY,
	doc_id     TEXT NOT NULL,
	line_count INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	writer     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_editor_states_doc ON editor_states(doc_id, created_at);
`

// Revision is one saved snapshot.
type Revision struct {
	ID        uuid.UUID
	DocID     string
	LineCount int
	// Writer is the module version that saved the revision.
	Writer    string
	CreatedAt time.Time
	Snapshot  state.Snapshot
}

type config struct {
	busyTimeout int
	mkdirAll    bool
	logger      *slog.Logger
	now         func() time.Time
}

// Option customises Open and New.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// WithClock overrides the revision timestamp source.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

func defaults() config {
	return config{
		busyTimeout: 10_000,
		logger:      slog.Default(),
		now:         time.Now,
	}
}

// Store saves and loads snapshots. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	owned  bool
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	s, err := newStore(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New wraps an already opened database. Close leaves db open.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}
	return newStore(db, cfg)
}

func newStore(db *sql.DB, cfg config) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{db: db, logger: cfg.logger, now: cfg.now}, nil
}

// Close closes the database if Open created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Save appends snap as the newest revision of docID.
func (s *Store) Save(ctx context.Context, docID string, snap state.Snapshot) (Revision, error) {
	var payload bytes.Buffer
	if err := state.EncodeJSON(&payload, snap); err != nil {
		return Revision{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Revision{}, fmt.Errorf("store: revision id: %w", err)
	}

	rev := Revision{
		ID:        id,
		DocID:     docID,
		LineCount: len(snap.LineClasses),
		Writer:    flourish.Version(),
		CreatedAt: s.now().UTC(),
		Snapshot:  snap,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO editor_states (id, doc_id, line_count, payload, writer, created_at) VALUES (?,?,?,?,?,?)`,
		rev.ID.String(), rev.DocID, rev.LineCount, payload.String(), rev.Writer, rev.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Revision{}, fmt.Errorf("store: save %s: %w", docID, err)
	}

	s.logger.Debug("editor state saved", "doc", docID, "revision", rev.ID, "markers", len(snap.Markers))
	return rev, nil
}

// Latest returns the newest revision of docID.
func (s *Store) Latest(ctx context.Context, docID string) (Revision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, doc_id, line_count, payload, writer, created_at FROM editor_states
		 WHERE doc_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, docID)
	rev, err := scanRevision(row)
	if err != nil {
		return Revision{}, fmt.Errorf("store: latest %s: %w", docID, err)
	}
	return rev, nil
}

// Get returns the revision with id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Revision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, doc_id, line_count, payload, writer, created_at FROM editor_states WHERE id = ?`, id.String())
	rev, err := scanRevision(row)
	if err != nil {
		return Revision{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return rev, nil
}

// List returns docID's revisions, newest first, without their snapshots.
func (s *Store) List(ctx context.Context, docID string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc_id, line_count, writer, created_at FROM editor_states
		 WHERE doc_id = ? ORDER BY created_at DESC, id DESC`, docID)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", docID, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			rev     Revision
			id      string
			created int64
		)
		if err := rows.Scan(&id, &rev.DocID, &rev.LineCount, &rev.Writer, &created); err != nil {
			return nil, fmt.Errorf("store: list %s: %w", docID, err)
		}
		if rev.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: list %s: %w", docID, err)
		}
		rev.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list %s: %w", docID, err)
	}
	return out, nil
}

// Delete removes every revision of docID and reports how many were removed.
func (s *Store) Delete(ctx context.Context, docID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM editor_states WHERE doc_id = ?`, docID)
	if err != nil {
		return 0, fmt.Errorf("store: delete %s: %w", docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: delete %s: %w", docID, err)
	}
	return n, nil
}

func scanRevision(row *sql.Row) (Revision, error) {
	var (
		rev     Revision
		id      string
		payload string
		created int64
	)
	if err := row.Scan(&id, &rev.DocID, &rev.LineCount, &payload, &rev.Writer, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Revision{}, ErrNotFound
		}
		return Revision{}, err
	}
	var err error
	if rev.ID, err = uuid.Parse(id); err != nil {
		return Revision{}, err
	}
	if rev.Snapshot, err = state.DecodeJSON(bytes.NewReader([]byte(payload))); err != nil {
		return Revision{}, err
	}
	rev.CreatedAt = time.Unix(0, created).UTC()
	return rev, nil
}
