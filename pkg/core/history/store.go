// Package history persists calculation results in a SQLite database.
//
// Inputs, outputs and step results are stored as JSON maps of
// {magnitude, unit} records and rebuilt through a unit registry on load.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	mdwlog "github.com/msto63/engcalc/foundation/core/log"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/logging"
	"github.com/msto63/engcalc/pkg/core/units"
)

// timeLayout sorts lexically in chronological order for UTC times.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 50

// Entry is one stored result.
type Entry struct {
	ID      string
	SavedAt time.Time
	Notes   string
	Project string
	Result  *calculation.Result
}

// Summary describes a stored result without decoding its values.
type Summary struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	Category     string    `json:"category"`
	Name         string    `json:"name"`
	CalculatedAt time.Time `json:"calculated_at"`
	SavedAt      time.Time `json:"saved_at"`
	Project      string    `json:"project,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Warnings     int       `json:"warnings"`
}

// ListOptions filters List. Since is inclusive and Until exclusive, both
// on the save time. Search matches name, category, project and notes
// case-insensitively.
type ListOptions struct {
	Category string
	Name     string
	Project  string
	Since    time.Time
	Until    time.Time
	Search   string
	Limit    int
	Offset   int
}

// SaveOption annotates a saved result.
type SaveOption func(*annotations)

type annotations struct {
	notes   string
	project string
}

// WithNotes attaches free text notes.
func WithNotes(notes string) SaveOption {
	return func(a *annotations) { a.notes = strings.TrimSpace(notes) }
}

// WithProject files the result under a project name.
func WithProject(project string) SaveOption {
	return func(a *annotations) { a.project = strings.TrimSpace(project) }
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for save and delete events.
func WithLogger(logger *mdwlog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithName("history")
		}
	}
}

// WithUnits sets the registry used to rebuild stored quantities.
func WithUnits(reg *units.Registry) Option {
	return func(s *Store) {
		if reg != nil {
			s.dec = decoder{reg: reg}
		}
	}
}

// Store is a SQLite backed result history. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dec    decoder
	logger *mdwlog.Logger
	now    func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, dbError(err, "create history directory", "history.Open").WithDetail("path", path)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "open history database", "history.Open").WithDetail("path", path)
	}

	s := &Store{
		db:     db,
		dec:    decoder{reg: units.Default()},
		logger: mdwlog.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, dbError(err, "initialize history schema", "history.Open").WithDetail("path", path)
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		calculated_at TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		inputs TEXT NOT NULL,
		outputs TEXT NOT NULL,
		steps TEXT NOT NULL,
		metadata TEXT NOT NULL,
		warnings INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		project TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_results_key ON results(category, name);
	CREATE INDEX IF NOT EXISTS idx_results_saved ON results(saved_at DESC);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	// Databases created before notes and projects existed lack the columns;
	// the error for an existing column is expected.
	s.db.ExecContext(ctx, `ALTER TABLE results ADD COLUMN notes TEXT NOT NULL DEFAULT ''`)
	s.db.ExecContext(ctx, `ALTER TABLE results ADD COLUMN project TEXT NOT NULL DEFAULT ''`)

	_, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_results_project ON results(project)`)
	return err
}

// Save stores r under a new ID and returns it.
func (s *Store) Save(ctx context.Context, r *calculation.Result, opts ...SaveOption) (string, error) {
	if r == nil {
		return "", mdwerror.New("nil result").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Save")
	}

	inputs, err := encodeValues(r.Inputs())
	if err != nil {
		return "", dbError(err, "encode inputs", "history.Save")
	}
	outputs, err := encodeValues(r.Outputs())
	if err != nil {
		return "", dbError(err, "encode outputs", "history.Save")
	}
	steps, err := encodeSteps(r.Steps())
	if err != nil {
		return "", dbError(err, "encode steps", "history.Save")
	}
	meta := r.Metadata()
	metadata, err := json.Marshal(meta)
	if err != nil {
		return "", dbError(err, "encode metadata", "history.Save")
	}

	var ann annotations
	for _, opt := range opts {
		opt(&ann)
	}

	row := ArchivedResult{
		ID:           uuid.NewString(),
		Category:     meta.Category,
		Name:         r.Name(),
		CalculatedAt: r.Timestamp(),
		SavedAt:      s.now(),
		Notes:        ann.notes,
		Project:      ann.project,
		Inputs:       inputs,
		Outputs:      outputs,
		Steps:        steps,
		Metadata:     metadata,
		Warnings:     len(meta.Warnings),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := insert(ctx, s.db, row, false); err != nil {
		return "", dbError(err, "save result", "history.Save").WithDetail("key", r.Key())
	}

	s.logger.Info("result saved", logging.KV("id", row.ID, "key", r.Key(), "project", row.Project))
	return row.ID, nil
}

// Get loads the result stored under id. A missing id yields NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT name, calculated_at, saved_at, inputs, outputs, steps, metadata, notes, project
		FROM results WHERE id = ?
	`, id)

	var name, calculatedAt, savedAt, inputs, outputs, steps, metadata, notes, project string
	err := row.Scan(&name, &calculatedAt, &savedAt, &inputs, &outputs, &steps, &metadata, &notes, &project)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdwerror.Newf("history entry not found: %s", id).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("history.Get")
	}
	if err != nil {
		return nil, dbError(err, "load result", "history.Get").WithDetail("id", id)
	}

	snap := calculation.Snapshot{Name: name}
	if snap.Timestamp, err = parseTime(calculatedAt); err != nil {
		return nil, corrupt(err, "calculated_at")
	}
	saved, err := parseTime(savedAt)
	if err != nil {
		return nil, corrupt(err, "saved_at")
	}
	if snap.Inputs, err = s.dec.values([]byte(inputs)); err != nil {
		return nil, err
	}
	if snap.Outputs, err = s.dec.values([]byte(outputs)); err != nil {
		return nil, err
	}
	if snap.Steps, err = s.dec.steps([]byte(steps)); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metadata), &snap.Metadata); err != nil {
		return nil, corrupt(err, "metadata")
	}

	return &Entry{
		ID:      id,
		SavedAt: saved,
		Notes:   notes,
		Project: project,
		Result:  calculation.FromSnapshot(snap),
	}, nil
}

// List returns summaries, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	where, args := opts.filter()
	query := `SELECT id, category, name, calculated_at, saved_at, project, notes, warnings FROM results`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY saved_at DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "list results", "history.List")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var calculatedAt, savedAt string
		if err := rows.Scan(&sum.ID, &sum.Category, &sum.Name, &calculatedAt, &savedAt,
			&sum.Project, &sum.Notes, &sum.Warnings); err != nil {
			return nil, dbError(err, "scan result", "history.List")
		}
		if sum.CalculatedAt, err = parseTime(calculatedAt); err != nil {
			return nil, corrupt(err, "calculated_at")
		}
		if sum.SavedAt, err = parseTime(savedAt); err != nil {
			return nil, corrupt(err, "saved_at")
		}
		sum.Key = calculation.Key(sum.Category, sum.Name)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "list results", "history.List")
	}
	return out, nil
}

// Delete removes the entry stored under id. A missing id yields NOT_FOUND.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return dbError(err, "delete result", "history.Delete").WithDetail("id", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mdwerror.Newf("history entry not found: %s", id).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("history.Delete")
	}

	s.logger.Debug("result deleted", logging.KV("id", id))
	return nil
}

// Count returns the number of stored results per category.
func (s *Store) Count(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM results GROUP BY category`)
	if err != nil {
		return nil, dbError(err, "count results", "history.Count")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, dbError(err, "scan count", "history.Count")
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// filter returns the WHERE clauses of opts and their arguments.
func (o ListOptions) filter() ([]string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if o.Category != "" {
		where = append(where, "category = ?")
		args = append(args, o.Category)
	}
	if o.Name != "" {
		where = append(where, "name = ?")
		args = append(args, o.Name)
	}
	if o.Project != "" {
		where = append(where, "project = ?")
		args = append(args, o.Project)
	}
	if !o.Since.IsZero() {
		where = append(where, "saved_at >= ?")
		args = append(args, formatTime(o.Since))
	}
	if !o.Until.IsZero() {
		where = append(where, "saved_at < ?")
		args = append(args, formatTime(o.Until))
	}
	if o.Search != "" {
		where = append(where, "instr(lower(name || ' ' || category || ' ' || project || ' ' || notes), lower(?)) > 0")
		args = append(args, o.Search)
	}
	return where, args
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeLayout, v)
}

func dbError(err error, msg, op string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}
