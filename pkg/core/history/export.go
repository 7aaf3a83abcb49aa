package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/logging"
)

// ArchiveFormat is the version written to and accepted from archives.
const ArchiveFormat = 1

// Archive is the JSON document written by Export and read by Import.
type Archive struct {
	Format     int              `json:"format"`
	ExportedAt time.Time        `json:"exported_at"`
	Results    []ArchivedResult `json:"results"`
}

// ArchivedResult is one stored result in its database form. Values keep
// the {magnitude, unit} encoding of the database columns.
type ArchivedResult struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	Name         string          `json:"name"`
	CalculatedAt time.Time       `json:"calculated_at"`
	SavedAt      time.Time       `json:"saved_at"`
	Project      string          `json:"project,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Inputs       json.RawMessage `json:"inputs"`
	Outputs      json.RawMessage `json:"outputs"`
	Steps        json.RawMessage `json:"steps"`
	Metadata     json.RawMessage `json:"metadata"`
	Warnings     int             `json:"-"`
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insert writes r and reports whether a row was added. With skipExisting
// an id already present is left untouched.
func insert(ctx context.Context, db execer, r ArchivedResult, skipExisting bool) (bool, error) {
	verb := "INSERT"
	if skipExisting {
		verb = "INSERT OR IGNORE"
	}
	res, err := db.ExecContext(ctx, verb+` INTO results
		(id, category, name, calculated_at, saved_at, inputs, outputs, steps, metadata, warnings, notes, project)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Category, r.Name, formatTime(r.CalculatedAt), formatTime(r.SavedAt),
		string(r.Inputs), string(r.Outputs), string(r.Steps), string(r.Metadata),
		r.Warnings, r.Notes, r.Project)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Export writes every stored result, oldest first, as an indented JSON
// archive and returns the number of results written.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.records(ctx)
	if err != nil {
		return 0, err
	}

	archive := Archive{Format: ArchiveFormat, ExportedAt: s.now().UTC(), Results: records}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return 0, mdwerror.Wrap(err, "write archive").
			WithCode(mdwerror.CodeInternal).
			WithOperation("history.Export")
	}

	s.logger.Info("history exported", logging.KV("results", len(records)))
	return len(records), nil
}

func (s *Store) records(ctx context.Context) ([]ArchivedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, calculated_at, saved_at, project, notes, inputs, outputs, steps, metadata
		FROM results ORDER BY saved_at, rowid
	`)
	if err != nil {
		return nil, dbError(err, "export results", "history.Export")
	}
	defer rows.Close()

	out := []ArchivedResult{}
	for rows.Next() {
		var r ArchivedResult
		var calculatedAt, savedAt, inputs, outputs, steps, metadata string
		if err := rows.Scan(&r.ID, &r.Category, &r.Name, &calculatedAt, &savedAt, &r.Project, &r.Notes,
			&inputs, &outputs, &steps, &metadata); err != nil {
			return nil, dbError(err, "scan result", "history.Export")
		}
		if r.CalculatedAt, err = parseTime(calculatedAt); err != nil {
			return nil, corrupt(err, "calculated_at")
		}
		if r.SavedAt, err = parseTime(savedAt); err != nil {
			return nil, corrupt(err, "saved_at")
		}
		r.Inputs, r.Outputs = json.RawMessage(inputs), json.RawMessage(outputs)
		r.Steps, r.Metadata = json.RawMessage(steps), json.RawMessage(metadata)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "export results", "history.Export")
	}
	return out, nil
}

// Import reads an archive written by Export and stores its results in one
// transaction. Results whose id is already stored are skipped; a result
// without an id gets a new one. Every value must resolve in the store's
// unit registry, otherwise nothing is imported. It returns the number of
// results added.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	var archive Archive
	if err := json.NewDecoder(r).Decode(&archive); err != nil {
		return 0, invalidArchive(err, "decode archive")
	}
	if archive.Format != ArchiveFormat {
		return 0, mdwerror.Newf("unsupported archive format %d", archive.Format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Import")
	}

	for i := range archive.Results {
		if err := s.check(&archive.Results[i]); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError(err, "begin import", "history.Import")
	}
	defer tx.Rollback()

	added := 0
	for _, rec := range archive.Results {
		ok, err := insert(ctx, tx, rec, true)
		if err != nil {
			return 0, dbError(err, "import result", "history.Import").WithDetail("id", rec.ID)
		}
		if ok {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, dbError(err, "commit import", "history.Import")
	}

	s.logger.Info("history imported", logging.KV("results", added, "skipped", len(archive.Results)-added))
	return added, nil
}

// check validates rec against the store's decoder and fills derived fields.
func (s *Store) check(rec *ArchivedResult) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Name == "" || rec.Category == "" {
		return mdwerror.New("archived result needs a name and a category").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Import").
			WithDetail("id", rec.ID)
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = s.now()
	}

	for _, col := range []*json.RawMessage{&rec.Inputs, &rec.Outputs, &rec.Metadata} {
		if len(*col) == 0 {
			*col = json.RawMessage("{}")
		}
	}
	if len(rec.Steps) == 0 {
		rec.Steps = json.RawMessage("[]")
	}

	if _, err := s.dec.values(rec.Inputs); err != nil {
		return invalidArchive(err, "archived inputs").WithDetail("id", rec.ID)
	}
	if _, err := s.dec.values(rec.Outputs); err != nil {
		return invalidArchive(err, "archived outputs").WithDetail("id", rec.ID)
	}
	if _, err := s.dec.steps(rec.Steps); err != nil {
		return invalidArchive(err, "archived steps").WithDetail("id", rec.ID)
	}
	var meta calculation.Metadata
	if err := json.Unmarshal(rec.Metadata, &meta); err != nil {
		return invalidArchive(err, "archived metadata").WithDetail("id", rec.ID)
	}
	rec.Warnings = len(meta.Warnings)
	return nil
}

// invalidArchive classifies archive problems as bad input while keeping a
// more specific code such as UNDEFINED_UNIT.
func invalidArchive(err error, msg string) *mdwerror.Error {
	wrapped := mdwerror.Wrap(err, msg).WithOperation("history.Import")
	if mdwerror.GetCode(err) == mdwerror.CodeUnknown || mdwerror.HasCode(err, mdwerror.CodeDatabaseError) {
		wrapped.WithCode(mdwerror.CodeInvalidInput)
	}
	return wrapped
}
