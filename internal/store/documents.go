package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tourdesk/internal/model"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("document not found")

// Documents is a JSON document store keyed by (collection, id), backed by a
// single SQLite file. It serves the dev server.
type Documents struct {
	db  *sql.DB
	now func() time.Time
}

func OpenDocuments(ctx context.Context, path string) (*Documents, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, goerr.New("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create db dir", goerr.V("dir", dir))
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite", goerr.V("path", path))
	}
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, goerr.Wrap(err, "failed to apply pragma", goerr.V("pragma", p))
		}
	}
	d := &Documents{db: db, now: time.Now}
	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *Documents) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(collection, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(collection, created_at_unixms);`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return goerr.Wrap(err, "failed to migrate documents table")
		}
	}
	return nil
}

func (d *Documents) Close() error { return d.db.Close() }

// List returns a collection in insertion order.
func (d *Documents) List(ctx context.Context, collection string) ([]model.Record, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT json FROM documents WHERE collection = ? ORDER BY created_at_unixms, rowid`, collection)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V("collection", collection))
	}
	defer rows.Close()

	out := []model.Record{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, goerr.Wrap(err, "failed to scan document", goerr.V("collection", collection))
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("collection", collection))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V("collection", collection))
	}
	return out, nil
}

func (d *Documents) Get(ctx context.Context, collection, id string) (model.Record, error) {
	var raw string
	err := d.db.QueryRowContext(ctx,
		`SELECT json FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("collection", collection), goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("collection", collection), goerr.V("id", id))
	}
	var rec model.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("collection", collection), goerr.V("id", id))
	}
	return rec, nil
}

// Put inserts or replaces rec, which must carry an id.
func (d *Documents) Put(ctx context.Context, collection string, rec model.Record) error {
	id := rec.ID()
	if id == "" {
		return goerr.New("document has no id", goerr.V("collection", collection))
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return goerr.Wrap(err, "failed to encode document", goerr.V("collection", collection), goerr.V("id", id))
	}
	nowMs := d.now().UTC().UnixMilli()
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO documents(collection, id, json, created_at_unixms, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET json = excluded.json, updated_at_unixms = excluded.updated_at_unixms`,
		collection, id, string(raw), nowMs, nowMs)
	if err != nil {
		return goerr.Wrap(err, "failed to save document", goerr.V("collection", collection), goerr.V("id", id))
	}
	return nil
}

func (d *Documents) Delete(ctx context.Context, collection, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("collection", collection), goerr.V("id", id))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goerr.Wrap(ErrNotFound, "document not found", goerr.V("collection", collection), goerr.V("id", id))
	}
	return nil
}

func (d *Documents) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n); err != nil {
		return 0, goerr.Wrap(err, "failed to count documents", goerr.V("collection", collection))
	}
	return n, nil
}
