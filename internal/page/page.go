// Package page binds one entity definition to its list, delete flow and
// API. The TUI and CLI both drive pages through it.
package page

import (
	"context"
	"log/slog"

	"tourdesk/internal/api"
	"tourdesk/internal/deleteflow"
	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/form"
	"tourdesk/internal/listview"
	"tourdesk/internal/model"
)

// Backend is the subset of the API client a page needs.
type Backend interface {
	form.Writer
	deleteflow.Deleter
	List(ctx context.Context, resource string) ([]model.Record, error)
}

type Page struct {
	Def    *entity.Definition
	List   *listview.Controller
	Delete *deleteflow.Machine

	Err     string
	Loading bool

	backend Backend
	log     *slog.Logger
}

func New(def *entity.Definition, b Backend, log *slog.Logger) *Page {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Page{
		Def:     def,
		List:    listview.New(def.List),
		Delete:  deleteflow.New(def.Resource),
		backend: b,
		log:     log.With("page", def.Name),
	}
}

// Load fetches the whole collection once and resets the list state.
func (p *Page) Load(ctx context.Context) error {
	p.Loading = true
	recs, err := p.Fetch(ctx)
	p.Loading = false
	if err != nil {
		p.Fail("load", err)
		return err
	}
	p.Loaded(recs)
	return nil
}

// Fetch performs the list request without touching page state.
func (p *Page) Fetch(ctx context.Context) ([]model.Record, error) {
	return p.backend.List(ctx, p.Def.Resource)
}

// Loaded installs fetched records as a fresh mount.
func (p *Page) Loaded(recs []model.Record) {
	p.Err = ""
	p.Loading = false
	p.List.Reset()
	p.List.SetRecords(recs)
	p.log.Debug("loaded", "count", len(recs))
}

func (p *Page) NewForm(existing model.Record) *form.Controller {
	return form.New(p.Def.Form, p.backend, existing)
}

// ApplySaved merges a create/update response into the list.
func (p *Page) ApplySaved(rec model.Record) {
	if rec == nil {
		return
	}
	p.Err = ""
	p.List.Upsert(rec)
	p.log.Debug("saved", "id", rec.ID())
}

// ConfirmDelete runs the pending delete. On success the record leaves the
// list; on failure the page error is set.
func (p *Page) ConfirmDelete(ctx context.Context) error {
	id, err := p.Delete.Confirm(ctx, p.backend)
	if err != nil {
		p.Fail("delete", err)
		return err
	}
	p.Deleted(id)
	return nil
}

func (p *Page) Deleted(id string) {
	p.Err = ""
	p.List.Remove(id)
	p.log.Debug("deleted", "id", id)
}

var fallbacks = map[string]string{
	"load":   "Failed to load records",
	"save":   "Failed to save record",
	"delete": "Failed to delete record",
	"lookup": "Failed to load options",
}

// Message is the user-facing text for a failed op: the server's message
// when it sent one, else a fixed fallback.
func Message(op string, err error) string {
	fb, ok := fallbacks[op]
	if !ok {
		fb = "Request failed"
	}
	return api.Message(err, fb)
}

// Fail records the page-level error message for op.
func (p *Page) Fail(op string, err error) {
	p.Err = Message(op, err)
	p.log.Warn("request failed", "op", op, "error", err)
}

// Detail renders the detail overlay for a loaded record.
func (p *Page) Detail(r *detail.Renderer, id string) ([]detail.Line, bool) {
	rec, ok := p.List.Find(id)
	if !ok {
		return nil, false
	}
	return r.Render(rec, p.Def.Fields, true), true
}
