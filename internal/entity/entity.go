// Package entity declares the six back-office pages: which collection each one
// reads, how it searches and sorts, what its detail view and form look like.
package entity

import (
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/form"
	"tourdesk/internal/listview"
	"tourdesk/internal/model"
)

type SortField struct {
	Path string
	Kind model.FieldKind
}

type Definition struct {
	// Name is the CLI noun ("customers", "hotel-bookings").
	Name     string
	Title    string
	Singular string
	Resource string

	// Fields drive the detail overlay and `show`.
	Fields []model.FieldDescriptor
	List   listview.Config
	Form   form.Spec

	// CardTitle is the key shown as a card heading; CardMeta the lines below.
	CardTitle string
	CardMeta  []model.FieldDescriptor
	Columns   []model.FieldDescriptor

	sortFields map[string]SortField
}

func define(d Definition, sorts []sortDef) *Definition {
	d.sortFields = map[string]SortField{}
	for _, s := range sorts {
		d.List.SortOptions = append(d.List.SortOptions, model.SortOption{Value: s.value, Label: s.label})
		d.sortFields[s.value] = SortField{Path: s.path, Kind: s.kind}
	}
	if d.Form.Resource == "" {
		d.Form.Resource = d.Resource
	}
	d.List.SortValue = d.SortValue
	return &d
}

func listviewConfig(search ...string) listview.Config {
	return listview.Config{SearchFields: search, DefaultOrder: model.Asc}
}

type sortDef struct {
	value string
	label string
	path  string
	kind  model.FieldKind
}

// SortValue extracts the comparable key for sortBy. Computed totals missing
// from the record are derived from its other fields.
func (d *Definition) SortValue(rec model.Record, sortBy string) listview.Key {
	sf, ok := d.sortFields[sortBy]
	if !ok {
		return listview.StringKey(detail.ResolveString(rec, sortBy))
	}
	switch sf.Kind {
	case model.KindNumber, model.KindCurrency:
		return listview.NumberKey(d.number(rec, sf.Path))
	case model.KindDate, model.KindDateTime:
		v, _ := detail.Resolve(rec, sf.Path)
		t, _ := detail.ParseTime(v)
		return listview.TimeKey(t)
	default:
		return listview.StringKey(detail.ResolveString(rec, sf.Path))
	}
}

func (d *Definition) number(rec model.Record, path string) float64 {
	if v, ok := detail.Resolve(rec, path); ok {
		return model.Number(v)
	}
	for _, t := range d.Totals(rec) {
		if t.Key == path {
			return t.Value.InexactFloat64()
		}
	}
	return 0
}

// Totals derives the display-only figures for rec (nil when the page has none).
func (d *Definition) Totals(rec model.Record) []form.Total {
	if d.Form.Totals == nil {
		return nil
	}
	return d.Form.Totals(flatten(rec))
}

// WithTotals returns a copy of rec carrying its computed totals.
func (d *Definition) WithTotals(rec model.Record) model.Record {
	out := rec.Clone()
	for _, t := range d.Totals(rec) {
		out[t.Key] = t.Value.InexactFloat64()
	}
	return out
}

// flatten collapses expanded relations to ids so totals see plain values.
func flatten(rec model.Record) model.Record {
	out := make(model.Record, len(rec))
	for k, v := range rec {
		if _, isMap := v.(map[string]any); isMap {
			if ref, ok := model.RefOf(v); ok {
				out[k] = ref.ID
				continue
			}
		}
		out[k] = v
	}
	return out
}

func (d *Definition) SortFields() map[string]SortField {
	out := make(map[string]SortField, len(d.sortFields))
	for k, v := range d.sortFields {
		out[k] = v
	}
	return out
}

var all = []*Definition{
	Customers,
	Packages,
	Expenses,
	HotelBookings,
	Payments,
	Transports,
}

// All returns the pages in navigation order.
func All() []*Definition {
	return append([]*Definition(nil), all...)
}

// Lookup finds a definition by CLI name, resource path or title.
func Lookup(name string) (*Definition, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "/")
	for _, d := range all {
		if n == d.Name || n == strings.TrimPrefix(d.Resource, "/") || n == strings.ToLower(d.Title) {
			return d, true
		}
	}
	return nil, false
}

func Names() []string {
	out := make([]string, 0, len(all))
	for _, d := range all {
		out = append(out, d.Name)
	}
	return out
}
