package model

import (
	"fmt"
	"strings"
)

// IDKey is the identifier field every record carries.
const IDKey = "_id"

// Record is one persisted entity instance as returned by the API.
// Values are whatever encoding/json produced: string, float64, bool, nil,
// map[string]any or []any.
type Record map[string]any

func (r Record) ID() string {
	if r == nil {
		return ""
	}
	switch v := r[IDKey].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Clone copies the top level of the record. Nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the field as a trimmed string ("" for missing/nil).
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Ref is a relation-valued field. The API returns relations either as a bare
// id string or as an already-expanded document.
type Ref struct {
	ID  string
	Doc Record
}

func Unresolved(id string) Ref { return Ref{ID: id} }

func Resolved(doc Record) Ref { return Ref{ID: doc.ID(), Doc: doc} }

func (r Ref) Resolved() bool { return r.Doc != nil }

// RefOf classifies a raw field value. ok is false for values that cannot be a
// relation (numbers, bools, arrays, empty strings, nil).
func RefOf(v any) (Ref, bool) {
	switch t := v.(type) {
	case Ref:
		return t, t.ID != "" || t.Doc != nil
	case string:
		if strings.TrimSpace(t) == "" {
			return Ref{}, false
		}
		return Unresolved(t), true
	case Record:
		return Resolved(t), true
	case map[string]any:
		return Resolved(Record(t)), true
	default:
		return Ref{}, false
	}
}

// AsRecord returns v as a Record when it is an object.
func AsRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return Record(t), true
	case Ref:
		if t.Resolved() {
			return t.Doc, true
		}
	}
	return nil, false
}

type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindCurrency
	KindDate
	KindDateTime
	KindBoolean
	KindObject
)

var fieldKindNames = map[FieldKind]string{
	KindText:     "text",
	KindNumber:   "number",
	KindCurrency: "currency",
	KindDate:     "date",
	KindDateTime: "datetime",
	KindBoolean:  "boolean",
	KindObject:   "object",
}

func (k FieldKind) String() string {
	if s, ok := fieldKindNames[k]; ok {
		return s
	}
	return "text"
}

func ParseFieldKind(s string) (FieldKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindText, nil
	}
	for k, name := range fieldKindNames {
		if name == s {
			return k, nil
		}
	}
	return KindText, fmt.Errorf("unknown field kind: %q", s)
}

// FieldDescriptor pairs a (possibly dotted) key path with a label and kind.
type FieldDescriptor struct {
	Key   string
	Label string
	Kind  FieldKind
}

type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("unknown sort order: %q (want asc|desc)", s)
	}
}

func (o SortOrder) Toggle() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

type ViewMode string

const (
	ViewCards ViewMode = "cards"
	ViewTable ViewMode = "table"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cards", "card":
		return ViewCards, nil
	case "table", "rows":
		return ViewTable, nil
	default:
		return ViewCards, fmt.Errorf("unknown view mode: %q (want cards|table)", s)
	}
}

func (v ViewMode) Toggle() ViewMode {
	if v == ViewTable {
		return ViewCards
	}
	return ViewTable
}

// ListState is transient per-page view state; it is never persisted.
type ListState struct {
	Query     string    `json:"query"`
	SortBy    string    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
	ViewMode  ViewMode  `json:"viewMode"`
}
