// Package listview owns one page's in-memory record collection and derives
// the filtered, sorted projection shown as cards or a table.
//
// A Controller is not safe for concurrent use; the page that owns it mutates
// it only in response to resolved network calls.
package listview

import (
	"slices"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Config struct {
	// SearchFields are dotted key paths matched case-insensitively.
	SearchFields []string
	SortOptions  []model.SortOption
	DefaultSort  string
	DefaultOrder model.SortOrder
	DefaultView  model.ViewMode
	// SortValue extracts the comparable value for sortBy. Missing values
	// should map to StringKey(""), NumberKey(0) or TimeKey(time.Time{}).
	SortValue func(rec model.Record, sortBy string) Key
	// Locale for string collation; defaults to English.
	Locale language.Tag
}

type Controller struct {
	cfg      Config
	collator *collate.Collator

	records []model.Record
	state   model.ListState
	view    []model.Record
}

func New(cfg Config) *Controller {
	if cfg.DefaultOrder == "" {
		cfg.DefaultOrder = model.Asc
	}
	if cfg.DefaultView == "" {
		cfg.DefaultView = model.ViewCards
	}
	if cfg.DefaultSort == "" && len(cfg.SortOptions) > 0 {
		cfg.DefaultSort = cfg.SortOptions[0].Value
	}
	tag := cfg.Locale
	if tag == language.Und {
		tag = language.English
	}
	c := &Controller{
		cfg:      cfg,
		collator: collate.New(tag),
	}
	c.Reset()
	return c
}

// Reset restores the default list state (page remount). Records are kept.
func (c *Controller) Reset() {
	c.state = model.ListState{
		Query:     "",
		SortBy:    c.cfg.DefaultSort,
		SortOrder: c.cfg.DefaultOrder,
		ViewMode:  c.cfg.DefaultView,
	}
	c.recompute()
}

func (c *Controller) State() model.ListState { return c.state }

func (c *Controller) SortOptions() []model.SortOption {
	return slices.Clone(c.cfg.SortOptions)
}

func (c *Controller) SetRecords(recs []model.Record) {
	c.records = slices.Clone(recs)
	c.recompute()
}

func (c *Controller) SetQuery(q string) {
	c.state.Query = q
	c.recompute()
}

// SetSort selects a sort key; unknown keys fall back to the default.
func (c *Controller) SetSort(key string) {
	c.state.SortBy = c.validSort(key)
	c.recompute()
}

func (c *Controller) SetOrder(o model.SortOrder) {
	if o != model.Desc {
		o = model.Asc
	}
	c.state.SortOrder = o
	c.recompute()
}

func (c *Controller) ToggleOrder() {
	c.SetOrder(c.state.SortOrder.Toggle())
}

// CycleSort advances to the next declared sort option.
func (c *Controller) CycleSort() {
	opts := c.cfg.SortOptions
	if len(opts) == 0 {
		return
	}
	next := 0
	for i, o := range opts {
		if o.Value == c.state.SortBy {
			next = (i + 1) % len(opts)
			break
		}
	}
	c.SetSort(opts[next].Value)
}

func (c *Controller) SortLabel() string {
	for _, o := range c.cfg.SortOptions {
		if o.Value == c.state.SortBy {
			return o.Label
		}
	}
	return c.state.SortBy
}

// SetViewMode does not touch the derived view; cards and table render the
// same projection.
func (c *Controller) SetViewMode(v model.ViewMode) {
	if v != model.ViewTable {
		v = model.ViewCards
	}
	c.state.ViewMode = v
}

func (c *Controller) ToggleViewMode() {
	c.SetViewMode(c.state.ViewMode.Toggle())
}

// Upsert replaces the record with the same id wholesale, or appends it.
func (c *Controller) Upsert(rec model.Record) {
	id := rec.ID()
	next := make([]model.Record, 0, len(c.records)+1)
	replaced := false
	for _, r := range c.records {
		if id != "" && r.ID() == id {
			if !replaced {
				next = append(next, rec)
				replaced = true
			}
			continue
		}
		next = append(next, r)
	}
	if !replaced {
		next = append(next, rec)
	}
	c.records = next
	c.recompute()
}

// Remove drops every record with the given id.
func (c *Controller) Remove(id string) {
	c.records = slices.DeleteFunc(slices.Clone(c.records), func(r model.Record) bool {
		return r.ID() == id
	})
	c.recompute()
}

func (c *Controller) Find(id string) (model.Record, bool) {
	for _, r := range c.records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

func (c *Controller) Records() []model.Record { return slices.Clone(c.records) }

func (c *Controller) View() []model.Record { return slices.Clone(c.view) }

func (c *Controller) Len() int { return len(c.view) }

func (c *Controller) validSort(key string) string {
	for _, o := range c.cfg.SortOptions {
		if o.Value == key {
			return key
		}
	}
	return c.cfg.DefaultSort
}

func (c *Controller) recompute() {
	c.view = Derive(c.records, c.state, c.cfg.SearchFields, c.cfg.SortValue, c.collator)
}

// Derive filters and sorts recs without mutating them. A nil extractor keeps
// input order.
func Derive(recs []model.Record, st model.ListState, searchFields []string, extract func(model.Record, string) Key, c *collate.Collator) []model.Record {
	out := Filter(recs, st.Query, searchFields)
	if extract == nil {
		return out
	}
	if c == nil {
		c = collate.New(language.English)
	}
	desc := st.SortOrder == model.Desc
	slices.SortStableFunc(out, func(a, b model.Record) int {
		r := compareKeys(c, extract(a, st.SortBy), extract(b, st.SortBy))
		if desc {
			return -r
		}
		return r
	})
	return out
}

// Filter keeps records whose lowercase search text contains the lowercase
// query. It always returns a fresh slice.
func Filter(recs []model.Record, query string, searchFields []string) []model.Record {
	q := strings.ToLower(query)
	out := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		if q == "" || strings.Contains(SearchText(r, searchFields), q) {
			out = append(out, r)
		}
	}
	return out
}

func SearchText(r model.Record, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, detail.ResolveString(r, f))
	}
	return strings.ToLower(strings.Join(parts, " "))
}
