// Package detail renders a record against a declared field list for
// read-only detail views. Rendering never fails: missing or malformed values
// degrade to placeholder text.
package detail

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"tourdesk/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	NA          = "N/A"
	InvalidDate = "Invalid Date"
	NoItems     = "No items"
)

type Options struct {
	// Currency is the glyph prefixed to currency values.
	Currency string
	// Locale drives digit grouping (BCP 47 tag).
	Locale         string
	DateLayout     string
	DateTimeLayout string
	Location       *time.Location
}

func DefaultOptions() Options {
	return Options{
		Currency:       "₹",
		Locale:         "en",
		DateLayout:     "1/2/2006",
		DateTimeLayout: "1/2/2006, 3:04:05 PM",
		Location:       time.UTC,
	}
}

// Pair is one key/value of an object field.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Line is one rendered field.
type Line struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Kind  model.FieldKind `json:"-"`
	Value string          `json:"value"`
	// Pairs holds the entries of a mapping-valued object field.
	Pairs []Pair `json:"pairs,omitempty"`
	// Items holds one entry list per element of a sequence-valued object
	// field; only filled when rendering expanded.
	Items [][]Pair `json:"items,omitempty"`
}

// Formatter renders a resolved value. present is false when the key path did
// not resolve.
type Formatter func(r *Renderer, v any, present bool) string

type Renderer struct {
	opts       Options
	printer    *message.Printer
	formatters map[model.FieldKind]Formatter
}

func New(opts Options) *Renderer {
	def := DefaultOptions()
	if strings.TrimSpace(opts.Currency) == "" {
		opts.Currency = def.Currency
	}
	if strings.TrimSpace(opts.Locale) == "" {
		opts.Locale = def.Locale
	}
	if opts.DateLayout == "" {
		opts.DateLayout = def.DateLayout
	}
	if opts.DateTimeLayout == "" {
		opts.DateTimeLayout = def.DateTimeLayout
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		tag = language.English
	}
	r := &Renderer{
		opts:    opts,
		printer: message.NewPrinter(tag),
		formatters: map[model.FieldKind]Formatter{
			model.KindText:     formatText,
			model.KindNumber:   formatNumber,
			model.KindCurrency: formatCurrency,
			model.KindDate:     formatDate,
			model.KindDateTime: formatDateTime,
			model.KindBoolean:  formatBoolean,
			model.KindObject:   formatObjectSummary,
		},
	}
	return r
}

// Register installs or replaces the formatter for a kind.
func (r *Renderer) Register(kind model.FieldKind, f Formatter) {
	if f == nil {
		return
	}
	r.formatters[kind] = f
}

func (r *Renderer) Options() Options { return r.opts }

// Format resolves key against rec and formats it by kind.
func (r *Renderer) Format(rec model.Record, field model.FieldDescriptor) string {
	v, ok := Resolve(rec, field.Key)
	return r.FormatValue(field.Kind, v, ok)
}

func (r *Renderer) FormatValue(kind model.FieldKind, v any, present bool) string {
	f, ok := r.formatters[kind]
	if !ok {
		f = formatText
	}
	return f(r, v, present)
}

func (r *Renderer) Render(rec model.Record, fields []model.FieldDescriptor, expanded bool) []Line {
	out := make([]Line, 0, len(fields))
	for _, fd := range fields {
		v, ok := Resolve(rec, fd.Key)
		ln := Line{
			Key:   fd.Key,
			Label: fd.Label,
			Kind:  fd.Kind,
			Value: r.FormatValue(fd.Kind, v, ok),
		}
		if fd.Kind == model.KindObject && ok {
			switch t := v.(type) {
			case []any:
				if expanded {
					for _, it := range t {
						ln.Items = append(ln.Items, r.pairs(it))
					}
				}
			default:
				if _, isObj := model.AsRecord(t); isObj {
					ln.Pairs = r.pairs(t)
				}
			}
		}
		out = append(out, ln)
	}
	return out
}

// Text lays lines out as "Label: value" with nested entries indented.
func Text(lines []Line) string {
	var b strings.Builder
	for _, ln := range lines {
		fmt.Fprintf(&b, "%s: %s\n", ln.Label, ln.Value)
		for _, p := range ln.Pairs {
			fmt.Fprintf(&b, "  %s: %s\n", p.Key, p.Value)
		}
		for i, it := range ln.Items {
			fmt.Fprintf(&b, "  #%d\n", i+1)
			for _, p := range it {
				fmt.Fprintf(&b, "    %s: %s\n", p.Key, p.Value)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) pairs(v any) []Pair {
	obj, ok := model.AsRecord(v)
	if !ok {
		return []Pair{{Key: "value", Value: plain(v)}}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Pair, 0, len(keys))
	for _, k := range keys {
		out = append(out, Pair{Key: k, Value: plain(obj[k])})
	}
	return out
}

// Number renders a locale-grouped numeral ("1,234,567" / "1,500.5").
func (r *Renderer) Number(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NA
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return r.printer.Sprintf("%d", int64(f))
	}
	return r.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

func (r *Renderer) Currency(f float64) string {
	return r.opts.Currency + r.Number(f)
}

func formatText(_ *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	return plain(v)
}

func formatNumber(r *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	f, ok := toFloat(v)
	if !ok {
		return plain(v)
	}
	return r.Number(f)
}

func formatCurrency(r *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	f, ok := toFloat(v)
	if !ok {
		return plain(v)
	}
	return r.Currency(f)
}

func formatDate(r *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	t, ok := ParseTime(v)
	if !ok {
		return InvalidDate
	}
	return t.In(r.opts.Location).Format(r.opts.DateLayout)
}

func formatDateTime(r *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	t, ok := ParseTime(v)
	if !ok {
		return InvalidDate
	}
	return t.In(r.opts.Location).Format(r.opts.DateTimeLayout)
}

func formatBoolean(_ *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	if truthy(v) {
		return "Yes"
	}
	return "No"
}

func formatObjectSummary(_ *Renderer, v any, present bool) string {
	if !present {
		return NA
	}
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return NoItems
		}
		if len(t) == 1 {
			return "1 item"
		}
		return fmt.Sprintf("%d items", len(t))
	default:
		if rec, ok := model.AsRecord(t); ok {
			return model.DisplayName(rec)
		}
		return plain(t)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts ISO-8601 strings and unix-millisecond numbers.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(t)).UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "false" && s != "0" && s != "no"
	default:
		return true
	}
}

func stringify(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
