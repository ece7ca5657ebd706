package publish

import (
	"bytes"
	"fmt"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/model"

	"github.com/shopspring/decimal"
)

func recordTitle(def *entity.Definition, rec model.Record) string {
	title := strings.TrimSpace(detail.ResolveString(rec, def.CardTitle))
	if title == "" {
		title = model.DisplayName(rec)
	}
	if title == "" {
		title = "Untitled " + def.Singular
	}
	return title
}

// RenderRecordMarkdown lays one record out as a markdown document: its
// detail fields, then the totals its form derives.
func RenderRecordMarkdown(def *entity.Definition, rec model.Record, r *detail.Renderer) string {
	if r == nil {
		r = detail.New(detail.DefaultOptions())
	}
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + recordTitle(def, rec))
	writeLn("")
	writeLn("- ID: " + rec.ID())
	writeLn("- Page: " + def.Title)
	writeLn("")
	writeLn("## Details")
	writeLn("")
	for _, ln := range r.Render(rec, def.Fields, true) {
		writeLn("- " + ln.Label + ": " + escapeInline(ln.Value))
		for _, p := range ln.Pairs {
			writeLn("  - " + p.Key + ": " + escapeInline(p.Value))
		}
		for i, it := range ln.Items {
			writeLn(fmt.Sprintf("  - #%d", i+1))
			for _, p := range it {
				writeLn("    - " + p.Key + ": " + escapeInline(p.Value))
			}
		}
	}

	if totals := def.Totals(rec); len(totals) > 0 {
		writeLn("")
		writeLn("## Totals")
		writeLn("")
		for _, t := range totals {
			v := r.Number(t.Value.InexactFloat64())
			if t.Currency {
				v = r.Currency(t.Value.InexactFloat64())
			}
			writeLn("- " + t.Label + ": " + v)
		}
	}
	return buf.String()
}

// RenderPageMarkdown renders a page index: one table row per record, then the
// sum of every money column.
func RenderPageMarkdown(def *entity.Definition, recs []model.Record, r *detail.Renderer) string {
	if r == nil {
		r = detail.New(detail.DefaultOptions())
	}
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + def.Title)
	writeLn("")
	if len(recs) == 0 {
		writeLn("No " + strings.ToLower(def.Title) + ".")
		return buf.String()
	}
	writeLn(fmt.Sprintf("%d %s.", len(recs), plural(len(recs), def.Singular, strings.ToLower(def.Title))))
	writeLn("")

	header := make([]string, 0, len(def.Columns))
	rule := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		header = append(header, escapeCell(c.Label))
		if c.Kind == model.KindCurrency || c.Kind == model.KindNumber {
			rule = append(rule, "---:")
		} else {
			rule = append(rule, "---")
		}
	}
	writeLn("| " + strings.Join(header, " | ") + " |")
	writeLn("| " + strings.Join(rule, " | ") + " |")

	sums := map[string]decimal.Decimal{}
	for _, rec := range recs {
		cells := make([]string, 0, len(def.Columns))
		for _, c := range def.Columns {
			cells = append(cells, escapeCell(r.Format(rec, c)))
			if c.Kind == model.KindCurrency {
				if v, ok := detail.Resolve(rec, c.Key); ok {
					sums[c.Key] = sums[c.Key].Add(decimal.NewFromFloat(model.Number(v)))
				}
			}
		}
		writeLn("| " + strings.Join(cells, " | ") + " |")
	}

	var summary []string
	for _, c := range def.Columns {
		if s, ok := sums[c.Key]; ok {
			summary = append(summary, "- "+c.Label+": "+r.Currency(s.InexactFloat64()))
		}
	}
	if len(summary) > 0 {
		writeLn("")
		writeLn("## Summary")
		writeLn("")
		for _, s := range summary {
			writeLn(s)
		}
	}
	return buf.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func escapeInline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}
