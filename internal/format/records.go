package format

import (
	"fmt"
	"io"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RecordView tells WriteRecords how to lay out a collection in the human
// formats.
type RecordView struct {
	Title    string
	Columns  []model.FieldDescriptor
	CardKey  string
	CardMeta []model.FieldDescriptor
	Renderer *detail.Renderer
}

// WriteRecords writes a list of records: table/cards for people, the
// {"data": [...]} envelope for everything else.
func WriteRecords(w io.Writer, recs []model.Record, view RecordView, format string, pretty bool) error {
	switch format {
	case "table":
		_, err := fmt.Fprintln(w, Table(recs, view))
		return err
	case "cards":
		_, err := fmt.Fprintln(w, Cards(recs, view))
		return err
	default:
		if recs == nil {
			recs = []model.Record{}
		}
		return Write(w, map[string]any{"data": recs}, format, pretty)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func Table(recs []model.Record, view RecordView) string {
	r := view.renderer()
	headers := make([]string, 0, len(view.Columns))
	for _, c := range view.Columns {
		headers = append(headers, c.Label)
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		row := make([]string, 0, len(view.Columns))
		for _, c := range view.Columns {
			row = append(row, oneLine(r.Format(rec, c)))
		}
		rows = append(rows, row)
	}
	return Grid(headers, rows)
}

// Grid renders plain string rows under headers with the table border.
func Grid(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func Cards(recs []model.Record, view RecordView) string {
	if len(recs) == 0 {
		return "No " + strings.ToLower(view.Title)
	}
	r := view.renderer()
	cards := make([]string, 0, len(recs))
	for _, rec := range recs {
		title := detail.ResolveString(rec, view.CardKey)
		if title == "" {
			title = model.DisplayName(rec)
		}
		lines := []string{titleStyle.Render(title)}
		for _, f := range view.CardMeta {
			lines = append(lines, labelStyle.Render(f.Label+":")+" "+oneLine(r.Format(rec, f)))
		}
		cards = append(cards, cardStyle.Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

func (v RecordView) renderer() *detail.Renderer {
	if v.Renderer != nil {
		return v.Renderer
	}
	return detail.New(detail.DefaultOptions())
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
