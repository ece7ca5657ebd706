package tui

import (
	"fmt"
	"io"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowsDelegate renders the table view: one line per record, columns sized
// by splitting the width evenly.
type rowsDelegate struct {
	renderer *detail.Renderer
	columns  []model.FieldDescriptor

	normal   lipgloss.Style
	selected lipgloss.Style
}

func newRowsDelegate(r *detail.Renderer, columns []model.FieldDescriptor) rowsDelegate {
	return rowsDelegate{
		renderer: r,
		columns:  columns,
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d rowsDelegate) Height() int  { return 1 }
func (d rowsDelegate) Spacing() int { return 0 }
func (d rowsDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowsDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 8 {
		fmt.Fprint(w, "")
		return
	}
	it, ok := item.(recordItem)
	if !ok {
		fmt.Fprint(w, truncateToWidth(fmt.Sprint(item), contentW))
		return
	}
	cells := make([]string, 0, len(d.columns))
	for _, c := range d.columns {
		cells = append(cells, d.renderer.Format(it.rec, c))
	}
	line := joinColumns(cells, contentW)

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(padOrCutANSI(line, contentW)))
}

// tableHeader renders column labels aligned with rowsDelegate output.
func tableHeader(columns []model.FieldDescriptor, width int) string {
	labels := make([]string, 0, len(columns))
	for _, c := range columns {
		labels = append(labels, c.Label)
	}
	st := lipgloss.NewStyle().Bold(true).Underline(true)
	return st.Render(padOrCutANSI(joinColumns(labels, width), width))
}

func joinColumns(cells []string, width int) string {
	if len(cells) == 0 {
		return ""
	}
	gap := 2
	colW := (width - gap*(len(cells)-1)) / len(cells)
	if colW < 4 {
		colW = 4
	}
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", gap))
		}
		c = truncateToWidth(c, colW)
		b.WriteString(c)
		if pad := colW - xansi.StringWidth(c); pad > 0 && i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}
