package tui

import (
	"fmt"
	"io"
	"strings"

	"tourdesk/internal/detail"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type cardDelegate struct {
	renderer *detail.Renderer

	normalCard   lipgloss.Style
	selectedCard lipgloss.Style
	titleStyle   lipgloss.Style
	metaStyle    lipgloss.Style
	totalStyle   lipgloss.Style
}

func newCardDelegate(r *detail.Renderer) cardDelegate {
	base := lipgloss.NewStyle().
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Foreground(colorSurfaceFg)

	return cardDelegate{
		renderer:     r,
		normalCard:   base,
		selectedCard: base.BorderForeground(colorAccent),
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg),
		metaStyle:    lipgloss.NewStyle().Foreground(colorCardMetaFg),
		totalStyle:   lipgloss.NewStyle().Foreground(colorTotals),
	}
}

func (d cardDelegate) Height() int  { return 5 } // 3 inner lines + border top/bottom
func (d cardDelegate) Spacing() int { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	totalW := m.Width()
	if totalW < 12 {
		fmt.Fprint(w, "")
		return
	}
	it, ok := item.(recordItem)
	if !ok {
		fmt.Fprint(w, truncateToWidth(fmt.Sprint(item), totalW))
		return
	}

	card := d.normalCard
	if index == m.Index() {
		card = d.selectedCard
	}
	innerW := totalW - card.GetHorizontalFrameSize()
	if innerW < 1 {
		innerW = 1
	}
	card = card.Width(innerW)

	// Meta fields are split over two lines; a trailing currency field is the
	// card's headline figure and is styled as a total.
	sep := "  " + glyphBullet() + "  "
	var first, second []string
	for i, f := range it.def.CardMeta {
		v := d.renderer.Format(it.rec, f)
		part := f.Label + ": " + v
		if i < 2 {
			first = append(first, part)
		} else {
			second = append(second, part)
		}
	}

	lines := []string{
		d.titleStyle.Render(truncateToWidth(it.title(), innerW)),
		d.metaStyle.Render(truncateToWidth(strings.Join(first, sep), innerW)),
	}
	if len(second) > 0 {
		lines = append(lines, d.totalStyle.Render(truncateToWidth(strings.Join(second, sep), innerW)))
	}
	for i := range lines {
		lines[i] = padOrCutANSI(lines[i], innerW)
	}
	for len(lines) < 3 {
		lines = append(lines, strings.Repeat(" ", innerW))
	}
	fmt.Fprint(w, card.Render(strings.Join(lines, "\n")))
}

func truncateToWidth(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	ell := glyphEllipsis()
	ellW := xansi.StringWidth(ell)
	if w <= ellW {
		return xansi.Cut(s, 0, w)
	}
	return xansi.Cut(s, 0, w-ellW) + ell
}

func padOrCutANSI(s string, w int) string {
	cur := xansi.StringWidth(s)
	switch {
	case cur < w:
		return s + strings.Repeat(" ", w-cur)
	case cur > w:
		return xansi.Cut(s, 0, w) + "\x1b[0m"
	default:
		return s
	}
}
