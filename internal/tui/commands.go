package tui

import (
	"tourdesk/internal/form"
	"tourdesk/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Network calls run as commands; their results come back as these messages
// and are applied in Update, which owns every page.

type pageLoadedMsg struct {
	idx  int
	recs []model.Record
	err  error
}

type savedMsg struct {
	idx int
	rec model.Record
	err error
}

type deletedMsg struct {
	idx int
	id  string
	err error
}

type optionsMsg struct {
	ctrl *form.Controller
	err  error
}

func (m *appModel) loadCmd(idx int) tea.Cmd {
	p := m.pages[idx]
	ctx := m.ctx
	return func() tea.Msg {
		recs, err := p.Fetch(ctx)
		return pageLoadedMsg{idx: idx, recs: recs, err: err}
	}
}

func (m *appModel) saveCmd(idx int, c *form.Controller) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		rec, err := c.Submit(ctx)
		return savedMsg{idx: idx, rec: rec, err: err}
	}
}

// deleteCmd issues the confirmed delete. Further confirm keys are ignored
// until deletedMsg arrives.
func (m *appModel) deleteCmd(idx int) tea.Cmd {
	m.deleting = true
	p := m.pages[idx]
	ctx := m.ctx
	b := m.backend
	return func() tea.Msg {
		id, err := p.Delete.Confirm(ctx, b)
		return deletedMsg{idx: idx, id: id, err: err}
	}
}

func (m *appModel) primeCmd(c *form.Controller) tea.Cmd {
	opts := m.options
	ctx := m.ctx
	return func() tea.Msg {
		return optionsMsg{ctrl: c, err: opts.Prime(ctx, c)}
	}
}

func (m *appModel) changedCmd(c *form.Controller, key string) tea.Cmd {
	switch key {
	case "destination", "hotel", "roomType":
	default:
		return nil
	}
	opts := m.options
	ctx := m.ctx
	return func() tea.Msg {
		return optionsMsg{ctrl: c, err: opts.Changed(ctx, c, key)}
	}
}
