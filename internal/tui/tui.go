// Package tui is the interactive console: one tab per page, each a card or
// table list with search, sort, detail, form and delete overlays.
package tui

import (
	"context"
	"log/slog"

	"tourdesk/internal/detail"
	"tourdesk/internal/model"
	"tourdesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
)

type Options struct {
	Backend  Backend
	Renderer *detail.Renderer
	// Logger must not write to the terminal while the program runs.
	Logger *slog.Logger
	// View is the default list view ("cards" or "table").
	View   string
	Glyphs string
}

func Run(ctx context.Context, opts Options) error {
	if opts.Backend == nil {
		return goerr.New("tui: backend is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	st, err := store.LoadTUIState()
	if err != nil {
		log.Warn("failed to load tui state", "error", err)
		st = &store.TUIState{Version: 1}
	}
	var view model.ViewMode
	if opts.View != "" {
		if v, err := model.ParseViewMode(opts.View); err == nil {
			view = v
		}
	}

	m := newAppModel(ctx, opts.Backend, opts.Renderer, log, st, view)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return goerr.Wrap(err, "tui exited")
	}
	if err := store.SaveTUIState(m.state); err != nil {
		log.Warn("failed to save tui state", "error", err)
	}
	return nil
}
