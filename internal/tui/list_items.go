package tui

import (
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/listview"
	"tourdesk/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// recordItem is one row of a page's derived view.
type recordItem struct {
	rec model.Record
	def *entity.Definition
}

// FilterValue is unused (filtering happens in listview) but keeps list.Item
// satisfied.
func (it recordItem) FilterValue() string {
	return listview.SearchText(it.rec, it.def.List.SearchFields)
}

func (it recordItem) title() string {
	t := strings.TrimSpace(detail.ResolveString(it.rec, it.def.CardTitle))
	if t == "" || t == detail.NA {
		t = model.DisplayName(it.rec)
	}
	if t == "" {
		t = "(untitled " + it.def.Singular + ")"
	}
	return t
}

func itemsFor(def *entity.Definition, recs []model.Record) []list.Item {
	items := make([]list.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recordItem{rec: rec, def: def})
	}
	return items
}

func newList(delegate list.ItemDelegate) list.Model {
	l := list.New(nil, delegate, 0, 0)
	// Page chrome (tabs, status, footer) is rendered by the app.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func selectedRecord(l list.Model) (model.Record, bool) {
	it, ok := l.SelectedItem().(recordItem)
	if !ok {
		return nil, false
	}
	return it.rec, true
}
