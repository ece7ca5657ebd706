package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"tourdesk/internal/deleteflow"
	"tourdesk/internal/detail"
	"tourdesk/internal/docs"
	"tourdesk/internal/entity"
	"tourdesk/internal/model"
	"tourdesk/internal/page"
	"tourdesk/internal/store"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Backend is everything the console needs from the API.
type Backend interface {
	page.Backend
	page.Lookups
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
	modeForm
	modeConfirm
	modeHelp
)

type appModel struct {
	ctx      context.Context
	backend  Backend
	renderer *detail.Renderer
	log      *slog.Logger
	state    *store.TUIState

	pages   []*page.Page
	lists   []list.Model
	current int

	mode     mode
	search   textinput.Model
	detailID string
	detailVP viewport.Model
	helpVP   viewport.Model
	form     *formOverlay
	options  *page.Options
	confirm  confirmFocus
	deleting bool

	width  int
	height int
	status string
}

func newAppModel(ctx context.Context, b Backend, r *detail.Renderer, log *slog.Logger, st *store.TUIState, defaultView model.ViewMode) *appModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if st == nil {
		st = &store.TUIState{Version: 1}
	}
	if st.ViewModes == nil {
		st.ViewModes = map[string]string{}
	}
	if r == nil {
		r = detail.New(detail.DefaultOptions())
	}

	m := &appModel{
		ctx:      ctx,
		backend:  b,
		renderer: r,
		log:      log,
		state:    st,
		width:    100,
		height:   30,
	}
	for i, def := range entity.All() {
		d := *def
		if vm, err := model.ParseViewMode(st.ViewModes[d.Name]); err == nil && st.ViewModes[d.Name] != "" {
			d.List.DefaultView = vm
		} else if defaultView != "" {
			d.List.DefaultView = defaultView
		}
		m.pages = append(m.pages, page.New(&d, b, log))
		m.lists = append(m.lists, newList(newCardDelegate(r)))
		if d.Name == st.Page {
			m.current = i
		}
	}

	m.search = textinput.New()
	m.search.Prompt = "/"
	m.search.Placeholder = "search"
	m.search.Cursor.SetMode(cursor.CursorStatic)

	m.detailVP = viewport.New(0, 0)
	m.helpVP = viewport.New(0, 0)
	m.resize()
	return m
}

func (m *appModel) Init() tea.Cmd {
	return m.mount(m.current)
}

func (m *appModel) page() *page.Page { return m.pages[m.current] }

// mount switches to page i, resetting its list state, and loads it.
func (m *appModel) mount(i int) tea.Cmd {
	m.current = i
	m.mode = modeList
	m.status = ""
	p := m.page()
	p.List.Reset()
	p.Loading = true
	m.state.Page = p.Def.Name
	m.refresh(i)
	return m.loadCmd(i)
}

// refresh rebuilds the bubbles list for page i from its derived view.
func (m *appModel) refresh(i int) {
	p := m.pages[i]
	if p.List.State().ViewMode == model.ViewTable {
		m.lists[i].SetDelegate(newRowsDelegate(m.renderer, p.Def.Columns))
	} else {
		m.lists[i].SetDelegate(newCardDelegate(m.renderer))
	}
	sel := ""
	if rec, ok := selectedRecord(m.lists[i]); ok {
		sel = rec.ID()
	}
	view := p.List.View()
	m.lists[i].SetItems(itemsFor(p.Def, view))
	for idx, rec := range view {
		if sel != "" && rec.ID() == sel {
			m.lists[i].Select(idx)
			break
		}
	}
}

func (m *appModel) resize() {
	listH := m.height - 5
	if listH < 3 {
		listH = 3
	}
	for i := range m.lists {
		h := listH
		if m.pages[i].List.State().ViewMode == model.ViewTable {
			h--
		}
		m.lists[i].SetSize(m.width, h)
	}
	m.search.Width = m.width - 4

	vpW := modalBodyWidth(m.width)
	vpH := m.height - 8
	if vpH < 3 {
		vpH = 3
	}
	m.detailVP.Width, m.detailVP.Height = vpW, vpH
	m.helpVP.Width, m.helpVP.Height = vpW, vpH
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case pageLoadedMsg:
		p := m.pages[msg.idx]
		if msg.err != nil {
			p.Loading = false
			p.Fail("load", msg.err)
		} else {
			p.Loaded(msg.recs)
		}
		m.refresh(msg.idx)
		return m, nil

	case savedMsg:
		p := m.pages[msg.idx]
		if m.form != nil {
			m.form.busy = false
		}
		if msg.err != nil {
			if m.form != nil {
				m.form.err = page.Message("save", msg.err)
			}
			return m, nil
		}
		p.ApplySaved(msg.rec)
		m.refresh(msg.idx)
		m.form = nil
		m.mode = modeList
		m.status = "Saved " + p.Def.Singular
		return m, nil

	case deletedMsg:
		m.deleting = false
		p := m.pages[msg.idx]
		if msg.err != nil {
			p.Fail("delete", msg.err)
		} else {
			p.Deleted(msg.id)
			m.status = "Deleted " + p.Def.Singular
		}
		m.refresh(msg.idx)
		if m.mode == modeConfirm {
			m.mode = modeList
		}
		return m, nil

	case optionsMsg:
		if m.form == nil || m.form.ctrl != msg.ctrl {
			return m, nil
		}
		if msg.err != nil {
			m.form.err = page.Message("lookup", msg.err)
		}
		m.form.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeList {
		var cmd tea.Cmd
		m.lists[m.current], cmd = m.lists[m.current].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeDetail:
		return m.updateDetail(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeHelp:
		switch msg.String() {
		case "esc", "q", "?":
			m.mode = modeList
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}
	return m.updateList(msg)
}

func (m *appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.page()
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		return m, m.mount((m.current + 1) % len(m.pages))
	case "shift+tab":
		return m, m.mount((m.current - 1 + len(m.pages)) % len(m.pages))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		if n <= len(m.pages) {
			return m, m.mount(n - 1)
		}
		return m, nil
	case "/":
		m.mode = modeSearch
		m.search.SetValue(p.List.State().Query)
		m.search.CursorEnd()
		m.search.Focus()
		return m, nil
	case "s":
		p.List.CycleSort()
		m.refresh(m.current)
		return m, nil
	case "o":
		p.List.ToggleOrder()
		m.refresh(m.current)
		return m, nil
	case "v":
		p.List.ToggleViewMode()
		m.state.ViewModes[p.Def.Name] = string(p.List.State().ViewMode)
		m.resize()
		m.refresh(m.current)
		return m, nil
	case "r":
		p.Loading = true
		return m, m.loadCmd(m.current)
	case "?":
		m.openHelp()
		return m, nil
	case "n":
		return m, m.openForm(nil)
	case "enter":
		if rec, ok := selectedRecord(m.lists[m.current]); ok {
			m.openDetail(rec.ID())
		}
		return m, nil
	case "e":
		if rec, ok := selectedRecord(m.lists[m.current]); ok {
			return m, m.openForm(rec)
		}
		return m, nil
	case "d":
		if rec, ok := selectedRecord(m.lists[m.current]); ok {
			m.beginDelete(rec)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.lists[m.current], cmd = m.lists[m.current].Update(msg)
	return m, cmd
}

func (m *appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.page()
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case "esc", "ctrl+g":
		m.search.Blur()
		m.search.SetValue("")
		p.List.SetQuery("")
		m.refresh(m.current)
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != p.List.State().Query {
		p.List.SetQuery(q)
		m.refresh(m.current)
		m.lists[m.current].Select(0)
	}
	return m, cmd
}

func (m *appModel) openDetail(id string) {
	lines, ok := m.page().Detail(m.renderer, id)
	if !ok {
		return
	}
	m.detailID = id
	m.detailVP.SetContent(renderDetail(lines, m.detailVP.Width))
	m.detailVP.GotoTop()
	m.mode = modeDetail
}

func (m *appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.page()
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = modeList
		return m, nil
	case "e":
		if rec, ok := p.List.Find(m.detailID); ok {
			return m, m.openForm(rec)
		}
		return m, nil
	case "d":
		if rec, ok := p.List.Find(m.detailID); ok {
			m.beginDelete(rec)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.detailVP, cmd = m.detailVP.Update(msg)
	return m, cmd
}

func (m *appModel) openHelp() {
	md, _ := docs.Get("keys")
	m.helpVP.SetContent(renderMarkdown(md, m.helpVP.Width))
	m.helpVP.GotoTop()
	m.mode = modeHelp
}

func (m *appModel) openForm(existing model.Record) tea.Cmd {
	m.form = newFormOverlay(m.page(), existing)
	m.options = page.NewOptions(m.backend)
	m.mode = modeForm
	return m.primeCmd(m.form.ctrl)
}

func (m *appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, key := m.form.handleKey(msg)
	switch action {
	case formCancel:
		m.form = nil
		m.mode = modeList
		return m, nil
	case formSubmit:
		if !m.form.validate() {
			return m, nil
		}
		m.form.busy = true
		return m, m.saveCmd(m.current, m.form.ctrl)
	case formChanged:
		return m, m.changedCmd(m.form.ctrl, key)
	}
	return m, nil
}

func (m *appModel) beginDelete(rec model.Record) {
	p := m.page()
	if err := p.Delete.Begin(rec); err != nil {
		m.status = err.Error()
		return
	}
	m.confirm = confirmFocusCancel
	m.mode = modeConfirm
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.page()
	if m.deleting || p.Delete.State() == deleteflow.Deleting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirm == confirmFocusCancel {
			m.confirm = confirmFocusConfirm
		} else {
			m.confirm = confirmFocusCancel
		}
		return m, nil
	case "y":
		return m, m.deleteCmd(m.current)
	case "enter":
		if m.confirm == confirmFocusConfirm {
			return m, m.deleteCmd(m.current)
		}
		p.Delete.Cancel()
		m.mode = modeList
		return m, nil
	case "esc", "n", "ctrl+g":
		p.Delete.Cancel()
		m.mode = modeList
		return m, nil
	}
	return m, nil
}

func (m *appModel) View() string {
	header := m.viewTabs()
	status := m.viewStatus()
	footer := styleMuted().Render(truncateToWidth(m.footerHelp(), m.width))

	var body string
	switch m.mode {
	case modeDetail:
		title := m.page().Def.Singular
		if rec, ok := m.page().List.Find(m.detailID); ok {
			title = recordItem{rec: rec, def: m.page().Def}.title()
		}
		body = overlay(m.width, m.bodyHeight(), renderModalBox(m.width, title, m.detailVP.View()))
	case modeHelp:
		body = overlay(m.width, m.bodyHeight(), renderModalBox(m.width, "Keys", m.helpVP.View()))
	case modeForm:
		body = overlay(m.width, m.bodyHeight(), m.form.view(m.width, m.renderer))
	case modeConfirm:
		p := m.page()
		name := m.page().Def.Singular
		if rec := p.Delete.Target(); rec != nil {
			name = recordItem{rec: rec, def: p.Def}.title()
		}
		modal := renderConfirmModal(m.width, "Delete "+p.Def.Singular,
			fmt.Sprintf("Delete %q? This cannot be undone.", name),
			"Delete", "Cancel", m.confirm, m.deleting)
		body = overlay(m.width, m.bodyHeight(), modal)
	default:
		body = m.viewList()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, status, body, footer)
}

func (m *appModel) bodyHeight() int {
	h := m.height - 3
	if h < 3 {
		h = 3
	}
	return h
}

func (m *appModel) viewTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	tabs := make([]string, 0, len(m.pages))
	for i, p := range m.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Def.Title)
		if i == m.current {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return truncateToWidth(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width)
}

func (m *appModel) viewStatus() string {
	p := m.page()
	st := p.List.State()
	arrow := glyphSortAsc()
	if st.SortOrder == model.Desc {
		arrow = glyphSortDesc()
	}
	parts := []string{
		fmt.Sprintf("%d of %d", p.List.Len(), len(p.List.Records())),
		"sort: " + p.List.SortLabel() + " " + arrow,
		"view: " + string(st.ViewMode),
	}
	if m.mode == modeSearch {
		parts = append(parts, m.search.View())
	} else if st.Query != "" {
		parts = append(parts, "search: "+st.Query)
	}
	line := strings.Join(parts, "  "+glyphBullet()+"  ")
	switch {
	case p.Err != "":
		line += "  " + styleError().Render(p.Err)
	case m.status != "":
		line += "  " + styleMuted().Render(m.status)
	}
	return truncateToWidth(line, m.width)
}

func (m *appModel) viewList() string {
	p := m.page()
	h := m.bodyHeight()
	var content string
	switch {
	case p.Loading && len(p.List.Records()) == 0:
		content = styleMuted().Render("Loading " + strings.ToLower(p.Def.Title) + glyphEllipsis())
	case p.List.Len() == 0 && p.List.State().Query != "":
		content = styleMuted().Render("No " + strings.ToLower(p.Def.Title) + " match " + strconv.Quote(p.List.State().Query))
	case p.List.Len() == 0:
		content = styleMuted().Render("No " + strings.ToLower(p.Def.Title) + " yet. Press n to add one.")
	case p.List.State().ViewMode == model.ViewTable:
		content = tableHeader(p.Def.Columns, m.width) + "\n" + m.lists[m.current].View()
	default:
		content = m.lists[m.current].View()
	}
	return lipgloss.NewStyle().Height(h).MaxHeight(h).Render(content)
}

func (m *appModel) footerHelp() string {
	switch m.mode {
	case modeSearch:
		return "type to filter   enter: keep   esc: clear"
	case modeDetail:
		return "e: edit   d: delete   esc: back"
	case modeForm:
		return "ctrl+s: save   esc: cancel"
	case modeConfirm:
		return "y: delete   esc: cancel"
	case modeHelp:
		return "esc: back"
	}
	return "tab: page   /: search   s: sort   o: order   v: view   enter: open   n: new   e: edit   d: delete   r: reload   ?: help   q: quit"
}

func renderDetail(lines []detail.Line, width int) string {
	labelW := 0
	for _, ln := range lines {
		if w := lipgloss.Width(ln.Label); w > labelW {
			labelW = w
		}
	}
	labelSt := lipgloss.NewStyle().Width(labelW + 2).Foreground(colorCardMetaFg)
	valueW := width - labelW - 2
	if valueW < 8 {
		valueW = 8
	}
	valueSt := lipgloss.NewStyle().Width(valueW)

	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelSt.Render(ln.Label), valueSt.Render(ln.Value)))
		b.WriteString("\n")
		for _, p := range ln.Pairs {
			b.WriteString("  " + styleMuted().Render(p.Key+":") + " " + p.Value + "\n")
		}
		for i, it := range ln.Items {
			b.WriteString("  " + styleMuted().Render(fmt.Sprintf("#%d", i+1)) + "\n")
			for _, p := range it {
				b.WriteString("    " + styleMuted().Render(p.Key+":") + " " + p.Value + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
