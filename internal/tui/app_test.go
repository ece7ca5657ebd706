package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tourdesk/internal/api"
	"tourdesk/internal/model"
	"tourdesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/gt"
)

type fakeBackend struct {
	records   map[string][]model.Record
	deletes   []string
	deleteErr error
	creates   []model.Record
	lists     []string
}

func (f *fakeBackend) List(_ context.Context, resource string) ([]model.Record, error) {
	f.lists = append(f.lists, resource)
	return f.records[resource], nil
}

func (f *fakeBackend) Create(_ context.Context, resource string, payload model.Record) (model.Record, error) {
	f.creates = append(f.creates, payload)
	out := payload.Clone()
	out["_id"] = "new"
	return out, nil
}

func (f *fakeBackend) Update(_ context.Context, resource, id string, payload model.Record) (model.Record, error) {
	out := payload.Clone()
	out["_id"] = id
	return out, nil
}

func (f *fakeBackend) Delete(_ context.Context, resource, id string) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeBackend) Destinations(context.Context) ([]model.Destination, error) {
	return []model.Destination{{ID: "goa", Name: "Goa"}}, nil
}

func (f *fakeBackend) HotelsByDestination(_ context.Context, id string) ([]model.Hotel, error) {
	if id != "goa" {
		return nil, nil
	}
	return []model.Hotel{{ID: "h1", HotelName: "Sea View", Destination: "goa", RoomTypes: []model.RoomType{
		{Name: "Deluxe", Rate: 3600, ExtraBedRate: 800},
	}}}, nil
}

func newTestApp(t *testing.T, b *fakeBackend) *appModel {
	t.Helper()
	m := newAppModel(context.Background(), b, nil, nil, &store.TUIState{Version: 1}, "")
	drain(t, m, m.Init())
	return m
}

// drain runs cmd and feeds every resulting message back into Update until
// no commands remain.
func drain(t *testing.T, m *appModel, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(t *testing.T, m *appModel, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(k)
		drain(t, m, cmd)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typed(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}

var (
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func customers() *fakeBackend {
	return &fakeBackend{records: map[string][]model.Record{
		"/customers": {
			{"_id": "2", "name": "Bo Reyes"},
			{"_id": "1", "name": "Amy Stone"},
		},
	}}
}

func viewNames(m *appModel) []string {
	var out []string
	for _, r := range m.page().List.View() {
		out = append(out, r.String("name"))
	}
	return out
}

func TestInit_LoadsFirstPage(t *testing.T) {
	m := newTestApp(t, customers())
	gt.Value(t, m.page().Def.Name).Equal("customers")
	gt.Value(t, viewNames(m)).Equal([]string{"Amy Stone", "Bo Reyes"})
	gt.Array(t, m.lists[0].Items()).Length(2)
	gt.String(t, m.View()).Contains("Amy Stone")
}

func TestSearch_FiltersAndEscClears(t *testing.T) {
	m := newTestApp(t, customers())
	press(t, m, runes("/"))
	press(t, m, typed("reyes")...)
	gt.Value(t, viewNames(m)).Equal([]string{"Bo Reyes"})

	press(t, m, keyEnter)
	gt.Value(t, m.mode).Equal(modeList)
	gt.Value(t, m.page().List.State().Query).Equal("reyes")

	press(t, m, runes("/"), keyEsc)
	gt.Value(t, viewNames(m)).Equal([]string{"Amy Stone", "Bo Reyes"})
}

func TestDelete_ConfirmRemovesRecord(t *testing.T) {
	b := customers()
	m := newTestApp(t, b)

	press(t, m, runes("d"))
	gt.Value(t, m.mode).Equal(modeConfirm)
	gt.String(t, m.View()).Contains("Amy Stone")

	press(t, m, runes("y"))
	gt.Value(t, b.deletes).Equal([]string{"1"})
	gt.Value(t, viewNames(m)).Equal([]string{"Bo Reyes"})
	gt.Value(t, m.mode).Equal(modeList)
}

func TestDelete_CancelSendsNothing(t *testing.T) {
	b := customers()
	m := newTestApp(t, b)
	press(t, m, runes("d"), keyEsc)
	gt.Array(t, b.deletes).Length(0)
	gt.Value(t, m.mode).Equal(modeList)

	// Enter with focus on Cancel also cancels.
	press(t, m, runes("d"), keyEnter)
	gt.Array(t, b.deletes).Length(0)
}

func TestDelete_FailureKeepsRecordAndShowsMessage(t *testing.T) {
	b := customers()
	b.deleteErr = &api.Error{Op: "delete", Status: 500, Message: "Booking is locked"}
	m := newTestApp(t, b)
	press(t, m, runes("d"), runes("y"))
	gt.Value(t, viewNames(m)).Equal([]string{"Amy Stone", "Bo Reyes"})
	gt.Value(t, m.page().Err).Equal("Booking is locked")
}

func TestForm_CreateAppendsSortedRecord(t *testing.T) {
	b := customers()
	m := newTestApp(t, b)
	press(t, m, runes("n"))
	gt.Value(t, m.mode).Equal(modeForm)
	press(t, m, typed("Cy")...)
	press(t, m, keySave)

	gt.Value(t, m.mode).Equal(modeList)
	gt.Array(t, b.creates).Length(1)
	gt.Value(t, b.creates[0].String("name")).Equal("Cy")
	gt.Value(t, viewNames(m)).Equal([]string{"Amy Stone", "Bo Reyes", "Cy"})
}

func TestForm_ValidationBlocksSubmit(t *testing.T) {
	b := customers()
	m := newTestApp(t, b)
	press(t, m, runes("n"), keySave)
	gt.Value(t, m.mode).Equal(modeForm)
	gt.Array(t, b.creates).Length(0)
	gt.Value(t, m.form.fieldErrs.For("name")).Equal("Name is required")

	press(t, m, keyEsc)
	gt.Value(t, m.mode).Equal(modeList)
	gt.Bool(t, m.form == nil).True()
}

func TestForm_HotelBookingCascade(t *testing.T) {
	b := &fakeBackend{records: map[string][]model.Record{}}
	m := newTestApp(t, b)
	press(t, m, runes("4"))
	gt.Value(t, m.page().Def.Name).Equal("hotel-bookings")

	press(t, m, runes("n"))
	// guestName, package, destination
	press(t, m, keyTab, keyTab, keyRight)
	gt.Value(t, m.form.ctrl.Text("destination")).Equal("goa")
	gt.Array(t, m.form.ctrl.Options("hotel")).Length(1)

	press(t, m, keyTab, keyRight)
	gt.Value(t, m.form.ctrl.Text("hotel")).Equal("h1")
	press(t, m, keyTab, keyRight)
	gt.Value(t, m.form.ctrl.Text("roomType")).Equal("Deluxe")
	gt.Value(t, m.form.ctrl.Value("ratePerNight")).Equal(3600.0)
}

func TestTabSwitch_RemountsAndLoads(t *testing.T) {
	b := customers()
	m := newTestApp(t, b)
	press(t, m, runes("/"))
	press(t, m, typed("amy")...)
	press(t, m, keyEnter)

	press(t, m, keyTab)
	gt.Value(t, m.page().Def.Name).Equal("packages")
	gt.Value(t, b.lists).Equal([]string{"/customers", "/packages"})

	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	gt.Value(t, m.page().List.State().Query).Equal("")
	gt.Value(t, m.state.Page).Equal("customers")
}

func TestViewToggle_RemembersMode(t *testing.T) {
	m := newTestApp(t, customers())
	press(t, m, runes("v"))
	gt.Value(t, m.page().List.State().ViewMode).Equal(model.ViewTable)
	gt.Value(t, m.state.ViewModes["customers"]).Equal("table")
	gt.String(t, m.View()).Contains("Email")
}

func TestDetailAndHelp(t *testing.T) {
	m := newTestApp(t, customers())
	press(t, m, keyEnter)
	gt.Value(t, m.mode).Equal(modeDetail)
	gt.Value(t, m.detailID).Equal("1")
	gt.String(t, m.View()).Contains("Created")

	press(t, m, keyEsc, runes("?"))
	gt.Value(t, m.mode).Equal(modeHelp)
	gt.Bool(t, strings.Contains(m.View(), "Keys")).True()
}

func TestLoadFailure_ShowsPageError(t *testing.T) {
	m := newAppModel(context.Background(), &failingBackend{}, nil, nil, nil, "")
	drain(t, m, m.Init())
	gt.Value(t, m.page().Err).Equal("Failed to load records")
	gt.String(t, m.View()).Contains("Failed to load records")
}

type failingBackend struct{ fakeBackend }

func (f *failingBackend) List(context.Context, string) ([]model.Record, error) {
	return nil, errors.New("connection refused")
}
