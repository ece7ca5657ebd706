package tui

import (
	"errors"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/form"
	"tourdesk/internal/model"
	"tourdesk/internal/page"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
	// formChanged means a field value changed; the key is returned alongside.
	formChanged
)

// formOverlay edits one draft. Text-like fields get a textinput; selects
// cycle through the controller's options.
type formOverlay struct {
	page   *page.Page
	ctrl   *form.Controller
	fields []form.FieldSpec
	inputs []textinput.Model
	focus  int

	fieldErrs form.ValidationErrors
	err       string
	busy      bool
}

func newFormOverlay(p *page.Page, existing model.Record) *formOverlay {
	ctrl := p.NewForm(existing)
	f := &formOverlay{
		page:   p,
		ctrl:   ctrl,
		fields: ctrl.Spec().Fields,
	}
	f.inputs = make([]textinput.Model, len(f.fields))
	for i, fs := range f.fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholderFor(fs)
		in.CharLimit = 256
		in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(ctrl.Text(fs.Key))
		f.inputs[i] = in
	}
	f.setFocus(0)
	return f
}

func placeholderFor(fs form.FieldSpec) string {
	switch fs.Input {
	case form.InputDate:
		return "YYYY-MM-DD"
	case form.InputNumber:
		return "0"
	case form.InputEmail:
		return "name@example.com"
	}
	return ""
}

func (f *formOverlay) title() string {
	verb := "New "
	if f.ctrl.Editing() {
		verb = "Edit "
	}
	return verb + f.page.Def.Singular
}

func (f *formOverlay) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(f.fields) - 1
	}
	if i >= len(f.fields) {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	if f.fields[i].Input != form.InputSelect {
		f.inputs[i].Focus()
		f.inputs[i].CursorEnd()
	}
}

// sync reloads inputs from the draft, e.g. after dependents were cleared or
// a room rate was filled in. The focused input keeps its raw text.
func (f *formOverlay) sync() {
	for i, fs := range f.fields {
		if fs.Input == form.InputSelect || i == f.focus {
			continue
		}
		if v := f.ctrl.Text(fs.Key); v != f.inputs[i].Value() {
			f.inputs[i].SetValue(v)
		}
	}
}

// cycle moves a select field to the next (or previous) option. Optional
// selects include an empty choice.
func (f *formOverlay) cycle(delta int) (string, bool) {
	fs := f.fields[f.focus]
	values := []string{}
	if !fs.Required {
		values = append(values, "")
	}
	for _, o := range f.ctrl.Options(fs.Key) {
		values = append(values, o.Value)
	}
	if len(values) == 0 {
		return "", false
	}
	cur := f.ctrl.Text(fs.Key)
	idx := -1
	for i, v := range values {
		if v == cur {
			idx = i
			break
		}
	}
	next := (idx + delta + len(values)) % len(values)
	if idx < 0 && delta < 0 {
		next = len(values) - 1
	}
	if values[next] == cur {
		return "", false
	}
	f.ctrl.SetValue(fs.Key, values[next])
	f.sync()
	return fs.Key, true
}

func (f *formOverlay) handleKey(msg tea.KeyMsg) (formAction, string) {
	if f.busy {
		return formNone, ""
	}
	switch msg.String() {
	case "esc", "ctrl+g":
		return formCancel, ""
	case "ctrl+s":
		return formSubmit, ""
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return formNone, ""
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return formNone, ""
	case "enter":
		if f.focus == len(f.fields)-1 {
			return formSubmit, ""
		}
		f.setFocus(f.focus + 1)
		return formNone, ""
	}
	if len(f.fields) == 0 {
		return formNone, ""
	}

	fs := f.fields[f.focus]
	if fs.Input == form.InputSelect {
		delta := 0
		switch msg.String() {
		case "right", "l", " ":
			delta = 1
		case "left", "h":
			delta = -1
		}
		if delta == 0 {
			return formNone, ""
		}
		if key, ok := f.cycle(delta); ok {
			return formChanged, key
		}
		return formNone, ""
	}

	before := f.inputs[f.focus].Value()
	f.inputs[f.focus], _ = f.inputs[f.focus].Update(msg)
	after := f.inputs[f.focus].Value()
	if after == before {
		return formNone, ""
	}
	f.ctrl.Set(fs.Key, after)
	f.sync()
	return formChanged, fs.Key
}

// validate runs the synchronous pass and keeps per-field messages.
func (f *formOverlay) validate() bool {
	f.fieldErrs = nil
	f.err = ""
	err := f.ctrl.Validate()
	if err == nil {
		return true
	}
	var verrs form.ValidationErrors
	if errors.As(err, &verrs) {
		f.fieldErrs = verrs
	}
	f.err = err.Error()
	return false
}

func (f *formOverlay) view(width int, r *detail.Renderer) string {
	bodyW := modalBodyWidth(width)
	labelW := 0
	for _, fs := range f.fields {
		if w := lipgloss.Width(fs.Label) + 2; w > labelW {
			labelW = w
		}
	}
	inputW := bodyW - labelW - 2
	if inputW < 8 {
		inputW = 8
	}

	labelSt := lipgloss.NewStyle().Width(labelW)
	focusSt := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errSt := styleError()

	lines := make([]string, 0, len(f.fields)+8)
	for i, fs := range f.fields {
		label := fs.Label
		if fs.Required {
			label += "*"
		}
		marker := "  "
		if i == f.focus {
			marker = focusSt.Render(">") + " "
			label = focusSt.Render(label)
		}

		var value string
		if fs.Input == form.InputSelect {
			value = f.selectLabel(fs)
			if i == f.focus {
				value = glyphSelectLeft() + " " + value + " " + glyphSelectRight()
			}
		} else {
			in := f.inputs[i]
			in.Width = inputW
			value = in.View()
		}
		lines = append(lines, marker+labelSt.Render(label)+truncateToWidth(value, inputW+4))
		if msg := f.fieldErrs.For(fs.Key); msg != "" {
			lines = append(lines, "  "+strings.Repeat(" ", labelW)+errSt.Render(msg))
		}
	}

	if totals := f.ctrl.Totals(); len(totals) > 0 {
		lines = append(lines, "")
		st := lipgloss.NewStyle().Foreground(colorTotals)
		parts := make([]string, 0, len(totals))
		for _, t := range totals {
			v := r.Number(t.Value.InexactFloat64())
			if t.Currency {
				v = r.Currency(t.Value.InexactFloat64())
			}
			parts = append(parts, t.Label+": "+v)
		}
		lines = append(lines, st.Width(bodyW).Render(strings.Join(parts, "   ")))
	}

	if f.busy {
		lines = append(lines, "", styleMuted().Render("Saving"+glyphEllipsis()))
	} else if msg := f.errorText(); msg != "" {
		lines = append(lines, "", errSt.Width(bodyW).Render(msg))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("tab/shift+tab: field   ←/→: choose   ctrl+s: save   esc: cancel"))
	return renderModalBox(width, f.title(), strings.Join(lines, "\n"))
}

func (f *formOverlay) errorText() string {
	if f.err != "" && len(f.fieldErrs) == 0 {
		return f.err
	}
	return ""
}

func (f *formOverlay) selectLabel(fs form.FieldSpec) string {
	cur := f.ctrl.Text(fs.Key)
	if cur == "" {
		return styleMuted().Render("(none)")
	}
	for _, o := range f.ctrl.Options(fs.Key) {
		if o.Value == cur {
			return o.Label
		}
	}
	return cur
}
