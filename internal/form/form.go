// Package form holds the draft state of one create/edit overlay and performs
// its single write.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"sync"

	"tourdesk/internal/detail"
	"tourdesk/internal/model"
)

var (
	ErrSubmitting = errors.New("a submit is already in progress")
	ErrCreated    = errors.New("record already created")
)

// Writer issues the create/update request. The API client implements it.
type Writer interface {
	Create(ctx context.Context, resource string, payload model.Record) (model.Record, error)
	Update(ctx context.Context, resource, id string, payload model.Record) (model.Record, error)
}

type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) For(key string) string {
	for _, e := range v {
		if e.Key == key {
			return e.Message
		}
	}
	return ""
}

type Controller struct {
	spec   Spec
	writer Writer

	mu         sync.Mutex
	id         string
	draft      model.Record
	options    map[string][]Option
	submitting bool
	lastErr    string
	done       bool
}

// New seeds a draft from existing (edit) or from spec defaults (create).
func New(spec Spec, w Writer, existing model.Record) *Controller {
	c := &Controller{
		spec:    spec,
		writer:  w,
		draft:   model.Record{},
		options: map[string][]Option{},
	}
	if existing != nil {
		c.id = existing.ID()
		for _, f := range spec.Fields {
			c.draft[f.Key] = seedValue(f, existing[f.Key])
		}
		return c
	}
	var defaults model.Record
	if spec.Defaults != nil {
		defaults = spec.Defaults()
	}
	for _, f := range spec.Fields {
		if v, ok := defaults[f.Key]; ok {
			c.draft[f.Key] = v
			continue
		}
		c.draft[f.Key] = zeroValue(f)
	}
	return c
}

func seedValue(f FieldSpec, v any) any {
	if v == nil {
		return zeroValue(f)
	}
	if f.Relation {
		if ref, ok := model.RefOf(v); ok {
			return ref.ID
		}
		return ""
	}
	switch f.Input {
	case InputDate:
		if t, ok := detail.ParseTime(v); ok {
			return t.UTC().Format("2006-01-02")
		}
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	case InputNumber:
		if n, ok := v.(float64); ok {
			return n
		}
		return model.Number(v)
	}
	return v
}

func zeroValue(f FieldSpec) any {
	if f.Input == InputNumber {
		return 0.0
	}
	return ""
}

func (c *Controller) Spec() Spec { return c.spec }

func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Controller) Editing() bool { return c.ID() != "" }

// Draft returns a copy of the current draft.
func (c *Controller) Draft() model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

func (c *Controller) Value(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft[key]
}

// Text renders a draft value for an input box.
func (c *Controller) Text(key string) string {
	return textOf(c.Value(key))
}

func textOf(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Set stores raw input for key, converting numbers, and clears every field
// whose validity is scoped to key.
func (c *Controller) Set(key string, raw string) []string {
	f, _ := c.spec.Field(key)
	var v any = raw
	if f.Input == InputNumber {
		s := strings.TrimSpace(raw)
		if s == "" {
			v = 0.0
		} else if n, err := strconv.ParseFloat(s, 64); err == nil {
			v = n
		}
	}
	return c.SetValue(key, v)
}

// SetValue stores v as-is and returns the dependent keys that were cleared.
func (c *Controller) SetValue(key string, v any) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, had := c.draft[key]
	c.draft[key] = v
	if had && fmt.Sprint(prev) == fmt.Sprint(v) {
		return nil
	}
	var cleared []string
	seen := map[string]bool{key: true}
	queue := append([]string{}, c.spec.Dependents[key]...)
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]
		if seen[dep] {
			continue
		}
		seen[dep] = true
		f, _ := c.spec.Field(dep)
		c.draft[dep] = zeroValue(f)
		cleared = append(cleared, dep)
		queue = append(queue, c.spec.Dependents[dep]...)
	}
	return cleared
}

func (c *Controller) SetOptions(source string, opts []Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options[source] = opts
}

// SetOptionsIf stores opts only while the draft's key still reads want. It
// reports whether the options were stored; results fetched for a value the
// user has since changed are dropped.
func (c *Controller) SetOptionsIf(source string, opts []Option, key, want string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if textOf(c.draft[key]) != want {
		return false
	}
	c.options[source] = opts
	return true
}

// Options returns the select options for a field.
func (c *Controller) Options(key string) []Option {
	f, ok := c.spec.Field(key)
	if !ok {
		return nil
	}
	if len(f.Choices) > 0 {
		out := make([]Option, 0, len(f.Choices))
		for _, ch := range f.Choices {
			out = append(out, Option{Value: ch, Label: ch})
		}
		return out
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Option(nil), c.options[f.Source]...)
}

// Totals recomputes derived figures from the current draft.
func (c *Controller) Totals() []Total {
	if c.spec.Totals == nil {
		return nil
	}
	return c.spec.Totals(c.Draft())
}

// Validate runs the single synchronous validation pass.
func (c *Controller) Validate() error {
	return c.spec.Validate(c.Draft())
}

func (s Spec) Validate(draft model.Record) error {
	var errs ValidationErrors
	for _, f := range s.Fields {
		v := draft[f.Key]
		empty := isEmpty(v)
		if f.Required && empty && f.Input != InputNumber {
			errs = append(errs, FieldError{Key: f.Key, Message: f.Label + " is required"})
			continue
		}
		switch f.Input {
		case InputNumber:
			n, ok := v.(float64)
			if !ok {
				if empty && !f.Required {
					continue
				}
				errs = append(errs, FieldError{Key: f.Key, Message: f.Label + " must be a number"})
				continue
			}
			if f.Min != nil && n < *f.Min {
				errs = append(errs, FieldError{Key: f.Key, Message: fmt.Sprintf("%s must be at least %s", f.Label, strconv.FormatFloat(*f.Min, 'f', -1, 64))})
			}
		case InputDate:
			if empty {
				continue
			}
			if _, ok := detail.ParseTime(v); !ok {
				errs = append(errs, FieldError{Key: f.Key, Message: f.Label + " must be a valid date"})
			}
		case InputEmail:
			if empty {
				continue
			}
			s, _ := v.(string)
			if _, err := mail.ParseAddress(s); err != nil {
				errs = append(errs, FieldError{Key: f.Key, Message: f.Label + " must be a valid email"})
			}
		case InputSelect:
			if empty || len(f.Choices) == 0 {
				continue
			}
			if !contains(f.Choices, fmt.Sprint(v)) {
				errs = append(errs, FieldError{Key: f.Key, Message: f.Label + " must be one of " + strings.Join(f.Choices, ", ")})
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates and issues exactly one create (no id) or update (id)
// request carrying the full draft. On failure the draft is kept and the
// error is available from LastError. Once a create succeeds the form
// adopts the returned id, so a later submit updates that record.
func (c *Controller) Submit(ctx context.Context) (model.Record, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitting
	}
	if c.done && c.id == "" {
		c.mu.Unlock()
		return nil, ErrCreated
	}
	if err := c.spec.Validate(c.draft); err != nil {
		c.lastErr = err.Error()
		c.mu.Unlock()
		return nil, err
	}
	c.submitting = true
	c.lastErr = ""
	id := c.id
	payload := c.draft.Clone()
	c.mu.Unlock()

	var (
		rec model.Record
		err error
	)
	if id == "" {
		rec, err = c.writer.Create(ctx, c.spec.Resource, payload)
	} else {
		rec, err = c.writer.Update(ctx, c.spec.Resource, id, payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.lastErr = err.Error()
		return nil, err
	}
	if rec == nil {
		rec = model.Record{}
	}
	if rec.ID() == "" && id != "" {
		rec[model.IDKey] = id
	}
	if id == "" {
		c.id = rec.ID()
	}
	c.done = true
	return rec, nil
}

func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Done reports whether a submit succeeded; the overlay should close.
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
