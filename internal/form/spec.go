package form

import (
	"tourdesk/internal/model"

	"github.com/shopspring/decimal"
)

type InputKind int

const (
	InputText InputKind = iota
	InputNumber
	InputDate
	InputEmail
	InputSelect
	InputTextarea
)

func (k InputKind) String() string {
	switch k {
	case InputNumber:
		return "number"
	case InputDate:
		return "date"
	case InputEmail:
		return "email"
	case InputSelect:
		return "select"
	case InputTextarea:
		return "textarea"
	default:
		return "text"
	}
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldSpec struct {
	Key      string
	Label    string
	Input    InputKind
	Required bool
	Min      *float64
	// Relation marks fields stored as a reference to another record; the
	// draft always holds the bare id.
	Relation bool
	// Choices are static select options.
	Choices []string
	// Source names a dynamic option list ("customers", "destinations",
	// "hotels", "roomTypes", ...) supplied via Controller.SetOptions.
	Source string
}

func Min(f float64) *float64 { return &f }

type Total struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	// Currency marks totals shown with the currency glyph.
	Currency bool `json:"currency"`
}

// Spec describes one entity's create/edit form.
type Spec struct {
	Resource string
	Fields   []FieldSpec
	// Defaults seeds a create draft. Fields missing from it start empty.
	Defaults func() model.Record
	// Totals derives display-only figures from the draft.
	Totals func(draft model.Record) []Total
	// Dependents maps a field to the fields whose validity is scoped to it.
	Dependents map[string][]string
}

func (s Spec) Field(key string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Dec reads a draft field as a decimal; anything unparsable is zero.
func Dec(draft model.Record, key string) decimal.Decimal {
	switch v := draft[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	case int:
		return decimal.NewFromInt(int64(v))
	default:
		return decimal.Zero
	}
}
