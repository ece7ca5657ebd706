package format

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes a strict EDN representation of maps, vectors, strings,
// numbers, booleans and nil. Values are first normalized through JSON so
// json tags decide keys.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := toPlain(v)
	if err != nil {
		return err
	}
	var sb strings.Builder
	enc := ednEncoder{sb: &sb, pretty: pretty, indent: 2}
	enc.value(x, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednEncoder struct {
	sb     *strings.Builder
	pretty bool
	indent int
}

func (e ednEncoder) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case string:
		e.sb.WriteString(strconv.Quote(t))
	case float64:
		e.sb.WriteString(ednNumber(t))
	case []any:
		e.seq(t, level)
	case map[string]any:
		e.dict(t, level)
	default:
		e.sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

// ednNumber prints integral values without a fraction; money amounts are
// usually whole.
func ednNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (e ednEncoder) sep(last bool, level int) {
	if last {
		return
	}
	if e.pretty {
		e.sb.WriteByte('\n')
		e.pad(level + 1)
		return
	}
	e.sb.WriteByte(' ')
}

func (e ednEncoder) pad(level int) {
	e.sb.WriteString(strings.Repeat(" ", level*e.indent))
}

func (e ednEncoder) open(b byte, level int) {
	e.sb.WriteByte(b)
	if e.pretty {
		e.sb.WriteByte('\n')
		e.pad(level + 1)
	}
}

func (e ednEncoder) close(b byte, level int) {
	if e.pretty {
		e.sb.WriteByte('\n')
		e.pad(level)
	}
	e.sb.WriteByte(b)
}

func (e ednEncoder) seq(xs []any, level int) {
	if len(xs) == 0 {
		e.sb.WriteString("[]")
		return
	}
	e.open('[', level)
	for i, it := range xs {
		e.value(it, level+1)
		e.sep(i == len(xs)-1, level)
	}
	e.close(']', level)
}

func (e ednEncoder) dict(m map[string]any, level int) {
	if len(m) == 0 {
		e.sb.WriteString("{}")
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.open('{', level)
	for i, k := range keys {
		e.sb.WriteByte(':')
		e.sb.WriteString(ednKeyword(k))
		e.sb.WriteByte(' ')
		e.value(m[k], level+1)
		e.sep(i == len(keys)-1, level)
	}
	e.close('}', level)
}

// ednKeyword turns a JSON key into a keyword name. Mongo-style "_id" is kept
// as is; spaces and dots become dashes.
func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer(" ", "-", ".", "-").Replace(s)
}
