package detail

import (
	"strconv"
	"strings"

	"tourdesk/internal/model"
)

type unavailable struct{}

func (unavailable) String() string { return NA }

// Unavailable is returned by Resolve when any segment of a key path is
// missing, nil, or cannot be walked.
var Unavailable any = unavailable{}

// Resolve walks a dotted key path through nested records. Relation fields that
// hold an expanded document are walked into; a bare id only satisfies a path
// that ends on it. Numeric segments index into arrays.
func Resolve(rec model.Record, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if rec == nil || key == "" {
		return Unavailable, false
	}
	var cur any = rec
	for _, seg := range strings.Split(key, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return Unavailable, false
		}
		cur = next
	}
	return cur, true
}

func step(cur any, seg string) (any, bool) {
	if arr, ok := cur.([]any); ok {
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(arr) || arr[i] == nil {
			return nil, false
		}
		return arr[i], true
	}
	obj, ok := model.AsRecord(cur)
	if !ok {
		return nil, false
	}
	v, present := obj[seg]
	if !present || v == nil {
		return nil, false
	}
	return v, true
}

// ResolveString resolves a path and flattens it to a plain string, using the
// display name for nested documents. Missing values are "".
func ResolveString(rec model.Record, key string) string {
	v, ok := Resolve(rec, key)
	if !ok {
		return ""
	}
	return plain(v)
}

func plain(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, model.Record, model.Ref:
		return model.RefLabel(t)
	default:
		return stringify(t)
	}
}
