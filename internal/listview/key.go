package listview

import (
	"time"

	"golang.org/x/text/collate"
)

type keyKind int

const (
	keyString keyKind = iota
	keyNumber
	keyTime
)

// Key is the comparable value a page extracts from a record for the active
// sort option.
type Key struct {
	kind keyKind
	s    string
	n    float64
	t    time.Time
}

func StringKey(s string) Key { return Key{kind: keyString, s: s} }

func NumberKey(n float64) Key { return Key{kind: keyNumber, n: n} }

// TimeKey uses the Unix epoch for the zero time so missing dates sort first.
func TimeKey(t time.Time) Key {
	if t.IsZero() {
		t = time.Unix(0, 0).UTC()
	}
	return Key{kind: keyTime, t: t}
}

func compareKeys(c *collate.Collator, a, b Key) int {
	if a.kind != b.kind {
		// Extractors are per sort option, so mixed kinds only happen with a
		// buggy extractor. Order by kind to stay deterministic.
		return int(a.kind) - int(b.kind)
	}
	switch a.kind {
	case keyNumber:
		return sign(a.n - b.n)
	case keyTime:
		return sign(float64(a.t.Sub(b.t)))
	default:
		return c.CompareString(a.s, b.s)
	}
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}
