package docs

import (
	"strings"
	"testing"
)

func TestTopics_ListsEmbeddedContent(t *testing.T) {
	got := strings.Join(Topics(), ",")
	for _, want := range []string{"config", "devserver", "keys", "overview", "pages"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected topic %q in %q", want, got)
		}
	}
}

func TestGet(t *testing.T) {
	md, ok := Get(" Keys ")
	if !ok || !strings.Contains(md, "# Keys") {
		t.Fatalf("expected keys topic, got ok=%v %q", ok, md)
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("expected path traversal to be rejected")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("expected empty topic to be rejected")
	}
}
