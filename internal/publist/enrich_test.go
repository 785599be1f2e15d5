package publist

import (
	"testing"

	"github.com/matsen/pubpage/internal/richtext"
)

func TestEnrich_NoLink(t *testing.T) {
	for _, fields := range [][]string{nil, {"howpublished", ""}, {"howpublished", "   "}} {
		in := entry(rec("article", "k", fields...))
		out := Enrich(in, "howpublished")
		if len(out.Citation) != len(in.Citation) {
			t.Errorf("Enrich(%v) changed citation: %v", fields, out.Citation)
		}
	}
}

func TestEnrich_DoesNotAliasInput(t *testing.T) {
	base := make(richtext.Text, 1, 8)
	base[0] = richtext.String("text")
	in := Entry{Record: rec("article", "k", "howpublished", "http://a/b.pdf"), Citation: base}

	first := Enrich(in, "howpublished")
	second := Enrich(in, "howpublished")

	if len(in.Citation) != 1 {
		t.Fatalf("input citation grew to %d nodes", len(in.Citation))
	}
	if len(first.Citation) != 3 || len(second.Citation) != 3 {
		t.Fatalf("enriched lengths = %d, %d; want 3", len(first.Citation), len(second.Citation))
	}
	href, ok := first.Citation[2].(richtext.HRef)
	if !ok || href.URL != "http://a/b.pdf" || href.Body.Plain() != "PDF" {
		t.Errorf("last node = %#v, want PDF link", first.Citation[2])
	}
}
