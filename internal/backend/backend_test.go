package backend

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matsen/pubpage/internal/publist"
	"github.com/matsen/pubpage/internal/richtext"
)

func TestFind(t *testing.T) {
	for _, name := range Names() {
		b, err := Find(name)
		if err != nil {
			t.Fatalf("Find(%q) error = %v", name, err)
		}
		if b.Name() != name {
			t.Errorf("Find(%q).Name() = %q", name, b.Name())
		}
	}

	if _, err := Find("latex"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Find(latex) error = %v, want ErrUnknownBackend", err)
	}
}

func TestMarkdown(t *testing.T) {
	m := Markdown{Attributes: true}

	if got := m.Escape("a*b_c [d]"); got != `a\*b\_c \[d\]` {
		t.Errorf("Escape() = %q", got)
	}
	if got, _ := m.Tag("em", "Nature"); got != "*Nature*" {
		t.Errorf("Tag(em) = %q", got)
	}
	if _, err := m.Tag("sup", "x"); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("Tag(sup) error = %v, want ErrUnknownTag", err)
	}
	if got := m.HRef("http://x/y.pdf", "PDF"); got != "[PDF](http://x/y.pdf){: .pdf}" {
		t.Errorf("HRef(PDF) = %q", got)
	}
	if got := m.HRef("http://x", "site"); got != "[site](http://x)" {
		t.Errorf("HRef(site) = %q", got)
	}
	if got := (Markdown{}).HRef("http://x/y.pdf", "PDF"); got != "[PDF](http://x/y.pdf)" {
		t.Errorf("HRef without attributes = %q", got)
	}
}

func TestText(t *testing.T) {
	blocks := []publist.Block{
		block("Journal Papers", richtext.Text{
			richtext.String("A <b>"),
			richtext.Symbol("ndash"),
			richtext.HRef{URL: "https://doi.org/1", Body: richtext.Text{richtext.String("doi:1")}},
		}),
	}

	var buf bytes.Buffer
	if err := WriteToStream(&buf, Text{}, blocks); err != nil {
		t.Fatalf("WriteToStream() error = %v", err)
	}

	want := "Journal Papers\n==============\n\n[1] A <b>–[doi:1] <https://doi.org/1>\n\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteToStream() = %q, want %q", got, want)
	}
}

func TestWriteToStream_LabelsRunAcrossBlocks(t *testing.T) {
	blocks := []publist.Block{
		block("A", richtext.Text{richtext.String("x")}, richtext.Text{richtext.String("y")}),
		block("B", richtext.Text{richtext.String("z")}),
	}

	var buf bytes.Buffer
	if err := WriteToStream(&buf, Text{}, blocks); err != nil {
		t.Fatalf("WriteToStream() error = %v", err)
	}
	for _, want := range []string{"[1] x", "[2] y", "[3] z"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
