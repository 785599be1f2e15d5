package backend

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/matsen/pubpage/internal/publist"
	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/richtext"
)

func TestHTMLEscape(t *testing.T) {
	got := HTML{}.Escape(`Fish & Chips <b>`)
	want := "Fish &amp; Chips &lt;b&gt;"
	if got != want {
		t.Errorf("Escape() = %q, want %q", got, want)
	}
}

func TestHTMLTag(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"em", "<em>x</em>"},
		{"emph", "<em>x</em>"},
		{"strong", "<strong>x</strong>"},
	}
	for _, tt := range tests {
		got, err := HTML{}.Tag(tt.name, "x")
		if err != nil {
			t.Fatalf("Tag(%q) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Tag(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, err := (HTML{}).Tag("blink", "x"); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("Tag(blink) error = %v, want ErrUnknownTag", err)
	}
}

func TestHTMLHRef(t *testing.T) {
	tests := []struct {
		url, label, want string
	}{
		{"http://x/y.pdf", "PDF", `<a href="http://x/y.pdf" class="pdf">PDF</a>`},
		{"https://doi.org/10.1/2", "doi:10.1/2", `<a href="https://doi.org/10.1/2" class="doi">doi:10.1/2</a>`},
		{"http://x", "pdf", `<a href="http://x">pdf</a>`},
		{"http://x", "Project page", `<a href="http://x">Project page</a>`},
		{"http://x?a=1&b=2", "site", `<a href="http://x?a=1&amp;b=2">site</a>`},
	}
	for _, tt := range tests {
		if got := (HTML{}).HRef(tt.url, tt.label); got != tt.want {
			t.Errorf("HRef(%q, %q) = %q, want %q", tt.url, tt.label, got, tt.want)
		}
	}
}

func block(category string, texts ...richtext.Text) publist.Block {
	b := publist.Block{Category: category}
	for i, text := range texts {
		b.Entries = append(b.Entries, publist.Entry{
			Record:   reference.Record{Type: "article", Key: category + string(rune('a'+i))},
			Citation: text,
		})
	}
	return b
}

// countElements parses an HTML fragment and counts elements by tag name.
func countElements(t *testing.T, fragment string) map[string]int {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	counts := make(map[string]int)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			counts[n.Data]++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return counts
}

func TestWriteToStream_HTML(t *testing.T) {
	blocks := []publist.Block{
		block("Journal Papers",
			richtext.Text{richtext.String("A & B")},
			richtext.Text{richtext.Tag{Name: "em", Body: richtext.Text{richtext.String("Nature")}}},
		),
		block("Technical Reports", richtext.Text{
			richtext.String("Report"),
			richtext.String(" "),
			richtext.HRef{URL: "http://x/y.pdf", Body: richtext.Text{richtext.String("PDF")}},
		}),
	}

	var buf bytes.Buffer
	if err := WriteToStream(&buf, HTML{}, blocks); err != nil {
		t.Fatalf("WriteToStream() error = %v", err)
	}
	got := buf.String()

	want := "<h2>Journal Papers</h2>\n<ul>\n" +
		"<li>A &amp; B</li>\n" +
		"<li><em>Nature</em></li>\n" +
		"</ul>\n" +
		"<h2>Technical Reports</h2>\n<ul>\n" +
		`<li>Report <a href="http://x/y.pdf" class="pdf">PDF</a></li>` + "\n" +
		"</ul>\n"
	if got != want {
		t.Errorf("WriteToStream() =\n%s\nwant\n%s", got, want)
	}

	counts := countElements(t, got)
	if counts["h2"] != 2 || counts["ul"] != 2 || counts["li"] != 3 || counts["a"] != 1 {
		t.Errorf("element counts = %v", counts)
	}
}

func TestWriteToStream_EscapesHeadingButNotEntries(t *testing.T) {
	blocks := []publist.Block{
		block("Papers <&>", richtext.Text{richtext.Tag{Name: "strong", Body: richtext.Text{richtext.String("<x>")}}}),
	}

	var buf bytes.Buffer
	if err := WriteToStream(&buf, HTML{}, blocks); err != nil {
		t.Fatalf("WriteToStream() error = %v", err)
	}
	got := buf.String()

	if !strings.Contains(got, "<h2>Papers &lt;&amp;&gt;</h2>") {
		t.Errorf("heading not escaped: %s", got)
	}
	if !strings.Contains(got, "<li><strong>&lt;x&gt;</strong></li>") {
		t.Errorf("entry escaped incorrectly: %s", got)
	}
	if strings.Contains(got, "&amp;lt;") {
		t.Errorf("entry escaped twice: %s", got)
	}
}

func TestWriteToStream_UnknownTagFails(t *testing.T) {
	blocks := []publist.Block{
		block("Papers", richtext.Text{richtext.Tag{Name: "marquee", Body: richtext.Text{richtext.String("x")}}}),
	}
	err := WriteToStream(&bytes.Buffer{}, HTML{}, blocks)
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("WriteToStream() error = %v, want ErrUnknownTag", err)
	}
}

func TestWriteToStream_NoBlocks(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteToStream(&buf, HTML{}, nil); err != nil {
		t.Fatalf("WriteToStream() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("WriteToStream(nil) wrote %q", buf.String())
	}
}
