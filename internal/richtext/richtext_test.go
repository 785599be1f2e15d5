package richtext

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// bracketFormatter renders markup as [name:...] so structure is visible.
type bracketFormatter struct{}

var errBadTag = errors.New("bad tag")

func (bracketFormatter) Escape(text string) string { return strings.ReplaceAll(text, "&", "+") }

func (bracketFormatter) Tag(name, text string) (string, error) {
	if name == "blink" {
		return "", errBadTag
	}
	return fmt.Sprintf("[%s:%s]", name, text), nil
}

func (bracketFormatter) HRef(url, label string) string { return fmt.Sprintf("[%s|%s]", label, url) }

func (bracketFormatter) Symbol(name string) (string, error) { return "<" + name + ">", nil }

func TestRender(t *testing.T) {
	text := New(
		String("A & B"),
		nil,
		Tag{Name: "em", Body: New(String("Journal"))},
		String(", 1"), NDash, String("2 "),
		HRef{URL: "a.pdf", Body: New(String("PDF"))},
	)

	got, err := text.Render(bracketFormatter{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "A + B[em:Journal], 1<ndash>2 [PDF|a.pdf]"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if p := text.Plain(); p != "A & BJournal, 1–2 PDF" {
		t.Errorf("Plain() = %q", p)
	}
}

func TestRender_TagError(t *testing.T) {
	text := New(Tag{Name: "strong", Body: New(Tag{Name: "blink", Body: New(String("x"))})})
	if _, err := text.Render(bracketFormatter{}); !errors.Is(err, errBadTag) {
		t.Errorf("Render() error = %v, want errBadTag", err)
	}
}

func TestAppend_DoesNotAlias(t *testing.T) {
	base := make(Text, 1, 4)
	base[0] = String("a")

	x := base.Append(String("x"))
	y := base.Append(String("y"))

	if x.Plain() != "ax" || y.Plain() != "ay" || len(base) != 1 {
		t.Errorf("Append aliased: base=%q x=%q y=%q", base.Plain(), x.Plain(), y.Plain())
	}
}

func TestJoin(t *testing.T) {
	got := Join(String(", "), New(String("a")), nil, Text{}, New(String("b")))
	if got.Plain() != "a, b" {
		t.Errorf("Join() = %q, want %q", got.Plain(), "a, b")
	}
	if !Join(String(", ")).IsEmpty() {
		t.Error("Join() of nothing should be empty")
	}
}
