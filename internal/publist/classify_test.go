package publist

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		name         string
		typ          string
		note         string
		wantCategory string
		wantNote     string
	}{
		{"article", "article", "", "Journal Papers", ""},
		{"article with workshop note", "article", "Workshop on Robotics", "Journal Papers", "Workshop on Robotics"},
		{"inproceedings", "inproceedings", "Oral presentation", "Conference Papers", "Oral presentation"},
		{"conference", "conference", "", "Conference Papers", ""},
		{"workshop colon", "inproceedings", "Workshop: Robotics", "Workshop Papers", "Robotics"},
		{"workshop upper case", "conference", "WORKSHOP  Manipulation", "Workshop Papers", "Manipulation"},
		// The marker plus exactly one separator character is removed.
		{"workshop on", "inproceedings", "Workshop on Robotics", "Workshop Papers", "on Robotics"},
		{"bare marker", "inproceedings", "workshop", "Workshop Papers", ""},
		{"marker mid-note", "inproceedings", "RSS workshop", "Conference Papers", "RSS workshop"},
		{"techreport", "techreport", "CMU-RI-TR-12-34", "Technical Reports", "CMU-RI-TR-12-34"},
		{"type case", "Article", "", "Journal Papers", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rec(tt.typ, "k")
			if tt.note != "" {
				r = r.With("note", tt.note)
			}
			got, ok := c.Classify(r)
			if !ok {
				t.Fatalf("Classify() matched nothing")
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Note != tt.wantNote {
				t.Errorf("Note = %q, want %q", got.Note, tt.wantNote)
			}
		})
	}
}

func TestClassify_UnknownType(t *testing.T) {
	c := NewClassifier(DefaultRules())

	for _, typ := range []string{"misc", "phdthesis", "book", ""} {
		if got, ok := c.Classify(rec(typ, "k", "note", "workshop x")); ok {
			t.Errorf("Classify(%q) = %+v, want no match", typ, got)
		}
	}
}

func TestClassify_RuleOrder(t *testing.T) {
	c := NewClassifier([]Rule{
		{Category: "Everything", Types: []string{"article", "misc"}},
		{Category: "Never", Types: []string{"article"}},
	})

	got, ok := c.Classify(rec("article", "k"))
	if !ok || got.Category != "Everything" {
		t.Errorf("Classify() = %+v, %v; want first matching rule", got, ok)
	}
}
