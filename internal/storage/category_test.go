package storage

import "testing"

func TestCategoryIndex(t *testing.T) {
	for i, c := range AllCategories {
		if c.Index() != i || IndexOf(c) != i {
			t.Errorf("%s: Index() = %d, IndexOf = %d, want %d", c, c.Index(), IndexOf(c), i)
		}
		if At(i) != c {
			t.Errorf("At(%d) = %s, want %s", i, At(i), c)
		}
	}
	if IndexOf("Work") != -1 {
		t.Error("unknown category should not be found")
	}
}

func TestAt_Clamps(t *testing.T) {
	if At(-3) != CategoryInbox {
		t.Errorf("At(-3) = %s, want Inbox", At(-3))
	}
	if At(99) != CategoryTrip {
		t.Errorf("At(99) = %s, want Trip", At(99))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		label string
		want  Category
		ok    bool
	}{
		{"Inbox", CategoryInbox, true},
		{"Trip", CategoryTrip, true},
		{"inbox", "inbox", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.label)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q, %v", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryLabel(CategoryIdeas); got != "💡 Ideas" {
		t.Errorf("CategoryLabel(Ideas) = %q", got)
	}
}
