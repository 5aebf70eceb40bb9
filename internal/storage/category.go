package storage

// Category is a fixed bucket that notes are filed under. Its value is the
// stable label, which is also the persisted form.
type Category string

const (
	CategoryInbox Category = "Inbox"
	CategoryWords Category = "Words"
	CategoryIdeas Category = "Ideas"
	CategoryTrip  Category = "Trip"
)

// AllCategories is the canonical tab order.
var AllCategories = []Category{
	CategoryInbox,
	CategoryWords,
	CategoryIdeas,
	CategoryTrip,
}

// IndexOf returns the position of c in AllCategories, or -1 for a label that
// is not part of the registry.
func IndexOf(c Category) int {
	for i, cat := range AllCategories {
		if cat == c {
			return i
		}
	}
	return -1
}

// Index returns the position of c in AllCategories. Unknown categories map
// to the first tab.
func (c Category) Index() int {
	if i := IndexOf(c); i >= 0 {
		return i
	}
	return 0
}

// At returns the category at position i, clamped to the registry bounds.
func At(i int) Category {
	if i < 0 {
		i = 0
	}
	if i >= len(AllCategories) {
		i = len(AllCategories) - 1
	}
	return AllCategories[i]
}

// ParseCategory resolves a persisted label.
func ParseCategory(label string) (Category, bool) {
	c := Category(label)
	return c, IndexOf(c) >= 0
}

// Label returns the display label.
func (c Category) Label() string {
	return string(c)
}

// Emoji returns the tab icon for a category.
func (c Category) Emoji() string {
	switch c {
	case CategoryInbox:
		return "📥"
	case CategoryWords:
		return "📝"
	case CategoryIdeas:
		return "💡"
	case CategoryTrip:
		return "🧳"
	default:
		return "•"
	}
}

// CategoryLabel returns a human-friendly label for a category.
func CategoryLabel(cat Category) string {
	return cat.Emoji() + " " + cat.Label()
}
