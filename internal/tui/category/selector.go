// Package category renders the category list and tracks which one is
// highlighted. It holds no state of its own: the selected id belongs to the
// caller and every helper takes it as an argument.
package category

import "github.com/alexisbeaulieu97/shelf/internal/domain/shop"

// Entry is one row of the rendered list.
type Entry struct {
	Category shop.Category
	Selected bool
}

// Entries marks the category whose id equals selectedID. An unknown id
// selects nothing, exactly one entry is selected otherwise.
func Entries(categories []shop.Category, selectedID string) []Entry {
	out := make([]Entry, len(categories))
	for i, c := range categories {
		out[i] = Entry{Category: c, Selected: c.ID == selectedID}
	}
	return out
}

// Select reports id to onSelect when it names one of categories. Selecting
// the already selected id calls onSelect again with the same id, which
// leaves the caller's state unchanged.
func Select(categories []shop.Category, id string, onSelect func(string)) bool {
	if indexOf(categories, id) < 0 {
		return false
	}
	if onSelect != nil {
		onSelect(id)
	}
	return true
}

// Next returns the id after selectedID, wrapping at the end. An unknown id
// moves to the first category.
func Next(categories []shop.Category, selectedID string) string {
	return step(categories, selectedID, 1)
}

// Prev returns the id before selectedID, wrapping at the start.
func Prev(categories []shop.Category, selectedID string) string {
	return step(categories, selectedID, -1)
}

// Filter returns the books in categoryID; "all" and "" keep every book.
func Filter(books []shop.Book, categoryID string) []shop.Book {
	return shop.FilterBooks(books, shop.Filter{CategoryID: categoryID})
}

func step(categories []shop.Category, selectedID string, delta int) string {
	if len(categories) == 0 {
		return selectedID
	}
	i := indexOf(categories, selectedID)
	if i < 0 {
		return categories[0].ID
	}
	n := len(categories)
	return categories[((i+delta)%n+n)%n].ID
}

func indexOf(categories []shop.Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
