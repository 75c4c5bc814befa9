package shop

import (
	"fmt"
	"strings"
)

// Price is an amount in minor currency units (cents). Floats are never used
// for money.
type Price int64

// String renders the price with two decimals, e.g. 1250 -> "12.50".
func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Book is a catalog entry. The shared stores treat it as immutable.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       Price  `json:"price"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description,omitempty"`
}

// Matches reports whether the book satisfies the filter. An empty or "all"
// category and an empty query match everything; the query is matched
// case-insensitively against title and author.
func (b Book) Matches(f Filter) bool {
	if f.CategoryID != "" && f.CategoryID != CategoryAll && b.CategoryID != f.CategoryID {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q)
}

// Filter narrows a catalog listing.
type Filter struct {
	CategoryID string
	Query      string
}

// FilterBooks returns the books matching f, preserving order.
func FilterBooks(books []Book, f Filter) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Matches(f) {
			out = append(out, b)
		}
	}
	return out
}
