package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12.50", Price(1250).String())
	assert.Equal(t, "0.05", Price(5).String())
	assert.Equal(t, "-1.00", Price(-100).String())
}

func TestFilterBooks(t *testing.T) {
	t.Parallel()

	books := []Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", CategoryID: "fiction"},
		{ID: "2", Title: "The Lean Startup", Author: "Eric Ries", CategoryID: "business"},
		{ID: "3", Title: "Go in Action", Author: "Kennedy", CategoryID: "technology"},
	}

	assert.Len(t, FilterBooks(books, Filter{}), 3)
	assert.Len(t, FilterBooks(books, Filter{CategoryID: CategoryAll}), 3)

	got := FilterBooks(books, Filter{CategoryID: "business"})
	assert.Equal(t, []Book{books[1]}, got)

	got = FilterBooks(books, Filter{Query: "  herbert "})
	assert.Equal(t, []Book{books[0]}, got)

	assert.Empty(t, FilterBooks(books, Filter{CategoryID: "fiction", Query: "go"}))
}

func TestCategories(t *testing.T) {
	t.Parallel()

	cats := Categories()
	assert.Equal(t, CategoryAll, cats[0].ID)
	assert.Len(t, cats, 7)
	assert.True(t, IsKnownCategory("self-help"))
	assert.False(t, IsKnownCategory("poetry"))

	cats[0].ID = "mutated"
	assert.Equal(t, CategoryAll, Categories()[0].ID)
}
