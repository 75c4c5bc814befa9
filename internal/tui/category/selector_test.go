package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

func selectedIDs(entries []Entry) []string {
	var ids []string
	for _, e := range entries {
		if e.Selected {
			ids = append(ids, e.Category.ID)
		}
	}
	return ids
}

func TestEntriesMarksExactlyOne(t *testing.T) {
	t.Parallel()

	cats := shop.Categories()
	entries := Entries(cats, "business")
	require.Len(t, entries, len(cats))
	assert.Equal(t, []string{"business"}, selectedIDs(entries))
	assert.Equal(t, shop.CategoryAll, entries[0].Category.ID)

	assert.Empty(t, selectedIDs(Entries(cats, "cookery")))
}

func TestSelectInvokesCallback(t *testing.T) {
	t.Parallel()

	cats := shop.Categories()
	selected := shop.CategoryAll
	var calls []string
	onSelect := func(id string) {
		calls = append(calls, id)
		selected = id
	}

	assert.True(t, Select(cats, "fiction", onSelect))
	assert.True(t, Select(cats, "fiction", onSelect))
	assert.Equal(t, "fiction", selected)
	assert.Equal(t, []string{"fiction", "fiction"}, calls)
	assert.Equal(t, Entries(cats, "fiction"), Entries(cats, selected))

	assert.False(t, Select(cats, "cookery", onSelect))
	assert.Equal(t, "fiction", selected)
	assert.True(t, Select(cats, "technology", nil))
}

func TestNextPrevWrap(t *testing.T) {
	t.Parallel()

	cats := shop.Categories()
	last := cats[len(cats)-1].ID

	assert.Equal(t, "fiction", Next(cats, shop.CategoryAll))
	assert.Equal(t, shop.CategoryAll, Next(cats, last))
	assert.Equal(t, last, Prev(cats, shop.CategoryAll))
	assert.Equal(t, shop.CategoryAll, Prev(cats, "fiction"))
	assert.Equal(t, shop.CategoryAll, Next(cats, "unknown"))
	assert.Equal(t, "x", Next(nil, "x"))

	id := shop.CategoryAll
	for range cats {
		id = Next(cats, id)
	}
	assert.Equal(t, shop.CategoryAll, id, "a full cycle returns to the start")
}

func TestFilter(t *testing.T) {
	t.Parallel()

	books := []shop.Book{
		{ID: "1", CategoryID: "fiction"},
		{ID: "2", CategoryID: "business"},
		{ID: "3", CategoryID: "fiction"},
	}
	assert.Len(t, Filter(books, shop.CategoryAll), 3)
	assert.Len(t, Filter(books, ""), 3)

	fiction := Filter(books, "fiction")
	require.Len(t, fiction, 2)
	assert.Equal(t, "1", fiction[0].ID)
	assert.Equal(t, "3", fiction[1].ID)
	assert.Empty(t, Filter(books, "education"))
}
