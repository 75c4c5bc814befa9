package shop

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bookA = Book{ID: "a", Title: "A", Price: 1000, CategoryID: "fiction"}
	bookB = Book{ID: "b", Title: "B", Price: 500, CategoryID: "business"}
	bookC = Book{ID: "c", Title: "C", Price: 1999, CategoryID: "education"}
)

func TestAddLineMergesRepeatedBook(t *testing.T) {
	t.Parallel()

	items, err := AddLine(nil, bookA, 2)
	require.NoError(t, err)
	items, err = AddLine(items, bookA, 3)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddLineKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	items, _ := AddLine(nil, bookA, 1)
	items, _ = AddLine(items, bookB, 1)
	items, _ = AddLine(items, bookA, 4)

	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Book.ID)
	assert.Equal(t, "b", items[1].Book.ID)
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -1} {
		_, err := AddLine(nil, bookA, qty)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidQuantity))
	}
}

func TestAddLineDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items, _ := AddLine(nil, bookA, 1)
	_, err := AddLine(items, bookA, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveLineAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	items, _ := AddLine(nil, bookA, 1)
	out, removed := RemoveLine(items, "missing")
	assert.False(t, removed)
	assert.Equal(t, items, out)
}

func TestSetLineQuantity(t *testing.T) {
	t.Parallel()

	items, _ := AddLine(nil, bookA, 1)

	_, _, err := SetLineQuantity(items, "b", 2)
	assert.True(t, errors.Is(err, ErrItemNotFound))

	out, changed, err := SetLineQuantity(items, "a", 7)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 7, out[0].Quantity)
	assert.Equal(t, 1, items[0].Quantity)

	out, changed, err = SetLineQuantity(items, "a", 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, out)

	_, changed, err = SetLineQuantity(items, "b", 0)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestNewCartDerivesTotals(t *testing.T) {
	t.Parallel()

	items := []LineItem{{Book: bookA, Quantity: 1}, {Book: bookB, Quantity: 2}}
	cart := NewCart(items, 3)

	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, Price(2000), cart.Subtotal)
	assert.Equal(t, uint64(3), cart.Version)

	items[0].Quantity = 99
	assert.Equal(t, 1, cart.Items[0].Quantity, "snapshot must not alias caller slice")

	empty := NewCart(nil, 4)
	assert.True(t, empty.IsEmpty())
	assert.Zero(t, empty.ItemCount)
	assert.Zero(t, empty.Subtotal)
}

func TestCartTotalsSaturate(t *testing.T) {
	t.Parallel()

	pricey := Book{ID: "p", Title: "P", Price: Price(math.MaxInt64 / 2), CategoryID: "fiction"}
	line := LineItem{Book: pricey, Quantity: 3}
	assert.Equal(t, Price(math.MaxInt64), line.Total())

	cart := NewCart([]LineItem{{Book: pricey, Quantity: 1}, {Book: pricey, Quantity: 1}, {Book: bookA, Quantity: 1}}, 1)
	assert.Equal(t, Price(math.MaxInt64), cart.Subtotal)
	assert.Equal(t, 3, cart.ItemCount)
}

func TestCartCloneSharesNothing(t *testing.T) {
	t.Parallel()

	cart := NewCart([]LineItem{{Book: bookA, Quantity: 1}}, 1)
	clone := cart.Clone()
	clone.Items[0].Quantity = 7
	assert.Equal(t, 1, cart.Items[0].Quantity)

	state := AuthState{Status: Authenticated, User: &User{ID: "1", Name: "Ann"}}
	copied := state.Clone()
	copied.User.Name = "Bea"
	assert.Equal(t, "Ann", state.User.Name)
	assert.Nil(t, AuthState{}.Clone().User)
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	books := []Book{bookA, bookB, bookC}
	var items []LineItem

	for i := 0; i < 500; i++ {
		b := books[rng.Intn(len(books))]
		switch rng.Intn(3) {
		case 0:
			if next, err := AddLine(items, b, rng.Intn(4)); err == nil {
				items = next
			}
		case 1:
			items, _ = RemoveLine(items, b.ID)
		case 2:
			if next, _, err := SetLineQuantity(items, b.ID, rng.Intn(5)-1); err == nil {
				items = next
			}
		}

		cart := NewCart(items, uint64(i))
		seen := map[string]bool{}
		sum := 0
		for _, line := range cart.Items {
			require.False(t, seen[line.Book.ID], "duplicate line for %s", line.Book.ID)
			require.Positive(t, line.Quantity)
			seen[line.Book.ID] = true
			sum += line.Quantity
		}
		require.Equal(t, sum, cart.ItemCount)
	}
}
