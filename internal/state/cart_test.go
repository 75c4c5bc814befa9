package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

type bookIndex map[string]shop.Book

func (b bookIndex) LookupBook(id string) (shop.Book, bool) {
	book, ok := b[id]
	return book, ok
}

var (
	bookA = shop.Book{ID: "a", Title: "Dune", Price: 1000, CategoryID: "fiction"}
	bookB = shop.Book{ID: "b", Title: "Lean Startup", Price: 500, CategoryID: "business"}
)

func newTestCart() *CartStore {
	return NewCartStore(bookIndex{"a": bookA, "b": bookB}, nil, nil)
}

func TestCartStoreAddSameBookTwice(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	require.NoError(t, cart.AddItem(bookA, 2))
	require.NoError(t, cart.AddItem(bookA, 3))

	snap := cart.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, 5, snap.ItemCount)
}

func TestCartStoreTotalsAndClear(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	require.NoError(t, cart.AddItem(bookA, 1))
	require.NoError(t, cart.AddItem(bookB, 2))

	snap := cart.Snapshot()
	assert.Equal(t, shop.Price(2000), snap.Subtotal)
	assert.Equal(t, 3, snap.ItemCount)

	cart.Clear()
	snap = cart.Snapshot()
	assert.Zero(t, snap.ItemCount)
	assert.Zero(t, snap.Subtotal)
	assert.Empty(t, snap.Items)
}

func TestCartStoreRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	err := cart.AddItem(bookA, 0)
	assert.True(t, errors.Is(err, shop.ErrInvalidQuantity))

	err = cart.AddItem(shop.Book{ID: "ghost", Price: 1}, 1)
	assert.True(t, errors.Is(err, shop.ErrUnknownBook))

	err = cart.SetQuantity("a", 3)
	assert.True(t, errors.Is(err, shop.ErrItemNotFound))

	assert.True(t, cart.Snapshot().IsEmpty())
	assert.Zero(t, cart.Snapshot().Version, "rejected mutations must not bump the version")
}

func TestCartStoreUsesCatalogPrice(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	stale := bookA
	stale.Price = 1
	require.NoError(t, cart.AddItem(stale, 1))
	assert.Equal(t, shop.Price(1000), cart.Snapshot().Subtotal)
}

func TestCartStoreSetQuantityZeroEqualsRemove(t *testing.T) {
	t.Parallel()

	viaSet := newTestCart()
	viaRemove := newTestCart()
	for _, c := range []*CartStore{viaSet, viaRemove} {
		require.NoError(t, c.AddItem(bookA, 2))
		require.NoError(t, c.AddItem(bookB, 1))
	}

	require.NoError(t, viaSet.SetQuantity("a", 0))
	viaRemove.RemoveItem("a")

	assert.Equal(t, viaRemove.Snapshot(), viaSet.Snapshot())
}

func TestCartStoreRemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	require.NoError(t, cart.AddItem(bookA, 1))

	var notified int
	cart.Subscribe(func(shop.Cart) { notified++ })

	before := cart.Snapshot()
	cart.RemoveItem("b")
	assert.Equal(t, before, cart.Snapshot())
	assert.Zero(t, notified)
}

func TestCartStoreIncrementDecrement(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	require.NoError(t, cart.AddItem(bookA, 1))
	require.NoError(t, cart.Increment("a"))
	assert.Equal(t, 2, cart.Snapshot().ItemCount)

	require.NoError(t, cart.Decrement("a"))
	require.NoError(t, cart.Decrement("a"))
	assert.True(t, cart.Snapshot().IsEmpty())

	assert.True(t, errors.Is(cart.Decrement("a"), shop.ErrItemNotFound))
}

func TestCartStoreSubscriberSeesAppliedMutation(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	var seen []shop.Cart
	cart.Subscribe(func(delivered shop.Cart) {
		readBack := cart.Snapshot()
		assert.Equal(t, delivered, readBack)
		sum := 0
		for _, line := range readBack.Items {
			sum += line.Quantity
		}
		assert.Equal(t, sum, readBack.ItemCount)
		seen = append(seen, delivered)
	})

	require.NoError(t, cart.AddItem(bookA, 1))
	require.NoError(t, cart.AddItem(bookB, 2))
	require.NoError(t, cart.SetQuantity("a", 4))
	cart.RemoveItem("b")

	require.Len(t, seen, 4)
	assert.Equal(t, []int{1, 3, 6, 4}, []int{seen[0].ItemCount, seen[1].ItemCount, seen[2].ItemCount, seen[3].ItemCount})
	for i, snap := range seen {
		assert.Equal(t, uint64(i+1), snap.Version)
	}
}

func TestCartStoreReentrantMutationIsQueued(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	var versions []uint64
	cart.Subscribe(func(c shop.Cart) {
		versions = append(versions, c.Version)
		if c.Version == 1 {
			require.NoError(t, cart.AddItem(bookB, 1))
			// The nested notification has not been delivered yet.
			assert.Equal(t, []uint64{1}, versions)
		}
	})

	require.NoError(t, cart.AddItem(bookA, 1))
	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestCartStoreUnsubscribe(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	var calls int
	sub := cart.Subscribe(func(shop.Cart) { calls++ })
	require.NoError(t, cart.AddItem(bookA, 1))
	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, cart.AddItem(bookA, 1))

	assert.Equal(t, 1, calls)
}

func TestCartStoreConcurrentMutationsDeliverInOrder(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	var mu sync.Mutex
	var versions []uint64
	cart.Subscribe(func(c shop.Cart) {
		mu.Lock()
		versions = append(versions, c.Version)
		mu.Unlock()
	})

	const workers = 8
	const perWorker = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_ = cart.AddItem(bookA, 1)
			}
		}()
	}
	wg.Wait()

	snap := cart.Snapshot()
	assert.Equal(t, workers*perWorker, snap.ItemCount)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, versions, workers*perWorker)
	for i, v := range versions {
		require.Equal(t, uint64(i+1), v, "notifications must follow mutation order")
	}
}

func TestCartStoreSnapshotsAreIsolated(t *testing.T) {
	t.Parallel()

	cart := newTestCart()
	var delivered []shop.Cart
	cart.Subscribe(func(c shop.Cart) {
		c.Items[0].Quantity = 42
		delivered = append(delivered, c)
	})
	var siblingSaw []int
	cart.Subscribe(func(c shop.Cart) { siblingSaw = append(siblingSaw, c.Items[0].Quantity) })
	require.NoError(t, cart.AddItem(bookA, 1))

	snap := cart.Snapshot()
	snap.Items[0].Quantity = 99
	snap.Items[0].Book.Title = "Tampered"

	again := cart.Snapshot()
	require.Len(t, again.Items, 1)
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Equal(t, "Dune", again.Items[0].Book.Title)
	assert.Equal(t, 1, again.ItemCount)

	require.NoError(t, cart.Increment(bookA.ID))
	after := cart.Snapshot()
	assert.Equal(t, 2, after.Items[0].Quantity)
	assert.Equal(t, 2, after.ItemCount)
	assert.Equal(t, shop.Price(2000), after.Subtotal)
	require.Len(t, delivered, 2)
	assert.Equal(t, []int{1, 2}, siblingSaw)
}
