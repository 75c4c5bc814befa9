package state

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

// CartStore is the sole owner of the cart. Every mutation builds a complete
// new snapshot under the lock, so readers and subscribers never observe a
// line item whose totals have not been recomputed.
type CartStore struct {
	mu   sync.Mutex
	snap shop.Cart

	books     ports.BookIndex
	logger    ports.Logger
	publisher ports.EventPublisher
	subs      broadcaster[shop.Cart]
}

// NewCartStore creates an empty cart. books may be nil, in which case every
// book is accepted.
func NewCartStore(books ports.BookIndex, logger ports.Logger, publisher ports.EventPublisher) *CartStore {
	return &CartStore{
		books:     books,
		logger:    componentLogger(logger, "cart_store"),
		publisher: publisher,
		subs:      broadcaster[shop.Cart]{clone: shop.Cart.Clone},
	}
}

// Snapshot returns a copy of the current cart view.
func (s *CartStore) Snapshot() shop.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers fn for every applied cart mutation.
func (s *CartStore) Subscribe(fn func(shop.Cart)) ports.Subscription {
	return s.subs.subscribe(fn)
}

// AddItem adds qty copies of book. A repeated book increments the existing
// line instead of appending a second one. The catalog's entry for book.ID is
// stored so the price comes from the catalog.
func (s *CartStore) AddItem(book shop.Book, qty int) error {
	if qty <= 0 {
		return s.reject("add", shop.NewError(shop.ErrCodeInvalidQuantity, "quantity must be positive", nil, map[string]interface{}{
			"book_id": book.ID, "quantity": qty,
		}))
	}
	if s.books != nil {
		known, ok := s.books.LookupBook(book.ID)
		if !ok {
			return s.reject("add", shop.UnknownBookError(book.ID))
		}
		book = known
	}

	return s.mutate("add", book.ID, func(items []shop.LineItem) ([]shop.LineItem, bool, error) {
		next, err := shop.AddLine(items, book, qty)
		return next, err == nil, err
	})
}

// RemoveItem deletes the line for bookID. Removing an absent book is a no-op
// and does not notify.
func (s *CartStore) RemoveItem(bookID string) {
	_ = s.mutate("remove", bookID, func(items []shop.LineItem) ([]shop.LineItem, bool, error) {
		next, removed := shop.RemoveLine(items, bookID)
		return next, removed, nil
	})
}

// SetQuantity sets the quantity of an existing line. qty <= 0 behaves as
// RemoveItem; a missing line fails with ItemNotFound.
func (s *CartStore) SetQuantity(bookID string, qty int) error {
	return s.mutate("set_quantity", bookID, func(items []shop.LineItem) ([]shop.LineItem, bool, error) {
		return shop.SetLineQuantity(items, bookID, qty)
	})
}

// Increment adds one to an existing line.
func (s *CartStore) Increment(bookID string) error {
	return s.mutate("increment", bookID, func(items []shop.LineItem) ([]shop.LineItem, bool, error) {
		line, ok := shop.NewCart(items, 0).Line(bookID)
		if !ok {
			return nil, false, shop.NewError(shop.ErrCodeItemNotFound, "book is not in the cart", nil, map[string]interface{}{"book_id": bookID})
		}
		return shop.SetLineQuantity(items, bookID, line.Quantity+1)
	})
}

// Decrement removes one from an existing line; the line disappears when its
// quantity reaches zero.
func (s *CartStore) Decrement(bookID string) error {
	return s.mutate("decrement", bookID, func(items []shop.LineItem) ([]shop.LineItem, bool, error) {
		line, ok := shop.NewCart(items, 0).Line(bookID)
		if !ok {
			return nil, false, shop.NewError(shop.ErrCodeItemNotFound, "book is not in the cart", nil, map[string]interface{}{"book_id": bookID})
		}
		return shop.SetLineQuantity(items, bookID, line.Quantity-1)
	})
}

// Clear empties the cart. Clearing an empty cart does not notify.
func (s *CartStore) Clear() {
	_ = s.mutate("clear", "", func(items []shop.LineItem) ([]shop.LineItem, bool, error) {
		return nil, len(items) > 0, nil
	})
}

// mutate applies op atomically. op returns the new line items, whether
// anything changed, and an error; on error or no change the snapshot is left
// untouched and nobody is notified.
func (s *CartStore) mutate(action, bookID string, op func([]shop.LineItem) ([]shop.LineItem, bool, error)) error {
	s.mu.Lock()
	next, changed, err := op(s.snap.Items)
	if err != nil {
		s.mu.Unlock()
		return s.reject(action, err)
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.snap = shop.NewCart(next, s.snap.Version+1)
	snap := s.snap
	s.subs.enqueue(snap)
	s.mu.Unlock()

	s.logger.Debug(context.Background(), "cart updated",
		"action", action,
		"book_id", bookID,
		"item_count", snap.ItemCount,
		"subtotal", snap.Subtotal.String(),
		"version", snap.Version,
	)
	s.subs.drain()
	publish(s.publisher, ports.EventCartChanged, map[string]interface{}{
		"action":     action,
		"item_count": snap.ItemCount,
		"subtotal":   snap.Subtotal.String(),
		"version":    snap.Version,
	})
	return nil
}

func (s *CartStore) reject(action string, err error) error {
	s.logger.Debug(context.Background(), "cart mutation rejected", "action", action, "error", err)
	return err
}
