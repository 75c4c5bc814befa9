package shop

import "math"

// LineItem is one (book, quantity) pair of a cart. Quantity is always > 0.
type LineItem struct {
	Book     Book
	Quantity int
}

// Total returns quantity * unit price, saturating at the largest Price.
func (l LineItem) Total() Price {
	q, p := int64(l.Quantity), int64(l.Book.Price)
	if q <= 0 || p <= 0 {
		return Price(q * p)
	}
	if q > math.MaxInt64/p {
		return Price(math.MaxInt64)
	}
	return Price(q * p)
}

// Cart is an immutable, internally consistent view of the cart. ItemCount and
// Subtotal are always derived from Items by NewCart.
type Cart struct {
	Items     []LineItem
	ItemCount int
	Subtotal  Price
	Version   uint64
}

// NewCart builds a snapshot from items, deriving the totals. The slice is
// copied so later edits by the caller cannot leak into the snapshot.
func NewCart(items []LineItem, version uint64) Cart {
	c := Cart{Version: version}
	if len(items) > 0 {
		c.Items = make([]LineItem, len(items))
		copy(c.Items, items)
	}
	for _, item := range c.Items {
		c.ItemCount += item.Quantity
		c.Subtotal = addPrice(c.Subtotal, item.Total())
	}
	return c
}

// Clone returns a copy of c that shares no memory with it.
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]LineItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Line returns the line for bookID.
func (c Cart) Line(bookID string) (LineItem, bool) {
	if i := indexOf(c.Items, bookID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// AddLine merges qty of book into items. Existing lines keep their position;
// new lines are appended. The input slice is never modified.
func AddLine(items []LineItem, book Book, qty int) ([]LineItem, error) {
	if qty <= 0 {
		return nil, newInvalidQuantityError(book.ID, qty)
	}
	out := cloneLines(items, 1)
	if i := indexOf(out, book.ID); i >= 0 {
		out[i].Quantity += qty
		return out, nil
	}
	return append(out, LineItem{Book: book, Quantity: qty}), nil
}

// RemoveLine drops the line for bookID. The boolean reports whether a line
// was removed; when false the input slice is returned unchanged.
func RemoveLine(items []LineItem, bookID string) ([]LineItem, bool) {
	i := indexOf(items, bookID)
	if i < 0 {
		return items, false
	}
	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

// SetLineQuantity sets the quantity of an existing line. qty <= 0 removes the
// line and never fails, even when the line is absent.
func SetLineQuantity(items []LineItem, bookID string, qty int) ([]LineItem, bool, error) {
	if qty <= 0 {
		out, removed := RemoveLine(items, bookID)
		return out, removed, nil
	}
	i := indexOf(items, bookID)
	if i < 0 {
		return nil, false, newItemNotFoundError(bookID)
	}
	if items[i].Quantity == qty {
		return items, false, nil
	}
	out := cloneLines(items, 0)
	out[i].Quantity = qty
	return out, true, nil
}

func indexOf(items []LineItem, bookID string) int {
	for i := range items {
		if items[i].Book.ID == bookID {
			return i
		}
	}
	return -1
}

func cloneLines(items []LineItem, extra int) []LineItem {
	out := make([]LineItem, len(items), len(items)+extra)
	copy(out, items)
	return out
}

func addPrice(a, b Price) Price {
	if b > 0 && a > Price(math.MaxInt64)-b {
		return Price(math.MaxInt64)
	}
	return a + b
}
