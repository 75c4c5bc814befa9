package ports

import (
	"context"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

// CatalogService lists books. It is read-only; nothing in the client mutates
// the catalog.
type CatalogService interface {
	ListBooks(ctx context.Context, filter shop.Filter) ([]shop.Book, error)
}

// BookIndex resolves a book id to its catalog entry without suspending. The
// cart store uses it to reject unknown books.
type BookIndex interface {
	LookupBook(id string) (shop.Book, bool)
}
