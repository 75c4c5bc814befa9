package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	cfgpkg "github.com/alexisbeaulieu97/shelf/internal/config"
	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	shelferrors "github.com/alexisbeaulieu97/shelf/pkg/errors"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

const builtinSource = "<built-in>"

var (
	yamlLineRegex = regexp.MustCompile(`line (\d+)`)
	pricePattern  = regexp.MustCompile(`^\d{1,9}(\.\d{1,2})?$`)
)

type fileDTO struct {
	Books []bookDTO `yaml:"books" validate:"required,min=1,dive"`
}

type bookDTO struct {
	ID          string `yaml:"id" validate:"required,max=64"`
	Title       string `yaml:"title" validate:"required,max=200"`
	Author      string `yaml:"author" validate:"required,max=120"`
	Price       string `yaml:"price" validate:"required"`
	Category    string `yaml:"category" validate:"required,category"`
	Description string `yaml:"description" validate:"max=2000"`
}

// Catalog is an in-memory, read-only book list. It serves both
// ports.CatalogService and ports.BookIndex.
type Catalog struct {
	books  []shop.Book
	index  map[string]int
	source string
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(ctx context.Context, path string, logger ports.Logger) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, source := defaultCatalog, builtinSource
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, shelferrors.NewParseError(path, 0, err)
		}
		data, source = raw, path
	}

	books, err := Parse(data, source)
	if err != nil {
		if logger != nil {
			logger.Error(ctx, "catalog rejected", "source", source, "error", err)
		}
		return nil, err
	}
	c, err := New(books)
	if err != nil {
		return nil, err
	}
	c.source = source
	if logger != nil {
		logger.Info(ctx, "catalog loaded", "source", source, "books", len(books))
	}
	return c, nil
}

// Parse decodes and validates catalog YAML. Errors are *errors.ParseError
// for malformed YAML and *errors.ValidationError for bad entries.
func Parse(data []byte, source string) ([]shop.Book, error) {
	var file fileDTO
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, shelferrors.NewParseError(source, extractLine(err), err)
	}
	if err := cfgpkg.GetValidator().Struct(file); err != nil {
		return nil, cfgpkg.ConvertValidationError(err, "")
	}

	books := make([]shop.Book, 0, len(file.Books))
	for i, dto := range file.Books {
		price, err := ParsePrice(dto.Price)
		if err != nil {
			field := cfgpkg.FieldForIndex("books", i) + ".price"
			return nil, shelferrors.NewValidationError(field, err.Error(), err)
		}
		books = append(books, shop.Book{
			ID:          dto.ID,
			Title:       strings.TrimSpace(dto.Title),
			Author:      strings.TrimSpace(dto.Author),
			Price:       price,
			CategoryID:  dto.Category,
			Description: strings.TrimSpace(dto.Description),
		})
	}
	return books, nil
}

// New indexes books, rejecting duplicate ids and negative prices.
func New(books []shop.Book) (*Catalog, error) {
	c := &Catalog{
		books: make([]shop.Book, len(books)),
		index: make(map[string]int, len(books)),
	}
	copy(c.books, books)
	for i, b := range c.books {
		field := cfgpkg.FieldForIndex("books", i)
		if _, dup := c.index[b.ID]; dup {
			return nil, shelferrors.NewValidationError(field+".id", fmt.Sprintf("duplicate book id %q", b.ID), nil)
		}
		if b.Price < 0 {
			return nil, shelferrors.NewValidationError(field+".price", "price must not be negative", nil)
		}
		c.index[b.ID] = i
	}
	return c, nil
}

// ListBooks returns the books matching f in catalog order.
func (c *Catalog) ListBooks(ctx context.Context, f shop.Filter) ([]shop.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return shop.FilterBooks(c.books, f), nil
}

// LookupBook finds a book by id.
func (c *Catalog) LookupBook(id string) (shop.Book, bool) {
	i, ok := c.index[id]
	if !ok {
		return shop.Book{}, false
	}
	return c.books[i], true
}

// Len reports the number of books.
func (c *Catalog) Len() int { return len(c.books) }

// Source names the file the catalog came from.
func (c *Catalog) Source() string { return c.source }

// ParsePrice converts a decimal string such as "12.5" into minor units.
func ParsePrice(s string) (shop.Price, error) {
	s = strings.TrimSpace(s)
	if !pricePattern.MatchString(s) {
		return 0, fmt.Errorf("price %q is not a decimal amount", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return shop.Price(units*100 + cents), nil
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}

var (
	_ ports.CatalogService = (*Catalog)(nil)
	_ ports.BookIndex      = (*Catalog)(nil)
)
