package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	cfgpkg "github.com/alexisbeaulieu97/shelf/internal/config"
	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

type booksOptions struct {
	Category   string `validate:"omitempty,category"`
	Query      string `validate:"max=80"`
	jsonOutput bool
}

func newBooksCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &booksOptions{}

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List catalog books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooks(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "Only list books in this category")
	cmd.Flags().StringVarP(&opts.Query, "search", "s", "", "Match title or author")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runBooks(cmd *cobra.Command, rootFlags *rootFlags, opts *booksOptions) error {
	if opts.Category == shop.CategoryAll {
		opts.Category = ""
	}
	if err := cfgpkg.ValidateStruct(opts); err != nil {
		return newCommandError("list books", "checking flags", err, fmt.Sprintf("Use one of: %s.", categoryIDs()))
	}

	a, err := bootstrap(cmd, rootFlags, "list books")
	if err != nil {
		return err
	}
	defer a.Close()

	books, err := a.Catalog.ListBooks(cmd.Context(), shop.Filter{CategoryID: opts.Category, Query: opts.Query})
	if err != nil {
		return newCommandError("list books", "reading the catalog", err, "Check catalog.path in your config.")
	}
	a.Logger.Debug(cmd.Context(), "books listed", "count", len(books), "category", opts.Category)

	if opts.jsonOutput {
		return renderBooksJSON(cmd, books)
	}
	if len(books) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No books match.")
		return nil
	}
	return renderBooksTable(cmd, books)
}

func renderBooksTable(cmd *cobra.Command, books []shop.Book) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE")
	for _, b := range books {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, categoryName(b.CategoryID), b.Price)
	}

	return writer.Flush()
}

// bookJSON keeps price in integer cents and adds the formatted amount the
// table shows.
type bookJSON struct {
	shop.Book
	PriceDisplay string `json:"price_display"`
}

type booksJSONPayload struct {
	Count int        `json:"count"`
	Books []bookJSON `json:"books"`
}

func renderBooksJSON(cmd *cobra.Command, books []shop.Book) error {
	payload := booksJSONPayload{Count: len(books), Books: make([]bookJSON, 0, len(books))}
	for _, b := range books {
		payload.Books = append(payload.Books, bookJSON{Book: b, PriceDisplay: b.Price.String()})
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func categoryName(id string) string {
	for _, c := range shop.Categories() {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func categoryIDs() string {
	var out string
	for i, c := range shop.Categories() {
		if i > 0 {
			out += ", "
		}
		out += c.ID
	}
	return out
}

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
