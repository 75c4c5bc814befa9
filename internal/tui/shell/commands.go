package shell

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	"github.com/alexisbeaulieu97/shelf/internal/state"
)

const catalogTimeout = 5 * time.Second

// loadBooksCmd fetches the listing for f.
func loadBooksCmd(catalog ports.CatalogService, f shop.Filter) tea.Cmd {
	if catalog == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()
		books, err := catalog.ListBooks(ctx, f)
		return BooksLoadedMsg{Filter: f, Books: books, Err: err}
	}
}

// loginCmd runs the login in the background. AuthStore handles
// supersession, so an older call simply reports Superseded.
func loginCmd(auth *state.AuthStore, creds shop.Credentials) tea.Cmd {
	return func() tea.Msg {
		user, err := auth.Login(context.Background(), creds)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}
		return LoginSucceededMsg{User: user}
	}
}

func registerCmd(auth *state.AuthStore, reg shop.Registration) tea.Cmd {
	return func() tea.Msg {
		user, err := auth.Register(context.Background(), reg)
		if err != nil {
			return RegisterFailedMsg{Err: err}
		}
		return RegisterSucceededMsg{User: user}
	}
}
