package shell

import (
	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/state"
)

// Store notifications forwarded into the program by Bridge.

// CartChangedMsg carries the snapshot produced by a cart mutation.
type CartChangedMsg struct {
	Cart shop.Cart
}

// AuthChangedMsg carries the state after a sign-in or sign-out.
type AuthChangedMsg struct {
	State shop.AuthState
}

// ThemeChangedMsg carries the theme after a toggle.
type ThemeChangedMsg struct {
	Theme state.ThemeSnapshot
}

// Catalog messages

// BooksLoadedMsg delivers a catalog listing for Filter.
type BooksLoadedMsg struct {
	Filter shop.Filter
	Books  []shop.Book
	Err    error
}

// Auth form messages

// LoginSucceededMsg reports a completed login.
type LoginSucceededMsg struct {
	User shop.User
}

// LoginFailedMsg reports a rejected, failed or superseded login.
type LoginFailedMsg struct {
	Err error
}

// RegisterSucceededMsg reports a completed registration.
type RegisterSucceededMsg struct {
	User shop.User
}

// RegisterFailedMsg reports a rejected, failed or superseded registration.
type RegisterFailedMsg struct {
	Err error
}

// StatusMsg sets the footer status line.
type StatusMsg struct {
	Text  string
	Error bool
}
