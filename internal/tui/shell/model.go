package shell

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	"github.com/alexisbeaulieu97/shelf/internal/state"
)

// Deps are the shared stores and services the shell reads and mutates.
type Deps struct {
	Theme   *state.ThemeStore
	Auth    *state.AuthStore
	Cart    *state.CartStore
	Catalog ports.CatalogService
	Logger  ports.Logger
	// Unicode selects ☀/☾ style glyphs; false falls back to ASCII.
	Unicode bool
}

// Model is the navigation shell: header, category bar, book list, the
// mobile and user menus, the sign-in and register modals and the cart
// drawer. The open/closed flags are local and start closed on every New.
type Model struct {
	deps       Deps
	categories []shop.Category

	// Ephemeral flags; each toggle touches only its own.
	menuOpen     bool
	userMenuOpen bool
	loginOpen    bool
	registerOpen bool
	cartOpen     bool

	category      string
	search        textinput.Model
	searchFocused bool
	books         []shop.Book
	bookCursor    int
	booksErr      string

	menuCursor int
	cartCursor int

	login    form
	register form
	spinner  spinner.Model

	status      string
	statusError bool

	width  int
	height int
}

// New creates a shell with every menu, modal and drawer closed and the "all"
// category selected.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "search title or author"
	search.Prompt = ""
	search.CharLimit = 80

	return Model{
		deps:       deps,
		categories: shop.Categories(),
		category:   shop.CategoryAll,
		search:     search,
		login:      newLoginForm(),
		register:   newRegisterForm(),
		spinner:    s,
		width:      100,
		height:     30,
	}
}

// Init loads the first book listing.
func (m Model) Init() tea.Cmd {
	return loadBooksCmd(m.deps.Catalog, m.filter())
}

func (m Model) filter() shop.Filter {
	return shop.Filter{CategoryID: m.category, Query: m.search.Value()}
}

// Flags reports the five open/closed flags, in the order menu, user menu,
// login, register, cart.
func (m Model) Flags() (menu, userMenu, login, register, cart bool) {
	return m.menuOpen, m.userMenuOpen, m.loginOpen, m.registerOpen, m.cartOpen
}

// SelectedCategory returns the highlighted category id.
func (m Model) SelectedCategory() string {
	return m.category
}

// Books returns the current listing.
func (m Model) Books() []shop.Book {
	return m.books
}

func (m Model) theme() shop.ThemeMode {
	if m.deps.Theme == nil {
		return shop.ThemeLight
	}
	return m.deps.Theme.Theme()
}

func (m Model) authState() shop.AuthState {
	if m.deps.Auth == nil {
		return shop.AuthState{}
	}
	return m.deps.Auth.Snapshot()
}

// cart reads the store on every call; the badge is never cached.
func (m Model) cart() shop.Cart {
	if m.deps.Cart == nil {
		return shop.Cart{}
	}
	return m.deps.Cart.Snapshot()
}

func (m Model) highlightedBook() (shop.Book, bool) {
	if m.bookCursor < 0 || m.bookCursor >= len(m.books) {
		return shop.Book{}, false
	}
	return m.books[m.bookCursor], true
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusError = isErr
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
