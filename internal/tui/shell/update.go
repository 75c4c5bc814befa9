package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/tui/category"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.login.pending && !m.register.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Store notifications only need a re-render; the view reads snapshots.
	case CartChangedMsg:
		m.cartCursor = clamp(m.cartCursor, 0, len(msg.Cart.Items)-1)
		return m, nil

	case AuthChangedMsg:
		if !msg.State.IsAuthenticated() {
			m.userMenuOpen = false
		}
		return m, nil

	case ThemeChangedMsg:
		return m, nil

	case BooksLoadedMsg:
		if msg.Filter != m.filter() {
			return m, nil
		}
		if msg.Err != nil {
			m.booksErr = msg.Err.Error()
			return m, nil
		}
		m.booksErr = ""
		m.books = msg.Books
		m.bookCursor = clamp(m.bookCursor, 0, len(m.books)-1)
		return m, nil

	case LoginSucceededMsg:
		m.loginOpen = false
		m.login = newLoginForm()
		m.setStatus(fmt.Sprintf("Signed in as %s", displayName(msg.User)), false)
		return m, nil

	case LoginFailedMsg:
		// A superseded result belongs to an older submit; the newer one still
		// owns the pending flag.
		if errors.Is(msg.Err, shop.ErrSuperseded) {
			return m, nil
		}
		m.login.pending = false
		m.logWarn("sign in failed", "error", msg.Err)
		m.login.err = describeAuthError(msg.Err)
		return m, nil

	case RegisterSucceededMsg:
		m.registerOpen = false
		m.register = newRegisterForm()
		m.setStatus(fmt.Sprintf("Welcome, %s", displayName(msg.User)), false)
		return m, nil

	case RegisterFailedMsg:
		if errors.Is(msg.Err, shop.ErrSuperseded) {
			return m, nil
		}
		m.register.pending = false
		m.logWarn("registration failed", "error", msg.Err)
		m.register.err = describeAuthError(msg.Err)
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Text, msg.Error)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case m.loginOpen:
		return m.updateLogin(msg)
	case m.registerOpen:
		return m.updateRegister(msg)
	case m.menuOpen:
		return m.updateMenu(msg)
	case m.userMenuOpen:
		return m.updateUserMenu(msg)
	case m.searchFocused:
		return m.updateSearch(msg)
	}

	if m.cartOpen {
		if next, cmd, handled := m.updateCart(msg); handled {
			return next, cmd
		}
	}
	return m.updateMain(msg)
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit

	case "m":
		m.menuOpen = !m.menuOpen
		m.menuCursor = 0
	case "u":
		if m.authState().IsAuthenticated() {
			m.userMenuOpen = !m.userMenuOpen
			m.menuCursor = 0
		} else {
			m.loginOpen = true
		}
	case "l":
		if !m.authState().IsAuthenticated() {
			m.loginOpen = true
		}
	case "r":
		if !m.authState().IsAuthenticated() {
			m.registerOpen = true
		}
	case "c":
		m.cartOpen = !m.cartOpen
	case "t":
		m.toggleTheme()

	case "/":
		m.searchFocused = true
		cmd := m.search.Focus()
		return m, cmd
	case "esc":
		m.setStatus("", false)

	case "]", "tab":
		return m.selectCategory(category.Next(m.categories, m.category))
	case "[", "shift+tab":
		return m.selectCategory(category.Prev(m.categories, m.category))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i < len(m.categories) {
			return m.selectCategory(m.categories[i].ID)
		}

	case "up", "k":
		m.bookCursor = clamp(m.bookCursor-1, 0, len(m.books)-1)
	case "down", "j":
		m.bookCursor = clamp(m.bookCursor+1, 0, len(m.books)-1)
	case "enter", "a":
		m.addHighlighted()
	}
	return m, nil
}

func (m Model) selectCategory(id string) (tea.Model, tea.Cmd) {
	before := m.category
	category.Select(m.categories, id, func(selected string) { m.category = selected })
	if m.category == before {
		return m, nil
	}
	m.bookCursor = 0
	return m, loadBooksCmd(m.deps.Catalog, m.filter())
}

func (m *Model) toggleTheme() {
	if m.deps.Theme == nil {
		return
	}
	mode := m.deps.Theme.Toggle()
	m.setStatus(fmt.Sprintf("Theme: %s", mode), false)
}

func (m *Model) addHighlighted() {
	book, ok := m.highlightedBook()
	if !ok || m.deps.Cart == nil {
		return
	}
	if err := m.deps.Cart.AddItem(book, 1); err != nil {
		m.logWarn("add to cart rejected", "book_id", book.ID, "error", err)
		m.setStatus(describeCartError(err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Added %q to cart", book.Title), false)
}

// updateCart handles drawer keys and reports whether the key was consumed.
func (m Model) updateCart(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if m.deps.Cart == nil {
		return m, nil, false
	}
	items := m.cart().Items
	var line *shop.LineItem
	if m.cartCursor >= 0 && m.cartCursor < len(items) {
		line = &items[m.cartCursor]
	}

	var err error
	switch msg.String() {
	case "esc":
		m.cartOpen = false
	case "up", "k":
		m.cartCursor = clamp(m.cartCursor-1, 0, len(items)-1)
	case "down", "j":
		m.cartCursor = clamp(m.cartCursor+1, 0, len(items)-1)
	case "+", "=":
		if line != nil {
			err = m.deps.Cart.Increment(line.Book.ID)
		}
	case "-":
		if line != nil {
			err = m.deps.Cart.Decrement(line.Book.ID)
		}
	case "x", "delete", "backspace":
		if line != nil {
			m.deps.Cart.RemoveItem(line.Book.ID)
		}
	case "C":
		m.deps.Cart.Clear()
		m.setStatus("Cart cleared", false)
	default:
		return m, nil, false
	}
	if err != nil {
		m.logWarn("cart update rejected", "error", err)
		m.setStatus(describeCartError(err), true)
	}
	m.cartCursor = clamp(m.cartCursor, 0, len(m.cart().Items)-1)
	return m, nil, true
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.bookCursor = 0
	return m, tea.Batch(cmd, loadBooksCmd(m.deps.Catalog, m.filter()))
}

type menuItem struct {
	label  string
	action func(*Model) tea.Cmd
}

// menuItems mirrors the navbar actions for narrow layouts.
func (m Model) menuItems() []menuItem {
	items := []menuItem{
		{label: "Toggle theme", action: func(m *Model) tea.Cmd { m.toggleTheme(); return nil }},
		{label: fmt.Sprintf("Cart (%d)", m.cart().ItemCount), action: func(m *Model) tea.Cmd { m.cartOpen = !m.cartOpen; return nil }},
	}
	if m.authState().IsAuthenticated() {
		items = append(items, menuItem{label: "Sign out", action: func(m *Model) tea.Cmd { m.logout(); return nil }})
	} else {
		items = append(items,
			menuItem{label: "Sign in", action: func(m *Model) tea.Cmd { m.loginOpen = true; return nil }},
			menuItem{label: "Create account", action: func(m *Model) tea.Cmd { m.registerOpen = true; return nil }},
		)
	}
	return items
}

func (m Model) userMenuItems() []menuItem {
	return []menuItem{
		{label: "Cart", action: func(m *Model) tea.Cmd { m.cartOpen = true; return nil }},
		{label: "Sign out", action: func(m *Model) tea.Cmd { m.logout(); return nil }},
	}
}

// updateMenu drives the mobile menu. Choosing an item dispatches it and then
// closes the menu.
func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.menuItems()
	switch msg.String() {
	case "esc", "m":
		m.menuOpen = false
	case "up", "k":
		m.menuCursor = clamp(m.menuCursor-1, 0, len(items)-1)
	case "down", "j":
		m.menuCursor = clamp(m.menuCursor+1, 0, len(items)-1)
	case "enter":
		cmd := items[clamp(m.menuCursor, 0, len(items)-1)].action(&m)
		m.menuOpen = false
		return m, cmd
	}
	return m, nil
}

func (m Model) updateUserMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.userMenuItems()
	switch msg.String() {
	case "esc", "u":
		m.userMenuOpen = false
	case "up", "k":
		m.menuCursor = clamp(m.menuCursor-1, 0, len(items)-1)
	case "down", "j":
		m.menuCursor = clamp(m.menuCursor+1, 0, len(items)-1)
	case "enter":
		cmd := items[clamp(m.menuCursor, 0, len(items)-1)].action(&m)
		m.userMenuOpen = false
		return m, cmd
	}
	return m, nil
}

// logout signs out and closes the user menu. Nothing else is touched.
func (m *Model) logout() {
	if m.deps.Auth == nil {
		return
	}
	m.deps.Auth.Logout()
	m.userMenuOpen = false
	m.setStatus("Signed out", false)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.loginOpen = false
		m.login = newLoginForm()
		return m, nil
	case "tab", "down":
		m.login.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.login.moveFocus(-1)
		return m, nil
	case "enter":
		if !m.login.lastField() {
			m.login.moveFocus(1)
			return m, nil
		}
		if m.login.pending || m.deps.Auth == nil {
			return m, nil
		}
		m.login.pending = true
		m.login.err = ""
		return m, tea.Batch(m.spinner.Tick, loginCmd(m.deps.Auth, m.login.credentials()))
	}
	cmd := m.login.update(msg)
	return m, cmd
}

func (m Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.registerOpen = false
		m.register = newRegisterForm()
		return m, nil
	case "tab", "down":
		m.register.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.register.moveFocus(-1)
		return m, nil
	case "enter":
		if !m.register.lastField() {
			m.register.moveFocus(1)
			return m, nil
		}
		if m.register.pending || m.deps.Auth == nil {
			return m, nil
		}
		m.register.pending = true
		m.register.err = ""
		return m, tea.Batch(m.spinner.Tick, registerCmd(m.deps.Auth, m.register.registration()))
	}
	cmd := m.register.update(msg)
	return m, cmd
}

func (m Model) logWarn(msg string, fields ...interface{}) {
	if m.deps.Logger != nil {
		m.deps.Logger.Warn(context.Background(), msg, fields...)
	}
}

func describeAuthError(err error) string {
	var de *shop.DomainError
	switch {
	case !shop.IsAuthError(err):
		return "Something went wrong"
	case errors.Is(err, shop.ErrServiceUnavailable):
		return "Sign-in service is unavailable, try again"
	case errors.As(err, &de) && de.Message != "":
		return capitalize(de.Message)
	case errors.Is(err, shop.ErrInvalidCredentials):
		return "Email or password is incorrect"
	default:
		return "Something went wrong"
	}
}

func describeCartError(err error) string {
	var de *shop.DomainError
	if shop.IsCartError(err) && errors.As(err, &de) && de.Message != "" {
		return capitalize(de.Message)
	}
	return "Could not update the cart"
}

func displayName(u shop.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
