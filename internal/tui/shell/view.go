package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/tui/category"
)

// View renders the current model state
func (m Model) View() string {
	st := stylesFor(m.theme())

	var content strings.Builder
	content.WriteString(m.renderHeader(st))
	content.WriteString("\n")
	content.WriteString(m.renderCategories(st))
	content.WriteString("\n\n")

	body := m.renderBooks(st)
	if m.cartOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderCart(st))
	}

	// Overlays replace the body; only one is visible at a time.
	switch {
	case m.loginOpen:
		body = m.renderForm(st, &m.login)
	case m.registerOpen:
		body = m.renderForm(st, &m.register)
	case m.menuOpen:
		body = m.renderMenu(st, "Menu", m.menuItems())
	case m.userMenuOpen:
		body = m.renderMenu(st, m.authState().DisplayName(), m.userMenuItems())
	}
	content.WriteString(body)
	content.WriteString("\n")
	content.WriteString(m.renderFooter(st))
	return content.String()
}

// ThemeIcon returns the glyph for mode, or the ASCII fallback.
func ThemeIcon(mode shop.ThemeMode, unicode bool) string {
	switch {
	case unicode && mode.IsDark():
		return "☾"
	case unicode:
		return "☀"
	case mode.IsDark():
		return "[D]"
	default:
		return "[L]"
	}
}

func (m Model) renderHeader(st styles) string {
	title := st.title.Render("shelf")

	search := m.search.View()
	if !m.searchFocused && m.search.Value() == "" {
		search = st.muted.Render("/ search")
	}

	user := st.muted.Render("l: sign in")
	if auth := m.authState(); auth.IsAuthenticated() {
		user = auth.DisplayName()
	}

	cartLabel := "cart"
	if m.deps.Unicode {
		cartLabel = "🛒"
	}
	badge := fmt.Sprintf("%s %s", cartLabel, st.badge.Render(fmt.Sprint(m.cart().ItemCount)))

	row := strings.Join([]string{
		title,
		search,
		ThemeIcon(m.theme(), m.deps.Unicode),
		user,
		badge,
	}, "   ")
	return st.header.Render(row)
}

func (m Model) renderCategories(st styles) string {
	entries := category.Entries(m.categories, m.category)
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("%d %s", i+1, e.Category.Name)
		if e.Selected {
			parts = append(parts, st.categoryOn.Render(label))
		} else {
			parts = append(parts, st.category.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderBooks(st styles) string {
	if m.booksErr != "" {
		return st.errorText.Render("Could not load books: " + m.booksErr)
	}
	if len(m.books) == 0 {
		return st.muted.Italic(true).Render("No books match.")
	}

	visible := m.height - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.bookCursor >= visible {
		start = m.bookCursor - visible + 1
	}
	end := start + visible
	if end > len(m.books) {
		end = len(m.books)
	}

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, st.muted.Render("▲ more"))
	}
	for i := start; i < end; i++ {
		b := m.books[i]
		line := fmt.Sprintf("%-34s %-22s %s", truncate(b.Title, 34), truncate(b.Author, 22), st.price.Render(b.Price.String()))
		if i == m.bookCursor {
			lines = append(lines, st.itemSelected.Render(line))
		} else {
			lines = append(lines, st.item.Render(line))
		}
	}
	if end < len(m.books) {
		lines = append(lines, st.muted.Render("▼ more"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCart(st styles) string {
	cart := m.cart()
	lines := []string{st.modalTitle.Render(fmt.Sprintf("Cart (%d)", cart.ItemCount))}
	if cart.IsEmpty() {
		lines = append(lines, st.muted.Render("Your cart is empty"))
		return st.drawer.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	for i, line := range cart.Items {
		text := fmt.Sprintf("%-24s x%-3d %8s", truncate(line.Book.Title, 24), line.Quantity, line.Total())
		if i == m.cartCursor {
			lines = append(lines, st.menuSelected.Render("> "+text))
		} else {
			lines = append(lines, st.menuItem.Render("  "+text))
		}
	}
	lines = append(lines, "", fmt.Sprintf("Subtotal: %s", st.price.Render(cart.Subtotal.String())))
	return st.drawer.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderForm(st styles, f *form) string {
	lines := []string{st.modalTitle.Render(f.title)}
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		lines = append(lines, marker+in.Placeholder, "  "+in.View())
	}
	if f.pending {
		lines = append(lines, "", m.spinner.View()+" working...")
	}
	if f.err != "" {
		lines = append(lines, "", st.errorText.Render(f.err))
	}
	return st.modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderMenu(st styles, title string, items []menuItem) string {
	lines := []string{st.modalTitle.Render(title)}
	for i, item := range items {
		if i == m.menuCursor {
			lines = append(lines, st.menuSelected.Render("> "+item.label))
		} else {
			lines = append(lines, st.menuItem.Render("  "+item.label))
		}
	}
	return st.menu.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderFooter(st styles) string {
	var hints []string
	switch {
	case m.loginOpen, m.registerOpen:
		hints = []string{"tab: next field", "enter: submit", "esc: close"}
	case m.menuOpen, m.userMenuOpen:
		hints = []string{"↑/↓: move", "enter: choose", "esc: close"}
	case m.searchFocused:
		hints = []string{"type to search", "enter/esc: done"}
	case m.cartOpen:
		hints = []string{"+/-: quantity", "x: remove", "C: clear", "esc: close cart", "enter: add book"}
	default:
		hints = []string{"↑/↓: browse", "enter: add", "[/]: category", "c: cart", "t: theme", "m: menu", "q: quit"}
		if m.authState().IsAuthenticated() {
			hints = append(hints[:len(hints)-1], "u: account", "q: quit")
		}
	}

	footer := strings.Join(hints, "  •  ")
	if m.status != "" {
		status := st.status.Render(m.status)
		if m.statusError {
			status = st.errorText.Render(m.status)
		}
		footer = status + "\n" + footer
	}
	return st.footer.Render(footer)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
