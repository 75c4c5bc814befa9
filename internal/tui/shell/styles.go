package shell

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

// palette holds the colours for one theme mode.
type palette struct {
	primary lipgloss.Color
	accent  lipgloss.Color
	success lipgloss.Color
	danger  lipgloss.Color
	muted   lipgloss.Color
	text    lipgloss.Color
	panel   lipgloss.Color
}

var (
	lightPalette = palette{
		primary: lipgloss.Color("25"),  // Blue
		accent:  lipgloss.Color("166"), // Orange
		success: lipgloss.Color("28"),  // Green
		danger:  lipgloss.Color("160"), // Red
		muted:   lipgloss.Color("244"), // Gray
		text:    lipgloss.Color("235"),
		panel:   lipgloss.Color("255"),
	}

	darkPalette = palette{
		primary: lipgloss.Color("111"),
		accent:  lipgloss.Color("215"),
		success: lipgloss.Color("78"),
		danger:  lipgloss.Color("203"),
		muted:   lipgloss.Color("245"),
		text:    lipgloss.Color("252"),
		panel:   lipgloss.Color("236"),
	}
)

// styles is the set of lipgloss styles derived from a palette.
type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	muted        lipgloss.Style
	badge        lipgloss.Style
	category     lipgloss.Style
	categoryOn   lipgloss.Style
	item         lipgloss.Style
	itemSelected lipgloss.Style
	price        lipgloss.Style
	drawer       lipgloss.Style
	modal        lipgloss.Style
	modalTitle   lipgloss.Style
	menu         lipgloss.Style
	menuItem     lipgloss.Style
	menuSelected lipgloss.Style
	errorText    lipgloss.Style
	status       lipgloss.Style
	footer       lipgloss.Style
}

func stylesFor(mode shop.ThemeMode) styles {
	p := lightPalette
	if mode.IsDark() {
		p = darkPalette
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			PaddingRight(2),
		header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.muted),
		muted: lipgloss.NewStyle().
			Foreground(p.muted),
		badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.panel).
			Background(p.accent).
			Padding(0, 1),
		category: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		categoryOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			Underline(true).
			Padding(0, 1),
		item: lipgloss.NewStyle().
			Foreground(p.text).
			PaddingLeft(2),
		itemSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(p.primary).
			PaddingLeft(1),
		price: lipgloss.NewStyle().
			Foreground(p.success),
		drawer: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 3),
		modalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			MarginBottom(1),
		menu: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
		menuItem: lipgloss.NewStyle().
			Foreground(p.text),
		menuSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent),
		errorText: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		status: lipgloss.NewStyle().
			Foreground(p.success),
		footer: lipgloss.NewStyle().
			Foreground(p.muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(p.muted),
	}
}
