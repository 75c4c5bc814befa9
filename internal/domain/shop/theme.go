package shop

import "fmt"

// ThemeMode is the process-wide colour scheme.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ThemePreferenceKey is the well-known key under which the theme is persisted.
const ThemePreferenceKey = "theme"

// Toggle returns the opposite mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// IsDark reports whether the mode is dark.
func (m ThemeMode) IsDark() bool {
	return m == ThemeDark
}

// ParseThemeMode accepts exactly "light" or "dark".
func ParseThemeMode(s string) (ThemeMode, error) {
	switch ThemeMode(s) {
	case ThemeLight, ThemeDark:
		return ThemeMode(s), nil
	default:
		return ThemeLight, NewError(ErrCodeValidation, fmt.Sprintf("unknown theme %q", s), nil, nil)
	}
}
