package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/tui/shell"
)

func newThemeCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or switch the colour theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, rootFlags, "show the theme")
			if err != nil {
				return err
			}
			defer a.Close()

			printTheme(cmd, a.Theme.Theme())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark and save the choice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, rootFlags, "toggle the theme")
			if err != nil {
				return err
			}
			defer a.Close()

			printTheme(cmd, a.Theme.Toggle())
			return nil
		},
	})

	return cmd
}

func printTheme(cmd *cobra.Command, mode shop.ThemeMode) {
	icon := shell.ThemeIcon(mode, supportsUnicode(cmd.OutOrStdout()))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", icon, mode)
}
