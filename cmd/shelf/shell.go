package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/shelf/internal/tui/shell"
)

func runShell(cmd *cobra.Command, flags *rootFlags) error {
	a, err := bootstrap(cmd, flags, "open the bookstore")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	logger := a.Logger.With("component", "shell")

	model := shell.New(shell.Deps{
		Theme:   a.Theme,
		Auth:    a.Auth,
		Cart:    a.Cart,
		Catalog: a.Catalog,
		Logger:  logger,
		Unicode: a.Config.UI.Unicode && supportsUnicode(os.Stdout),
	})

	var opts []tea.ProgramOption
	if a.Config.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)
	bridge := shell.NewBridge(a.Theme, a.Auth, a.Cart, p.Send)
	if err := bridge.WatchPreferenceFailures(a.Events); err != nil {
		logger.Warn(ctx, "preference failures will not be shown", "error", err)
	}

	logger.Info(ctx, "shell started")
	_, runErr := p.Run()
	bridge.Close()
	if runErr != nil {
		logger.Error(ctx, "shell execution failed", "error", runErr)
		return fmt.Errorf("failed to run shell: %w", runErr)
	}

	logger.Info(ctx, "shell closed", "cart_items", a.Cart.Snapshot().ItemCount)
	return nil
}
