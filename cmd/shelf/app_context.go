package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/shelf/internal/app"
)

// bootstrap builds the shared services for a command. Logs go to the
// configured log file, never to the command's output.
func bootstrap(cmd *cobra.Command, flags *rootFlags, operation string) (*app.App, error) {
	home := flags.home
	if home == "" {
		var err error
		home, err = app.DefaultHome()
		if err != nil {
			return nil, newCommandError(operation, "locating the shelf directory", err, "Set HOME or pass --home.")
		}
	}

	a, err := app.Bootstrap(cmd.Context(), app.Options{
		ConfigPath: flags.configPath,
		Home:       home,
		LogLevel:   flags.logLevel,
	})
	if err != nil {
		return nil, newCommandError(operation, "starting shelf", err, "Check the config file and catalog path, then try again.")
	}
	return a, nil
}
