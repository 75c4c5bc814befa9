package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	home       string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Shelf is a terminal bookstore: browse, sign in and fill a cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: ./shelf.yaml or ~/.shelf/shelf.yaml)")
	cmd.PersistentFlags().StringVar(&flags.home, "home", "", "State directory for logs and preferences (default: ~/.shelf)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log.level")

	cmd.AddCommand(newBooksCmd(flags))
	cmd.AddCommand(newThemeCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
