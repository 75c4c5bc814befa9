package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/shelf/internal/app"
	cfgpkg "github.com/alexisbeaulieu97/shelf/internal/config"
	infraconfig "github.com/alexisbeaulieu97/shelf/internal/infrastructure/config"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/shelf/pkg/diff"
)

const redacted = "********"

type configShowOptions struct {
	diff bool
}

func newConfigCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	opts := &configShowOptions{}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration after files and SHELF_* variables are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, rootFlags, opts)
		},
	}
	show.Flags().BoolVar(&opts.diff, "diff", false, "Only show how the configuration differs from the defaults")
	cmd.AddCommand(show)

	return cmd
}

func runConfigShow(cmd *cobra.Command, rootFlags *rootFlags, opts *configShowOptions) error {
	home := rootFlags.home
	if home == "" {
		var err error
		home, err = app.DefaultHome()
		if err != nil {
			return newCommandError("show config", "locating the shelf directory", err, "Set HOME or pass --home.")
		}
	}

	loader := infraconfig.NewLoader(logging.NewNoOpLogger(), home)
	cfg, used, err := loader.Load(cmd.Context(), rootFlags.configPath)
	if err != nil {
		return newCommandError("show config", "loading configuration", err, "Fix the reported field and try again.")
	}

	effective, err := renderConfig(cfg)
	if err != nil {
		return err
	}

	source := used
	if source == "" {
		source = "(defaults)"
	}

	if !opts.diff {
		fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", source, effective)
		return nil
	}

	defaults := cfgpkg.Defaults(home)
	base, err := renderConfig(&defaults)
	if err != nil {
		return err
	}
	out := diff.Unified(base, effective, "defaults", source)
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration matches the defaults.")
		return nil
	}
	removed, added := diff.Changed(base, effective)
	fmt.Fprint(cmd.OutOrStdout(), out)
	fmt.Fprintf(cmd.OutOrStdout(), "# %d removed, %d added\n", len(removed), len(added))
	return nil
}

// renderConfig marshals cfg with secrets masked.
func renderConfig(cfg *cfgpkg.Config) ([]byte, error) {
	masked := *cfg
	if masked.Preferences.Redis.Password != "" {
		masked.Preferences.Redis.Password = redacted
	}
	out, err := yaml.Marshal(&masked)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return out, nil
}
