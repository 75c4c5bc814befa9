package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/catalog"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/preferences"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type buildInfo struct {
	Version           string `json:"version"`
	Commit            string `json:"commit"`
	Built             string `json:"built"`
	GoVersion         string `json:"go"`
	PreferencesFormat string `json:"preferences_format"`
	CatalogBooks      int    `json:"catalog_books"`
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildInfo{
				Version:           version,
				Commit:            commit,
				Built:             date,
				GoVersion:         runtime.Version(),
				PreferencesFormat: preferences.FormatVersion,
			}
			// The embedded catalog is validated at load; a broken build shows 0.
			if c, err := catalog.Load(cmd.Context(), "", nil); err == nil {
				info.CatalogBooks = c.Len()
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}
			fmt.Fprintf(out, "Shelf %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Built)
			fmt.Fprintf(out, "go: %s\npreferences format: v%s\nbuilt-in catalog: %d books\n",
				info.GoVersion, info.PreferencesFormat, info.CatalogBooks)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
