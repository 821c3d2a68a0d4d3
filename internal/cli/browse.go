package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/app"
)

type browseOptions struct {
	source    string
	prefsPath string
}

func newBrowseCmd(root *rootOptions) *cobra.Command {
	var opts browseOptions

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: root.configPath,
				PrefsPath:  opts.prefsPath,
				Source:     opts.source,
				LogLevel:   root.logLevel,
				Debug:      root.debug,
			})
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "catalogue to open: rickmorty or pokemon (default: last used)")
	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/roster/prefs.toml)")
	return cmd
}
