// Package cli defines roster's command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/app"
	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	debug      bool
}

// loadConfig reads the config file named by --config.
func (o *rootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.configPath)
}

// consoleLogger returns a human-readable logger on w for one-shot commands.
func (o *rootOptions) consoleLogger(cfg config.Config, w io.Writer) (zerolog.Logger, error) {
	logger, _, err := logging.New(logging.Options{
		Level:   app.LogLevel(cfg, o.logLevel, o.debug),
		Console: w,
	})
	return logger, err
}

// NewRootCmd creates the roster command tree. Running roster without a
// subcommand opens the browser.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	browse := newBrowseCmd(opts)

	cmd := &cobra.Command{
		Use:           "roster",
		Short:         "Browse paged Rick & Morty and Pokémon catalogues",
		Long:          "roster pages through remote character catalogues in the terminal, with search and favourites.",
		Version:       version,
		Example:       rootCmdExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          browse.RunE,
	}
	cmd.Flags().AddFlagSet(browse.Flags())

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/roster/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(browse, newListCmd(opts), newFavoritesCmd(opts))
	return cmd
}

const rootCmdExample = `  # Open the browser on the last catalogue you used
  roster

  # Open the Pokémon catalogue
  roster --source pokemon

  # Print the first three pages of Rick & Morty characters
  roster list --source rickmorty --pages 3

  # Search both catalogues at once
  roster list --query rick

  # Show starred entries
  roster favorites`

// Execute runs the root command with ctx.
func Execute(ctx context.Context, version string, args []string) error {
	cmd := NewRootCmd(version)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
