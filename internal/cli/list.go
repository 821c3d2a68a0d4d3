package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/roster/internal/loader"
	"github.com/five82/roster/internal/source"
)

const sourceAll = "all"

type listOptions struct {
	source string
	query  string
	pages  int
}

func newListCmd(root *rootOptions) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print catalogue pages without the browser",
		Long: "Fetch pages from one or both catalogues and print them as a table. " +
			"With --source all the catalogues are fetched concurrently.",
		Example: `  # First page of both catalogues
  roster list

  # Three pages of Pokémon
  roster list --source pokemon --pages 3

  # Characters named like "smith"
  roster list --source rickmorty --query smith`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", sourceAll, "catalogue: rickmorty, pokemon or all")
	cmd.Flags().StringVar(&opts.query, "query", "", "name filter (exact name for pokemon)")
	cmd.Flags().IntVar(&opts.pages, "pages", 1, "number of pages to fetch per catalogue")
	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts listOptions) error {
	if opts.pages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", opts.pages)
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return fmt.Errorf("load roster config: %w", err)
	}
	logger, err := root.consoleLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	registry, err := source.FromConfig(cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("init sources: %w", err)
	}
	sources, err := selectSources(registry, opts.source)
	if err != nil {
		return err
	}

	results := make([]listing, len(sources))
	g, gctx := errgroup.WithContext(cmd.Context())
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			result, err := collect(gctx, src, opts.query, opts.pages)
			results[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, src := range sources {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := printListing(out, src.Title(), results[i]); err != nil {
			return err
		}
	}
	return nil
}

func selectSources(registry *source.Registry, name string) ([]source.Source, error) {
	if name == "" || name == sourceAll {
		return registry.All(), nil
	}
	src, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown source %q (want %s or one of %v)", name, sourceAll, registry.Names())
	}
	return []source.Source{src}, nil
}

// listing is what one catalogue returned.
type listing struct {
	view  source.View
	pages int
}

// collect loads up to pages pages from src. A search without matches is not
// an error.
func collect(ctx context.Context, src source.Source, query string, pages int) (listing, error) {
	var view source.View
	if query != "" {
		view = src.Search(ctx, query)
	} else {
		view = src.Load(ctx, false, nil)
	}
	fetched := 1
	for ; view.Err == nil && view.CanLoadMore && fetched < pages; fetched++ {
		view = src.Load(ctx, false, nil)
	}

	result := listing{view: view, pages: fetched}
	if view.Err == nil {
		return result, nil
	}
	if query != "" && view.Err.Kind == loader.KindNotFound {
		result.pages = 0
		return result, nil
	}
	return result, fmt.Errorf("%s: %w", src.Title(), view.Err)
}

func printListing(w io.Writer, title string, result listing) error {
	view := result.view
	more := ""
	if view.CanLoadMore {
		more = ", more available"
	}
	header := fmt.Sprintf("%s: %d items from %d pages%s", title, view.Len(), result.pages, more)
	if view.Query != "" {
		header += fmt.Sprintf(" (query %q)", view.Query)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if view.Err != nil {
		_, err := fmt.Fprintln(w, view.Err.Message())
		return err
	}

	const tabPadding = 2
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDETAILS\t")
	for _, row := range view.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.ID, row.Title, row.Subtitle, row.Badge)
	}
	return tw.Flush()
}
