package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/favorites"
	"github.com/five82/roster/internal/source"
)

func newFavoritesCmd(root *rootOptions) *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favourites", "favs"},
		Short:   "List starred entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("load roster config: %w", err)
			}

			names := []string{source.NameRickMorty, source.NamePokemon}
			if sourceName != "" && sourceName != sourceAll {
				names = []string{sourceName}
			}

			store, err := favorites.Open(cfg.FavoritesPath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tID\tNAME\tADDED\t")
			total := 0
			for _, name := range names {
				favs, err := store.List(name)
				if err != nil {
					return err
				}
				for _, f := range favs {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n", name, f.ID, f.Name, f.AddedAt.Local().Format("2006-01-02"))
				}
				total += len(favs)
			}
			if total == 0 {
				_, err := fmt.Fprintln(out, "No favourites yet. Press f in the browser to star an entry.")
				return err
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", sourceAll, "catalogue: rickmorty, pokemon or all")
	return cmd
}
