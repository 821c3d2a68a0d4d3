package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/apiclient"
	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/favorites"
	"github.com/five82/roster/internal/loader"
	"github.com/five82/roster/internal/pokeapi"
	"github.com/five82/roster/internal/rickmorty"
)

// Source names double as favourites buckets.
const (
	NameRickMorty = favorites.SourceRickMorty
	NamePokemon   = favorites.SourcePokemon
)

var (
	_ Source = (*Catalog[rickmorty.Character])(nil)
	_ Source = (*Catalog[pokeapi.Entry])(nil)
)

// NewRickMorty builds the character catalogue. Details come from the list
// payload, so no extra request is made.
func NewRickMorty(client *rickmorty.Client, opts ...Option) *Catalog[rickmorty.Character] {
	return NewCatalog[rickmorty.Character](NameRickMorty, "Rick & Morty", client,
		characterRow, characterDetail, opts...)
}

// NewPokemon builds the Pokédex catalogue over pager. Details are fetched
// lazily from client and cached.
func NewPokemon(client *pokeapi.Client, pager *pokeapi.Pager, opts ...Option) *Catalog[pokeapi.Entry] {
	detail := func(ctx context.Context, e pokeapi.Entry) (Detail, error) {
		key := e.Name
		if id := e.ItemID(); id > 0 {
			key = strconv.Itoa(id)
		}
		d, err := client.FetchDetail(ctx, key)
		if err != nil {
			return Detail{}, err
		}
		return pokemonDetail(e, d), nil
	}
	return NewCatalog[pokeapi.Entry](NamePokemon, "Pokédex", pager, pokemonRow, detail, opts...)
}

// FromConfig wires both catalogues from cfg. favs may be nil.
func FromConfig(cfg config.Config, favs Favorites, logger zerolog.Logger) (*Registry, error) {
	clientOpts := []apiclient.Option{
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithLogger(logger),
	}
	opts := []Option{
		WithLogger(logger),
		WithLoaderOptions(loader.WithPrefetchDistance(cfg.PrefetchDistance)),
	}
	if favs != nil {
		opts = append(opts, WithFavorites(favs))
	}

	rm, err := rickmorty.NewClient(cfg.RickMortyURL, clientOpts...)
	if err != nil {
		return nil, err
	}
	dex, err := pokeapi.NewClient(cfg.PokeAPIURL, clientOpts...)
	if err != nil {
		return nil, err
	}
	pager := pokeapi.NewPager(dex, cfg.PageSize, cfg.PokemonLimit)

	return NewRegistry(
		NewRickMorty(rm, opts...),
		NewPokemon(dex, pager, opts...),
	), nil
}

func characterRow(c rickmorty.Character) Row {
	parts := make([]string, 0, 2)
	if c.Status != "" {
		parts = append(parts, string(c.Status))
	}
	if c.Species != "" {
		parts = append(parts, c.Species)
	}
	return Row{ID: c.ID, Title: c.Name, Subtitle: strings.Join(parts, " · ")}
}

func characterDetail(_ context.Context, c rickmorty.Character) (Detail, error) {
	fields := []Field{
		{Label: "Status", Value: string(c.Status), Tone: statusTone(c.Status)},
		{Label: "Species", Value: c.Species},
	}
	if c.Type != "" {
		fields = append(fields, Field{Label: "Type", Value: c.Type})
	}
	fields = append(fields,
		Field{Label: "Gender", Value: string(c.Gender)},
		Field{Label: "Origin", Value: c.Origin.Name},
		Field{Label: "Location", Value: c.Location.Name},
		Field{Label: "Episodes", Value: strconv.Itoa(c.EpisodeCount())},
	)
	if created := c.CreatedAt(); !created.IsZero() {
		fields = append(fields, Field{Label: "Created", Value: created.Format("2006-01-02"), Tone: ToneMuted})
	}
	return Detail{
		Title:    c.Name,
		Subtitle: fmt.Sprintf("#%d", c.ID),
		ImageURL: c.Image,
		Fields:   fields,
	}, nil
}

func statusTone(s rickmorty.Status) Tone {
	switch s {
	case rickmorty.StatusAlive:
		return ToneGood
	case rickmorty.StatusDead:
		return ToneBad
	default:
		return ToneMuted
	}
}

func pokemonRow(e pokeapi.Entry) Row {
	r := Row{ID: e.ItemID(), Title: e.DisplayName()}
	if r.ID > 0 {
		r.Subtitle = fmt.Sprintf("#%03d", r.ID)
	}
	return r
}

func pokemonDetail(e pokeapi.Entry, d *pokeapi.Detail) Detail {
	image := d.Sprites.FrontDefault
	if image == "" {
		image = e.SpriteURL()
	}
	types := d.TypeNames()
	for i, t := range types {
		types[i] = pokeapi.DisplayName(t)
	}
	return Detail{
		Title:    pokeapi.DisplayName(d.Name),
		Subtitle: d.DexNumber(),
		ImageURL: image,
		Fields: []Field{
			{Label: "Types", Value: strings.Join(types, ", ")},
			{Label: "Height", Value: fmt.Sprintf("%.1f m", d.HeightMetres())},
			{Label: "Weight", Value: fmt.Sprintf("%.1f kg", d.WeightKilograms())},
		},
	}
}
