package pokeapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/roster/internal/apiclient"
	"github.com/five82/roster/internal/loader"
)

// DefaultBaseURL is the public PokeAPI root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client talks to PokeAPI.
type Client struct {
	api *apiclient.Client
}

// NewClient builds a Client for baseURL; an empty value uses DefaultBaseURL.
func NewClient(baseURL string, opts ...apiclient.Option) (*Client, error) {
	api, err := apiclient.New(baseURL, DefaultBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("pokeapi client: %w", err)
	}
	return &Client{api: api}, nil
}

// FetchList retrieves a window of the Pokémon index.
func (c *Client) FetchList(ctx context.Context, offset, limit int) (*ListResponse, error) {
	if c == nil {
		return nil, loader.NewError(loader.KindInvalidRequest, fmt.Errorf("client is nil"))
	}
	if offset < 0 || limit < 1 {
		return nil, loader.NewError(loader.KindInvalidRequest,
			fmt.Errorf("offset %d limit %d out of range", offset, limit))
	}
	values := url.Values{}
	values.Set("offset", strconv.Itoa(offset))
	values.Set("limit", strconv.Itoa(limit))
	var payload ListResponse
	if err := c.api.Get(ctx, "/pokemon", values, &payload); err != nil {
		return nil, fmt.Errorf("fetch pokemon list: %w", err)
	}
	return &payload, nil
}

// FetchDetail retrieves one Pokémon by name or numeric id.
func (c *Client) FetchDetail(ctx context.Context, nameOrID string) (*Detail, error) {
	if c == nil {
		return nil, loader.NewError(loader.KindInvalidRequest, fmt.Errorf("client is nil"))
	}
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	if key == "" {
		return nil, loader.NewError(loader.KindInvalidRequest, fmt.Errorf("pokemon name required"))
	}
	var payload Detail
	if err := c.api.Get(ctx, "/pokemon/"+url.PathEscape(key), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch pokemon %q: %w", key, err)
	}
	return &payload, nil
}

// EntryURL returns the canonical resource URL for id, matching list results.
func (c *Client) EntryURL(id int) string {
	return c.api.BaseURL().JoinPath("pokemon", strconv.Itoa(id)).String() + "/"
}
