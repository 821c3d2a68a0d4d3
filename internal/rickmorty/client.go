package rickmorty

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/roster/internal/apiclient"
	"github.com/five82/roster/internal/loader"
)

// DefaultBaseURL is the public Rick and Morty API root.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

// Client talks to the Rick and Morty API.
type Client struct {
	api *apiclient.Client
}

// Ensure Client can feed a loader at compile time.
var _ loader.Fetcher[Character] = (*Client)(nil)

// NewClient builds a Client for baseURL; an empty value uses DefaultBaseURL.
func NewClient(baseURL string, opts ...apiclient.Option) (*Client, error) {
	api, err := apiclient.New(baseURL, DefaultBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("rickmorty client: %w", err)
	}
	return &Client{api: api}, nil
}

// FetchCharacters retrieves one page of characters, optionally filtered by name.
func (c *Client) FetchCharacters(ctx context.Context, page int, name string) (*CharacterResponse, error) {
	if c == nil {
		return nil, loader.NewError(loader.KindInvalidRequest, fmt.Errorf("client is nil"))
	}
	if page < 1 {
		return nil, loader.NewError(loader.KindInvalidRequest, fmt.Errorf("page %d out of range", page))
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if name = strings.TrimSpace(name); name != "" {
		values.Set("name", name)
	}
	var payload CharacterResponse
	if err := c.api.Get(ctx, "/character", values, &payload); err != nil {
		return nil, fmt.Errorf("fetch characters: %w", err)
	}
	return &payload, nil
}

// FetchPage implements loader.Fetcher.
func (c *Client) FetchPage(ctx context.Context, page int, query string) (loader.Page[Character], error) {
	resp, err := c.FetchCharacters(ctx, page, query)
	if err != nil {
		return loader.Page[Character]{}, err
	}
	return loader.Page[Character]{Items: resp.Results, HasNext: resp.Info.HasNext()}, nil
}
