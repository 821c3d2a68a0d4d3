// Package config loads roster's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roster/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Rick and Morty API: https://rickandmortyapi.com/api
//   - PokeAPI: https://pokeapi.co/api/v2
//   - Pokémon limit: 151 (negative browses the full index)
//   - Page size: 20 (PokeAPI only; the Rick and Morty API pages are fixed)
//   - Request timeout: 10 seconds
//   - Prefetch distance: 5 rows from the end of the list
//   - Data directory: ~/.local/share/roster (favorites.db, roster.log)
//   - Log level: info
//
// # TOML Format
//
//	rickmorty_url = "https://rickandmortyapi.com/api"
//	pokeapi_url = "https://pokeapi.co/api/v2"
//	pokemon_limit = 151
//	page_size = 20
//	request_timeout_seconds = 10
//	prefetch_distance = 5
//	data_dir = "~/.local/share/roster"
//	log_level = "info"
//
// Paths beginning with ~ are expanded to the user's home directory and made
// absolute. A file that exists but fails to parse is an error; roster will
// not start with a half-read configuration.
package config
