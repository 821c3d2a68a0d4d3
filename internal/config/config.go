package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures roster's runtime settings.
type Config struct {
	RickMortyURL     string
	PokeAPIURL       string
	PokemonLimit     int
	PageSize         int
	RequestTimeout   time.Duration
	PrefetchDistance int
	DataDir          string
	LogLevel         string
}

const (
	defaultConfigPath       = "~/.config/roster/config.toml"
	defaultDataDir          = "~/.local/share/roster"
	defaultRickMortyURL     = "https://rickandmortyapi.com/api"
	defaultPokeAPIURL       = "https://pokeapi.co/api/v2"
	defaultPokemonLimit     = 151
	defaultPageSize         = 20
	defaultRequestTimeout   = 10 * time.Second
	defaultPrefetchDistance = 5
	defaultLogLevel         = "info"
)

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		RickMortyURL:     defaultRickMortyURL,
		PokeAPIURL:       defaultPokeAPIURL,
		PokemonLimit:     defaultPokemonLimit,
		PageSize:         defaultPageSize,
		RequestTimeout:   defaultRequestTimeout,
		PrefetchDistance: defaultPrefetchDistance,
		DataDir:          mustExpand(defaultDataDir),
		LogLevel:         defaultLogLevel,
	}
}

// Load locates and parses the roster config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		RickMortyURL          string `toml:"rickmorty_url"`
		PokeAPIURL            string `toml:"pokeapi_url"`
		PokemonLimit          int    `toml:"pokemon_limit"`
		PageSize              int    `toml:"page_size"`
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
		PrefetchDistance      int    `toml:"prefetch_distance"`
		DataDir               string `toml:"data_dir"`
		LogLevel              string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.RickMortyURL); v != "" {
		cfg.RickMortyURL = v
	}
	if v := strings.TrimSpace(raw.PokeAPIURL); v != "" {
		cfg.PokeAPIURL = v
	}
	// Negative limits browse the whole index, so only zero means "unset".
	if raw.PokemonLimit != 0 {
		cfg.PokemonLimit = raw.PokemonLimit
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.PrefetchDistance > 0 {
		cfg.PrefetchDistance = raw.PrefetchDistance
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// FavoritesPath returns the favorites database location.
func (c Config) FavoritesPath() string {
	return filepath.Join(c.dataDir(), "favorites.db")
}

// LogPath returns the TUI log file location.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "roster.log")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
