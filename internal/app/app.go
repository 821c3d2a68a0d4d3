package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/favorites"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/source"
	"github.com/five82/roster/internal/ui"
)

// Options configure the roster browser.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roster/prefs.toml
	Source     string // empty reopens the last browsed catalogue
	LogLevel   string // overrides log_level from the config file
	Debug      bool
}

// session holds everything the browser needs, plus the resources to release
// when it exits.
type session struct {
	ui      ui.Options
	logger  zerolog.Logger
	closers []func() error
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run boots the roster TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	s, err := prepare(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	s.logger.Info().Str("source", s.ui.Source).Msg("browser starting")
	err = ui.Run(s.ui)
	s.logger.Info().Err(err).Msg("browser stopped")
	return err
}

// LogLevel picks the effective level: --debug, then an explicit override,
// then the config file.
func LogLevel(cfg config.Config, override string, debug bool) string {
	switch {
	case debug:
		return "debug"
	case override != "":
		return override
	default:
		return cfg.LogLevel
	}
}

func prepare(ctx context.Context, opts Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load roster config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	s := &session{}
	logger, closeLog, err := logging.New(logging.Options{
		Level: LogLevel(cfg, opts.LogLevel, opts.Debug),
		Path:  cfg.LogPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	s.logger = logger
	s.closers = append(s.closers, closeLog)

	store, err := favorites.Open(cfg.FavoritesPath())
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.closers = append(s.closers, store.Close)

	registry, err := source.FromConfig(cfg, store, logger)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("init sources: %w", err)
	}

	name := userPrefs.Source
	if opts.Source != "" {
		if _, ok := registry.Get(opts.Source); !ok {
			_ = s.Close()
			return nil, fmt.Errorf("unknown source %q (want one of %v)", opts.Source, registry.Names())
		}
		name = opts.Source
	}

	s.ui = ui.Options{
		Context:   ctx,
		Registry:  registry,
		Source:    name,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogPath(),
		Logger:    logger,
	}
	return s, nil
}
