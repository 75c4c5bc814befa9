package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/alexisbeaulieu97/shelf/internal/config"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/authclient"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/catalog"
	infraconfig "github.com/alexisbeaulieu97/shelf/internal/infrastructure/config"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/preferences"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	"github.com/alexisbeaulieu97/shelf/internal/state"
)

// Options controls Bootstrap.
type Options struct {
	// ConfigPath is an explicit config file. Empty searches . and Home.
	ConfigPath string
	// Home is the shelf state directory, normally ~/.shelf.
	Home string
	// LogWriter overrides the configured log file. The terminal UI leaves it
	// nil so logs never reach the screen.
	LogWriter io.Writer
	// LogLevel overrides log.level when set.
	LogLevel string
	// Auth replaces the configured auth backend.
	Auth ports.AuthService
	// Preferences replaces the configured preference backend.
	Preferences ports.PreferenceStore
}

// App bundles the long-lived services shared by every command.
type App struct {
	Config     *cfgpkg.Config
	ConfigFile string
	Logger     ports.Logger
	Events     *events.LoggingPublisher
	Catalog    *catalog.Catalog

	Theme *state.ThemeStore
	Auth  *state.AuthStore
	Cart  *state.CartStore

	closers []io.Closer
}

// DefaultHome returns ~/.shelf.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".shelf"), nil
}

// Bootstrap loads configuration, opens the log, then loads the catalog and
// restores the theme concurrently before wiring the stores.
func Bootstrap(ctx context.Context, opts Options) (*App, error) {
	pending := logging.NewPending(0)
	ctx = ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())

	loader := infraconfig.NewLoader(pending.With("layer", "infrastructure", "component", "config"), opts.Home)
	cfg, used, err := loader.Load(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, ConfigFile: used}
	logger, err := a.openLogger(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	pending.Flush(logger)
	a.Logger = logger
	a.Events = events.NewLoggingPublisher(logger.With("layer", "infrastructure", "component", "events"))

	var (
		books *catalog.Catalog
		theme = state.NewThemeStore(nil, logger, a.Events)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := catalog.Load(gctx, cfg.Catalog.Path, logger.With("component", "catalog"))
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		books = c
		return nil
	})
	g.Go(func() error {
		prefs, err := a.openPreferences(gctx, opts)
		if err != nil {
			// The theme still works for this session; it just is not saved.
			logger.Warn(gctx, "preferences unavailable", "backend", cfg.Preferences.Backend, "error", err)
			return nil
		}
		theme = state.NewThemeStore(prefs, logger, a.Events)
		theme.Restore(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.Close()
		return nil, err
	}

	auth := opts.Auth
	if auth == nil {
		auth, err = newAuthService(cfg, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Catalog = books
	a.Theme = theme
	a.Auth = state.NewAuthStore(auth, logger, a.Events)
	a.Cart = state.NewCartStore(books, logger, a.Events)

	logger.Info(ctx, "shelf ready",
		"config", used,
		"books", books.Len(),
		"auth_mode", cfg.Auth.Mode,
		"theme", string(theme.Theme()),
	)
	return a, nil
}

// Close releases files and connections opened by Bootstrap.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openLogger(opts Options) (*logging.Logger, error) {
	level := a.Config.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	writer := opts.LogWriter
	if writer == nil {
		if a.Config.Log.File == "" {
			writer = os.Stderr
		} else {
			if err := os.MkdirAll(filepath.Dir(a.Config.Log.File), 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
			f, err := os.OpenFile(a.Config.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file: %w", err)
			}
			a.closers = append(a.closers, f)
			writer = f
		}
	}

	return logging.New(logging.Options{
		Writer: writer,
		Level:  level,
		Format: a.Config.Log.Format,
		Layer:  "app",
	})
}

func (a *App) openPreferences(ctx context.Context, opts Options) (ports.PreferenceStore, error) {
	if opts.Preferences != nil {
		return opts.Preferences, nil
	}
	p := a.Config.Preferences
	switch p.Backend {
	case "redis":
		store, err := preferences.NewRedisStore(ctx, preferences.RedisOptions{
			Addr:      p.Redis.Addr,
			Password:  p.Redis.Password,
			DB:        p.Redis.DB,
			KeyPrefix: p.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return preferences.NewFileStore(p.Path)
	}
}

func newAuthService(cfg *cfgpkg.Config, logger ports.Logger) (ports.AuthService, error) {
	switch cfg.Auth.Mode {
	case "http":
		return authclient.NewHTTPService(cfg.Auth.BaseURL, cfg.Auth.Timeout, logger.With("component", "auth_http")), nil
	default:
		return authclient.NewLocalService(authclient.WithLatency(cfg.Auth.Latency))
	}
}
