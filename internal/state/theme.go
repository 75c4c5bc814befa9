package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

const persistTimeout = 2 * time.Second

// ThemeSnapshot is the value delivered to theme subscribers.
type ThemeSnapshot struct {
	Mode    shop.ThemeMode
	Version uint64
}

// ThemeStore owns the colour theme. Toggle persists the new value through a
// PreferenceStore; persistence failures are logged and never undo the toggle.
type ThemeStore struct {
	mu      sync.Mutex
	mode    shop.ThemeMode
	version uint64

	prefs     ports.PreferenceStore
	logger    ports.Logger
	publisher ports.EventPublisher
	subs      broadcaster[ThemeSnapshot]
}

// NewThemeStore creates a store in light mode. prefs, logger and publisher
// may be nil.
func NewThemeStore(prefs ports.PreferenceStore, logger ports.Logger, publisher ports.EventPublisher) *ThemeStore {
	return &ThemeStore{
		mode:      shop.ThemeLight,
		prefs:     prefs,
		logger:    componentLogger(logger, "theme_store"),
		publisher: publisher,
	}
}

// Theme returns the current mode. It is always defined.
func (s *ThemeStore) Theme() shop.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Snapshot returns the current mode with its version.
func (s *ThemeStore) Snapshot() ThemeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ThemeSnapshot{Mode: s.mode, Version: s.version}
}

// Subscribe registers fn for every theme change.
func (s *ThemeStore) Subscribe(fn func(ThemeSnapshot)) ports.Subscription {
	return s.subs.subscribe(fn)
}

// Restore loads the persisted theme. A missing value keeps the default; an
// unreadable or unknown value is logged and also keeps the default. Restore
// does not notify subscribers because nothing has been rendered yet.
func (s *ThemeStore) Restore(ctx context.Context) shop.ThemeMode {
	if s.prefs == nil {
		return s.Theme()
	}
	raw, err := s.prefs.Load(ctx, shop.ThemePreferenceKey)
	if err != nil {
		if !errors.Is(err, ports.ErrPreferenceNotFound) {
			s.logger.Warn(ctx, "theme preference unreadable, using default", "error", err)
		}
		return s.Theme()
	}
	mode, err := shop.ParseThemeMode(raw)
	if err != nil {
		s.logger.Warn(ctx, "theme preference invalid, using default", "value", raw, "error", err)
		return s.Theme()
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	s.logger.Debug(ctx, "theme restored", "theme", string(mode))
	return mode
}

// Toggle flips light and dark, persists the new value and notifies every
// subscriber before returning.
func (s *ThemeStore) Toggle() shop.ThemeMode {
	s.mu.Lock()
	s.mode = s.mode.Toggle()
	s.version++
	snap := ThemeSnapshot{Mode: s.mode, Version: s.version}
	perr := s.persistLocked(snap.Mode)
	s.subs.enqueue(snap)
	s.mu.Unlock()

	s.subs.drain()
	if perr != nil {
		publish(s.publisher, ports.EventPreferenceFailed, map[string]interface{}{
			"key":   shop.ThemePreferenceKey,
			"error": perr.Error(),
		})
	}
	publish(s.publisher, ports.EventThemeChanged, map[string]interface{}{
		"theme":   string(snap.Mode),
		"version": snap.Version,
	})
	return snap.Mode
}

// persistLocked writes mode while s.mu is held so that saves reach the
// preference store in toggle order.
func (s *ThemeStore) persistLocked(mode shop.ThemeMode) error {
	if s.prefs == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.prefs.Save(ctx, shop.ThemePreferenceKey, string(mode)); err != nil {
		perr := shop.NewError(shop.ErrCodePersistence, "save theme", err, map[string]interface{}{
			"theme": string(mode),
		})
		s.logger.Warn(ctx, "theme not persisted", "theme", string(mode), "error", perr)
		return perr
	}
	return nil
}
