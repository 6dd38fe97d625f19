package store

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
	"github.com/matzehuels/magnetgrid/pkg/observability"
)

// LayoutStore loads and saves layouts by key.
type LayoutStore struct {
	cache  cache.Cache
	keyer  cache.Keyer
	cfg    grid.Config
	logger *log.Logger
}

// Option configures a LayoutStore.
type Option func(*LayoutStore)

// WithKeyer sets how layout keys map to cache keys.
func WithKeyer(k cache.Keyer) Option {
	return func(s *LayoutStore) {
		if k != nil {
			s.keyer = k
		}
	}
}

// WithGridConfig sets the grid used to sanitize loaded layouts.
func WithGridConfig(cfg grid.Config) Option {
	return func(s *LayoutStore) { s.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *LayoutStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a LayoutStore over c. A nil cache stores nothing.
func New(c cache.Cache, opts ...Option) *LayoutStore {
	if c == nil {
		c = cache.NewNullCache()
	}
	s := &LayoutStore{
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		cfg:    grid.Default(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the underlying byte store.
func (s *LayoutStore) Cache() cache.Cache { return s.cache }

// Load returns the layout saved under key. A missing key returns an error
// with code NOT_FOUND.
func (s *LayoutStore) Load(ctx context.Context, key string) (grid.Layout, error) {
	if err := errors.ValidateLayoutKey(key); err != nil {
		return nil, err
	}
	hooks := observability.Store()

	data, hit, err := s.cache.Get(ctx, s.keyer.LayoutKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load layout %s", key)
	}
	if !hit {
		hooks.OnLoadMiss(ctx, key)
		return nil, errors.New(errors.ErrCodeNotFound, "no layout saved under %q", key)
	}
	hooks.OnLoadHit(ctx, key)

	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	l, err := grid.Parse(doc)
	if err != nil {
		return nil, err
	}
	return s.cfg.Sanitize(l), nil
}

// LoadOrDefault returns the saved layout, or def when nothing is saved or
// the store fails. Failures are logged, never returned.
func (s *LayoutStore) LoadOrDefault(ctx context.Context, key string, def grid.Layout) grid.Layout {
	l, err := s.Load(ctx, key)
	if err == nil {
		return l
	}
	if errors.Is(err, errors.ErrCodeNotFound) {
		s.logger.Debug("no saved layout, using default", "key", key)
	} else {
		s.logger.Warn("load layout failed, using default", "key", key, "err", err)
	}
	return def.Clone()
}

// Save writes l under key.
func (s *LayoutStore) Save(ctx context.Context, key string, l grid.Layout) error {
	if err := errors.ValidateLayoutKey(key); err != nil {
		return err
	}
	data, err := document.Marshal(grid.Export(l, key))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout %s", key)
	}
	err = s.cache.Set(ctx, s.keyer.LayoutKey(key), data, cache.TTLLayout)
	observability.Store().OnSave(ctx, key, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", key)
	}
	s.logger.Debug("saved layout", "key", key, "fields", len(l), "bytes", len(data))
	return nil
}

// Delete removes the layout saved under key.
func (s *LayoutStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateLayoutKey(key); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, s.keyer.LayoutKey(key)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %s", key)
	}
	return nil
}

// Close closes the underlying cache.
func (s *LayoutStore) Close() error {
	return s.cache.Close()
}
