package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
)

var refreshTimeout = 10 * time.Second

// Cache holds the best known settings snapshot.
// It starts from the persisted snapshot (or the defaults) and is replaced after every successful Refresh.
type Cache struct {
	repo   Repository
	store  SnapshotStore
	logger core.Logger

	mu       sync.RWMutex
	snapshot Settings

	subsMu  sync.Mutex
	subs    map[int]func(Settings)
	nextSub int
}

func NewCache(repo Repository, store SnapshotStore, logger core.Logger) *Cache {
	c := &Cache{
		repo:     repo,
		store:    store,
		logger:   logger,
		snapshot: Defaults(),
		subs:     make(map[int]func(Settings)),
	}
	if store != nil {
		if s, err := store.Load(); err == nil {
			c.snapshot = complete(s)
		} else if !errors.Is(err, ErrNoSnapshot) {
			logger.Warn(fmt.Sprintf("loading settings snapshot: %v", err), err)
		}
	}
	return c
}

// Get returns the current snapshot without blocking on I/O.
func (c *Cache) Get() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.clone()
}

// Refresh fetches the settings table, merges it over the defaults, persists and publishes the result.
// Concurrent refreshes are not deduplicated: whichever finishes last wins.
// On fetch failure the current snapshot stays in effect and the error is returned.
func (c *Cache) Refresh(ctx context.Context) (Settings, error) {
	recs, err := c.repo.QueryAll(ctx)
	if err != nil {
		err = errors.Wrap(err, "fetching settings")
		c.logger.Error(err.Error(), err)
		return c.Get(), err
	}

	merged, err := Merge(recs)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("merging settings: %v", err), err)
	}
	merged.FetchedAt = time.Now().UTC()

	c.mu.Lock()
	c.snapshot = merged
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(merged); err != nil {
			c.logger.Warn(fmt.Sprintf("persisting settings snapshot: %v", err), err)
		}
	}

	c.notify(merged)
	return merged.clone(), nil
}

// RefreshAsync starts a Refresh in the background. Errors are only logged.
func (c *Cache) RefreshAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_, _ = c.Refresh(ctx)
	}()
}

// Update validates and saves u, then refreshes the snapshot.
func (c *Cache) Update(ctx context.Context, validate *validator.Validate, u Update) (Settings, error) {
	if err := validate.Struct(u); err != nil {
		return Settings{}, err
	}
	recs, err := u.Records()
	if err != nil {
		var unknown ErrUnknownKey
		if errors.As(err, &unknown) {
			return Settings{}, core.NewValidationError(err, core.FieldError{Field: unknown.Key, Error: err.Error()})
		}
		return Settings{}, err
	}
	if len(recs) > 0 {
		if err = c.repo.Upsert(ctx, recs...); err != nil {
			return Settings{}, errors.Wrap(err, "saving settings")
		}
	}
	return c.Refresh(ctx)
}

// Subscribe registers fn to be called with every new snapshot. Call the returned func to unsubscribe.
func (c *Cache) Subscribe(fn func(Settings)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *Cache) notify(s Settings) {
	c.subsMu.Lock()
	fns := make([]func(Settings), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(s.clone())
	}
}
