package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amishk599/matchdeck/internal/fetchguard"
	"github.com/amishk599/matchdeck/internal/model"
	"github.com/amishk599/matchdeck/internal/paging"
)

// DefaultValidity matches the backend's own server-side cache window.
const DefaultValidity = 1 * time.Hour

// fetchKey is the dedup-guard key for the first-page fetch.
const fetchKey = "best-matches"

// entry is one cached first-page result. Entries are never mutated in place;
// a refetch replaces the whole entry.
type entry struct {
	items     []model.Recommendation
	fetchedAt time.Time
}

// Cache holds the normalized best-matches first page for the lifetime of a
// session. Fresh entries are served without a network call; stale or forced
// reads go through the dedup guard so concurrent triggers collapse into one
// request.
type Cache struct {
	mu    sync.Mutex
	entry *entry

	fetcher  model.BestMatchFetcher
	guard    *fetchguard.Guard
	validity time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a cache over fetcher with the given validity window.
func New(fetcher model.BestMatchFetcher, guard *fetchguard.Guard, validity time.Duration, logger *slog.Logger) *Cache {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Cache{
		fetcher:  fetcher,
		guard:    guard,
		validity: validity,
		logger:   logger,
		now:      time.Now,
	}
}

// GetOrFetch returns the first-page recommendations. A fresh cached entry is
// served as-is with no network call. Otherwise the fetch runs through the
// dedup guard: the returned bool reports whether this call owns a result. A
// false return with nil error means another fetch was already in flight and
// this call was folded into it; the caller should wait for that fetch's
// publish instead of acting on the empty result.
//
// On fetch failure any existing entry is left untouched so the caller can
// choose a serve-stale policy.
func (c *Cache) GetOrFetch(ctx context.Context, forceRefresh bool) ([]model.Recommendation, bool, error) {
	c.mu.Lock()
	if e := c.entry; e != nil && !forceRefresh && c.now().Sub(e.fetchedAt) < c.validity {
		items := snapshot(e.items)
		c.mu.Unlock()
		c.logger.Debug("cache hit", "items", len(items), "age", c.now().Sub(e.fetchedAt).String())
		return items, true, nil
	}
	c.mu.Unlock()

	var fetched []model.Recommendation
	ran, err := c.guard.Run(fetchKey, func() error {
		items, err := c.fetcher.FetchBestMatches(ctx, forceRefresh)
		if err != nil {
			return err
		}

		// First page is always capped at one board's worth of items.
		if len(items) > paging.PageSize {
			items = items[:paging.PageSize]
		}

		c.mu.Lock()
		c.entry = &entry{items: items, fetchedAt: c.now()}
		c.mu.Unlock()

		fetched = snapshot(items)
		c.logger.Info("first page cached", "items", len(items), "forced", forceRefresh)
		return nil
	})
	if !ran {
		c.logger.Debug("first-page fetch already in flight, folding")
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return fetched, true, nil
}

// Invalidate drops the cached entry. Called on sign-out.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}

// Cached returns the current entry's items without any freshness check or
// network call, or nil if nothing is cached.
func (c *Cache) Cached() []model.Recommendation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return nil
	}
	return snapshot(c.entry.items)
}

// snapshot copies items so callers can't reach the stored entry.
func snapshot(items []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(items))
	copy(out, items)
	return out
}

// PadToBoard right-pads a copy of items with inert records up to the fixed
// board size so consumers can always render five rows. Padding is a
// presentation shaping step only; it is never written back into the cache.
func PadToBoard(items []model.Recommendation) []model.Recommendation {
	padded := snapshot(items)
	for len(padded) < paging.PageSize {
		padded = append(padded, model.Recommendation{})
	}
	return padded
}
