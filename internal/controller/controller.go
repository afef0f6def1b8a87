package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amishk599/matchdeck/internal/cache"
	"github.com/amishk599/matchdeck/internal/model"
	"github.com/amishk599/matchdeck/internal/paging"
	"github.com/amishk599/matchdeck/internal/session"
)

// Phase is the controller's lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the published state consumed by presentation. Consumers read
// snapshots and never mutate shared state directly.
type Snapshot struct {
	Phase           Phase
	Recommendations []model.Recommendation
	CurrentPage     int
	TotalPages      int
	TotalJobs       int
	CountKnown      bool // false until the lazy total-count probe has run
	IsFirstPage     bool
	Err             error
}

// Controller wires the cache, dedup guard, pagination math, and page fetcher
// into one state machine. All fetch-completing publishes carry a sequence
// number; a response that lost the race to a newer one is discarded rather
// than applied, so page navigation stays correct under network reordering.
type Controller struct {
	mu          sync.Mutex
	snap        Snapshot
	seq         uint64
	lastApplied uint64

	cache  *cache.Cache
	pages  model.PageFetcher
	logger *slog.Logger
}

// New creates a controller in the uninitialized state.
func New(c *cache.Cache, pages model.PageFetcher, logger *slog.Logger) *Controller {
	return &Controller{
		cache: c,
		pages: pages,
		snap: Snapshot{
			Phase:       PhaseUninitialized,
			CurrentPage: 1,
			TotalPages:  1,
			IsFirstPage: true,
		},
		logger: logger,
	}
}

// Snapshot returns a copy of the current published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snap
	snap.Recommendations = append([]model.Recommendation(nil), c.snap.Recommendations...)
	return snap
}

// SetIdentity reacts to an identity transition. Becoming signed in triggers
// the initial first-page load; becoming signed out clears the cache and all
// counts from any state.
func (c *Controller) SetIdentity(ctx context.Context, id session.Identity) {
	if !id.SignedIn {
		c.cache.Invalidate()
		c.mu.Lock()
		c.seq++
		c.lastApplied = c.seq
		c.snap = Snapshot{
			Phase:       PhaseUninitialized,
			CurrentPage: 1,
			TotalPages:  1,
			IsFirstPage: true,
		}
		c.mu.Unlock()
		c.logger.Info("signed out, recommendation state cleared")
		return
	}

	c.logger.Info("signed in, loading best matches", "session", id.SessionID)
	c.loadFirstPage(ctx, false)
}

// Refresh forces a refetch of the first page, bypassing both the local cache
// and the backend's server-side cache.
func (c *Controller) Refresh(ctx context.Context) {
	c.loadFirstPage(ctx, true)
}

// ChangePage navigates to page n. Out-of-range requests are silently ignored.
// Page 1 is served through the cache; pages >= 2 hit the offset-paginated
// endpoint, skipping the backend page that overlaps the best-matches set.
func (c *Controller) ChangePage(ctx context.Context, n int) {
	if n < 1 {
		return
	}

	c.mu.Lock()
	known := c.snap.CountKnown
	c.mu.Unlock()
	if !known {
		c.ensureTotal(ctx)
	}

	c.mu.Lock()
	totalPages := c.snap.TotalPages
	c.mu.Unlock()
	if n > totalPages {
		return
	}

	if n == 1 {
		c.loadFirstPage(ctx, false)
		return
	}

	seq := c.begin()
	c.markLoading(seq)

	backendPage := paging.BackendPageFor(n)
	items, total, err := c.pages.FetchPage(ctx, backendPage, paging.PageSize)
	if err != nil {
		c.logger.Error("page fetch failed", "page", n, "backend_page", backendPage, "error", err)
		// Pagination metadata keeps its prior known-good values; only the
		// visible items for this attempt are reset.
		c.publish(seq, func(s *Snapshot) {
			s.Phase = PhaseError
			s.Recommendations = nil
			s.Err = err
		})
		return
	}

	if len(items) > paging.PageSize {
		items = items[:paging.PageSize]
	}

	applied := c.publish(seq, func(s *Snapshot) {
		s.Phase = PhaseReady
		s.Recommendations = items
		s.CurrentPage = n
		s.IsFirstPage = false
		s.TotalJobs = total
		s.TotalPages = paging.TotalPages(total, paging.PageSize)
		s.CountKnown = true
		s.Err = nil
	})
	if applied {
		c.logger.Info("page loaded", "page", n, "items", len(items), "total_jobs", total)
	}
}

// EnsureTotal lazily discovers the backend's total job count with a minimal
// probe request so page math can run. A probe failure leaves the count
// unknown; it is retried on the next call.
func (c *Controller) EnsureTotal(ctx context.Context) {
	c.mu.Lock()
	known := c.snap.CountKnown
	c.mu.Unlock()
	if known {
		return
	}
	c.ensureTotal(ctx)
}

func (c *Controller) ensureTotal(ctx context.Context) {
	seq := c.begin()

	_, total, err := c.pages.FetchPage(ctx, 1, 1)
	if err != nil {
		c.logger.Warn("total count probe failed", "error", err)
		return
	}

	c.publish(seq, func(s *Snapshot) {
		s.TotalJobs = total
		s.TotalPages = paging.TotalPages(total, paging.PageSize)
		s.CountKnown = true
	})
}

// loadFirstPage drives uninitialized/ready -> loading -> ready|error for the
// best-matches page. A call folded into an in-flight fetch publishes nothing;
// it relies on the owning call's eventual publish.
func (c *Controller) loadFirstPage(ctx context.Context, force bool) {
	seq := c.begin()
	c.markLoading(seq)

	items, owned, err := c.cache.GetOrFetch(ctx, force)
	if !owned {
		return
	}
	if err != nil {
		c.logger.Error("first page load failed", "error", err)
		c.publish(seq, func(s *Snapshot) {
			s.Phase = PhaseError
			s.Recommendations = nil
			s.CurrentPage = 1
			s.TotalPages = 1
			s.TotalJobs = 0
			s.CountKnown = false
			s.IsFirstPage = true
			s.Err = err
		})
		return
	}

	applied := c.publish(seq, func(s *Snapshot) {
		s.Phase = PhaseReady
		s.Recommendations = items
		s.CurrentPage = 1
		s.IsFirstPage = true
		s.Err = nil
	})
	if applied {
		c.logger.Info("best matches ready", "items", len(items), "forced", force)
	}
}

// begin allocates the sequence number for a fetch attempt.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// markLoading flips the phase to loading without advancing lastApplied: a
// loading mark from a call that ends up folded into an in-flight fetch must
// not block that fetch's eventual publish.
func (c *Controller) markLoading(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.lastApplied {
		return
	}
	c.snap.Phase = PhaseLoading
}

// publish applies mutate to the snapshot unless a newer fetch has already
// published, in which case the stale result is dropped. It reports whether
// the mutation was applied.
func (c *Controller) publish(seq uint64, mutate func(*Snapshot)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.lastApplied {
		c.logger.Debug("discarding stale publish", "seq", seq, "last_applied", c.lastApplied)
		return false
	}
	c.lastApplied = seq
	mutate(&c.snap)
	return true
}
