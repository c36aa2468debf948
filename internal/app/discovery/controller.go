package discovery

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"compassai/internal/app/catalog"
	"compassai/internal/domain"
	"compassai/internal/ui"
)

const metricsFlow = "discovery"

// State is the lifecycle of one listing fetch.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Ticket identifies one issued fetch.
type Ticket struct {
	Generation uint64
	Query      catalog.Query
}

// Snapshot is the view state of the listing.
type Snapshot struct {
	State         State
	Query         catalog.Query
	Items         []domain.Tool
	Page          int
	TotalElements int64
	TotalPages    int
	// Err is the display text of the last failure; items stay visible.
	Err        string
	Generation uint64
}

// Loading reports whether the latest fetch is still in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// EmptyMessage is the text shown when a settled fetch has no items.
func (s Snapshot) EmptyMessage() string {
	if s.Query.Category != "" {
		return "선택한 카테고리에 해당하는 서비스가 없습니다."
	}
	return "해당하는 서비스가 없습니다."
}

// Controller serializes listing fetches so that only the latest issued query
// reaches the view. It is safe for concurrent use.
type Controller struct {
	logger  *zap.Logger
	metrics domain.Metrics

	mu       sync.Mutex
	gen      uint64
	closed   bool
	inflight context.CancelFunc
	snap     Snapshot
	observer func(Snapshot)
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger.Named("discovery")
		}
	}
}

func WithMetrics(metrics domain.Metrics) Option {
	return func(c *Controller) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithObserver calls fn with the new snapshot after every applied change.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		logger:  zap.NewNop(),
		metrics: domain.NoopMetrics{},
		snap:    Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin issues a new generation for q and marks the view loading. Earlier
// tickets become stale.
func (c *Controller) Begin(q catalog.Query) Ticket {
	c.mu.Lock()
	ticket := c.beginLocked(q)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return ticket
}

func (c *Controller) beginLocked(q catalog.Query) Ticket {
	c.gen++
	c.snap.Generation = c.gen
	c.snap.Query = q
	c.snap.Page = q.Page
	if !c.closed {
		c.snap.State = StateLoading
		c.snap.Err = ""
	}
	return Ticket{Generation: c.gen, Query: q}
}

// Commit applies the outcome of ticket's fetch. It returns false, leaving the
// view untouched, when a newer ticket exists or the controller is closed.
func (c *Controller) Commit(ticket Ticket, page domain.Page[domain.Tool], err error) bool {
	c.mu.Lock()
	if c.closed || ticket.Generation != c.gen {
		c.mu.Unlock()
		c.metrics.ObserveStaleDiscard(metricsFlow)
		c.logger.Debug("discarded stale listing result",
			zap.Uint64("generation", ticket.Generation),
			zap.String("query", ticket.Query.Key()),
		)
		return false
	}
	if err != nil {
		c.snap.State = StateError
		c.snap.Err = ui.MapError(err, domain.DefaultRequestFailedText)
		c.logger.Debug("listing failed", zap.String("query", ticket.Query.Key()), zap.Error(err))
	} else {
		c.snap.State = StateSuccess
		c.snap.Err = ""
		c.snap.Items = make([]domain.Tool, len(page.Content))
		copy(c.snap.Items, page.Content)
		c.snap.Page = page.Number
		c.snap.TotalElements = page.TotalElements
		c.snap.TotalPages = page.TotalPages
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return true
}

// Fetch runs q against source and commits the outcome. A newer Fetch cancels
// this one's context. A superseded fetch returns domain.ErrStaleResult.
func (c *Controller) Fetch(ctx context.Context, source Source, q catalog.Query) (Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, domain.ErrClosed
	}
	if c.inflight != nil {
		c.inflight()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.inflight = cancel
	ticket := c.beginLocked(q)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	page, err := source.ListTools(fetchCtx, q)
	applied := c.Commit(ticket, page, err)

	c.mu.Lock()
	if ticket.Generation == c.gen {
		c.inflight = nil
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	cancel()

	if !applied {
		return snap, domain.ErrStaleResult
	}
	return snap, err
}

// Close stops the controller: the in-flight fetch is cancelled and no later
// outcome is applied.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	out := c.snap
	if c.snap.Items != nil {
		out.Items = make([]domain.Tool, len(c.snap.Items))
		copy(out.Items, c.snap.Items)
	}
	return out
}

func (c *Controller) notify(snap Snapshot) {
	if c.observer != nil {
		c.observer(snap)
	}
}
