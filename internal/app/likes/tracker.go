package likes

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"compassai/internal/domain"
)

const metricsFlow = "likes"

// Client is the subset of the REST SDK used for likes.
type Client interface {
	LikeStatus(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error)
	Like(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error)
	Unlike(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error)
}

// Tracker caches like states and toggles them optimistically.
type Tracker struct {
	client  Client
	logger  *zap.Logger
	metrics domain.Metrics

	mu     sync.Mutex
	states map[domain.ToolID]domain.LikeStatus
	busy   map[domain.ToolID]struct{}
}

type Option func(*Tracker)

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger.Named("likes")
		}
	}
}

func WithMetrics(metrics domain.Metrics) Option {
	return func(t *Tracker) {
		if metrics != nil {
			t.metrics = metrics
		}
	}
}

func NewTracker(client Client, opts ...Option) *Tracker {
	t := &Tracker{
		client:  client,
		logger:  zap.NewNop(),
		metrics: domain.NoopMetrics{},
		states:  make(map[domain.ToolID]domain.LikeStatus),
		busy:    make(map[domain.ToolID]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Status fetches and caches the like state of a tool.
func (t *Tracker) Status(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error) {
	status, err := t.client.LikeStatus(ctx, id)
	if err != nil {
		return domain.LikeStatus{}, err
	}
	t.mu.Lock()
	t.states[id] = status
	t.mu.Unlock()
	return status, nil
}

// Current returns the cached like state, which may be tentative.
func (t *Tracker) Current(id domain.ToolID) (domain.LikeStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	status, ok := t.states[id]
	return status, ok
}

// Toggle flips the like state. The flipped state is visible through Current
// until the server answers; a failure restores the previous state.
func (t *Tracker) Toggle(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error) {
	if _, ok := t.Current(id); !ok {
		if _, err := t.Status(ctx, id); err != nil {
			return domain.LikeStatus{}, err
		}
	}

	t.mu.Lock()
	if _, busy := t.busy[id]; busy {
		t.mu.Unlock()
		return domain.LikeStatus{}, domain.E(domain.CodeFailedPrecond, "toggle like", "이미 처리 중입니다.", nil)
	}
	previous := t.states[id]
	tentative := previous.Toggled()
	t.states[id] = tentative
	t.busy[id] = struct{}{}
	t.mu.Unlock()

	var (
		confirmed domain.LikeStatus
		err       error
	)
	if tentative.Liked {
		confirmed, err = t.client.Like(ctx, id)
	} else {
		confirmed, err = t.client.Unlike(ctx, id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.busy, id)
	if err != nil {
		t.states[id] = previous
		t.metrics.ObserveRollback(metricsFlow)
		t.logger.Warn("like toggle failed", zap.String("tool", id.String()), zap.Error(err))
		return previous, err
	}
	if confirmed.ToolID == 0 {
		// The server answered without a body; keep the tentative state.
		confirmed = tentative
	}
	t.states[id] = confirmed
	return confirmed, nil
}

// Forget drops the cached state of every tool, e.g. after logout.
func (t *Tracker) Forget() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[domain.ToolID]domain.LikeStatus)
}
