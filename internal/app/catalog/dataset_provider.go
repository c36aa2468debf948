package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"compassai/internal/domain"
	infraCatalog "compassai/internal/infra/catalog"
	"compassai/internal/infra/hashutil"
)

const defaultReloadDebounce = 200 * time.Millisecond

// DatasetLoader reads a tool list; an empty path means the built-in list.
type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]domain.Tool, error)
}

// DatasetProvider serves the local tool list and, when backed by a file,
// reloads it on change.
type DatasetProvider struct {
	logger *zap.Logger
	loader DatasetLoader
	path   string

	state    atomic.Value
	revision atomic.Uint64

	subsMu sync.Mutex
	subs   map[chan domain.DatasetUpdate]struct{}

	reloadMu  sync.Mutex
	watchOnce sync.Once
	watchCtx  context.Context
}

// NewDatasetProvider loads the dataset at path (or the built-in one).
// The context bounds the lifetime of the file watcher.
func NewDatasetProvider(ctx context.Context, path string, logger *zap.Logger) (*DatasetProvider, error) {
	return NewDatasetProviderWithLoader(ctx, path, infraCatalog.NewLoader(logger), logger)
}

func NewDatasetProviderWithLoader(ctx context.Context, path string, loader DatasetLoader, logger *zap.Logger) (*DatasetProvider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tools, err := loader.Load(ctx, path)
	if err != nil {
		return nil, domain.Wrap(domain.CodeInvalidArgument, "load dataset", err)
	}
	provider := &DatasetProvider{
		logger:   logger.Named("dataset_provider"),
		loader:   loader,
		path:     path,
		subs:     make(map[chan domain.DatasetUpdate]struct{}),
		watchCtx: ctx,
	}
	provider.state.Store(domain.DatasetSnapshot{
		Tools:    tools,
		Revision: 1,
		ETag:     hashutil.DatasetETag(logger, tools),
		LoadedAt: time.Now(),
		Path:     path,
	})
	provider.revision.Store(1)
	return provider, nil
}

// Snapshot returns the current dataset.
func (p *DatasetProvider) Snapshot(ctx context.Context) (domain.DatasetSnapshot, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return domain.DatasetSnapshot{}, err
		}
	}
	return p.state.Load().(domain.DatasetSnapshot), nil
}

// Watch subscribes to dataset updates until ctx is done. The file watcher
// starts with the first subscriber; the built-in dataset never changes.
func (p *DatasetProvider) Watch(ctx context.Context) (<-chan domain.DatasetUpdate, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan domain.DatasetUpdate, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	if p.path != "" {
		p.watchOnce.Do(func() {
			go p.runWatcher(p.watchCtx)
		})
	}

	go func() {
		<-ctx.Done()
		p.subsMu.Lock()
		delete(p.subs, ch)
		p.subsMu.Unlock()
	}()

	return ch, nil
}

// Reload forces a dataset reload.
func (p *DatasetProvider) Reload(ctx context.Context) error {
	return p.reload(ctx, domain.DatasetUpdateSourceManual)
}

func (p *DatasetProvider) reload(ctx context.Context, source domain.DatasetUpdateSource) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	prev := p.state.Load().(domain.DatasetSnapshot)
	tools, err := p.loader.Load(ctx, p.path)
	if err != nil {
		return err
	}
	if cmp.Equal(prev.Tools, tools) {
		return nil
	}

	nextRevision := p.revision.Load() + 1
	next := domain.DatasetSnapshot{
		Tools:    tools,
		Revision: nextRevision,
		ETag:     hashutil.DatasetETag(p.logger, tools),
		LoadedAt: time.Now(),
		Path:     p.path,
	}
	p.revision.Store(nextRevision)
	p.state.Store(next)
	p.logger.Info("dataset reloaded",
		zap.String("source", string(source)),
		zap.Uint64("revision", nextRevision),
		zap.String("etag", next.ETag),
		zap.Int("tools", len(tools)),
	)
	p.broadcast(domain.DatasetUpdate{Snapshot: next, Source: source})
	return nil
}

func (p *DatasetProvider) broadcast(update domain.DatasetUpdate) {
	for _, ch := range p.copySubscribers() {
		select {
		case ch <- update:
		default:
		}
	}
}

func (p *DatasetProvider) copySubscribers() []chan domain.DatasetUpdate {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	out := make([]chan domain.DatasetUpdate, 0, len(p.subs))
	for ch := range p.subs {
		out = append(out, ch)
	}
	return out
}

func (p *DatasetProvider) runWatcher(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("dataset watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		p.logger.Warn("dataset watcher add failed", zap.String("path", dir), zap.Error(err))
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case err := <-watcher.Errors:
			if err != nil {
				p.logger.Warn("dataset watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if !shouldReloadForPath(event.Name, p.path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(defaultReloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(defaultReloadDebounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.reload(ctx, domain.DatasetUpdateSourceWatch); err != nil {
				p.logger.Warn("dataset reload failed", zap.Error(err))
			}
		}
	}
}

func shouldReloadForPath(path string, datasetPath string) bool {
	if path == "" || datasetPath == "" {
		return false
	}
	return filepath.Clean(path) == filepath.Clean(datasetPath)
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
