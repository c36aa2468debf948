package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"compassai/internal/app/account"
	"compassai/internal/app/catalog"
	"compassai/internal/app/discovery"
	"compassai/internal/app/help"
	"compassai/internal/app/likes"
	"compassai/internal/app/moderation"
	"compassai/internal/app/submission"
	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/infra/config"
	"compassai/internal/infra/telemetry"
	"compassai/internal/ui/events"
	"compassai/internal/ui/uiconfig"
)

// Options selects the configuration sources.
type Options struct {
	ConfigPath string
	EnvFile    string
	Overrides  map[string]any
}

func NewConfig(opts Options) (config.Config, error) {
	return config.NewLoader(nil).Load(config.Options{
		Path:      opts.ConfigPath,
		EnvFile:   opts.EnvFile,
		Overrides: opts.Overrides,
	})
}

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

// NewStore opens the settings store; the cleanup releases its file lock.
func NewStore(cfg config.Config) (*uiconfig.Store, func(), error) {
	path := cfg.Store.Path
	if path == "" {
		path = uiconfig.ResolveDefaultPath()
	}
	store, err := uiconfig.OpenStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func NewCookieJar(store *uiconfig.Store) (http.CookieJar, error) {
	return store.CookieJar()
}

func NewAPIClient(cfg config.Config, jar http.CookieJar, logger *zap.Logger, metrics domain.Metrics) (*api.Client, error) {
	return api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.Timeout(),
		UserAgent: "compass/" + Version,
	}, api.WithCookieJar(jar), api.WithLogger(logger), api.WithMetrics(metrics))
}

func NewHub() *events.Hub {
	return events.NewHub()
}

func NewDatasetProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.DatasetProvider, error) {
	return catalog.NewDatasetProvider(ctx, cfg.Catalog.StaticPath, logger)
}

func NewStaticSource(dataset *catalog.DatasetProvider) *catalog.StaticSource {
	return catalog.NewStaticSource(dataset)
}

func NewRemoteSource(client *api.Client) *discovery.RemoteSource {
	return discovery.NewRemoteSource(client)
}

func NewListingSource(cfg config.Config, remote *discovery.RemoteSource, static *catalog.StaticSource) (discovery.Source, error) {
	return discovery.SelectSource(cfg.Catalog.Mode, remote, static)
}

func NewDiscoveryController(logger *zap.Logger, metrics domain.Metrics) *discovery.Controller {
	return discovery.NewController(discovery.WithLogger(logger), discovery.WithMetrics(metrics))
}

func NewLikeTracker(client *api.Client, logger *zap.Logger, metrics domain.Metrics) *likes.Tracker {
	return likes.NewTracker(client, likes.WithLogger(logger), likes.WithMetrics(metrics))
}

func NewAccountService(client *api.Client, store *uiconfig.Store, hub *events.Hub, logger *zap.Logger) *account.Service {
	return account.NewService(client, store, hub, logger)
}

func NewSubmissionService(client *api.Client, logger *zap.Logger) *submission.Service {
	return submission.NewService(client, logger)
}

// NewModerationBackend serves the demo applications in static mode.
func NewModerationBackend(cfg config.Config, client *api.Client) moderation.Backend {
	if cfg.Catalog.Mode == domain.CatalogModeStatic {
		return moderation.NewSampleBackend()
	}
	return client
}

func NewModerationQueue(backend moderation.Backend, logger *zap.Logger, metrics domain.Metrics) *moderation.Queue {
	return moderation.NewQueue(backend, moderation.WithLogger(logger), moderation.WithMetrics(metrics))
}

func NewHelpDesk(store *uiconfig.Store, logger *zap.Logger) *help.Desk {
	return help.NewDesk(store, logger)
}
