package app

import (
	"context"
	"errors"
	"fmt"

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

// exportPageSize is the page size used to walk the remote listing.
const exportPageSize = 100

// Application holds the wired client services.
type Application struct {
	Config      config.Config
	Logger      *zap.Logger
	Registry    *prometheus.Registry
	Metrics     domain.Metrics
	Store       *uiconfig.Store
	Client      *api.Client
	Hub         *events.Hub
	Dataset     *catalog.DatasetProvider
	Static      *catalog.StaticSource
	Source      discovery.Source
	Discovery   *discovery.Controller
	Likes       *likes.Tracker
	Accounts    *account.Service
	Submissions *submission.Service
	Moderation  *moderation.Queue
	Help        *help.Desk

	stopErrorLog func()
}

func NewApplication(
	cfg config.Config,
	logger *zap.Logger,
	registry *prometheus.Registry,
	metrics domain.Metrics,
	store *uiconfig.Store,
	client *api.Client,
	hub *events.Hub,
	dataset *catalog.DatasetProvider,
	static *catalog.StaticSource,
	source discovery.Source,
	controller *discovery.Controller,
	tracker *likes.Tracker,
	accounts *account.Service,
	submissions *submission.Service,
	queue *moderation.Queue,
	desk *help.Desk,
) *Application {
	stopErrorLog := hub.Errors.Handle(func(event events.ErrorEvent) {
		logger.Warn("ui error",
			zap.String("code", event.Code),
			zap.String("message", event.Message),
			zap.String("details", event.Details),
		)
	})
	return &Application{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		Metrics:     metrics,
		Store:       store,
		Client:      client,
		Hub:         hub,
		Dataset:     dataset,
		Static:      static,
		Source:      source,
		Discovery:   controller,
		Likes:       tracker,
		Accounts:    accounts,
		Submissions: submissions,
		Moderation:  queue,
		Help:        desk,

		stopErrorLog: stopErrorLog,
	}
}

// StaticMode reports whether listings come from the local dataset.
func (a *Application) StaticMode() bool {
	return a.Config.Catalog.Mode == domain.CatalogModeStatic
}

// ListTools fetches one listing page through the discovery controller.
func (a *Application) ListTools(ctx context.Context, q catalog.Query) (discovery.Snapshot, error) {
	return a.Discovery.Fetch(ctx, a.Source, q)
}

// GetTool looks up one tool in the active catalog.
func (a *Application) GetTool(ctx context.Context, id domain.ToolID) (domain.Tool, error) {
	if a.StaticMode() {
		return a.Static.GetTool(ctx, id)
	}
	return a.Client.GetTool(ctx, id)
}

// CollectTools walks every page of the active catalog for the category and
// term filters.
func (a *Application) CollectTools(ctx context.Context, category, term string) ([]domain.Tool, error) {
	q := catalog.Query{Category: category, Term: term, Size: exportPageSize}
	var tools []domain.Tool
	for {
		page, err := a.Source.ListTools(ctx, q)
		if err != nil {
			return nil, err
		}
		tools = append(tools, page.Content...)
		q.Page++
		if page.Empty() || q.Page >= page.TotalPages {
			break
		}
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	return tools, nil
}

// WatchDataset republishes dataset reloads on the hub until ctx ends.
func (a *Application) WatchDataset(ctx context.Context) error {
	updates, err := a.Dataset.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update := <-updates:
				a.Hub.Dataset.Publish(update)
			}
		}
	}()
	return nil
}

// Close releases the store and idle connections and writes the metrics
// snapshot when configured.
func (a *Application) Close() error {
	var errs []error
	if a.stopErrorLog != nil {
		a.stopErrorLog()
	}
	a.Discovery.Close()
	a.Client.CloseIdleConnections()
	if path := a.Config.Metrics.DumpPath; path != "" {
		if err := telemetry.DumpFile(path, a.Registry); err != nil {
			errs = append(errs, fmt.Errorf("dump metrics: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
