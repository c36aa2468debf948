//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewConfig,
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewStore,
	NewCookieJar,
	NewAPIClient,
	NewHub,
)

var CatalogSet = wire.NewSet(
	NewDatasetProvider,
	NewStaticSource,
	NewRemoteSource,
	NewListingSource,
	NewDiscoveryController,
)

var ServiceSet = wire.NewSet(
	NewLikeTracker,
	NewAccountService,
	NewSubmissionService,
	NewModerationBackend,
	NewModerationQueue,
	NewHelpDesk,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	CatalogSet,
	ServiceSet,
	NewApplication,
)
