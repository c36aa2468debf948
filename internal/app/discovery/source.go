package discovery

import (
	"context"

	"compassai/internal/app/catalog"
	"compassai/internal/domain"
	"compassai/internal/infra/api"
)

// Source answers listing queries.
type Source interface {
	ListTools(ctx context.Context, q catalog.Query) (domain.Page[domain.Tool], error)
}

// ToolsClient is the subset of the REST client used for remote listing.
type ToolsClient interface {
	GetTools(ctx context.Context, query api.ToolQuery) (domain.Page[domain.Tool], error)
}

// RemoteSource forwards every query to the backend.
type RemoteSource struct {
	client ToolsClient
}

func NewRemoteSource(client ToolsClient) *RemoteSource {
	return &RemoteSource{client: client}
}

func (s *RemoteSource) ListTools(ctx context.Context, q catalog.Query) (domain.Page[domain.Tool], error) {
	return s.client.GetTools(ctx, q)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, q catalog.Query) (domain.Page[domain.Tool], error)

func (f SourceFunc) ListTools(ctx context.Context, q catalog.Query) (domain.Page[domain.Tool], error) {
	return f(ctx, q)
}

// SelectSource picks the listing source for mode.
func SelectSource(mode domain.CatalogMode, remote *RemoteSource, static *catalog.StaticSource) (Source, error) {
	switch mode {
	case domain.CatalogModeRemote, "":
		if remote == nil {
			return nil, domain.E(domain.CodeFailedPrecond, "select source", "remote catalog is not configured", nil)
		}
		return remote, nil
	case domain.CatalogModeStatic:
		if static == nil {
			return nil, domain.E(domain.CodeFailedPrecond, "select source", "static catalog is not configured", nil)
		}
		return static, nil
	default:
		return nil, domain.E(domain.CodeInvalidArgument, "select source", "unknown catalog mode "+string(mode), domain.ErrInvalidRequest)
	}
}
