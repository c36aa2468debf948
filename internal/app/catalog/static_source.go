package catalog

import (
	"context"
	"strings"

	"compassai/internal/domain"
)

// Snapshotter exposes the current local dataset.
type Snapshotter interface {
	Snapshot(ctx context.Context) (domain.DatasetSnapshot, error)
}

// StaticSource answers listing queries from the local dataset using the
// same page envelope as the backend.
type StaticSource struct {
	dataset Snapshotter
}

func NewStaticSource(dataset Snapshotter) *StaticSource {
	return &StaticSource{dataset: dataset}
}

// ListTools filters the dataset and returns the requested page.
func (s *StaticSource) ListTools(ctx context.Context, q Query) (domain.Page[domain.Tool], error) {
	snapshot, err := s.dataset.Snapshot(ctx)
	if err != nil {
		return domain.Page[domain.Tool]{}, err
	}
	return domain.Paginate(FilterQuery(snapshot.Tools, q), q.Page, q.EffectiveSize()), nil
}

// GetTool returns the tool with the given id.
func (s *StaticSource) GetTool(ctx context.Context, id domain.ToolID) (domain.Tool, error) {
	snapshot, err := s.dataset.Snapshot(ctx)
	if err != nil {
		return domain.Tool{}, err
	}
	want := strings.TrimSpace(id.String())
	for _, tool := range snapshot.Tools {
		if tool.ID.String() == want {
			return tool, nil
		}
	}
	return domain.Tool{}, domain.E(domain.CodeNotFound, "get tool", "도구를 찾을 수 없습니다: "+want, domain.ErrToolNotFound)
}
