package crud

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/org-admin/internal/core/query"
)

// Service adds request logging around a single-table repository.
type Service[T any] struct {
	repo   ServiceAPI[T]
	entity string
	logger *slog.Logger
}

func NewService[T any](repo ServiceAPI[T], entity string, logger *slog.Logger) *Service[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service[T]{repo: repo, entity: entity, logger: logger.With("entity", entity)}
}

func (s *Service[T]) List(ctx context.Context, params ListParams) (query.Result[T], error) {
	res, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list records", "error", err, "search", params.Search)
		return query.Result[T]{}, err
	}
	s.logger.Debug("listed records", "count", len(res.Items), "total", res.Meta.Total, "page", res.Meta.Page)
	return res, nil
}

func (s *Service[T]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn("failed to get record", "error", err, "id", id)
		return nil, err
	}
	return item, nil
}

func (s *Service[T]) Create(ctx context.Context, input map[string]any) (*T, error) {
	item, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logger.Error("failed to create record", "error", err)
		return nil, err
	}
	s.logger.Info("record created")
	return item, nil
}

func (s *Service[T]) Update(ctx context.Context, id int64, patch map[string]any) (*T, error) {
	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("failed to update record", "error", err, "id", id)
		return nil, err
	}
	s.logger.Info("record updated", "id", id, "fields", len(patch))
	return item, nil
}

func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete record", "error", err, "id", id)
		return err
	}
	s.logger.Info("record deleted", "id", id)
	return nil
}
