package category

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
)

type RepositoryAPI interface {
	ListDistinct(ctx context.Context) ([]Category, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := internal.WithTimeout(ctx, internal.DefaultTimeout)
	defer cancel()

	categories, err := s.repo.ListDistinct(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, internal.NewInternalError("failed to list categories", err)
	}

	names := SortedNames(categories)
	s.logger.Debug("retrieved categories", "count", len(names))
	return names, nil
}
