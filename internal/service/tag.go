package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
	"github.com/worldmarkapp/worldmark-server/internal/store"
)

// TagService provides the public tag listing. Tags come into existence as a
// side effect of world create/update; there is no direct tag mutation.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// ListTags returns all tags ordered by name ascending, each carrying its
// world count.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
