package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
	domainerrors "github.com/worldmarkapp/worldmark-server/internal/errors"
	"github.com/worldmarkapp/worldmark-server/internal/metadata/vrchat"
)

// MetadataService serves explicit metadata fetch requests. Unlike the
// best-effort enrichment inside world create/update, a fetch requested
// directly surfaces upstream failure to the caller.
type MetadataService struct {
	fetcher MetadataFetcher
	logger  *slog.Logger
}

// NewMetadataService creates a new metadata service.
func NewMetadataService(fetcher MetadataFetcher, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Fetch extracts the world identifier from url and fetches its metadata.
func (s *MetadataService) Fetch(ctx context.Context, url string) (*domain.WorldMetadata, error) {
	worldID, err := vrchat.ExtractWorldID(url)
	if err != nil {
		return nil, domainerrors.Validation("url does not contain a world id")
	}

	meta, err := s.fetcher.FetchWorld(ctx, worldID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Metadata fetch failed",
				"world_id", worldID,
				"error", err,
			)
		}
		if errors.Is(err, vrchat.ErrNotFound) {
			return nil, domainerrors.Upstream("world not found upstream")
		}
		return nil, domainerrors.Upstream("failed to fetch world metadata").WithCause(err)
	}

	return meta, nil
}
