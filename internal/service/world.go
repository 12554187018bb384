package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
	domainerrors "github.com/worldmarkapp/worldmark-server/internal/errors"
	"github.com/worldmarkapp/worldmark-server/internal/id"
	"github.com/worldmarkapp/worldmark-server/internal/metadata/vrchat"
	"github.com/worldmarkapp/worldmark-server/internal/store"
)

// MetadataFetcher fetches world metadata by world identifier.
type MetadataFetcher interface {
	FetchWorld(ctx context.Context, worldID string) (*domain.WorldMetadata, error)
}

// PreviewGenerator computes a BlurHash placeholder for an image URL.
type PreviewGenerator interface {
	Blurhash(ctx context.Context, url string) (string, error)
}

// WorldService manages world bookmarks: listing, creation, update, deletion,
// and the public published listing.
type WorldService struct {
	store   store.Store
	fetcher MetadataFetcher
	preview PreviewGenerator
	logger  *slog.Logger
}

// NewWorldService creates a new world service. fetcher and preview may be nil
// to disable metadata enrichment and placeholder generation.
func NewWorldService(
	store store.Store,
	fetcher MetadataFetcher,
	preview PreviewGenerator,
	logger *slog.Logger,
) *WorldService {
	return &WorldService{
		store:   store,
		fetcher: fetcher,
		preview: preview,
		logger:  logger,
	}
}

// WorldRequest is the user-supplied payload for creating or updating a world.
// Update is a full replacement: every field is taken from the request.
type WorldRequest struct {
	Name        string   `json:"name" validate:"max=256"`
	URL         string   `json:"url" validate:"required,max=2048"`
	Description string   `json:"description" validate:"max=4096"`
	Memo        string   `json:"memo" validate:"max=4096"`
	ImageURL    string   `json:"image_url" validate:"max=2048"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags" validate:"max=50,dive,max=64"`
}

// ListWorlds returns all worlds owned by the user, tags included, ordered by
// name ascending.
func (s *WorldService) ListWorlds(ctx context.Context, userID string) ([]*domain.World, error) {
	worlds, err := s.store.ListWorldsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	return worlds, nil
}

// ListPublicWorlds returns all published worlds, tags included, ordered by
// name ascending. No authentication required.
func (s *WorldService) ListPublicWorlds(ctx context.Context) ([]*domain.World, error) {
	worlds, err := s.store.ListPublishedWorlds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published worlds: %w", err)
	}
	return worlds, nil
}

// CreateWorld creates a world bookmark for the user. Metadata is fetched
// best-effort from the world's URL and merged with the user's input.
func (s *WorldService) CreateWorld(ctx context.Context, userID string, req WorldRequest) (*domain.World, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	meta := s.fetchMetadata(ctx, req.URL)

	worldID, err := id.Generate("world")
	if err != nil {
		return nil, fmt.Errorf("generate world ID: %w", err)
	}

	world := &domain.World{
		Entity: domain.Entity{
			ID: worldID,
		},
		UserID:    userID,
		URL:       strings.TrimSpace(req.URL),
		Memo:      strings.TrimSpace(req.Memo),
		Published: req.Published,
	}
	world.InitTimestamps()

	s.mergeMetadata(world, req, meta, nil)
	s.attachBlurhash(ctx, world)

	if err := s.store.CreateWorld(ctx, world); err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}

	if err := s.applyTags(ctx, world.ID, req.Tags); err != nil {
		// Remove the half-created row so a tag failure never leaves an
		// orphaned tagless world behind.
		if delErr := s.store.DeleteWorld(ctx, world.ID); delErr != nil && s.logger != nil {
			s.logger.Warn("Failed to roll back world after tag error",
				"world_id", world.ID,
				"error", delErr,
			)
		}
		return nil, err
	}

	created, err := s.store.GetWorld(ctx, world.ID)
	if err != nil {
		return nil, fmt.Errorf("reload world: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("World created",
			"world_id", world.ID,
			"user_id", userID,
			"published", world.Published,
		)
	}

	return created, nil
}

// UpdateWorld replaces a world owned by the user. A missing world and a world
// owned by someone else are both reported as not found.
func (s *WorldService) UpdateWorld(ctx context.Context, userID, worldID string, req WorldRequest) (*domain.World, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	world, err := s.getOwnedWorld(ctx, userID, worldID)
	if err != nil {
		return nil, err
	}

	meta := s.fetchMetadata(ctx, req.URL)

	previousImageURL := world.ImageURL
	previousBlurhash := world.ImageBlurhash

	world.URL = strings.TrimSpace(req.URL)
	world.Memo = strings.TrimSpace(req.Memo)
	world.Published = req.Published

	s.mergeMetadata(world, req, meta, world)

	if world.ImageURL == previousImageURL {
		world.ImageBlurhash = previousBlurhash
	} else {
		s.attachBlurhash(ctx, world)
	}

	world.Touch()

	if err := s.store.UpdateWorld(ctx, world); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("World not found")
		}
		return nil, fmt.Errorf("update world: %w", err)
	}

	if err := s.applyTags(ctx, world.ID, req.Tags); err != nil {
		return nil, err
	}

	updated, err := s.store.GetWorld(ctx, world.ID)
	if err != nil {
		return nil, fmt.Errorf("reload world: %w", err)
	}

	return updated, nil
}

// DeleteWorld deletes a world owned by the user. A missing world and a world
// owned by someone else are both reported as not found.
func (s *WorldService) DeleteWorld(ctx context.Context, userID, worldID string) error {
	if _, err := s.getOwnedWorld(ctx, userID, worldID); err != nil {
		return err
	}

	if err := s.store.DeleteWorld(ctx, worldID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("World not found")
		}
		return fmt.Errorf("delete world: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("World deleted",
			"world_id", worldID,
			"user_id", userID,
		)
	}

	return nil
}

// getOwnedWorld fetches a world and enforces ownership. Both absence and an
// owner mismatch return the same not-found error, so the response never
// reveals whether the world exists.
func (s *WorldService) getOwnedWorld(ctx context.Context, userID, worldID string) (*domain.World, error) {
	world, err := s.store.GetWorld(ctx, worldID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("World not found")
		}
		return nil, fmt.Errorf("get world: %w", err)
	}
	if world.UserID != userID {
		return nil, domainerrors.NotFound("World not found")
	}
	return world, nil
}

// fetchMetadata extracts the world identifier from the URL and fetches
// metadata for it. Any failure degrades to nil so bookmark operations never
// depend on the upstream being reachable.
func (s *WorldService) fetchMetadata(ctx context.Context, url string) *domain.WorldMetadata {
	if s.fetcher == nil {
		return nil
	}

	worldID, err := vrchat.ExtractWorldID(url)
	if err != nil {
		return nil
	}

	meta, err := s.fetcher.FetchWorld(ctx, worldID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to fetch world metadata",
				"world_id", worldID,
				"error", err,
			)
		}
		return nil
	}
	return meta
}

// mergeMetadata resolves name, description and image URL per field: user
// input wins when non-empty after trimming, then freshly fetched metadata,
// then the stored value (nil on create).
func (s *WorldService) mergeMetadata(world *domain.World, req WorldRequest, meta *domain.WorldMetadata, stored *domain.World) {
	name := strings.TrimSpace(req.Name)
	if name == "" && meta != nil {
		name = meta.Name
	}
	if name == "" && stored != nil {
		name = stored.Name
	}

	description := strings.TrimSpace(req.Description)
	if description == "" && meta != nil {
		description = meta.Description
	}
	if description == "" && stored != nil {
		description = stored.Description
	}

	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" && meta != nil {
		imageURL = meta.ImageURL
	}
	if imageURL == "" && stored != nil {
		imageURL = stored.ImageURL
	}

	world.Name = name
	world.Description = description
	world.ImageURL = imageURL
}

// attachBlurhash computes a placeholder for the world's image, best-effort.
// Failure or a missing image leaves the field empty.
func (s *WorldService) attachBlurhash(ctx context.Context, world *domain.World) {
	world.ImageBlurhash = ""

	if s.preview == nil || world.ImageURL == "" {
		return
	}

	hash, err := s.preview.Blurhash(ctx, world.ImageURL)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to compute image blurhash",
				"world_id", world.ID,
				"error", err,
			)
		}
		return
	}
	world.ImageBlurhash = hash
}

// applyTags resolves tag names and replaces the world's tag set. Names are
// trimmed, empties dropped, and duplicates within one request collapsed.
func (s *WorldService) applyTags(ctx context.Context, worldID string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	tagIDs := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		tag, _, err := s.store.FindOrCreateTagByName(ctx, name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := s.store.SetWorldTags(ctx, worldID, tagIDs); err != nil {
		return fmt.Errorf("set world tags: %w", err)
	}
	return nil
}
