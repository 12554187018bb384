package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/worldmarkapp/worldmark-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags with world counts, sorted by name. No authentication required.",
		Tags:        []string{"Tags"},
	}, s.handleListTags)
}

// TagDTO contains tag data in API responses.
type TagDTO struct {
	ID         string    `json:"id" doc:"Tag ID"`
	Name       string    `json:"name" doc:"Tag name"`
	Slug       string    `json:"slug" doc:"URL-friendly tag form"`
	WorldCount int       `json:"world_count" doc:"Number of worlds carrying this tag"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ListTagsResponse contains the tag listing.
type ListTagsResponse struct {
	Tags  []TagDTO `json:"tags" doc:"Tags in the listing"`
	Total int      `json:"total" doc:"Number of tags"`
}

// ListTagsOutput wraps the tag listing for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TagDTO, len(tags))
	for i, tag := range tags {
		out[i] = mapTag(tag)
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: out, Total: len(out)}}, nil
}

func mapTag(tag *domain.Tag) TagDTO {
	return TagDTO{
		ID:         tag.ID,
		Name:       tag.Name,
		Slug:       tag.Slug,
		WorldCount: tag.WorldCount,
		CreatedAt:  tag.CreatedAt,
		UpdatedAt:  tag.UpdatedAt,
	}
}
