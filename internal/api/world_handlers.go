package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/worldmarkapp/worldmark-server/internal/domain"
	"github.com/worldmarkapp/worldmark-server/internal/service"
)

func (s *Server) registerWorldRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listWorlds",
		Method:      http.MethodGet,
		Path:        "/api/v1/worlds",
		Summary:     "List bookmarked worlds",
		Description: "Returns all worlds bookmarked by the authenticated user, sorted by name.",
		Tags:        []string{"Worlds"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListWorlds)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPublicWorlds",
		Method:      http.MethodGet,
		Path:        "/api/v1/worlds/public",
		Summary:     "List published worlds",
		Description: "Returns published worlds from all users. No authentication required.",
		Tags:        []string{"Worlds"},
	}, s.handleListPublicWorlds)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createWorld",
		Method:        http.MethodPost,
		Path:          "/api/v1/worlds",
		Summary:       "Bookmark a world",
		Description:   "Creates a world bookmark. Metadata is fetched from the world URL on a best-effort basis.",
		Tags:          []string{"Worlds"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateWorld)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateWorld",
		Method:      http.MethodPut,
		Path:        "/api/v1/worlds/{id}",
		Summary:     "Update a world bookmark",
		Description: "Replaces a world bookmark's fields and tags. Only the owner can update a world.",
		Tags:        []string{"Worlds"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateWorld)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteWorld",
		Method:        http.MethodDelete,
		Path:          "/api/v1/worlds/{id}",
		Summary:       "Delete a world bookmark",
		Description:   "Deletes a world bookmark. Only the owner can delete a world.",
		Tags:          []string{"Worlds"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteWorld)
}

// === DTOs ===

// WorldRequest is the request body for creating or updating a world.
type WorldRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,max=256" doc:"World name (fetched from metadata when empty)"`
	URL         string   `json:"url" validate:"required,max=2048" doc:"VRChat world URL"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=4096" doc:"World description (fetched from metadata when empty)"`
	Memo        string   `json:"memo,omitempty" validate:"omitempty,max=4096" doc:"Personal memo"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,max=2048" doc:"Image URL (fetched from metadata when empty)"`
	Published   bool     `json:"published" doc:"Whether the world appears in the public listing"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=64" doc:"Tag names, replacing the current set"`
}

// CreateWorldInput wraps the world request for Huma.
type CreateWorldInput struct {
	Body WorldRequest
}

// UpdateWorldInput wraps the world request with a path ID for Huma.
type UpdateWorldInput struct {
	ID   string `path:"id" doc:"World ID"`
	Body WorldRequest
}

// DeleteWorldInput identifies the world to delete.
type DeleteWorldInput struct {
	ID string `path:"id" doc:"World ID"`
}

// WorldResponse contains world data in API responses.
type WorldResponse struct {
	ID            string    `json:"id" doc:"World ID"`
	UserID        string    `json:"user_id" doc:"Owner user ID"`
	Name          string    `json:"name" doc:"World name"`
	URL           string    `json:"url" doc:"VRChat world URL"`
	Description   string    `json:"description,omitempty" doc:"World description"`
	Memo          string    `json:"memo,omitempty" doc:"Personal memo"`
	ImageURL      string    `json:"image_url,omitempty" doc:"Image URL"`
	ImageBlurhash string    `json:"image_blurhash,omitempty" doc:"BlurHash placeholder for the image"`
	Published     bool      `json:"published" doc:"Whether the world is published"`
	Tags          []string  `json:"tags" doc:"Tag names"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// WorldOutput wraps a single world for Huma.
type WorldOutput struct {
	Body WorldResponse
}

// ListWorldsResponse contains a list of worlds.
type ListWorldsResponse struct {
	Worlds []WorldResponse `json:"worlds" doc:"Worlds in the listing"`
	Total  int             `json:"total" doc:"Number of worlds"`
}

// ListWorldsOutput wraps the world listing for Huma.
type ListWorldsOutput struct {
	Body ListWorldsResponse
}

// === Handlers ===

func (s *Server) handleListWorlds(ctx context.Context, _ *struct{}) (*ListWorldsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	worlds, err := s.services.World.ListWorlds(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListWorldsOutput{Body: mapWorldList(worlds)}, nil
}

func (s *Server) handleListPublicWorlds(ctx context.Context, _ *struct{}) (*ListWorldsOutput, error) {
	worlds, err := s.services.World.ListPublicWorlds(ctx)
	if err != nil {
		return nil, err
	}

	return &ListWorldsOutput{Body: mapWorldList(worlds)}, nil
}

func (s *Server) handleCreateWorld(ctx context.Context, input *CreateWorldInput) (*WorldOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	world, err := s.services.World.CreateWorld(ctx, userID, mapWorldRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &WorldOutput{Body: mapWorld(world)}, nil
}

func (s *Server) handleUpdateWorld(ctx context.Context, input *UpdateWorldInput) (*WorldOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	world, err := s.services.World.UpdateWorld(ctx, userID, input.ID, mapWorldRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &WorldOutput{Body: mapWorld(world)}, nil
}

func (s *Server) handleDeleteWorld(ctx context.Context, input *DeleteWorldInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.World.DeleteWorld(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}

// === Helpers ===

func mapWorldRequest(req WorldRequest) service.WorldRequest {
	return service.WorldRequest{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Memo:        req.Memo,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
		Tags:        req.Tags,
	}
}

func mapWorld(world *domain.World) WorldResponse {
	return WorldResponse{
		ID:            world.ID,
		UserID:        world.UserID,
		Name:          world.Name,
		URL:           world.URL,
		Description:   world.Description,
		Memo:          world.Memo,
		ImageURL:      world.ImageURL,
		ImageBlurhash: world.ImageBlurhash,
		Published:     world.Published,
		Tags:          world.TagNames(),
		CreatedAt:     world.CreatedAt,
		UpdatedAt:     world.UpdatedAt,
	}
}

func mapWorldList(worlds []*domain.World) ListWorldsResponse {
	out := make([]WorldResponse, len(worlds))
	for i, w := range worlds {
		out[i] = mapWorld(w)
	}
	return ListWorldsResponse{Worlds: out, Total: len(out)}
}
