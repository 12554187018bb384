package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerMetadataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "fetchMetadata",
		Method:      http.MethodPost,
		Path:        "/api/v1/metadata",
		Summary:     "Fetch world metadata",
		Description: "Fetches name, description and image URL for a VRChat world URL. No authentication required. Unlike bookmark creation, a failed fetch is reported as an error here.",
		Tags:        []string{"Metadata"},
	}, s.handleFetchMetadata)
}

// FetchMetadataRequest is the request body for an explicit metadata fetch.
type FetchMetadataRequest struct {
	URL string `json:"url" validate:"required,max=2048" doc:"VRChat world URL"`
}

// FetchMetadataInput wraps the fetch request for Huma.
type FetchMetadataInput struct {
	Body FetchMetadataRequest
}

// MetadataResponse contains fetched world metadata.
type MetadataResponse struct {
	Name        string `json:"name" doc:"World name"`
	Description string `json:"description" doc:"World description"`
	ImageURL    string `json:"imageUrl" doc:"World image URL"`
}

// MetadataOutput wraps the metadata response for Huma.
type MetadataOutput struct {
	Body MetadataResponse
}

func (s *Server) handleFetchMetadata(ctx context.Context, input *FetchMetadataInput) (*MetadataOutput, error) {
	meta, err := s.services.Metadata.Fetch(ctx, input.Body.URL)
	if err != nil {
		return nil, err
	}

	return &MetadataOutput{
		Body: MetadataResponse{
			Name:        meta.Name,
			Description: meta.Description,
			ImageURL:    meta.ImageURL,
		},
	}, nil
}
