package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMetadata_Success(t *testing.T) {
	ts := setupTestServer(t)

	// No session needed to preview a world.
	resp := ts.api.Post("/api/v1/metadata", map[string]any{"url": beachWorldURL})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[MetadataResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "Sunset Beach", envelope.Data.Name)
	assert.Equal(t, "A relaxing beach world", envelope.Data.Description)
	assert.Equal(t, "https://files.example/beach.png", envelope.Data.ImageURL)
}

func TestFetchMetadata_URLWithoutWorldID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/metadata",
		map[string]any{"url": "https://example.com/not-a-world"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestFetchMetadata_UpstreamFailure(t *testing.T) {
	ts := setupTestServer(t)

	ts.fetcher.err = errors.New("upstream down")

	resp := ts.api.Post("/api/v1/metadata", map[string]any{"url": beachWorldURL})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "UPSTREAM", envelope.Code)
}
