package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags_EmptyInitially(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	// No authentication required.
	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data.Tags)
}

func TestListTags_WorldCounts(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	ts.createWorld(t, token, map[string]any{
		"name": "World A",
		"url":  "https://example.com/a",
		"tags": []string{"beach", "chill"},
	})
	ts.createWorld(t, token, map[string]any{
		"name": "World B",
		"url":  "https://example.com/b",
		"tags": []string{"beach"},
	})

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, 2, envelope.Data.Total)
	assert.Equal(t, "beach", envelope.Data.Tags[0].Name)
	assert.Equal(t, 2, envelope.Data.Tags[0].WorldCount)
	assert.Equal(t, "chill", envelope.Data.Tags[1].Name)
	assert.Equal(t, 1, envelope.Data.Tags[1].WorldCount)
}

func TestListTags_SharedAcrossUsers(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@test.com")

	ts.createWorld(t, adminToken, map[string]any{
		"name": "Admin World",
		"url":  "https://example.com/a",
		"tags": []string{"beach"},
	})
	ts.createWorld(t, memberToken, map[string]any{
		"name": "Member World",
		"url":  "https://example.com/b",
		"tags": []string{"beach"},
	})

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	// One shared tag, counted across both users' worlds.
	require.Equal(t, 1, envelope.Data.Total)
	assert.Equal(t, 2, envelope.Data.Tags[0].WorldCount)
}
