package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beachWorldURL = "https://vrchat.com/home/world/wrld_beach-1/info"

func TestCreateWorld_FetchesMetadata(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.setupAdmin(t)

	world := ts.createWorld(t, token, map[string]any{
		"url":  beachWorldURL,
		"tags": []string{"beach", "chill"},
	})

	assert.Equal(t, userID, world.UserID)
	assert.Equal(t, "Sunset Beach", world.Name)
	assert.Equal(t, "A relaxing beach world", world.Description)
	assert.Empty(t, world.Memo)
	assert.Equal(t, "https://files.example/beach.png", world.ImageURL)
	assert.Equal(t, "LEHV6nWB", world.ImageBlurhash)
	assert.Equal(t, []string{"beach", "chill"}, world.Tags)
	assert.False(t, world.Published)
}

func TestCreateWorld_UserInputWins(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	world := ts.createWorld(t, token, map[string]any{
		"name":        "My Beach Spot",
		"url":         beachWorldURL,
		"description": "my own description",
		"memo":        "go here on fridays",
	})

	assert.Equal(t, "My Beach Spot", world.Name)
	assert.Equal(t, "my own description", world.Description)
	assert.Equal(t, "go here on fridays", world.Memo)
}

func TestCreateWorld_UnfetchableURL(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	// A URL without a recognizable world ID still creates a bookmark.
	world := ts.createWorld(t, token, map[string]any{
		"name": "Mystery World",
		"url":  "https://example.com/some-world",
	})

	assert.Equal(t, "Mystery World", world.Name)
	assert.Empty(t, world.ImageURL)
}

func TestCreateWorld_MissingURL(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/worlds",
		map[string]any{"name": "No URL"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestCreateWorld_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/worlds", map[string]any{"url": beachWorldURL})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListWorlds_OwnerScoped(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@test.com")

	ts.createWorld(t, adminToken, map[string]any{"name": "Admin World", "url": "https://example.com/a"})
	ts.createWorld(t, memberToken, map[string]any{"name": "Member World", "url": "https://example.com/b"})

	resp := ts.api.Get("/api/v1/worlds", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListWorldsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, 1, envelope.Data.Total)
	assert.Equal(t, "Admin World", envelope.Data.Worlds[0].Name)
}

func TestListPublicWorlds_PublishedOnly(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	ts.createWorld(t, token, map[string]any{"name": "Private World", "url": "https://example.com/a"})
	ts.createWorld(t, token, map[string]any{"name": "Public World", "url": "https://example.com/b", "published": true})

	// No authentication required.
	resp := ts.api.Get("/api/v1/worlds/public")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListWorldsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, 1, envelope.Data.Total)
	assert.Equal(t, "Public World", envelope.Data.Worlds[0].Name)
	assert.True(t, envelope.Data.Worlds[0].Published)
}

func TestUpdateWorld_ReplacesFieldsAndTags(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	world := ts.createWorld(t, token, map[string]any{
		"name": "Old Name",
		"url":  "https://example.com/a",
		"tags": []string{"old"},
	})

	resp := ts.api.Put("/api/v1/worlds/"+world.ID, map[string]any{
		"name":        "New Name",
		"url":         "https://example.com/a",
		"description": "new description",
		"memo":        "updated memo",
		"published":   true,
		"tags":        []string{"fresh", "shiny"},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[WorldResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "New Name", envelope.Data.Name)
	assert.Equal(t, "new description", envelope.Data.Description)
	assert.Equal(t, "updated memo", envelope.Data.Memo)
	assert.True(t, envelope.Data.Published)
	assert.Equal(t, []string{"fresh", "shiny"}, envelope.Data.Tags)
}

func TestUpdateWorld_NotOwner(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@test.com")

	world := ts.createWorld(t, adminToken, map[string]any{"name": "Admin World", "url": "https://example.com/a"})

	// Ownership failures look identical to absence.
	resp := ts.api.Put("/api/v1/worlds/"+world.ID, map[string]any{
		"name": "Hijacked",
		"url":  "https://example.com/a",
	}, "Authorization: Bearer "+memberToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestUpdateWorld_Missing(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	resp := ts.api.Put("/api/v1/worlds/world-does-not-exist", map[string]any{
		"name": "Ghost",
		"url":  "https://example.com/a",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteWorld_Success(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupAdmin(t)

	world := ts.createWorld(t, token, map[string]any{"name": "Doomed", "url": "https://example.com/a"})

	resp := ts.api.Delete("/api/v1/worlds/"+world.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	// Gone from the owner listing.
	resp = ts.api.Get("/api/v1/worlds", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListWorldsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Data.Total)

	// A second delete reports absence.
	resp = ts.api.Delete("/api/v1/worlds/"+world.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteWorld_NotOwner(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@test.com")

	world := ts.createWorld(t, adminToken, map[string]any{"name": "Admin World", "url": "https://example.com/a"})

	resp := ts.api.Delete("/api/v1/worlds/"+world.ID, "Authorization: Bearer "+memberToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
