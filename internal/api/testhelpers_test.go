package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/worldmarkapp/worldmark-server/internal/auth"
	"github.com/worldmarkapp/worldmark-server/internal/domain"
	"github.com/worldmarkapp/worldmark-server/internal/service"
	"github.com/worldmarkapp/worldmark-server/internal/store/sqlite"
)

// testEnvelope mirrors the versioned response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testFetcher serves canned metadata keyed by world identifier.
type testFetcher struct {
	worlds map[string]*domain.WorldMetadata
	err    error
}

func (f *testFetcher) FetchWorld(_ context.Context, worldID string) (*domain.WorldMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	if meta, ok := f.worlds[worldID]; ok {
		return meta, nil
	}
	return nil, errors.New("world not found")
}

// testPreview returns a fixed hash.
type testPreview struct {
	hash string
}

func (f *testPreview) Blurhash(_ context.Context, _ string) (string, error) {
	return f.hash, nil
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api          humatest.TestAPI
	fetcher      *testFetcher
	tokenService *auth.TokenService
}

// setupTestServer creates a test server backed by a temporary SQLite store.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	fetcher := &testFetcher{worlds: map[string]*domain.WorldMetadata{
		"wrld_beach-1": {
			Name:        "Sunset Beach",
			Description: "A relaxing beach world",
			ImageURL:    "https://files.example/beach.png",
		},
	}}

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	worldService := service.NewWorldService(st, fetcher, &testPreview{hash: "LEHV6nWB"}, logger)
	tagService := service.NewTagService(st, logger)
	metadataService := service.NewMetadataService(fetcher, logger)

	services := &Services{
		Auth:     authService,
		Session:  sessionService,
		World:    worldService,
		Tag:      tagService,
		Metadata: metadataService,
	}

	router := chi.NewRouter()

	// Add auth middleware before routes
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("Worldmark API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(100, time.Minute, 50),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerWorldRoutes()
	s.registerTagRoutes()
	s.registerMetadataRoutes()

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		fetcher:      fetcher,
		tokenService: tokenService,
	}
}

// setupAdmin runs initial setup and returns the admin's access token and user ID.
func (ts *testServer) setupAdmin(t *testing.T) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// registerMember creates a member account and returns its access token and user ID.
// Requires setupAdmin to have run first.
func (ts *testServer) registerMember(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "MemberPassword123!",
		"display_name": "Test Member",
		"device_info":  map[string]any{"device_type": "web", "platform": "linux"},
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// createWorld bookmarks a world through the API and returns its response body.
func (ts *testServer) createWorld(t *testing.T, token string, body map[string]any) WorldResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/worlds", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.Code, "Create failed: %s", resp.Body.String())

	var envelope testEnvelope[WorldResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data
}
