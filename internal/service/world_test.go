package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
	"github.com/worldmarkapp/worldmark-server/internal/store"
	"github.com/worldmarkapp/worldmark-server/internal/store/sqlite"
)

// fakeFetcher serves canned metadata keyed by world identifier.
type fakeFetcher struct {
	worlds map[string]*domain.WorldMetadata
	err    error
	calls  int
}

func (f *fakeFetcher) FetchWorld(_ context.Context, worldID string) (*domain.WorldMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if meta, ok := f.worlds[worldID]; ok {
		return meta, nil
	}
	return nil, errors.New("world not found")
}

// fakePreview returns a fixed hash, or fails.
type fakePreview struct {
	hash string
	err  error
}

func (f *fakePreview) Blurhash(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.hash, nil
}

func setupWorldTest(t *testing.T, fetcher MetadataFetcher, preview PreviewGenerator) (*WorldService, store.Store) {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return NewWorldService(s, fetcher, preview, nil), s
}

func makeUser(t *testing.T, s store.Store, userID, email string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		Entity: domain.Entity{
			ID:        userID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleMember,
		Status:       domain.UserStatusActive,
		DisplayName:  "Test User",
		LastLoginAt:  now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

const beachURL = "https://vrchat.com/home/world/wrld_beach-1/info"

func beachFetcher() *fakeFetcher {
	return &fakeFetcher{worlds: map[string]*domain.WorldMetadata{
		"wrld_beach-1": {
			Name:        "Sunset Beach",
			Description: "A relaxing beach world",
			ImageURL:    "https://files.example/beach.png",
		},
	}}
}

func TestWorldService_Create_FetchedMetadataFillsGaps(t *testing.T) {
	svc, s := setupWorldTest(t, beachFetcher(), &fakePreview{hash: "LEHV6nWB"})
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	world, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		URL:  beachURL,
		Tags: []string{"beach", "chill"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sunset Beach", world.Name)
	assert.Equal(t, "A relaxing beach world", world.Description)
	assert.Empty(t, world.Memo)
	assert.Equal(t, "https://files.example/beach.png", world.ImageURL)
	assert.Equal(t, "LEHV6nWB", world.ImageBlurhash)
	assert.False(t, world.Published)
	assert.Equal(t, []string{"beach", "chill"}, world.TagNames())
}

func TestWorldService_Create_UserInputWins(t *testing.T) {
	svc, s := setupWorldTest(t, beachFetcher(), nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	world, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name:        "  My Beach  ",
		URL:         beachURL,
		Description: "my own description",
		Memo:        "personal note",
		ImageURL:    "https://files.example/custom.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "My Beach", world.Name)
	assert.Equal(t, "my own description", world.Description)
	assert.Equal(t, "personal note", world.Memo)
	assert.Equal(t, "https://files.example/custom.png", world.ImageURL)
}

func TestWorldService_Create_FetchFailureDegrades(t *testing.T) {
	svc, s := setupWorldTest(t, &fakeFetcher{err: errors.New("upstream down")}, nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	world, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "Offline World",
		URL:  beachURL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Offline World", world.Name)
	assert.Empty(t, world.ImageURL)
}

func TestWorldService_Create_URLWithoutWorldID(t *testing.T) {
	fetcher := beachFetcher()
	svc, s := setupWorldTest(t, fetcher, nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	world, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "Elsewhere",
		URL:  "https://example.com/some-other-page",
	})
	require.NoError(t, err)
	assert.Equal(t, "Elsewhere", world.Name)
	assert.Zero(t, fetcher.calls)
}

func TestWorldService_Create_BlurhashFailureDegrades(t *testing.T) {
	svc, s := setupWorldTest(t, beachFetcher(), &fakePreview{err: errors.New("decode failed")})
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	world, err := svc.CreateWorld(ctx, user.ID, WorldRequest{URL: beachURL})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/beach.png", world.ImageURL)
	assert.Empty(t, world.ImageBlurhash)
}

func TestWorldService_Create_ValidationErrors(t *testing.T) {
	svc, s := setupWorldTest(t, nil, nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	_, err := svc.CreateWorld(ctx, user.ID, WorldRequest{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")
}

func TestWorldService_Create_TagsDeduplicated(t *testing.T) {
	svc, s := setupWorldTest(t, nil, nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	world, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "W",
		URL:  "https://example.com/w",
		Tags: []string{" beach ", "beach", "", "chill"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"beach", "chill"}, world.TagNames())
}

// tagFailStore fails tag resolution so create-time cleanup can be observed.
type tagFailStore struct {
	store.Store
}

func (s *tagFailStore) FindOrCreateTagByName(context.Context, string) (*domain.Tag, bool, error) {
	return nil, false, errors.New("tag storage unavailable")
}

func TestWorldService_Create_TagFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	svc := NewWorldService(&tagFailStore{Store: s}, nil, nil, nil)
	user := makeUser(t, s, "user-1", "a@example.com")

	_, err = svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "W",
		URL:  "https://example.com/w",
		Tags: []string{"beach"},
	})
	require.Error(t, err)

	// The half-created row must not survive the tag failure.
	worlds, err := s.ListWorldsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, worlds)
}

func TestWorldService_Update_FullReplacement(t *testing.T) {
	svc, s := setupWorldTest(t, beachFetcher(), nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	created, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		URL:  beachURL,
		Tags: []string{"beach"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateWorld(ctx, user.ID, created.ID, WorldRequest{
		Name:      "Renamed Beach",
		URL:       beachURL,
		Memo:      "new memo",
		Published: true,
		Tags:      []string{"cozy"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed Beach", updated.Name)
	assert.Equal(t, "new memo", updated.Memo)
	assert.True(t, updated.Published)
	assert.Equal(t, []string{"cozy"}, updated.TagNames())
}

func TestWorldService_Update_StoredValueFallback(t *testing.T) {
	fetcher := beachFetcher()
	svc, s := setupWorldTest(t, fetcher, nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	created, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "Original Name",
		URL:  beachURL,
		Memo: "original memo",
	})
	require.NoError(t, err)
	require.Equal(t, "A relaxing beach world", created.Description)

	// Fetch now fails and the user supplies nothing: stored merged values
	// survive, while the memo is replaced verbatim.
	fetcher.err = errors.New("upstream down")

	updated, err := svc.UpdateWorld(ctx, user.ID, created.ID, WorldRequest{
		URL: beachURL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Original Name", updated.Name)
	assert.Equal(t, "A relaxing beach world", updated.Description)
	assert.Empty(t, updated.Memo)
}

func TestWorldService_Update_FetchedBeatsStored(t *testing.T) {
	svc, s := setupWorldTest(t, beachFetcher(), nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	created, err := svc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "Old Name",
		URL:  "https://example.com/no-world-id",
	})
	require.NoError(t, err)

	// Pointing the bookmark at a fetchable URL refreshes the name.
	updated, err := svc.UpdateWorld(ctx, user.ID, created.ID, WorldRequest{
		URL: beachURL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset Beach", updated.Name)
}

func TestWorldService_Update_NotOwner(t *testing.T) {
	svc, s := setupWorldTest(t, nil, nil)
	ctx := context.Background()
	owner := makeUser(t, s, "user-1", "a@example.com")
	other := makeUser(t, s, "user-2", "b@example.com")

	created, err := svc.CreateWorld(ctx, owner.ID, WorldRequest{
		Name: "W",
		URL:  "https://example.com/w",
	})
	require.NoError(t, err)

	_, err = svc.UpdateWorld(ctx, other.ID, created.ID, WorldRequest{
		Name: "Stolen",
		URL:  "https://example.com/w",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "World not found")

	_, err = svc.UpdateWorld(ctx, owner.ID, "world-missing", WorldRequest{
		Name: "X",
		URL:  "https://example.com/w",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "World not found")
}

func TestWorldService_Delete(t *testing.T) {
	svc, s := setupWorldTest(t, nil, nil)
	ctx := context.Background()
	owner := makeUser(t, s, "user-1", "a@example.com")
	other := makeUser(t, s, "user-2", "b@example.com")

	created, err := svc.CreateWorld(ctx, owner.ID, WorldRequest{
		Name: "W",
		URL:  "https://example.com/w",
	})
	require.NoError(t, err)

	// Non-owner delete looks like absence
	err = svc.DeleteWorld(ctx, other.ID, created.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "World not found")

	require.NoError(t, svc.DeleteWorld(ctx, owner.ID, created.ID))

	err = svc.DeleteWorld(ctx, owner.ID, created.ID)
	assert.Error(t, err)
}

func TestWorldService_Listings(t *testing.T) {
	svc, s := setupWorldTest(t, nil, nil)
	ctx := context.Background()
	alice := makeUser(t, s, "user-1", "a@example.com")
	bob := makeUser(t, s, "user-2", "b@example.com")

	_, err := svc.CreateWorld(ctx, alice.ID, WorldRequest{
		Name: "Zebra Crossing", URL: "https://example.com/z", Published: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateWorld(ctx, alice.ID, WorldRequest{
		Name: "apple Orchard", URL: "https://example.com/a",
	})
	require.NoError(t, err)
	_, err = svc.CreateWorld(ctx, bob.ID, WorldRequest{
		Name: "Bob's World", URL: "https://example.com/b", Published: true,
	})
	require.NoError(t, err)

	// Owner listing: only alice's worlds, name ascending, case-insensitive
	mine, err := svc.ListWorlds(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "apple Orchard", mine[0].Name)
	assert.Equal(t, "Zebra Crossing", mine[1].Name)

	// Public listing: published only, across users
	public, err := svc.ListPublicWorlds(ctx)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "Bob's World", public[0].Name)
	assert.Equal(t, "Zebra Crossing", public[1].Name)
}

func TestTagService_ListTags(t *testing.T) {
	worldSvc, s := setupWorldTest(t, nil, nil)
	tagSvc := NewTagService(s, nil)
	ctx := context.Background()
	user := makeUser(t, s, "user-1", "a@example.com")

	_, err := worldSvc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "W1", URL: "https://example.com/1", Tags: []string{"zen", "beach"},
	})
	require.NoError(t, err)
	_, err = worldSvc.CreateWorld(ctx, user.ID, WorldRequest{
		Name: "W2", URL: "https://example.com/2", Tags: []string{"beach"},
	})
	require.NoError(t, err)

	tags, err := tagSvc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "beach", tags[0].Name)
	assert.Equal(t, 2, tags[0].WorldCount)
	assert.Equal(t, "zen", tags[1].Name)
	assert.Equal(t, 1, tags[1].WorldCount)
}
