// Package store defines the persistence interface for the Worldmark server.
package store

import (
	"context"
	"time"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	TouchUserLogin(ctx context.Context, id string, at time.Time) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Worlds
	CreateWorld(ctx context.Context, world *domain.World) error
	GetWorld(ctx context.Context, id string) (*domain.World, error)
	ListWorldsByUser(ctx context.Context, userID string) ([]*domain.World, error)
	ListPublishedWorlds(ctx context.Context) ([]*domain.World, error)
	UpdateWorld(ctx context.Context, world *domain.World) error
	DeleteWorld(ctx context.Context, id string) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	FindOrCreateTagByName(ctx context.Context, name string) (*domain.Tag, bool, error)
	SetWorldTags(ctx context.Context, worldID string, tagIDs []string) error
	GetWorldTags(ctx context.Context, worldID string) ([]*domain.Tag, error)
}
