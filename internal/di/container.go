// Package di provides dependency injection configuration for the Worldmark server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/worldmarkapp/worldmark-server/internal/auth"
	"github.com/worldmarkapp/worldmark-server/internal/config"
	"github.com/worldmarkapp/worldmark-server/internal/di/providers"
	"github.com/worldmarkapp/worldmark-server/internal/logger"
	"github.com/worldmarkapp/worldmark-server/internal/media/preview"
	"github.com/worldmarkapp/worldmark-server/internal/metadata/vrchat"
	"github.com/worldmarkapp/worldmark-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideVRChatClient)
	do.Provide(injector, providers.ProvidePreviewGenerator)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideWorldService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideMetadataService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*vrchat.Client](injector)
	_ = do.MustInvoke[*preview.Generator](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.WorldService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
