package providers

import (
	"github.com/samber/do/v2"

	"github.com/worldmarkapp/worldmark-server/internal/auth"
	"github.com/worldmarkapp/worldmark-server/internal/logger"
	"github.com/worldmarkapp/worldmark-server/internal/media/preview"
	"github.com/worldmarkapp/worldmark-server/internal/metadata/vrchat"
	"github.com/worldmarkapp/worldmark-server/internal/service"
)

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideWorldService provides the world bookmark service.
func ProvideWorldService(i do.Injector) (*service.WorldService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	vrchatClient := do.MustInvoke[*vrchat.Client](i)
	previewGenerator := do.MustInvoke[*preview.Generator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWorldService(storeHandle.Store, vrchatClient, previewGenerator, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideMetadataService provides the explicit metadata fetch service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	vrchatClient := do.MustInvoke[*vrchat.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetadataService(vrchatClient, log.Logger), nil
}
