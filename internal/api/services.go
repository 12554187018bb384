package api

import (
	"github.com/worldmarkapp/worldmark-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	World    *service.WorldService
	Tag      *service.TagService
	Metadata *service.MetadataService
}
