package providers

import (
	"github.com/samber/do/v2"

	"github.com/worldmarkapp/worldmark-server/internal/config"
	"github.com/worldmarkapp/worldmark-server/internal/logger"
	"github.com/worldmarkapp/worldmark-server/internal/media/preview"
	"github.com/worldmarkapp/worldmark-server/internal/metadata/vrchat"
)

// ProvideVRChatClient provides the VRChat world API client.
func ProvideVRChatClient(i do.Injector) (*vrchat.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := vrchat.NewClient(cfg.VRChat.BaseURL, cfg.VRChat.FetchTimeout, log.Logger)

	log.Info("VRChat client configured",
		"base_url", cfg.VRChat.BaseURL,
		"fetch_timeout", cfg.VRChat.FetchTimeout,
	)

	return client, nil
}

// ProvidePreviewGenerator provides the image preview generator.
func ProvidePreviewGenerator(i do.Injector) (*preview.Generator, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return preview.NewGenerator(log.Logger), nil
}
