package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/giftpromo/internal/config"
)

// Module exposes the webhook notifier to the fx graph.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	if !p.Config.NotificationsEnabled() {
		return disabled{}, nil
	}
	return NewHTTPClient(p.Config.Notify.WebhookURL, p.Logger)
}
