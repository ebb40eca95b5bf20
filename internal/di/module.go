package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/giftpromo/internal/adapter/notifier"
	"github.com/polkiloo/giftpromo/internal/app"
	"github.com/polkiloo/giftpromo/internal/config"
	"github.com/polkiloo/giftpromo/internal/logger"
	"github.com/polkiloo/giftpromo/internal/pkg/auth"
	"github.com/polkiloo/giftpromo/internal/pkg/qr"
	"github.com/polkiloo/giftpromo/internal/server/http/handlers"
	"github.com/polkiloo/giftpromo/internal/server/http/router"
	"github.com/polkiloo/giftpromo/internal/storage"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

// Module assembles the application graph; opts are appended for overrides.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		qr.Module,
		storage.Module,
		notifier.Module,
		usecase.Module,
		fx.Provide(func(f *app.PromotionFacade) handlers.PromotionFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
