package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/giftpromo/internal/adapter/notifier"
	"github.com/polkiloo/giftpromo/internal/config"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
	"github.com/polkiloo/giftpromo/internal/pkg/qr"
	"github.com/polkiloo/giftpromo/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		func(n notifier.Notifier) Notifier { return n },
		func(r *qr.Renderer) QRRenderer { return r },
		func(f repository.Factory) HealthChecker { return f },
		NewPromotionFacade,
		newHTTPServer,
		newNotificationDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *PromotionFacade
	Config *config.Config
	Logger *slog.Logger
}

func newNotificationDispatcher(p workerParams) *worker.NotificationDispatcher {
	return worker.NewNotificationDispatcher(
		p.Facade,
		p.Config.Notify.PollInterval,
		p.Config.Notify.BatchSize,
		p.Config.Notify.Workers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.NotificationDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting giftpromo",
				slog.String("addr", p.Server.Addr),
				slog.Bool("notifications", p.Config.NotificationsEnabled()),
				slog.Bool("clerk_auth", p.Config.ClerkAuthEnabled()),
			)
			if p.Config.NotificationsEnabled() {
				// the start context ends with OnStart, the dispatcher lives until OnStop
				p.Worker.Start(context.WithoutCancel(ctx))
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("giftpromo stopped")
			return nil
		},
	})
}
