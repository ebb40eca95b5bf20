// Package storage selects the persistence backend from the configured database URI.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/giftpromo/internal/config"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
	"github.com/polkiloo/giftpromo/internal/storage/postgres"
	"github.com/polkiloo/giftpromo/internal/storage/sqlite"
)

const sqliteScheme = "sqlite://"

// Module wires the configured storage backend and repository adapters.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.ParticipantRepository { return f.Participants() },
		func(f repository.Factory) repository.NotificationRepository { return f.Notifications() },
	),
	fx.Invoke(registerLifecycle),
)

type factoryParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var (
	openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (repository.Factory, error) {
		return postgres.New(ctx, dsn, logger)
	}
	openSQLite = func(ctx context.Context, path string) (repository.Factory, error) {
		return sqlite.Open(ctx, path)
	}
)

func newFactory(p factoryParams) (repository.Factory, error) {
	return Open(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

// Open connects to postgres:// URIs via pgx and sqlite:// paths via SQLite.
func Open(ctx context.Context, uri string, logger *slog.Logger) (repository.Factory, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, fmt.Errorf("database URI is empty")
	case strings.HasPrefix(uri, sqliteScheme):
		path := strings.TrimPrefix(uri, sqliteScheme)
		logger.Info("using sqlite storage", slog.String("path", path))
		return openSQLite(ctx, path)
	default:
		logger.Info("using postgres storage")
		return openPostgres(ctx, uri, logger)
	}
}

func registerLifecycle(lc fx.Lifecycle, factory repository.Factory) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return factory.Close()
		},
	})
}
