package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/taskboard-backend/internal/adapter/memory"
	"github.com/heartmarshall/taskboard-backend/internal/adapter/postgres"
	auditlogrepo "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/auditlog"
	boardrepo "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/board"
	"github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/orglimit"
	"github.com/heartmarshall/taskboard-backend/internal/auth"
	"github.com/heartmarshall/taskboard-backend/internal/config"
	"github.com/heartmarshall/taskboard-backend/internal/service/auditlog"
	"github.com/heartmarshall/taskboard-backend/internal/service/board"
	"github.com/heartmarshall/taskboard-backend/internal/service/quota"
	"github.com/heartmarshall/taskboard-backend/internal/transport/dataloader"
	"github.com/heartmarshall/taskboard-backend/migrations"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// backend is the storage-dependent part of the application: services and
// the stores the request loaders read from.
type backend struct {
	boards   *board.Service
	quota    *quota.Service
	audit    *auditlog.Service
	identity auth.Resolver
	loaders  *dataloader.Repos
	pinger   pinger
	close    func()
}

func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return newMemoryBackend(cfg, logger), nil
	}
	return newPostgresBackend(ctx, cfg, logger)
}

func newMemoryBackend(cfg *config.Config, logger *slog.Logger) *backend {
	boards := memory.NewBoardStore()
	resolver := auth.NewResolver()
	quotaSvc := quota.NewService(logger, memory.NewOrgLimitStore(), cfg.Quota.MaxFreeBoards)
	auditSvc := auditlog.NewService(logger, memory.NewAuditLogStore())

	return &backend{
		boards:   board.NewService(logger, boards, quotaSvc, auditSvc, resolver, memory.NewTxManager()),
		quota:    quotaSvc,
		audit:    auditSvc,
		identity: resolver,
		loaders:  &dataloader.Repos{Lists: boards, Cards: boards},
		close:    func() {},
	}
}

func newPostgresBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if cfg.Database.MigrateOnStart {
		results, err := migrations.Up(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", slog.Int("count", len(results)))
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	be := newPoolBackend(cfg, logger, pool)
	be.close = pool.Close
	return be, nil
}

// newPoolBackend wires the Postgres repositories over an open pool. The
// caller owns the pool.
func newPoolBackend(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) *backend {
	boards := boardrepo.New(pool)
	resolver := auth.NewResolver()
	quotaSvc := quota.NewService(logger, orglimit.New(pool), cfg.Quota.MaxFreeBoards)
	auditSvc := auditlog.NewService(logger, auditlogrepo.New(pool))

	return &backend{
		boards:   board.NewService(logger, boards, quotaSvc, auditSvc, resolver, postgres.NewTxManager(pool)),
		quota:    quotaSvc,
		audit:    auditSvc,
		identity: resolver,
		loaders:  &dataloader.Repos{Lists: boards, Cards: boards},
		pinger:   pool,
		close:    func() {},
	}
}
