// Command reconcile-quota recounts every organization's boards and
// overwrites the quota ledger where it drifted, for example after a board
// was removed without releasing its quota. It is intended to be invoked by
// an external cron job.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/taskboard-backend/internal/adapter/postgres"
	boardrepo "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/board"
	"github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/orglimit"
	"github.com/heartmarshall/taskboard-backend/internal/app"
	"github.com/heartmarshall/taskboard-backend/internal/config"
	"github.com/heartmarshall/taskboard-backend/internal/service/quota"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	limits := orglimit.New(pool)

	counts, err := boardrepo.New(pool).CountBoardsByOrg(ctx)
	if err != nil {
		logger.Error("count boards", slog.String("error", err.Error()))
		os.Exit(1)
	}

	known, err := limits.ListOrgIDs(ctx)
	if err != nil {
		logger.Error("list org limits", slog.String("error", err.Error()))
		os.Exit(1)
	}

	done, err := quota.NewService(logger, limits, cfg.Quota.MaxFreeBoards).ReconcileAll(ctx, counts, known)
	if err != nil {
		logger.Error("reconcile failed",
			slog.Int("reconciled", done),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("reconcile completed", slog.Int("organizations", done))
}
