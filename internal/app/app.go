package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"munifund/internal/cache"
	"munifund/internal/client"
	"munifund/internal/config"
	"munifund/internal/portfolio"
	"munifund/internal/repositories"
	"munifund/internal/scheduler"
)

// App is the assembled watch daemon: scheduled portfolio polls plus the
// local dashboard facade.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	API       *client.Client
	Cache     *cache.Store
	Pool      *pgxpool.Pool
	Repo      repositories.SnapshotRepository
	Notifier  portfolio.Notifier
	Watch     *portfolio.Service
	Scheduler *scheduler.Scheduler
	Server    *http.Server

	ownsPool bool
}

func (a *App) Start() error {
	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	go func() {
		a.Log.Info("local facade listening", zap.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Log.Fatal("http server failed", zap.Error(err))
		}
	}()

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	if a.ownsPool {
		a.Pool.Close()
	}
	return nil
}
