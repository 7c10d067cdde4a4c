package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"munifund/internal/cache"
	"munifund/internal/client"
	"munifund/internal/config"
	"munifund/internal/db"
	"munifund/internal/httpapi"
	"munifund/internal/portfolio"
	"munifund/internal/repositories"
	pgrepo "munifund/internal/repositories/pg"
	"munifund/internal/scheduler"
	"munifund/internal/telegram"
)

type Builder struct {
	cfg          *config.Config
	log          *zap.Logger
	basePath     string
	ensureSchema bool

	pool     *pgxpool.Pool
	repo     repositories.SnapshotRepository
	notifier portfolio.Notifier
	api      *client.Client
	store    *cache.Store

	scheduler *scheduler.Scheduler
	server    *http.Server
}

type BuilderOption func(*Builder)

func NewBuilder(cfg *config.Config, options ...BuilderOption) *Builder {
	builder := &Builder{
		cfg:          cfg,
		ensureSchema: true,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithLogger(log *zap.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = log
	}
}

func WithBasePath(basePath string) BuilderOption {
	return func(b *Builder) {
		b.basePath = basePath
	}
}

func WithEnsureSchema(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.ensureSchema = enabled
	}
}

func WithDBPool(pool *pgxpool.Pool) BuilderOption {
	return func(b *Builder) {
		b.pool = pool
	}
}

func WithRepository(repo repositories.SnapshotRepository) BuilderOption {
	return func(b *Builder) {
		b.repo = repo
	}
}

func WithNotifier(notifier portfolio.Notifier) BuilderOption {
	return func(b *Builder) {
		b.notifier = notifier
	}
}

func WithAPIClient(api *client.Client) BuilderOption {
	return func(b *Builder) {
		b.api = api
	}
}

func WithCache(store *cache.Store) BuilderOption {
	return func(b *Builder) {
		b.store = store
	}
}

func WithScheduler(sched *scheduler.Scheduler) BuilderOption {
	return func(b *Builder) {
		b.scheduler = sched
	}
}

func WithHTTPServer(server *http.Server) BuilderOption {
	return func(b *Builder) {
		b.server = server
	}
}

func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, errors.New("config is required")
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}

	basePath := b.basePath
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		basePath = wd
	}

	application := &App{Config: b.cfg, Log: b.log}
	if b.pool == nil {
		pool, err := db.NewPool(ctx, b.cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		b.pool = pool
		application.ownsPool = true
	}
	application.Pool = b.pool

	if b.ensureSchema {
		path, err := filepath.Abs(basePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, b.pool, path); err != nil {
			return nil, err
		}
	}

	if b.repo == nil {
		b.repo = pgrepo.NewSnapshotRepository(b.pool)
	}
	application.Repo = b.repo

	if b.notifier == nil {
		b.notifier = telegram.NewSender(b.cfg.TelegramToken, b.cfg.TelegramChat, b.cfg.TelegramThreadID, b.log)
	}
	application.Notifier = b.notifier

	if b.api == nil {
		b.api = client.New(b.cfg.APIBaseURL, b.cfg.APIToken, client.WithLogger(b.log))
	}
	application.API = b.api

	if b.store == nil {
		b.store = cache.New(b.cfg.CacheTTL)
	}
	application.Cache = b.store

	application.Watch = portfolio.NewService(application.API, application.Repo, application.Notifier, b.cfg.UserID, b.log)

	if b.scheduler == nil {
		b.scheduler = scheduler.New(b.cfg.WatchCron, application.Watch, b.log)
	}
	application.Scheduler = b.scheduler

	if b.server == nil {
		handler := httpapi.NewHandler(application.API, application.Cache, application.Watch, b.cfg.UserID, b.log)
		b.server = &http.Server{
			Addr:              ":" + b.cfg.HTTPPort,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	application.Server = b.server

	return application, nil
}
