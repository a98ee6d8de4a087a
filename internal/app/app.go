package app

import (
	"context"
	"time"

	"github.com/vytor/repeetcode/internal/api"
	"github.com/vytor/repeetcode/internal/catalog"
	"github.com/vytor/repeetcode/internal/config"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/jobs"
	"github.com/vytor/repeetcode/internal/keylock"
	"github.com/vytor/repeetcode/internal/repository"
	"github.com/vytor/repeetcode/internal/repository/sqlstore"
	"github.com/vytor/repeetcode/internal/reviewstate"
	"github.com/vytor/repeetcode/internal/scheduler"
	"github.com/vytor/repeetcode/internal/services"
)

// App holds the wired components shared by the server and repeetctl.
type App struct {
	Config   config.Config
	DB       *db.DB
	Catalog  *catalog.Catalog
	Attempts repository.AttemptRepository

	AttemptService services.AttemptService
	QueryService   services.QueryService
	CatalogService services.CatalogService
}

// New opens the database, loads the catalog and builds the services.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	database, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DBPath})
	if err != nil {
		return nil, err
	}

	problems := sqlstore.NewProblemRepository(database)
	attempts := sqlstore.NewAttemptRepository(database)
	states := sqlstore.NewReviewStateRepository(database)

	cat := catalog.New(nil)
	catalogService := services.NewCatalogService(problems, cat)
	if err := catalogService.Reload(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}

	store := reviewstate.NewStore(states, keylock.New(), reviewstate.Options{
		LockTimeout:        cfg.LockTimeout,
		MaxConflictRetries: cfg.MaxConflictRetries,
	})
	params := cfg.SchedulerParams()
	engine := scheduler.NewEngine(params, cat)

	return &App{
		Config:         cfg,
		DB:             database,
		Catalog:        cat,
		Attempts:       attempts,
		AttemptService: services.NewAttemptService(attempts, store, engine, cat),
		QueryService:   services.NewQueryService(store, attempts, cat, params),
		CatalogService: catalogService,
	}, nil
}

// Server returns the HTTP API bound to the app's services.
func (a *App) Server() *api.Server {
	return &api.Server{
		Attempts:       a.AttemptService,
		Queries:        a.QueryService,
		Catalogs:       a.CatalogService,
		DB:             a.DB,
		UserIDHeader:   a.Config.UserIDHeader,
		Location:       a.Config.Location(),
		RequestTimeout: a.Config.RequestTimeout,
	}
}

// ReconcileJob returns the job that applies stranded attempts.
func (a *App) ReconcileJob() *jobs.ReconcileJob {
	return &jobs.ReconcileJob{
		Attempts: a.Attempts,
		Applier:  a.AttemptService,
		Grace:    a.Config.ReconcileGrace,
		Now:      time.Now,
	}
}

// CatalogReloadJob returns the job that refreshes the in-memory catalog.
func (a *App) CatalogReloadJob() *jobs.CatalogReloadJob {
	return &jobs.CatalogReloadJob{Catalog: a.CatalogService}
}

func (a *App) Close() error {
	return a.DB.Close()
}
