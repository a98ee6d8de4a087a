package services_test

import (
	"testing"
	"time"

	"github.com/vytor/repeetcode/internal/catalog"
	"github.com/vytor/repeetcode/internal/repository"
	"github.com/vytor/repeetcode/internal/repository/sqlstore"
	"github.com/vytor/repeetcode/internal/reviewstate"
	"github.com/vytor/repeetcode/internal/scheduler"
	"github.com/vytor/repeetcode/internal/services"
	"github.com/vytor/repeetcode/internal/testutil"
)

type fixture struct {
	catalog  *catalog.Catalog
	problems repository.ProblemRepository
	attempts repository.AttemptRepository
	store    *reviewstate.Store
	engine   *scheduler.Engine
	log      services.AttemptService
	query    services.QueryService
	catalogs services.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &fixture{
		catalog:  catalog.New(testutil.Problems()),
		problems: sqlstore.NewProblemRepository(database),
		attempts: sqlstore.NewAttemptRepository(database),
	}
	f.store = reviewstate.NewStore(sqlstore.NewReviewStateRepository(database), nil, reviewstate.Options{
		LockTimeout:        5 * time.Second,
		MaxConflictRetries: 3,
	})
	f.engine = scheduler.NewEngine(scheduler.DefaultParams(), f.catalog)
	f.log = services.NewAttemptService(f.attempts, f.store, f.engine, f.catalog)
	f.query = services.NewQueryService(f.store, f.attempts, f.catalog, scheduler.DefaultParams())
	f.catalogs = services.NewCatalogService(f.problems, f.catalog)
	return f
}

func day(d int) time.Time {
	return testutil.Date(2024, 3, d, 9)
}
