package jobs

import "context"

// Reloader refreshes the in-memory catalog.
type Reloader interface {
	Reload(ctx context.Context) error
}

// CatalogReloadJob swaps in the latest catalog snapshot.
type CatalogReloadJob struct {
	Catalog Reloader
}

func (j *CatalogReloadJob) Name() string { return "reload_catalog" }

func (j *CatalogReloadJob) Run(ctx context.Context) error {
	return j.Catalog.Reload(ctx)
}
