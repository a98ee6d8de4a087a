package services

import (
	"context"

	"github.com/vytor/repeetcode/internal/catalog"
	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/importer"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
)

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// CatalogService handles problem catalog business logic
type CatalogService interface {
	ProblemBank(ctx context.Context, filter catalog.Filter) []models.Problem
	Lookup(slug string) (models.Problem, bool)
	Reload(ctx context.Context) error
	Import(ctx context.Context, path string, opts importer.Options) (*ImportReport, error)
}

type catalogService struct {
	problems repository.ProblemRepository
	catalog  *catalog.Catalog
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(problems repository.ProblemRepository, cat *catalog.Catalog) CatalogService {
	return &catalogService{problems: problems, catalog: cat}
}

func (s *catalogService) ProblemBank(ctx context.Context, filter catalog.Filter) []models.Problem {
	problems := s.catalog.Search(filter)
	logger.FromContext(ctx).Debug("problem bank search returned %d problems", len(problems))
	return problems
}

func (s *catalogService) Lookup(slug string) (models.Problem, bool) {
	return s.catalog.Lookup(slug)
}

// Reload swaps the in-memory catalog for the contents of the problems table.
func (s *catalogService) Reload(ctx context.Context) error {
	if err := s.catalog.Reload(ctx, s.problems); err != nil {
		return errors.NewStorageError("load catalog", err)
	}
	return nil
}

func (s *catalogService) Import(ctx context.Context, path string, opts importer.Options) (*ImportReport, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_import").WithField("path", path)
	log.Info("importing catalog")

	res, err := importer.ImportFile(path, opts)
	if err != nil {
		log.Error("failed to parse catalog: %v", err)
		return nil, errors.NewBadRequestError(err.Error())
	}
	for _, skipped := range res.Skipped {
		log.Warn("skipped %s", skipped)
	}

	n, err := s.problems.UpsertBatch(ctx, res.Problems)
	if err != nil {
		return nil, errors.NewStorageError("import catalog", err)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	log.Info("imported %d problems, skipped %d rows", n, len(res.Skipped))
	skipped := res.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	return &ImportReport{Imported: n, Skipped: skipped}, nil
}
