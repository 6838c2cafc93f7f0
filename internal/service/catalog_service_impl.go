package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/importer"
	"github.com/studyloop/studyloop/internal/repository"
)

type catalogService struct {
	catalog  repository.CatalogRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCatalogService(catalog repository.CatalogRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CatalogService {
	return &catalogService{
		catalog:  catalog,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *catalogService) Import(ctx context.Context, path string) (*CatalogImportResult, error) {
	started := time.Now()
	result, err := s.doImport(ctx, path)
	observe(ctx, s.observer, "catalog.import", started, err, map[string]any{"path": path})
	return result, err
}

func (s *catalogService) doImport(ctx context.Context, path string) (*CatalogImportResult, error) {
	schema, err := importer.LoadCatalogSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}

	catalog := importer.Convert(schema)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteCatalogRepo(tx).ReplaceAll(ctx, catalog)
	})
	if err != nil {
		return nil, err
	}

	return &CatalogImportResult{
		CategoryCount:  len(catalog.Categories),
		ModuleCount:    len(catalog.Modules),
		MilestoneCount: len(catalog.Milestones),
	}, nil
}

func (s *catalogService) Load(ctx context.Context) (*repository.Catalog, error) {
	started := time.Now()
	catalog, err := s.catalog.Load(ctx)
	observe(ctx, s.observer, "catalog.load", started, err, nil)
	return catalog, err
}
