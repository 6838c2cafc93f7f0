package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/studyloop/studyloop/internal/cli"
	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/repository"
	"github.com/studyloop/studyloop/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.studyloop/studyloop.db
	dbPath := os.Getenv("STUDYLOOP_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".studyloop", "studyloop.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	catalogRepo := repository.NewSQLiteCatalogRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case logging goes to stderr when requested, so it never
	// interleaves with rendered output.
	var observers []service.UseCaseObserver
	if os.Getenv("STUDYLOOP_DEBUG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Planner:  service.NewPlannerService(scheduleRepo, uow, observers...),
		Progress: service.NewProgressService(uow, observers...),
		Ratings:  service.NewRatingService(uow, observers...),
		Catalog:  service.NewCatalogService(catalogRepo, uow, observers...),
	}

	// Detect interactive terminal for wizard and browse entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
