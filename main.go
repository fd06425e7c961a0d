package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/TWRT/taskboard/internal/api"
	"github.com/TWRT/taskboard/internal/api/handlers"
	"github.com/TWRT/taskboard/internal/client/taskapi"
	"github.com/TWRT/taskboard/internal/config"
	"github.com/TWRT/taskboard/internal/models"
	"github.com/TWRT/taskboard/internal/repository"
	"github.com/TWRT/taskboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	gateway := taskapi.NewClient(cfg.APIURL, cfg.RequestTimeout)
	opts := []service.Option{service.WithLogger(logger)}

	shutdownOps := map[string]gfshutdown.Operation{}

	var journal handlers.OperationLister
	if cfg.JournalEnabled {
		db, err := repository.InitDB(cfg.JournalPath)
		if err != nil {
			log.Fatalf("journal: %v", err)
		}
		shutdownOps["journal"] = func(context.Context) error { return db.Close() }

		repo := repository.NewOperationRepository(db)
		opts = append(opts, service.WithJournal(repo))
		journal = repo
		logger.Info("operation journal enabled", "path", cfg.JournalPath)
	}

	store, err := service.NewTaskStore(gateway, opts...)
	if err != nil {
		log.Fatalf("task store: %v", err)
	}

	ctx := context.Background()
	if !gateway.HealthCheck(ctx) {
		logger.Warn("task api not reachable, starting with local data", "url", cfg.APIURL)
	}
	store.FetchTasks(ctx, models.TaskFilters{})
	store.FetchStats(ctx)

	router := api.SetupRouter(
		handlers.NewTaskHandler(store, logger),
		handlers.NewSystemHandler(gateway, journal),
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "api_url", cfg.APIURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	shutdownOps["http-server"] = func(ctx context.Context) error {
		logger.Info("shutting down http server")
		return server.Shutdown(ctx)
	}

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, shutdownOps)

	exitCode := <-wait
	logger.Info("exited", "code", exitCode)
	os.Exit(exitCode)
}
