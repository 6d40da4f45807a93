package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"clipcap/internal/objectstore"
	"clipcap/internal/pkg/logger"
	"clipcap/internal/queue"
	"clipcap/internal/statusstore"
	"clipcap/internal/worker"
	"clipcap/internal/worker/processor"
	"clipcap/internal/worker/renderer"
	"clipcap/internal/worker/util"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:       util.Env("LOG_LEVEL", "info"),
		Format:      util.Env("LOG_FORMAT", "json"),
		ServiceName: "clipcap-worker",
		AddSource:   util.BoolEnv("LOG_SOURCE", false),
	})

	rendererBaseURL := util.MustEnv("RENDERER_HTTP_BASEURL")
	rendererAPIKey := util.MustEnv("RENDERER_API_KEY")
	concurrency, _ := strconv.Atoi(util.Env("WORKER_CONCURRENCY", "1"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := statusstore.NewStore(ctx)
	if err != nil {
		log.LogFatal("failed to initialize status store", err)
	}
	defer store.Close()

	objects, err := objectstore.NewProvider(ctx)
	if err != nil {
		log.LogFatal("failed to initialize object store", err)
	}
	log.Info("object store initialized", "provider", objects.Provider())

	q, err := queue.New(ctx)
	if err != nil {
		log.LogFatal("failed to initialize queue", err)
	}
	defer q.Close()

	p := processor.New(processor.Deps{
		Store:    store,
		Objects:  objects,
		Renderer: renderer.NewHTTPClient(rendererBaseURL, rendererAPIKey),
		Log:      log,
	})

	log.Info("clipcap worker started", "concurrency", concurrency)
	if err := worker.Run(ctx, worker.Deps{
		Source:      q,
		Processor:   p,
		Concurrency: concurrency,
		Log:         log,
	}); err != nil && err != context.Canceled {
		log.LogFatal("worker stopped", err)
	}
	log.Info("clipcap worker stopped")
}
