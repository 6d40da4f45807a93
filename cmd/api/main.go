package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"clipcap/internal/httpapi"
	"clipcap/internal/objectstore"
	"clipcap/internal/pkg/logger"
	"clipcap/internal/pkg/shutdown"
	"clipcap/internal/queue"
	"clipcap/internal/statusstore"
	"clipcap/internal/worker/renderer"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "json"),
		ServiceName: "clipcap-api",
		AddSource:   getEnv("LOG_SOURCE", "false") == "true",
	})

	log.Info("starting clipcap API")

	httpPort := getEnv("HTTP_PORT", "8080")
	rendererBaseURL := mustEnv(log, "RENDERER_HTTP_BASEURL")
	rendererAPIKey := mustEnv(log, "RENDERER_API_KEY")

	ctx := context.Background()

	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	log.Info("initializing status store")
	store, err := statusstore.NewStore(ctx)
	if err != nil {
		log.LogFatal("failed to initialize status store", err)
	}
	shutdownMgr.Register("status-store", func(ctx context.Context) error {
		return store.Close()
	})

	log.Info("initializing object store")
	objects, err := objectstore.NewProvider(ctx)
	if err != nil {
		log.LogFatal("failed to initialize object store", err)
	}
	log.Info("object store initialized", "provider", objects.Provider())

	log.Info("initializing queue")
	q, err := queue.New(ctx)
	if err != nil {
		log.LogFatal("failed to initialize queue", err)
	}
	shutdownMgr.Register("queue", func(ctx context.Context) error {
		return q.Close()
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Store:     store,
		Objects:   objects,
		Publisher: q,
		Renderer:  renderer.NewHTTPClient(rendererBaseURL, rendererAPIKey),
		Log:       log,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + httpPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", httpPort,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	return v
}

// mustEnv gets a required environment variable or exits.
func mustEnv(log *logger.Logger, key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Error("missing required environment variable", "key", key)
		os.Exit(1)
	}
	return v
}
