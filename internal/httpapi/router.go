package httpapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"clipcap/internal/httpapi/handlers"
	"clipcap/internal/httpkit"
	"clipcap/internal/pkg/logger"
	"clipcap/internal/pkg/middleware"
	"clipcap/internal/ports"
	"clipcap/internal/queue"
	"clipcap/internal/worker/renderer"
)

type Deps struct {
	Store     ports.JobStore
	Objects   ports.ObjectStore
	Publisher queue.Publisher
	Renderer  renderer.Client
	Log       *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))

	allowedOrigins := envCSV("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:5173",
		"http://localhost:8081",
	})
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(handlers.Deps{
		Store:     d.Store,
		Objects:   d.Objects,
		Publisher: d.Publisher,
		Renderer:  d.Renderer,
		Log:       log,
	})

	r.Get("/health", h.Health)

	// The localfs provider hands out URLs under STORAGE_PUBLIC_BASEURL;
	// serve the storage root there so presigned links resolve.
	if os.Getenv("OBJECT_STORE_PROVIDER") == "localfs" {
		if root := os.Getenv("STORAGE_LOCAL_ROOT"); root != "" {
			fs := http.StripPrefix("/files/", http.FileServer(http.Dir(root)))
			r.Get("/files/*", fs.ServeHTTP)
		}
	}

	r.Post("/videos", h.PostVideo)

	r.Post("/jobs", h.PostJob)
	r.Get("/jobs/{jobId}", h.GetJob)

	return r
}

func envCSV(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
