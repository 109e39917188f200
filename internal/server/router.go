package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/cloo-solutions/vitrine/internal/api/middleware"
	"github.com/cloo-solutions/vitrine/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes int64 = 1 << 20

type RouterConfig struct {
	ChatHandler   *handlers.ChatHandler
	SearchHandler *handlers.SearchHandler
	HealthHandler *handlers.HealthHandler
	Metrics       *metrics.Metrics
	StaticDir     string
	Logger        zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Tracing)
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.LimitJSONBody(maxBodyBytes))

	health := cfg.HealthHandler
	if health == nil {
		health = handlers.NewHealthHandler(nil)
	}
	r.Get("/health", health.Health)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/chat", func(r chi.Router) {
		r.Post("/", cfg.ChatHandler.Chat)
		r.Get("/history", cfg.ChatHandler.History)
		r.Delete("/history", cfg.ChatHandler.ClearHistory)
	})

	r.Post("/search/products", cfg.SearchHandler.SearchProducts)
	r.Post("/query/knowledge", cfg.SearchHandler.QueryKnowledge)

	if cfg.StaticDir != "" {
		mountStatic(r, cfg.StaticDir)
	}

	return r
}

// mountStatic serves index.html at / and the directory under /static/.
func mountStatic(r chi.Router, dir string) {
	index := filepath.Join(dir, "index.html")
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
}
