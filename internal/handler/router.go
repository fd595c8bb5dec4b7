package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const requestTimeout = 30 * time.Second

// RouterConfig параметры HTTP-роутера
type RouterConfig struct {
	AllowedOrigins []string
	// AccessLog журнал запросов; nil отключает журналирование
	AccessLog *log.Logger
}

// NewRouter собирает HTTP-маршруты сервиса
func NewRouter(
	cfg RouterConfig,
	counterHandler *CounterHandler,
	historyHandler *HistoryHandler,
	resetHandler *ResetHandler,
	healthHandler *HealthHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.AccessLog != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  cfg.AccessLog,
			NoColor: true,
		}))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthHandler.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/counter", func(r chi.Router) {
			r.Get("/", counterHandler.GetCounter)
			r.Post("/increment", counterHandler.Increment)
			r.Post("/decrement", counterHandler.Decrement)
			r.Post("/reset", counterHandler.ResetCounter)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.ListHistory)
			r.Post("/", historyHandler.SaveSnapshot)
			r.Delete("/", historyHandler.ClearHistory)
			r.Get("/deleted", historyHandler.ListDeleted)
			r.Post("/restore", historyHandler.RestoreLast)
			r.Delete("/{id}", historyHandler.DeleteOne)
		})

		r.Post("/reset-all", resetHandler.ResetAll)
	})

	return r
}
