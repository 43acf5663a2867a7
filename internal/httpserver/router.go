package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/midunthangavel/fixmyevent-sub001/internal/handlers"
	"github.com/midunthangavel/fixmyevent-sub001/internal/metrics"
	"github.com/midunthangavel/fixmyevent-sub001/internal/middleware"
)

type Options struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, suggest *handlers.SuggestHandler, opts Options) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 90 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 * 1024
	}

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())
	r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Post("/ideas", suggest.EventIdeas)
		r.Post("/venues", suggest.Venues)
		r.Post("/query", suggest.Query)
		r.Post("/moodboard", suggest.MoodBoard)
		r.Post("/budget", suggest.Budget)
		r.Delete("/cache", suggest.ClearCache)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
