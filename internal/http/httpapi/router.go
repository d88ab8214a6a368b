package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/http/handlers"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/middleware"
)

type Options struct {
	App            *handlers.App
	Logger         zerolog.Logger
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	RateLimitPerIP int
}

func NewRouter(opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.RateLimitPerIP > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerIP, time.Minute))
	}

	app := opts.App

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/users/{id}", func(r chi.Router) {
		r.Get("/profile", app.ProfileGet)
		r.Put("/profile", app.ProfileUpsert)

		r.Route("/plans/{type}", func(r chi.Router) {
			r.Post("/request", app.PlanRequest)
			r.Post("/confirm", app.PlanConfirm)
			r.Post("/cancel", app.PlanCancel)
			r.Post("/regenerate", app.PlanRegenerate)
			r.Get("/", app.PlanView)
			r.Delete("/", app.PlanDelete)
			r.Post("/page", app.PlanPage)
			r.Post("/complete", app.WorkoutComplete)
		})

		r.Post("/chat", app.Chat)
	})

	return r
}
