package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/promptoid/promptoid-api/internal/api"
	apiMiddleware "github.com/promptoid/promptoid-api/internal/api/middleware"
	"github.com/promptoid/promptoid-api/internal/api/shared"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	rateLimiter := apiMiddleware.NewRateLimiter(app.config.RateLimit)
	refineHandler := api.NewRefineHandler(app.refiner, app.logger)
	promptHandler := api.NewPromptHandler(app.promptService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Group(func(r chi.Router) {
				r.Use(rateLimiter.Limit)
				r.Post("/prompt/refine", refineHandler.Refine)
				r.Post("/prompt/questions", refineHandler.Questions)
				r.Post("/prompt/suggestions", refineHandler.Suggestions)
				r.Post("/refine", refineHandler.LegacyRefine)
			})

			r.Get("/prompts", promptHandler.List)
			r.Post("/prompts", promptHandler.Create)
			r.Get("/prompts/count", promptHandler.Count)
			r.Get("/prompts/{id}", promptHandler.Get)
			r.Patch("/prompts/{id}", promptHandler.Update)
			r.Delete("/prompts/{id}", promptHandler.Delete)
		})
	})

	r.Get("/health", app.health)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	LLM      string `json:"llm"`
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok", LLM: "local"}
	if app.refiner != nil && app.refiner.Live() {
		resp.LLM = "live"
	}

	status := http.StatusOK
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	shared.RespondWithJSON(w, r, status, resp)
}
