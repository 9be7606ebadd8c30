package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver/mw"
)

func init() { Register(registerPrompts) }

func registerPrompts(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(rateLimitConfig(d))

	r.Route("/api/prompts", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.ListPrompts(d))
		r.With(limit).Post("/", handlers.CreatePrompt(d))
		r.Get("/{id}", handlers.GetPrompt(d))
		r.With(limit).Put("/{id}", handlers.UpdatePrompt(d))
		r.With(limit).Delete("/{id}", handlers.DeletePrompt(d))
		r.With(limit).Post("/{id}/favorite", handlers.ToggleFavorite(d))
	})
}

func rateLimitConfig(d deps.Deps) mw.RateLimitConfig {
	return mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	}
}
