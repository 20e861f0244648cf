package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register("books", registerBooks) }

func registerBooks(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(
			mw.RestrictClients(d.AllowedCIDRS, d.TrustProxy, d.Logger),
			mw.RestrictHosts(d.AllowedHosts, d.Logger),
			mw.RateLimit(mw.RateLimitConfig{
				PerSecond:  d.RateLimit,
				Burst:      d.RateBurst,
				MaxEntries: 10_000,
				TrustProxy: d.TrustProxy,
			}),
		)

		api.Route("/books", func(b chi.Router) {
			b.Get("/", handlers.ListBooks(d))
			b.Post("/", handlers.CreateBook(d))
			b.Route("/{id}", func(one chi.Router) {
				one.Get("/", handlers.GetBook(d))
				one.Patch("/", handlers.UpdateBook(d))
				one.Delete("/", handlers.DeleteBook(d))
				one.Post("/reflections", handlers.AddReflection(d))
				one.Delete("/reflections/{rid}", handlers.DeleteReflection(d))
			})
		})

		api.Get("/stats", handlers.Stats(d))
		api.Get("/activity", handlers.Activity(d))
		api.Post("/activity/read", handlers.MarkRead(d))
	})
}
