// Package router sets up all HTTP routes and middleware chains for the
// OutfitGuru API. Everything under /api except registration and login
// requires a session.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"outfitguru/internal/handlers"
	"outfitguru/internal/middleware"
)

// Deps are the handler groups and middleware state the routes need.
type Deps struct {
	Sessions middleware.SessionLoader
	// AuthLimiter throttles the credential endpoints. Optional.
	AuthLimiter *middleware.RateLimiter

	Auth     *handlers.Auth
	Profile  *handlers.Profile
	Wardrobe *handlers.Wardrobe
	Outfits  *handlers.Outfits
	Calendar *handlers.Calendar
}

// New creates the configured Chi router with all middleware and route
// groups wired up, wrapped in OpenTelemetry HTTP instrumentation.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints, accessible without a session.
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware)
			}
			r.Post("/auth/register", d.Auth.Register)
			r.Post("/auth/login", d.Auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/auth/logout", d.Auth.Logout)

			r.Get("/users/me", d.Profile.Me)
			r.Patch("/users/me/preferences", d.Profile.UpdatePreferences)

			r.Route("/wardrobe", func(r chi.Router) {
				r.Get("/catalog", d.Wardrobe.Catalog)
				r.Get("/", d.Wardrobe.List)
				r.Post("/", d.Wardrobe.Create)
				r.Get("/{id}", d.Wardrobe.Get)
				r.Put("/{id}", d.Wardrobe.Update)
				r.Delete("/{id}", d.Wardrobe.Delete)
			})

			r.Route("/outfits", func(r chi.Router) {
				r.Post("/recommendation", d.Outfits.Recommend)
				r.Get("/history", d.Outfits.History)
				r.Post("/{id}/feedback", d.Outfits.Feedback)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/month", d.Calendar.Month)
				r.Get("/day", d.Calendar.Day)
				r.Post("/plan-tomorrow", d.Calendar.PlanTomorrow)
				r.Post("/confirm-worn", d.Calendar.ConfirmWorn)
			})
		})
	})

	return otelhttp.NewHandler(r, "outfitguru",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/health"
		}),
	)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Route not found."}}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":{"code":"METHOD_NOT_ALLOWED","message":"Method not allowed."}}`))
}
